package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// FindOrders returns the page window of order headers matching the
	// filter, sorted order_date DESC then invoice_number ASC.
	FindOrders(ctx context.Context, db *gorm.DB, filter Filter, categories CategoryIDs, limit, offset int) ([]OrderHeader, error)
	// CountOrders counts all orders matching the filter, ignoring the
	// page window.
	CountOrders(ctx context.Context, db *gorm.DB, filter Filter, categories CategoryIDs) (int64, error)
}
