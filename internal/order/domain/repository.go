package domain

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository interface {
	// ListOrderItems returns the resolved line items of an order. An
	// unknown order yields an empty slice, not an error.
	ListOrderItems(ctx context.Context, db *gorm.DB, orderID int64) ([]OrderItemLine, error)
	// SumOrderTotal returns SUM(price * quantity) over the order's items,
	// zero when the order has none.
	SumOrderTotal(ctx context.Context, db *gorm.DB, orderID int64) (decimal.Decimal, error)
}
