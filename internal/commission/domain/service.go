package domain

import (
	"context"
	"errors"

	orderdomain "github.com/naxum/tsa-backend/internal/order/domain"
	"github.com/naxum/tsa-backend/pkg/db/pagination"
)

type Service interface {
	Report(ctx context.Context, req ReportRequest) (*ReportResponse, error)
	// OrderItems returns the line items of an order. An order with no
	// items is indistinguishable from an unknown order and yields
	// ErrNotFound.
	OrderItems(ctx context.Context, orderID int64) ([]orderdomain.OrderItemLine, error)
}

type ReportRequest struct {
	Filter Filter
	Page   pagination.Pagination
}

type ReportResponse struct {
	Rows []ReportRow
	Page pagination.PageInfo
}

var ErrNotFound = errors.New("not_found")
