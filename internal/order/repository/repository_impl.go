package repository

import (
	"context"

	orderdomain "github.com/naxum/tsa-backend/internal/order/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() orderdomain.Repository {
	return &repo{}
}

type itemRow struct {
	SKU         string          `gorm:"column:sku"`
	ProductName string          `gorm:"column:product_name"`
	Price       decimal.Decimal `gorm:"column:price"`
	Quantity    int64           `gorm:"column:quantity"`
}

func (r *repo) ListOrderItems(ctx context.Context, db *gorm.DB, orderID int64) ([]orderdomain.OrderItemLine, error) {
	var rows []itemRow
	err := db.WithContext(ctx).Raw(
		`SELECT pr.sku, pr.name AS product_name, pr.price, oi.quantity
		 FROM order_items oi
		 JOIN products pr ON pr.id = oi.product_id
		 WHERE oi.order_id = ?
		 ORDER BY oi.id ASC`,
		orderID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	lines := make([]orderdomain.OrderItemLine, 0, len(rows))
	for _, row := range rows {
		qty := decimal.NewFromInt(row.Quantity)
		lines = append(lines, orderdomain.OrderItemLine{
			SKU:         row.SKU,
			ProductName: row.ProductName,
			Price:       row.Price,
			Quantity:    row.Quantity,
			Total:       row.Price.Mul(qty).Round(2),
		})
	}
	return lines, nil
}

func (r *repo) SumOrderTotal(ctx context.Context, db *gorm.DB, orderID int64) (decimal.Decimal, error) {
	var row struct {
		Total decimal.NullDecimal `gorm:"column:total"`
	}
	err := db.WithContext(ctx).Raw(
		`SELECT SUM(pr.price * oi.quantity) AS total
		 FROM order_items oi
		 JOIN products pr ON pr.id = oi.product_id
		 WHERE oi.order_id = ?`,
		orderID,
	).Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !row.Total.Valid {
		return decimal.Zero, nil
	}
	return row.Total.Decimal, nil
}
