package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	InvoiceNumber string    `json:"invoice_number" gorm:"not null;index"`
	PurchaserID   int64     `json:"purchaser_id" gorm:"not null;index"`
	OrderDate     time.Time `json:"order_date" gorm:"not null;index"`
}

func (Order) TableName() string { return "orders" }

type OrderItem struct {
	ID        int64 `json:"id" gorm:"primaryKey"`
	OrderID   int64 `json:"order_id" gorm:"not null;index"`
	ProductID int64 `json:"product_id" gorm:"not null"`
	Quantity  int64 `json:"quantity" gorm:"not null"`
}

func (OrderItem) TableName() string { return "order_items" }

type Product struct {
	ID    int64           `json:"id" gorm:"primaryKey"`
	SKU   string          `json:"sku" gorm:"not null"`
	Name  string          `json:"name" gorm:"not null"`
	Price decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null"`
}

func (Product) TableName() string { return "products" }

// OrderItemLine is one resolved line of an order. Total is unit price
// times quantity, rounded to 2 decimals.
type OrderItemLine struct {
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
}
