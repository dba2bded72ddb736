package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Filter narrows the commission report to a distributor, a date window,
// and an invoice substring. All fields are optional.
type Filter struct {
	// Distributor matches the referrer id exactly (when numeric) or a
	// case-insensitive substring of the referrer's first or last name.
	// Either way the referrer must hold the distributor category.
	Distributor string
	DateFrom    *time.Time
	DateTo      *time.Time
	Invoice     string
}

// CategoryIDs carries the category ids the report joins against.
type CategoryIDs struct {
	Distributor int64
	Customer    int64
}

// OrderHeader is one order joined with purchaser and referrer identity.
// The flag columns are 1/0 so they scan cleanly on every dialect.
type OrderHeader struct {
	OrderID               int64     `gorm:"column:order_id"`
	InvoiceNumber         string    `gorm:"column:invoice_number"`
	OrderDate             time.Time `gorm:"column:order_date"`
	PurchaserID           int64     `gorm:"column:purchaser_id"`
	PurchaserName         string    `gorm:"column:purchaser_name"`
	ReferrerID            *int64    `gorm:"column:referrer_id"`
	ReferrerName          *string   `gorm:"column:referrer_name"`
	ReferrerIsDistributor int       `gorm:"column:referrer_is_distributor"`
	PurchaserIsCustomer   int       `gorm:"column:purchaser_is_customer"`
}

// HasDistributor reports whether the order's purchaser was referred by a
// distributor-categorized user.
func (h OrderHeader) HasDistributor() bool {
	return h.ReferrerID != nil && h.ReferrerIsDistributor == 1
}

// IsCustomerPurchase reports whether the purchaser holds the customer
// category. Commission requires both this and HasDistributor.
func (h OrderHeader) IsCustomerPurchase() bool {
	return h.PurchaserIsCustomer == 1
}

// ReportRow is one computed commission report row. Distributor fields
// are nil when the order has no distributor.
type ReportRow struct {
	OrderID              int64
	Invoice              string
	PurchaserName        string
	PurchaserID          int64
	DistributorName      *string
	DistributorID        *int64
	ReferredDistributors int
	OrderDate            time.Time
	OrderTotal           decimal.Decimal
	Percentage           int
	Commission           decimal.Decimal
}
