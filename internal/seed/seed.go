package seed

import (
	"context"
	"errors"
	"time"

	"github.com/naxum/tsa-backend/internal/config"
	orderdomain "github.com/naxum/tsa-backend/internal/order/domain"
	referraldomain "github.com/naxum/tsa-backend/internal/referral/domain"
	pkgdb "github.com/naxum/tsa-backend/pkg/db"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EnsureCategories upserts the distributor and customer category rows
// under the configured ids so commission joins resolve on a fresh
// database.
func EnsureCategories(db *gorm.DB, cfg config.CommissionConfig) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	categories := []referraldomain.Category{
		{ID: cfg.DistributorCategoryID, Name: "Distributor"},
		{ID: cfg.CustomerCategoryID, Name: "Customer"},
	}

	ctx := context.Background()
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).
		Create(&categories).Error
}

// EnsureDemoData loads a small sample dataset for local development.
// It is idempotent and keyed on usernames, SKUs, and invoice numbers.
func EnsureDemoData(db *gorm.DB, cfg config.CommissionConfig) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users, err := ensureDemoUsers(tx, cfg)
		if err != nil {
			return err
		}
		products, err := ensureDemoProducts(tx)
		if err != nil {
			return err
		}
		return ensureDemoOrders(tx, users, products)
	})
}

func date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func ensureDemoUsers(tx *gorm.DB, cfg config.CommissionConfig) (map[string]referraldomain.User, error) {
	users := []referraldomain.User{
		{FirstName: "Alice", LastName: "Nguyen", Username: "alice.nguyen", EnrolledDate: date(2023, time.January, 10)},
		{FirstName: "Bob", LastName: "Marsh", Username: "bob.marsh", EnrolledDate: date(2023, time.February, 2)},
		{FirstName: "Carol", LastName: "Diaz", Username: "carol.diaz", EnrolledDate: date(2023, time.March, 15)},
		{FirstName: "Dan", LastName: "Okafor", Username: "dan.okafor", EnrolledDate: date(2023, time.April, 1)},
		{FirstName: "Erin", LastName: "Kowalski", Username: "erin.kowalski", EnrolledDate: date(2023, time.May, 20)},
	}

	byUsername := make(map[string]referraldomain.User, len(users))
	for _, u := range users {
		record := u
		if err := tx.Where(referraldomain.User{Username: u.Username}).
			FirstOrCreate(&record).Error; err != nil {
			return nil, err
		}
		byUsername[u.Username] = record
	}

	referrals := map[string]string{
		"bob.marsh":     "alice.nguyen",
		"carol.diaz":    "alice.nguyen",
		"dan.okafor":    "alice.nguyen",
		"erin.kowalski": "bob.marsh",
	}
	for username, referrer := range referrals {
		child := byUsername[username]
		parent := byUsername[referrer]
		if child.ReferredBy == nil {
			if err := tx.Model(&referraldomain.User{}).
				Where("id = ?", child.ID).
				Update("referred_by", parent.ID).Error; err != nil {
				return nil, err
			}
			referredBy := parent.ID
			child.ReferredBy = &referredBy
			byUsername[username] = child
		}
	}

	memberships := []referraldomain.UserCategory{
		{UserID: byUsername["alice.nguyen"].ID, CategoryID: cfg.DistributorCategoryID},
		{UserID: byUsername["bob.marsh"].ID, CategoryID: cfg.DistributorCategoryID},
		{UserID: byUsername["carol.diaz"].ID, CategoryID: cfg.DistributorCategoryID},
		{UserID: byUsername["dan.okafor"].ID, CategoryID: cfg.CustomerCategoryID},
		{UserID: byUsername["erin.kowalski"].ID, CategoryID: cfg.CustomerCategoryID},
	}
	for _, m := range memberships {
		if err := tx.Create(&m).Error; err != nil && !pkgdb.IsDuplicateKeyErr(err) {
			return nil, err
		}
	}

	return byUsername, nil
}

func ensureDemoProducts(tx *gorm.DB) (map[string]orderdomain.Product, error) {
	products := []orderdomain.Product{
		{SKU: "TSA-001", Name: "Starter Kit", Price: decimal.RequireFromString("49.90")},
		{SKU: "TSA-002", Name: "Wellness Bundle", Price: decimal.RequireFromString("120.00")},
		{SKU: "TSA-003", Name: "Travel Pack", Price: decimal.RequireFromString("15.25")},
	}

	bySKU := make(map[string]orderdomain.Product, len(products))
	for _, p := range products {
		record := p
		if err := tx.Where(orderdomain.Product{SKU: p.SKU}).
			FirstOrCreate(&record).Error; err != nil {
			return nil, err
		}
		bySKU[p.SKU] = record
	}
	return bySKU, nil
}

func ensureDemoOrders(tx *gorm.DB, users map[string]referraldomain.User, products map[string]orderdomain.Product) error {
	type demoOrder struct {
		invoice   string
		purchaser string
		orderDate time.Time
		items     map[string]int64
	}

	orders := []demoOrder{
		{
			invoice:   "INV-1001",
			purchaser: "dan.okafor",
			orderDate: time.Date(2024, time.January, 5, 10, 0, 0, 0, time.UTC),
			items:     map[string]int64{"TSA-001": 1, "TSA-003": 2},
		},
		{
			invoice:   "INV-1002",
			purchaser: "erin.kowalski",
			orderDate: time.Date(2024, time.January, 12, 16, 30, 0, 0, time.UTC),
			items:     map[string]int64{"TSA-002": 1},
		},
		{
			invoice:   "INV-1003",
			purchaser: "carol.diaz",
			orderDate: time.Date(2024, time.February, 1, 9, 15, 0, 0, time.UTC),
			items:     map[string]int64{"TSA-001": 2, "TSA-002": 1},
		},
	}

	for _, o := range orders {
		var existing int64
		if err := tx.Model(&orderdomain.Order{}).
			Where("invoice_number = ?", o.invoice).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			continue
		}

		order := orderdomain.Order{
			InvoiceNumber: o.invoice,
			PurchaserID:   users[o.purchaser].ID,
			OrderDate:     o.orderDate,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for sku, qty := range o.items {
			item := orderdomain.OrderItem{
				OrderID:   order.ID,
				ProductID: products[sku].ID,
				Quantity:  qty,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
