package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	commissiondomain "github.com/naxum/tsa-backend/internal/commission/domain"
	commissionrepository "github.com/naxum/tsa-backend/internal/commission/repository"
	"github.com/naxum/tsa-backend/internal/config"
	orderdomain "github.com/naxum/tsa-backend/internal/order/domain"
	orderrepository "github.com/naxum/tsa-backend/internal/order/repository"
	referraldomain "github.com/naxum/tsa-backend/internal/referral/domain"
	referralrepository "github.com/naxum/tsa-backend/internal/referral/repository"
	"github.com/naxum/tsa-backend/pkg/db/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&referraldomain.User{},
		&referraldomain.Category{},
		&referraldomain.UserCategory{},
		&orderdomain.Product{},
		&orderdomain.Order{},
		&orderdomain.OrderItem{},
	))
	return db
}

func newTestService(t *testing.T, db *gorm.DB) commissiondomain.Service {
	t.Helper()

	holder, err := config.NewCommissionHolderFromConfig(config.DefaultCommissionConfig())
	require.NoError(t, err)

	return New(Params{
		DB:           db,
		Log:          zap.NewNop(),
		Repo:         commissionrepository.Provide(),
		OrderRepo:    orderrepository.Provide(),
		ReferralRepo: referralrepository.Provide(),
		Commission:   holder,
	})
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

type reportFixture struct {
	rita  referraldomain.User
	sam   referraldomain.User
	paul  referraldomain.User
	nina  referraldomain.User
	olly  referraldomain.User
	uma   referraldomain.User
	order map[string]orderdomain.Order
}

// seedReportFixture builds a small referral network:
//
//	Rita (distributor) refers Paul (customer), Nina (uncategorized),
//	and six distributor-categorized users enrolled on staggered dates.
//	Sam (no distributor category) refers Olly (customer).
//	Uma (customer) has no referrer.
func seedReportFixture(t *testing.T, db *gorm.DB) reportFixture {
	t.Helper()

	cfg := config.DefaultCommissionConfig()
	require.NoError(t, db.Create(&referraldomain.Category{ID: cfg.DistributorCategoryID, Name: "Distributor"}).Error)
	require.NoError(t, db.Create(&referraldomain.Category{ID: cfg.CustomerCategoryID, Name: "Customer"}).Error)

	fix := reportFixture{order: map[string]orderdomain.Order{}}

	fix.rita = createUser(t, db, "Rita", "Stone", nil, datePtr(2023, time.January, 1))
	fix.sam = createUser(t, db, "Sam", "Plain", nil, datePtr(2023, time.January, 1))

	fix.paul = createUser(t, db, "Paul", "Green", &fix.rita.ID, datePtr(2023, time.June, 1))
	fix.nina = createUser(t, db, "Nina", "Moss", &fix.rita.ID, datePtr(2023, time.June, 1))
	fix.olly = createUser(t, db, "Olly", "Reed", &fix.sam.ID, datePtr(2023, time.June, 1))
	fix.uma = createUser(t, db, "Uma", "Frost", nil, datePtr(2023, time.June, 1))

	addCategory(t, db, fix.rita.ID, cfg.DistributorCategoryID)
	addCategory(t, db, fix.paul.ID, cfg.CustomerCategoryID)
	addCategory(t, db, fix.olly.ID, cfg.CustomerCategoryID)
	addCategory(t, db, fix.uma.ID, cfg.CustomerCategoryID)

	// Rita's downline of distributors. Four enrolled before the first
	// order, a fifth before the second, a sixth after both.
	enrollments := []*time.Time{
		datePtr(2023, time.December, 1),
		datePtr(2023, time.December, 15),
		datePtr(2024, time.January, 1),
		datePtr(2024, time.January, 10),
		datePtr(2024, time.January, 15),
		datePtr(2024, time.March, 1),
	}
	for i, enrolled := range enrollments {
		child := createUser(t, db, "Downline", fmt.Sprintf("Member%d", i+1), &fix.rita.ID, enrolled)
		addCategory(t, db, child.ID, cfg.DistributorCategoryID)
	}

	p1 := createProduct(t, db, "SKU-40", "Forty", "40.00")
	p2 := createProduct(t, db, "SKU-20", "Twenty", "20.00")
	p3 := createProduct(t, db, "SKU-12", "Twelve", "12.00")

	fix.order["INV-100"] = createOrder(t, db, "INV-100", fix.paul.ID,
		time.Date(2024, time.January, 10, 10, 0, 0, 0, time.UTC),
		[]orderItemSeed{{p1.ID, 3}}) // 120.00
	fix.order["INV-200"] = createOrder(t, db, "INV-200", fix.paul.ID,
		time.Date(2024, time.February, 1, 12, 0, 0, 0, time.UTC),
		[]orderItemSeed{{p1.ID, 9}, {p3.ID, 1}}) // 372.00
	fix.order["INV-300"] = createOrder(t, db, "INV-300", fix.nina.ID,
		time.Date(2024, time.February, 5, 9, 0, 0, 0, time.UTC),
		[]orderItemSeed{{p2.ID, 1}}) // 20.00
	fix.order["INV-400"] = createOrder(t, db, "INV-400", fix.olly.ID,
		time.Date(2024, time.February, 10, 9, 0, 0, 0, time.UTC),
		[]orderItemSeed{{p2.ID, 2}}) // 40.00
	fix.order["INV-500"] = createOrder(t, db, "INV-500", fix.uma.ID,
		time.Date(2024, time.February, 15, 9, 0, 0, 0, time.UTC),
		[]orderItemSeed{{p3.ID, 1}}) // 12.00

	return fix
}

func createUser(t *testing.T, db *gorm.DB, first, last string, referredBy *int64, enrolled *time.Time) referraldomain.User {
	t.Helper()
	u := referraldomain.User{
		FirstName:    first,
		LastName:     last,
		Username:     strings.ToLower(first + "." + last),
		ReferredBy:   referredBy,
		EnrolledDate: enrolled,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func addCategory(t *testing.T, db *gorm.DB, userID, categoryID int64) {
	t.Helper()
	require.NoError(t, db.Create(&referraldomain.UserCategory{UserID: userID, CategoryID: categoryID}).Error)
}

func createProduct(t *testing.T, db *gorm.DB, sku, name, price string) orderdomain.Product {
	t.Helper()
	p := orderdomain.Product{SKU: sku, Name: name, Price: decimal.RequireFromString(price)}
	require.NoError(t, db.Create(&p).Error)
	return p
}

type orderItemSeed struct {
	productID int64
	quantity  int64
}

func createOrder(t *testing.T, db *gorm.DB, invoice string, purchaserID int64, orderDate time.Time, items []orderItemSeed) orderdomain.Order {
	t.Helper()
	o := orderdomain.Order{InvoiceNumber: invoice, PurchaserID: purchaserID, OrderDate: orderDate}
	require.NoError(t, db.Create(&o).Error)
	for _, item := range items {
		require.NoError(t, db.Create(&orderdomain.OrderItem{OrderID: o.ID, ProductID: item.productID, Quantity: item.quantity}).Error)
	}
	return o
}

func rowByInvoice(t *testing.T, rows []commissiondomain.ReportRow, invoice string) commissiondomain.ReportRow {
	t.Helper()
	for _, row := range rows {
		if row.Invoice == invoice {
			return row
		}
	}
	t.Fatalf("no report row for invoice %s", invoice)
	return commissiondomain.ReportRow{}
}

func TestReport_TierDependsOnOrderDate(t *testing.T) {
	db := newTestDB(t)
	fix := seedReportFixture(t, db)
	svc := newTestService(t, db)

	resp, err := svc.Report(context.Background(), commissiondomain.ReportRequest{
		Page: pagination.Pagination{Page: 1, PerPage: 50},
	})
	require.NoError(t, err)
	require.Len(t, resp.Rows, 5)

	// Four downline distributors enrolled by the January order, five by
	// the February one. Same distributor, two different tiers.
	jan := rowByInvoice(t, resp.Rows, "INV-100")
	assert.Equal(t, "120.00", jan.OrderTotal.StringFixed(2))
	assert.Equal(t, 4, jan.ReferredDistributors)
	assert.Equal(t, 5, jan.Percentage)
	assert.Equal(t, "6.00", jan.Commission.StringFixed(2))
	require.NotNil(t, jan.DistributorID)
	assert.Equal(t, fix.rita.ID, *jan.DistributorID)
	require.NotNil(t, jan.DistributorName)
	assert.Equal(t, "Rita Stone", *jan.DistributorName)
	assert.Equal(t, "Paul Green", jan.PurchaserName)

	feb := rowByInvoice(t, resp.Rows, "INV-200")
	assert.Equal(t, "372.00", feb.OrderTotal.StringFixed(2))
	assert.Equal(t, 5, feb.ReferredDistributors)
	assert.Equal(t, 10, feb.Percentage)
	assert.Equal(t, "37.20", feb.Commission.StringFixed(2))
}

func TestReport_NoCommissionWithoutBothCategories(t *testing.T) {
	db := newTestDB(t)
	fix := seedReportFixture(t, db)
	svc := newTestService(t, db)

	resp, err := svc.Report(context.Background(), commissiondomain.ReportRequest{
		Page: pagination.Pagination{Page: 1, PerPage: 50},
	})
	require.NoError(t, err)

	// Nina is not customer-categorized: the distributor still shows on
	// the row but no commission applies.
	nina := rowByInvoice(t, resp.Rows, "INV-300")
	require.NotNil(t, nina.DistributorID)
	assert.Equal(t, fix.rita.ID, *nina.DistributorID)
	assert.Equal(t, 0, nina.ReferredDistributors)
	assert.Equal(t, 0, nina.Percentage)
	assert.True(t, nina.Commission.IsZero())

	// Sam referred Olly but holds no distributor category, so the row
	// has no distributor at all.
	olly := rowByInvoice(t, resp.Rows, "INV-400")
	assert.Nil(t, olly.DistributorID)
	assert.Nil(t, olly.DistributorName)
	assert.Equal(t, 0, olly.Percentage)
	assert.True(t, olly.Commission.IsZero())

	// Uma has no referrer.
	uma := rowByInvoice(t, resp.Rows, "INV-500")
	assert.Nil(t, uma.DistributorID)
	assert.True(t, uma.Commission.IsZero())
}

func TestReport_Ordering(t *testing.T) {
	db := newTestDB(t)
	seedReportFixture(t, db)
	svc := newTestService(t, db)

	resp, err := svc.Report(context.Background(), commissiondomain.ReportRequest{
		Page: pagination.Pagination{Page: 1, PerPage: 50},
	})
	require.NoError(t, err)

	invoices := make([]string, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		invoices = append(invoices, row.Invoice)
	}
	assert.Equal(t, []string{"INV-500", "INV-400", "INV-300", "INV-200", "INV-100"}, invoices)
}

func TestReport_DistributorFilter(t *testing.T) {
	db := newTestDB(t)
	fix := seedReportFixture(t, db)
	svc := newTestService(t, db)

	byName, err := svc.Report(context.Background(), commissiondomain.ReportRequest{
		Filter: commissiondomain.Filter{Distributor: "rita"},
		Page:   pagination.Pagination{Page: 1, PerPage: 50},
	})
	require.NoError(t, err)
	require.Len(t, byName.Rows, 3)
	for _, row := range byName.Rows {
		require.NotNil(t, row.DistributorID)
		assert.Equal(t, fix.rita.ID, *row.DistributorID)
	}

	byID, err := svc.Report(context.Background(), commissiondomain.ReportRequest{
		Filter: commissiondomain.Filter{Distributor: fmt.Sprintf("%d", fix.rita.ID)},
		Page:   pagination.Pagination{Page: 1, PerPage: 50},
	})
	require.NoError(t, err)
	assert.Equal(t, byName.Page.Total, byID.Page.Total)

	// Sam is a referrer but not distributor-categorized, so the filter
	// never matches his orders.
	sam, err := svc.Report(context.Background(), commissiondomain.ReportRequest{
		Filter: commissiondomain.Filter{Distributor: "sam"},
		Page:   pagination.Pagination{Page: 1, PerPage: 50},
	})
	require.NoError(t, err)
	assert.Empty(t, sam.Rows)
	assert.Equal(t, int64(0), sam.Page.Total)
}

func TestReport_InvoiceAndDateFilters(t *testing.T) {
	db := newTestDB(t)
	seedReportFixture(t, db)
	svc := newTestService(t, db)

	invoice, err := svc.Report(context.Background(), commissiondomain.ReportRequest{
		Filter: commissiondomain.Filter{Invoice: "inv-1"},
		Page:   pagination.Pagination{Page: 1, PerPage: 50},
	})
	require.NoError(t, err)
	require.Len(t, invoice.Rows, 1)
	assert.Equal(t, "INV-100", invoice.Rows[0].Invoice)

	from := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.February, 10, 23, 59, 59, 0, time.UTC)
	window, err := svc.Report(context.Background(), commissiondomain.ReportRequest{
		Filter: commissiondomain.Filter{DateFrom: &from, DateTo: &to},
		Page:   pagination.Pagination{Page: 1, PerPage: 50},
	})
	require.NoError(t, err)
	require.Len(t, window.Rows, 3)
	assert.Equal(t, "INV-400", window.Rows[0].Invoice)
	assert.Equal(t, "INV-300", window.Rows[1].Invoice)
	assert.Equal(t, "INV-200", window.Rows[2].Invoice)
}

func TestReport_Pagination(t *testing.T) {
	db := newTestDB(t)
	seedReportFixture(t, db)
	svc := newTestService(t, db)

	first, err := svc.Report(context.Background(), commissiondomain.ReportRequest{
		Page: pagination.Pagination{Page: 1, PerPage: 2},
	})
	require.NoError(t, err)
	require.Len(t, first.Rows, 2)
	assert.Equal(t, int64(5), first.Page.Total)
	assert.Equal(t, 3, first.Page.LastPage)
	assert.Equal(t, 1, first.Page.CurrentPage)
	assert.Equal(t, "INV-500", first.Rows[0].Invoice)

	last, err := svc.Report(context.Background(), commissiondomain.ReportRequest{
		Page: pagination.Pagination{Page: 3, PerPage: 2},
	})
	require.NoError(t, err)
	require.Len(t, last.Rows, 1)
	assert.Equal(t, "INV-100", last.Rows[0].Invoice)

	past, err := svc.Report(context.Background(), commissiondomain.ReportRequest{
		Page: pagination.Pagination{Page: 9, PerPage: 2},
	})
	require.NoError(t, err)
	assert.Empty(t, past.Rows)
	assert.Equal(t, int64(5), past.Page.Total)
}

func TestReport_EmptyDatabase(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)

	resp, err := svc.Report(context.Background(), commissiondomain.ReportRequest{
		Page: pagination.Pagination{Page: 1, PerPage: 10},
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Rows)
	assert.Equal(t, int64(0), resp.Page.Total)
	assert.Equal(t, 0, resp.Page.LastPage)
}

func TestOrderItems(t *testing.T) {
	db := newTestDB(t)
	fix := seedReportFixture(t, db)
	svc := newTestService(t, db)

	lines, err := svc.OrderItems(context.Background(), fix.order["INV-200"].ID)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, "SKU-40", lines[0].SKU)
	assert.Equal(t, int64(9), lines[0].Quantity)
	assert.Equal(t, "360.00", lines[0].Total.StringFixed(2))
	assert.Equal(t, "SKU-12", lines[1].SKU)
	assert.Equal(t, "12.00", lines[1].Total.StringFixed(2))
}

func TestOrderItems_UnknownOrder(t *testing.T) {
	db := newTestDB(t)
	seedReportFixture(t, db)
	svc := newTestService(t, db)

	_, err := svc.OrderItems(context.Background(), 999999)
	assert.ErrorIs(t, err, commissiondomain.ErrNotFound)
}
