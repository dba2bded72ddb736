package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/naxum/tsa-backend/internal/config"
	leaderboarddomain "github.com/naxum/tsa-backend/internal/leaderboard/domain"
	leaderboardrepository "github.com/naxum/tsa-backend/internal/leaderboard/repository"
	orderdomain "github.com/naxum/tsa-backend/internal/order/domain"
	referraldomain "github.com/naxum/tsa-backend/internal/referral/domain"
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

func newTestService(t *testing.T, db *gorm.DB) leaderboarddomain.Service {
	t.Helper()

	holder, err := config.NewCommissionHolderFromConfig(config.DefaultCommissionConfig())
	require.NoError(t, err)

	return New(Params{
		DB:         db,
		Log:        zap.NewNop(),
		Repo:       leaderboardrepository.Provide(),
		Commission: holder,
	})
}

// seedDistributor creates a distributor-categorized user plus one
// referred purchaser whose single order sums to the given amount.
func seedDistributor(t *testing.T, db *gorm.DB, first, last string, sales string) referraldomain.User {
	t.Helper()

	cfg := config.DefaultCommissionConfig()
	d := referraldomain.User{FirstName: first, LastName: last, Username: strings.ToLower(first + "." + last)}
	require.NoError(t, db.Create(&d).Error)
	require.NoError(t, db.Create(&referraldomain.UserCategory{UserID: d.ID, CategoryID: cfg.DistributorCategoryID}).Error)

	buyer := referraldomain.User{
		FirstName:  "Buyer",
		LastName:   "Of" + last,
		Username:   "buyer.of." + strings.ToLower(last),
		ReferredBy: &d.ID,
	}
	require.NoError(t, db.Create(&buyer).Error)

	product := orderdomain.Product{
		SKU:   "SKU-" + strings.ToLower(last),
		Name:  "Product " + last,
		Price: decimal.RequireFromString(sales),
	}
	require.NoError(t, db.Create(&product).Error)

	order := orderdomain.Order{
		InvoiceNumber: "INV-" + strings.ToUpper(last),
		PurchaserID:   buyer.ID,
		OrderDate:     time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&order).Error)
	require.NoError(t, db.Create(&orderdomain.OrderItem{OrderID: order.ID, ProductID: product.ID, Quantity: 1}).Error)

	return d
}

func TestTop_DenseRankWithTies(t *testing.T) {
	db := newTestDB(t)
	seedDistributor(t, db, "Ann", "Alpha", "500.00")
	seedDistributor(t, db, "Ben", "Bravo", "300.00")
	seedDistributor(t, db, "Cy", "Charlie", "300.00")
	seedDistributor(t, db, "Dee", "Delta", "100.00")
	svc := newTestService(t, db)

	standings, err := svc.Top(context.Background(), 200)
	require.NoError(t, err)
	require.Len(t, standings, 4)

	assert.Equal(t, 1, standings[0].Rank)
	assert.Equal(t, "Ann Alpha", standings[0].DistributorName)
	assert.Equal(t, "500.00", standings[0].TotalSales.StringFixed(2))

	// Equal sales share a rank; the next distinct value advances by 1.
	assert.Equal(t, 2, standings[1].Rank)
	assert.Equal(t, 2, standings[2].Rank)
	assert.Equal(t, 3, standings[3].Rank)
	assert.Equal(t, "Dee Delta", standings[3].DistributorName)
}

func TestTop_CeilingIncludesBoundaryTies(t *testing.T) {
	db := newTestDB(t)
	seedDistributor(t, db, "Ann", "Alpha", "500.00")
	seedDistributor(t, db, "Ben", "Bravo", "300.00")
	seedDistributor(t, db, "Cy", "Charlie", "300.00")
	seedDistributor(t, db, "Dee", "Delta", "100.00")
	svc := newTestService(t, db)

	standings, err := svc.Top(context.Background(), 2)
	require.NoError(t, err)

	// Both rank-2 distributors stay; rank 3 is past the ceiling.
	require.Len(t, standings, 3)
	assert.Equal(t, 2, standings[1].Rank)
	assert.Equal(t, 2, standings[2].Rank)
}

func TestTop_ExcludesNonDistributorsAndNoSales(t *testing.T) {
	db := newTestDB(t)
	cfg := config.DefaultCommissionConfig()
	seedDistributor(t, db, "Ann", "Alpha", "500.00")

	// Distributor with no referred purchasers.
	idle := referraldomain.User{FirstName: "Ida", LastName: "Idle", Username: "ida.idle"}
	require.NoError(t, db.Create(&idle).Error)
	require.NoError(t, db.Create(&referraldomain.UserCategory{UserID: idle.ID, CategoryID: cfg.DistributorCategoryID}).Error)

	svc := newTestService(t, db)
	standings, err := svc.Top(context.Background(), 200)
	require.NoError(t, err)

	require.Len(t, standings, 1)
	assert.Equal(t, "Ann Alpha", standings[0].DistributorName)
}

// Purchasers do not need the customer category here, unlike the
// per-order commission rule.
func TestTop_CountsNonCustomerPurchases(t *testing.T) {
	db := newTestDB(t)
	seedDistributor(t, db, "Ann", "Alpha", "50.00")
	svc := newTestService(t, db)

	standings, err := svc.Top(context.Background(), 200)
	require.NoError(t, err)
	require.Len(t, standings, 1)
	assert.Equal(t, "50.00", standings[0].TotalSales.StringFixed(2))
}

func TestTop_InvalidCeiling(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)

	_, err := svc.Top(context.Background(), 0)
	assert.ErrorIs(t, err, leaderboarddomain.ErrInvalidCeiling)
}

func TestTopPaginated(t *testing.T) {
	db := newTestDB(t)
	seedDistributor(t, db, "Ann", "Alpha", "500.00")
	seedDistributor(t, db, "Ben", "Bravo", "300.00")
	seedDistributor(t, db, "Cy", "Charlie", "300.00")
	seedDistributor(t, db, "Dee", "Delta", "100.00")
	svc := newTestService(t, db)

	first, err := svc.TopPaginated(context.Background(), 200, pagination.Pagination{Page: 1, PerPage: 3})
	require.NoError(t, err)
	require.Len(t, first.Rows, 3)
	assert.Equal(t, int64(4), first.Page.Total)
	assert.Equal(t, 2, first.Page.LastPage)

	second, err := svc.TopPaginated(context.Background(), 200, pagination.Pagination{Page: 2, PerPage: 3})
	require.NoError(t, err)
	require.Len(t, second.Rows, 1)
	assert.Equal(t, "Dee Delta", second.Rows[0].DistributorName)

	past, err := svc.TopPaginated(context.Background(), 200, pagination.Pagination{Page: 5, PerPage: 3})
	require.NoError(t, err)
	assert.Empty(t, past.Rows)
	assert.Equal(t, int64(4), past.Page.Total)
}

// The pagination total counts materialized standings, so boundary ties
// past the ceiling inflate it beyond the nominal rank count.
func TestTopPaginated_TotalReflectsCeiling(t *testing.T) {
	db := newTestDB(t)
	seedDistributor(t, db, "Ann", "Alpha", "500.00")
	seedDistributor(t, db, "Ben", "Bravo", "300.00")
	seedDistributor(t, db, "Cy", "Charlie", "300.00")
	seedDistributor(t, db, "Dee", "Delta", "100.00")
	svc := newTestService(t, db)

	resp, err := svc.TopPaginated(context.Background(), 2, pagination.Pagination{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, resp.Rows, 3)
	assert.Equal(t, int64(3), resp.Page.Total)
}
