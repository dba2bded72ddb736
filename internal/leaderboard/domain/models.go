package domain

import (
	"context"
	"errors"

	"github.com/naxum/tsa-backend/pkg/db/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DistributorSales is one aggregate row: a distributor-categorized user
// with the summed sales of every order placed by users they referred.
// No customer-category filter applies here, unlike the per-order
// commission rule.
type DistributorSales struct {
	DistributorID   int64           `gorm:"column:distributor_id"`
	DistributorName string          `gorm:"column:distributor_name"`
	TotalSales      decimal.Decimal `gorm:"column:total_sales"`
}

// Standing is one ranked leaderboard row. Equal sales share a rank.
type Standing struct {
	Rank            int
	DistributorID   int64
	DistributorName string
	TotalSales      decimal.Decimal
}

type TopResponse struct {
	Rows []Standing
	Page pagination.PageInfo
}

type Repository interface {
	// AggregateSales returns per-distributor sales totals sorted
	// descending. Distributors with no qualifying sales are excluded.
	AggregateSales(ctx context.Context, db *gorm.DB, distributorCategoryID int64) ([]DistributorSales, error)
}

type Service interface {
	// Top returns the full dense-ranked leaderboard truncated at
	// rankCeiling. Ties at the boundary rank are all included; the rank
	// after the ceiling never appears.
	Top(ctx context.Context, rankCeiling int) ([]Standing, error)
	// TopPaginated slices the ceiling-truncated leaderboard in memory.
	// The pagination total is the materialized result size, not a table
	// row count.
	TopPaginated(ctx context.Context, rankCeiling int, page pagination.Pagination) (*TopResponse, error)
}

var ErrInvalidCeiling = errors.New("invalid_rank_ceiling")
