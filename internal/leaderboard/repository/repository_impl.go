package repository

import (
	"context"

	leaderboarddomain "github.com/naxum/tsa-backend/internal/leaderboard/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() leaderboarddomain.Repository {
	return &repo{}
}

func (r *repo) AggregateSales(ctx context.Context, db *gorm.DB, distributorCategoryID int64) ([]leaderboarddomain.DistributorSales, error) {
	var rows []leaderboarddomain.DistributorSales
	// Inner joins all the way down: a distributor with no referred
	// purchasers or no sold items drops out entirely.
	err := db.WithContext(ctx).Raw(
		`SELECT d.id AS distributor_id,
		        d.first_name || ' ' || d.last_name AS distributor_name,
		        SUM(pr.price * oi.quantity) AS total_sales
		 FROM users d
		 JOIN user_category uc ON uc.user_id = d.id AND uc.category_id = ?
		 JOIN users ref ON ref.referred_by = d.id
		 JOIN orders o ON o.purchaser_id = ref.id
		 JOIN order_items oi ON oi.order_id = o.id
		 JOIN products pr ON pr.id = oi.product_id
		 GROUP BY d.id, d.first_name, d.last_name
		 ORDER BY total_sales DESC, d.id ASC`,
		distributorCategoryID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
