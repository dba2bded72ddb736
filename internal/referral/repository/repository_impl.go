package repository

import (
	"context"
	"time"

	referraldomain "github.com/naxum/tsa-backend/internal/referral/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() referraldomain.Repository {
	return &repo{}
}

func (r *repo) CountReferredDistributors(ctx context.Context, db *gorm.DB, userID, distributorCategoryID int64, asOf time.Time) (int, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*)
		 FROM users u
		 JOIN user_category uc ON uc.user_id = u.id AND uc.category_id = ?
		 WHERE u.referred_by = ? AND u.enrolled_date <= ?`,
		distributorCategoryID,
		userID,
		asOf,
	).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
