package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	// CountReferredDistributors counts users referred by userID that hold
	// the distributor category and enrolled on or before asOf.
	CountReferredDistributors(ctx context.Context, db *gorm.DB, userID, distributorCategoryID int64, asOf time.Time) (int, error)
}
