package service

import (
	"context"

	"github.com/naxum/tsa-backend/internal/config"
	leaderboarddomain "github.com/naxum/tsa-backend/internal/leaderboard/domain"
	"github.com/naxum/tsa-backend/pkg/db/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Repo       leaderboarddomain.Repository
	Commission *config.CommissionConfigHolder
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	repo       leaderboarddomain.Repository
	commission *config.CommissionConfigHolder
}

func New(p Params) leaderboarddomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("leaderboard.service"),
		repo:       p.Repo,
		commission: p.Commission,
	}
}

// Top walks the pre-sorted aggregate and assigns dense ranks: equal
// 2-decimal sales values share a rank, each distinct value advances the
// rank by exactly 1. The ceiling bounds the RANK, not the row count, so
// boundary ties can push the result past rankCeiling rows.
func (s *Service) Top(ctx context.Context, rankCeiling int) ([]leaderboarddomain.Standing, error) {
	if rankCeiling < 1 {
		return nil, leaderboarddomain.ErrInvalidCeiling
	}

	aggregates, err := s.repo.AggregateSales(ctx, s.db, s.commission.Get().DistributorCategoryID)
	if err != nil {
		return nil, err
	}

	standings := make([]leaderboarddomain.Standing, 0, len(aggregates))
	rank := 0
	var previous decimal.Decimal
	for i, agg := range aggregates {
		sales := agg.TotalSales.Round(2)
		if i == 0 || !sales.Equal(previous) {
			rank++
			previous = sales
		}
		if rank > rankCeiling {
			break
		}
		standings = append(standings, leaderboarddomain.Standing{
			Rank:            rank,
			DistributorID:   agg.DistributorID,
			DistributorName: agg.DistributorName,
			TotalSales:      sales,
		})
	}

	return standings, nil
}

func (s *Service) TopPaginated(ctx context.Context, rankCeiling int, page pagination.Pagination) (*leaderboarddomain.TopResponse, error) {
	cfg := s.commission.Get()
	page = page.Normalize(cfg.DefaultPerPage, cfg.MaxPerPage)

	standings, err := s.Top(ctx, rankCeiling)
	if err != nil {
		return nil, err
	}

	total := int64(len(standings))
	offset := page.Offset()
	rows := []leaderboarddomain.Standing{}
	if offset < len(standings) {
		end := offset + page.PerPage
		if end > len(standings) {
			end = len(standings)
		}
		rows = standings[offset:end]
	}

	return &leaderboarddomain.TopResponse{
		Rows: rows,
		Page: pagination.NewPageInfo(page.Page, page.PerPage, total),
	}, nil
}
