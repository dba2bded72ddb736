package service

import (
	"context"

	commissiondomain "github.com/naxum/tsa-backend/internal/commission/domain"
	"github.com/naxum/tsa-backend/internal/config"
	orderdomain "github.com/naxum/tsa-backend/internal/order/domain"
	referraldomain "github.com/naxum/tsa-backend/internal/referral/domain"
	"github.com/naxum/tsa-backend/pkg/db/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var oneHundred = decimal.NewFromInt(100)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Repo         commissiondomain.Repository
	OrderRepo    orderdomain.Repository
	ReferralRepo referraldomain.Repository
	Commission   *config.CommissionConfigHolder
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	repo         commissiondomain.Repository
	orderRepo    orderdomain.Repository
	referralRepo referraldomain.Repository
	commission   *config.CommissionConfigHolder
}

func New(p Params) commissiondomain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("commission.service"),
		repo:         p.Repo,
		orderRepo:    p.OrderRepo,
		referralRepo: p.ReferralRepo,
		commission:   p.Commission,
	}
}

// Report builds the paginated commission report. Commission applies only
// when the purchaser was referred by a distributor AND is itself
// customer-categorized; every other order reports zero commission.
func (s *Service) Report(ctx context.Context, req commissiondomain.ReportRequest) (*commissiondomain.ReportResponse, error) {
	cfg := s.commission.Get()
	resolver := s.commission.Resolver()
	page := req.Page.Normalize(cfg.DefaultPerPage, cfg.MaxPerPage)
	categories := commissiondomain.CategoryIDs{
		Distributor: cfg.DistributorCategoryID,
		Customer:    cfg.CustomerCategoryID,
	}

	total, err := s.repo.CountOrders(ctx, s.db, req.Filter, categories)
	if err != nil {
		return nil, err
	}

	headers, err := s.repo.FindOrders(ctx, s.db, req.Filter, categories, page.PerPage, page.Offset())
	if err != nil {
		return nil, err
	}

	rows := make([]commissiondomain.ReportRow, 0, len(headers))
	for _, h := range headers {
		orderTotal, err := s.orderRepo.SumOrderTotal(ctx, s.db, h.OrderID)
		if err != nil {
			return nil, err
		}
		orderTotal = orderTotal.Round(2)

		row := commissiondomain.ReportRow{
			OrderID:       h.OrderID,
			Invoice:       h.InvoiceNumber,
			PurchaserName: h.PurchaserName,
			PurchaserID:   h.PurchaserID,
			OrderDate:     h.OrderDate,
			OrderTotal:    orderTotal,
			Commission:    decimal.Zero.Round(2),
		}

		if h.HasDistributor() {
			row.DistributorID = h.ReferrerID
			row.DistributorName = h.ReferrerName

			if h.IsCustomerPurchase() {
				// Referred-distributor count is point-in-time: the same
				// distributor can land in different tiers on two orders.
				count, err := s.referralRepo.CountReferredDistributors(ctx, s.db, *h.ReferrerID, cfg.DistributorCategoryID, h.OrderDate)
				if err != nil {
					return nil, err
				}
				pct := resolver.Percentage(count)

				row.ReferredDistributors = count
				row.Percentage = pct
				row.Commission = orderTotal.Mul(decimal.NewFromInt(int64(pct))).Div(oneHundred).Round(2)
			}
		}

		rows = append(rows, row)
	}

	return &commissiondomain.ReportResponse{
		Rows: rows,
		Page: pagination.NewPageInfo(page.Page, page.PerPage, total),
	}, nil
}

func (s *Service) OrderItems(ctx context.Context, orderID int64) ([]orderdomain.OrderItemLine, error) {
	lines, err := s.orderRepo.ListOrderItems(ctx, s.db, orderID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, commissiondomain.ErrNotFound
	}
	return lines, nil
}
