package server

import (
	"time"

	commissiondomain "github.com/naxum/tsa-backend/internal/commission/domain"
	leaderboarddomain "github.com/naxum/tsa-backend/internal/leaderboard/domain"
	orderdomain "github.com/naxum/tsa-backend/internal/order/domain"
	"github.com/naxum/tsa-backend/pkg/db/pagination"
)

// listEnvelope is the success wrapper on every report payload. Monetary
// fields inside Data are rendered as fixed 2-decimal strings.
type listEnvelope struct {
	Success    bool                 `json:"success"`
	Data       interface{}          `json:"data"`
	Pagination *pagination.PageInfo `json:"pagination,omitempty"`
}

type reportRowResponse struct {
	OrderID              int64   `json:"order_id"`
	Invoice              string  `json:"invoice"`
	Purchaser            string  `json:"purchaser"`
	PurchaserID          int64   `json:"purchaser_id"`
	Distributor          *string `json:"distributor"`
	DistributorID        *int64  `json:"distributor_id"`
	ReferredDistributors int     `json:"referred_distributors"`
	OrderDate            string  `json:"order_date"`
	OrderTotal           string  `json:"order_total"`
	Percentage           int     `json:"percentage"`
	Commission           string  `json:"commission"`
}

func toReportRows(rows []commissiondomain.ReportRow) []reportRowResponse {
	out := make([]reportRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, reportRowResponse{
			OrderID:              row.OrderID,
			Invoice:              row.Invoice,
			Purchaser:            row.PurchaserName,
			PurchaserID:          row.PurchaserID,
			Distributor:          row.DistributorName,
			DistributorID:        row.DistributorID,
			ReferredDistributors: row.ReferredDistributors,
			OrderDate:            row.OrderDate.Format(dateOnlyLayout),
			OrderTotal:           row.OrderTotal.StringFixed(2),
			Percentage:           row.Percentage,
			Commission:           row.Commission.StringFixed(2),
		})
	}
	return out
}

type orderItemResponse struct {
	SKU         string `json:"sku"`
	ProductName string `json:"product_name"`
	Price       string `json:"price"`
	Quantity    int64  `json:"quantity"`
	Total       string `json:"total"`
}

func toOrderItems(lines []orderdomain.OrderItemLine) []orderItemResponse {
	out := make([]orderItemResponse, 0, len(lines))
	for _, line := range lines {
		out = append(out, orderItemResponse{
			SKU:         line.SKU,
			ProductName: line.ProductName,
			Price:       line.Price.StringFixed(2),
			Quantity:    line.Quantity,
			Total:       line.Total.StringFixed(2),
		})
	}
	return out
}

type standingResponse struct {
	Rank            int    `json:"rank"`
	DistributorID   int64  `json:"distributor_id"`
	DistributorName string `json:"distributor_name"`
	TotalSales      string `json:"total_sales"`
}

func toStandings(rows []leaderboarddomain.Standing) []standingResponse {
	out := make([]standingResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, standingResponse{
			Rank:            row.Rank,
			DistributorID:   row.DistributorID,
			DistributorName: row.DistributorName,
			TotalSales:      row.TotalSales.StringFixed(2),
		})
	}
	return out
}

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

func newHealthResponse(now time.Time, dbStatus string, healthy bool) healthResponse {
	status := "ok"
	if !healthy {
		status = "unavailable"
	}
	return healthResponse{
		Status:    status,
		Timestamp: now.UTC().Format(time.RFC3339),
		Services:  map[string]string{"database": dbStatus},
	}
}
