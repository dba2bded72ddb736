package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	commissiondomain "github.com/naxum/tsa-backend/internal/commission/domain"
	"github.com/naxum/tsa-backend/pkg/db/pagination"
	"go.uber.org/zap"
)

// The report endpoint caps per_page below the global maximum. Anything
// larger is rejected rather than clamped.
const reportMaxPerPage = 100

func bindPagination(c *gin.Context, defaultPerPage, maxPerPage int) (pagination.Pagination, error) {
	page := defaultInt(c.Query("page"), 1)
	if page == nil || *page < 1 {
		return pagination.Pagination{}, newValidationError("page", "min", "page must be an integer of at least 1")
	}

	perPage := defaultInt(c.Query("per_page"), defaultPerPage)
	if perPage == nil || *perPage < 1 {
		return pagination.Pagination{}, newValidationError("per_page", "min", "per_page must be an integer of at least 1")
	}
	if *perPage > maxPerPage {
		return pagination.Pagination{}, newValidationError("per_page", "max", fmt.Sprintf("per_page must not exceed %d", maxPerPage))
	}

	return pagination.Pagination{Page: *page, PerPage: *perPage}, nil
}

func defaultInt(raw string, fallback int) *int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return &fallback
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil
	}
	return &parsed
}

func (s *Server) GetCommissionReport(c *gin.Context) {
	page, err := bindPagination(c, s.commission.Get().DefaultPerPage, reportMaxPerPage)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	dateFrom, err := parseOptionalTime(c.Query("date_from"), false)
	if err != nil {
		AbortWithError(c, newValidationError("date_from", "date", "date_from must be a valid date (Y-m-d)"))
		return
	}
	dateTo, err := parseOptionalTime(c.Query("date_to"), true)
	if err != nil {
		AbortWithError(c, newValidationError("date_to", "date", "date_to must be a valid date (Y-m-d)"))
		return
	}
	if dateFrom != nil && dateTo != nil && dateTo.Before(*dateFrom) {
		AbortWithError(c, newValidationError("date_to", "after_or_equal", "date_to must be on or after date_from"))
		return
	}

	resp, err := s.commissionSvc.Report(c.Request.Context(), commissiondomain.ReportRequest{
		Filter: commissiondomain.Filter{
			Distributor: strings.TrimSpace(c.Query("distributor")),
			DateFrom:    dateFrom,
			DateTo:      dateTo,
			Invoice:     strings.TrimSpace(c.Query("invoice")),
		},
		Page: page,
	})
	if err != nil {
		s.log.Error("commission report failed", zap.Error(err))
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, listEnvelope{
		Success:    true,
		Data:       toReportRows(resp.Rows),
		Pagination: &resp.Page,
	})
}

func (s *Server) GetOrderItems(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil || orderID < 1 {
		AbortWithError(c, newValidationError("orderId", "integer", "orderId must be a positive integer"))
		return
	}

	items, err := s.commissionSvc.OrderItems(c.Request.Context(), orderID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, listEnvelope{
		Success: true,
		Data:    toOrderItems(items),
	})
}
