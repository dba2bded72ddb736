package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (s *Server) GetTopDistributors(c *gin.Context) {
	cfg := s.commission.Get()

	page, err := bindPagination(c, cfg.DefaultPerPage, cfg.MaxPerPage)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.leaderboardSvc.TopPaginated(c.Request.Context(), cfg.TopDistributorsLimit, page)
	if err != nil {
		s.log.Error("top distributors failed", zap.Error(err))
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, listEnvelope{
		Success:    true,
		Data:       toStandings(resp.Rows),
		Pagination: &resp.Page,
	})
}
