package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/naxum/tsa-backend/internal/clock"
	"github.com/naxum/tsa-backend/internal/commission"
	commissiondomain "github.com/naxum/tsa-backend/internal/commission/domain"
	"github.com/naxum/tsa-backend/internal/config"
	"github.com/naxum/tsa-backend/internal/leaderboard"
	leaderboarddomain "github.com/naxum/tsa-backend/internal/leaderboard/domain"
	"github.com/naxum/tsa-backend/internal/observability"
	obsmetrics "github.com/naxum/tsa-backend/internal/observability/metrics"
	obsmiddleware "github.com/naxum/tsa-backend/internal/observability/logger"
	obstracing "github.com/naxum/tsa-backend/internal/observability/tracing"
	"github.com/naxum/tsa-backend/internal/order"
	"github.com/naxum/tsa-backend/internal/ratelimit"
	"github.com/naxum/tsa-backend/internal/referral"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	referral.Module,
	order.Module,
	commission.Module,
	leaderboard.Module,
	ratelimit.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	Commission     *config.CommissionConfigHolder
	DB             *gorm.DB
	Log            *zap.Logger
	Clock          clock.Clock
	CommissionSvc  commissiondomain.Service
	LeaderboardSvc leaderboarddomain.Service
	ReportLimiter  *ratelimit.ReportLimiter `optional:"true"`
}

type Server struct {
	engine         *gin.Engine
	cfg            config.Config
	commission     *config.CommissionConfigHolder
	db             *gorm.DB
	log            *zap.Logger
	clock          clock.Clock
	commissionSvc  commissiondomain.Service
	leaderboardSvc leaderboarddomain.Service
	reportLimiter  *ratelimit.ReportLimiter
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		commission:     p.Commission,
		db:             p.DB,
		log:            p.Log.Named("http.server"),
		clock:          p.Clock,
		commissionSvc:  p.CommissionSvc,
		leaderboardSvc: p.LeaderboardSvc,
		reportLimiter:  p.ReportLimiter,
	}

	svc.registerRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes() {
	s.engine.GET("/health", s.HealthCheck)

	api := s.engine.Group("/api")
	api.Use(s.RateLimit())

	api.GET("/commission-report", s.GetCommissionReport)
	api.GET("/commission-report/order/:orderId/items", s.GetOrderItems)
	api.GET("/top-distributors", s.GetTopDistributors)
}

// RateLimit throttles per client IP when the redis limiter is configured.
func (s *Server) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.reportLimiter.Enabled() {
			c.Next()
			return
		}

		result, err := s.reportLimiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			// Limiter failure should not take the read path down.
			s.log.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !result.Allowed {
			if result.RetryAfter > 0 {
				c.Header("Retry-After", result.RetryAfter.Round(time.Second).String())
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse{
				Error: errorPayload{
					Type:    "rate_limited",
					Message: "too many requests",
				},
			})
			return
		}
		c.Next()
	}
}
