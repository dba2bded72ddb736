package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/naxum/tsa-backend/internal/config"
	redis "github.com/redis/go-redis/v9"
)

const keyReportClient = "report:client:%s"

// ReportLimiter throttles the report endpoints per client. Nil when the
// limiter is not configured; all methods treat that as "allow".
type ReportLimiter struct {
	enabled bool

	bucket *TokenBucket
	rate   float64
	burst  int
}

func NewReportLimiter(cfg config.Config) (*ReportLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.ReportRate <= 0 || limitCfg.ReportBurst <= 0 {
		return nil, errors.New("report rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	return &ReportLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
		rate:    limitCfg.ReportRate,
		burst:   limitCfg.ReportBurst,
	}, nil
}

func (l *ReportLimiter) Enabled() bool {
	return l != nil && l.enabled
}

func (l *ReportLimiter) Allow(ctx context.Context, clientID string) (*Result, error) {
	if !l.Enabled() {
		return &Result{Allowed: true}, nil
	}
	key := fmt.Sprintf(keyReportClient, strings.TrimSpace(clientID))
	return l.bucket.Allow(ctx, key, l.rate, l.burst)
}
