package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/sobremesalab/sobremesa/internal/config"
)

const keySubmitUser = "carta:submit:user:%s"

// SubmitLimiter throttles letter submissions per user. Disabled by default;
// when disabled every request passes.
type SubmitLimiter struct {
	enabled bool

	bucket *TokenBucket

	rate  float64
	burst int
}

func NewSubmitLimiter(cfg config.Config) (*SubmitLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.SubmitRate <= 0 || limitCfg.SubmitBurst <= 0 {
		return nil, errors.New("submit rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})

	return &SubmitLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
		rate:    limitCfg.SubmitRate,
		burst:   limitCfg.SubmitBurst,
	}, nil
}

func (l *SubmitLimiter) Enabled() bool {
	return l != nil && l.enabled
}

// AllowUser reports whether userID may submit another letter right now.
func (l *SubmitLimiter) AllowUser(ctx context.Context, userID string) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keySubmitUser, strings.TrimSpace(userID)), l.rate, l.burst)
}
