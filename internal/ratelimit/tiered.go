package ratelimit

import (
	"context"
	"log"
	"time"
)

// TieredLimiter tries each tier in order and uses the first that answers.
// A tier's infrastructure failure moves on to the next tier; when every
// tier fails the request is allowed (fail open): product availability
// beats strict quota enforcement while the quota mechanism is degraded.
type TieredLimiter struct {
	tiers    []Limiter
	errorLog *log.Logger
}

func NewTieredLimiter(errorLog *log.Logger, tiers ...Limiter) *TieredLimiter {
	return &TieredLimiter{tiers: tiers, errorLog: errorLog}
}

func (l *TieredLimiter) Allow(ctx context.Context, identifier string, limit int, window time.Duration) (Result, error) {
	for _, tier := range l.tiers {
		res, err := tier.Allow(ctx, identifier, limit, window)
		if err == nil {
			return res, nil
		}
		if l.errorLog != nil {
			l.errorLog.Printf("rate limit tier failed for %s: %v", identifier, err)
		}
	}

	now := time.Now()
	reset := (windowIndex(now, window) + 1) * window.Milliseconds()
	return Result{Allowed: true, Limit: limit, Remaining: limit - 1, Reset: reset}, nil
}
