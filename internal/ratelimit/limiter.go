package ratelimit

import (
	"context"
	"time"
)

// Result is the outcome of a quota check. Reset is unix milliseconds;
// RetryAfter is whole seconds until the window rolls over (0 when allowed).
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	Reset      int64
	RetryAfter int
}

// Limiter counts a hit for the identifier inside the current fixed window
// and reports whether it stays within the limit. A non-nil error means the
// limiter's own infrastructure failed, not that the quota was exceeded.
type Limiter interface {
	Allow(ctx context.Context, identifier string, limit int, window time.Duration) (Result, error)
}

// windowIndex returns the fixed-window number for the given instant.
func windowIndex(now time.Time, window time.Duration) int64 {
	return now.UnixMilli() / window.Milliseconds()
}

// windowResult builds a Result from a post-increment count.
func windowResult(count int64, limit int, now time.Time, window time.Duration) Result {
	reset := (windowIndex(now, window) + 1) * window.Milliseconds()
	if count > int64(limit) {
		retryAfter := int((reset - now.UnixMilli()) / 1000)
		if retryAfter < 1 {
			retryAfter = 1
		}
		return Result{Allowed: false, Limit: limit, Remaining: 0, Reset: reset, RetryAfter: retryAfter}
	}
	return Result{Allowed: true, Limit: limit, Remaining: limit - int(count), Reset: reset}
}
