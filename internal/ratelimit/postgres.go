package ratelimit

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PostgresLimiter is the second tier: an atomic increment-and-check done
// by the rate_limit_hit database function inside one transaction. Used
// when the shared redis counter is unavailable but the database is not.
type PostgresLimiter struct {
	db *sql.DB
}

func NewPostgresLimiter(db *sql.DB) *PostgresLimiter {
	return &PostgresLimiter{db: db}
}

func (l *PostgresLimiter) Allow(ctx context.Context, identifier string, limit int, window time.Duration) (Result, error) {
	now := time.Now()
	key := fmt.Sprintf("%s:%d", identifier, windowIndex(now, window))

	var count int64
	err := l.db.QueryRowContext(ctx,
		"SELECT rate_limit_hit($1, $2, $3)",
		key, limit, window.Milliseconds(),
	).Scan(&count)
	if err != nil {
		return Result{}, fmt.Errorf("postgres rate limit: %w", err)
	}

	return windowResult(count, limit, now, window), nil
}
