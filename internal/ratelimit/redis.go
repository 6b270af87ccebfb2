package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is the durable shared counter tier. It is the only tier
// that counts correctly across horizontally-scaled instances, so it is
// tried first.
type RedisLimiter struct {
	rdb *redis.Client
}

func NewRedisLimiter(rdb *redis.Client) *RedisLimiter {
	return &RedisLimiter{rdb: rdb}
}

func redisKey(identifier string, window int64) string {
	return fmt.Sprintf("rate_limit:%s:%d", identifier, window)
}

func (l *RedisLimiter) Allow(ctx context.Context, identifier string, limit int, window time.Duration) (Result, error) {
	now := time.Now()
	key := redisKey(identifier, windowIndex(now, window))

	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return Result{}, fmt.Errorf("redis rate limit: %w", err)
	}
	if count == 1 {
		// First hit of the window owns the expiry. The key outlives the
		// window slightly so late readers still see the final count.
		if err := l.rdb.Expire(ctx, key, window+time.Second).Err(); err != nil {
			return Result{}, fmt.Errorf("redis rate limit expire: %w", err)
		}
	}

	return windowResult(count, limit, now, window), nil
}
