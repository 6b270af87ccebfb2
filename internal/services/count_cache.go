package services

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCountCache keeps estimated result counts in redis. Failures are
// swallowed: a cache miss just means the count is recomputed.
type RedisCountCache struct {
	RDB      *redis.Client
	TTL      time.Duration
	ErrorLog *log.Logger
}

func (c *RedisCountCache) Get(ctx context.Context, key string) (int, bool) {
	if c.RDB == nil {
		return 0, false
	}
	count, err := c.RDB.Get(ctx, key).Int()
	if err == redis.Nil {
		return 0, false
	}
	if err != nil {
		if c.ErrorLog != nil {
			c.ErrorLog.Printf("count cache get %s: %v", key, err)
		}
		return 0, false
	}
	return count, true
}

func (c *RedisCountCache) Set(ctx context.Context, key string, count int) {
	if c.RDB == nil {
		return
	}
	if err := c.RDB.Set(ctx, key, count, c.TTL).Err(); err != nil && c.ErrorLog != nil {
		c.ErrorLog.Printf("count cache set %s: %v", key, err)
	}
}
