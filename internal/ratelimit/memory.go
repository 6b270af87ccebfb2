package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter is the last-resort in-process tier. Each instance keeps
// its own counters, so in a horizontally-scaled deployment the effective
// limit becomes limit x instance count. Acceptable only outside
// production; the tiered limiter refuses to register it there.
type MemoryLimiter struct {
	mu       sync.Mutex
	counters map[string]*memoryWindow
}

type memoryWindow struct {
	window int64
	count  int64
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{counters: make(map[string]*memoryWindow)}
}

func (l *MemoryLimiter) Allow(ctx context.Context, identifier string, limit int, window time.Duration) (Result, error) {
	now := time.Now()
	idx := windowIndex(now, window)

	l.mu.Lock()
	w, ok := l.counters[identifier]
	if !ok || w.window != idx {
		w = &memoryWindow{window: idx}
		l.counters[identifier] = w
	}
	w.count++
	count := w.count
	if len(l.counters) > 10000 {
		l.evictStale(idx)
	}
	l.mu.Unlock()

	return windowResult(count, limit, now, window), nil
}

// evictStale drops counters from past windows. Caller holds the lock.
func (l *MemoryLimiter) evictStale(current int64) {
	for key, w := range l.counters {
		if w.window < current {
			delete(l.counters, key)
		}
	}
}
