package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubLimiter struct {
	res   Result
	err   error
	calls int
}

func (s *stubLimiter) Allow(ctx context.Context, identifier string, limit int, window time.Duration) (Result, error) {
	s.calls++
	return s.res, s.err
}

func TestTieredLimiterUsesFirstHealthyTier(t *testing.T) {
	primary := &stubLimiter{res: Result{Allowed: true, Limit: 5, Remaining: 4}}
	fallback := &stubLimiter{res: Result{Allowed: true, Limit: 5, Remaining: 2}}
	l := NewTieredLimiter(nil, primary, fallback)

	res, err := l.Allow(context.Background(), "user1", 5, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Remaining != 4 {
		t.Fatalf("expected primary tier result, got remaining %d", res.Remaining)
	}
	if fallback.calls != 0 {
		t.Fatal("healthy primary must short-circuit the fallback")
	}
}

func TestTieredLimiterFallsThroughOnFailure(t *testing.T) {
	primary := &stubLimiter{err: errors.New("connection refused")}
	fallback := &stubLimiter{res: Result{Allowed: true, Limit: 5, Remaining: 3}}
	l := NewTieredLimiter(nil, primary, fallback)

	res, err := l.Allow(context.Background(), "user1", 5, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Remaining != 3 {
		t.Fatalf("expected fallback tier result, got remaining %d", res.Remaining)
	}
	if primary.calls != 1 || fallback.calls != 1 {
		t.Fatalf("expected both tiers tried once, got %d and %d", primary.calls, fallback.calls)
	}
}

func TestTieredLimiterDenialIsNotAFailure(t *testing.T) {
	primary := &stubLimiter{res: Result{Allowed: false, Limit: 5, Remaining: 0, RetryAfter: 30}}
	fallback := &stubLimiter{res: Result{Allowed: true, Limit: 5, Remaining: 4}}
	l := NewTieredLimiter(nil, primary, fallback)

	res, err := l.Allow(context.Background(), "user1", 5, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Allowed {
		t.Fatal("a denial from a healthy tier must stand")
	}
	if fallback.calls != 0 {
		t.Fatal("a denial must not be retried on the next tier")
	}
}

func TestTieredLimiterFailsOpen(t *testing.T) {
	first := &stubLimiter{err: errors.New("redis down")}
	second := &stubLimiter{err: errors.New("postgres down")}
	l := NewTieredLimiter(nil, first, second)

	res, err := l.Allow(context.Background(), "user1", 5, time.Minute)
	if err != nil {
		t.Fatalf("fail open must not surface an error: %v", err)
	}
	if !res.Allowed {
		t.Fatal("all tiers failing must allow the request")
	}
	if res.Limit != 5 || res.Remaining != 4 {
		t.Fatalf("expected nominal headers on fail open, got %+v", res)
	}
}
