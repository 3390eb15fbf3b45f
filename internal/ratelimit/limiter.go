// Package ratelimit enforces a minimum interval between outbound fetches.
//
// One Limiter is shared by the whole run: with multiple crawl workers the
// aggregate fetch rate, not the per-worker rate, respects the configured
// interval. This is a politeness guarantee toward Steam's community
// servers rather than a throughput control.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter grants permits spaced at least an interval apart.
// The zero interval disables pacing entirely.
type Limiter struct {
	interval time.Duration

	// mu guards next. It is held only while reserving a slot, never
	// while sleeping, so a cancelled waiter does not block the others.
	mu   sync.Mutex
	next time.Time
}

// New creates a Limiter with the given minimum interval between permits.
func New(interval time.Duration) *Limiter {
	return &Limiter{interval: interval}
}

// Wait blocks until the caller's turn arrives or the context is cancelled.
// Each successful Wait reserves the next permit slot, so concurrent
// callers are granted permits one interval apart in arrival order.
func (l *Limiter) Wait(ctx context.Context) error {
	if l.interval <= 0 {
		return ctx.Err()
	}

	l.mu.Lock()
	now := time.Now()
	turn := l.next
	if turn.Before(now) {
		turn = now
	}
	l.next = turn.Add(l.interval)
	l.mu.Unlock()

	wait := time.Until(turn)
	if wait <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
