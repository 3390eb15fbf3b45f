package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"
)

// TestLimiterWait tests permit pacing.
func TestLimiterWait(t *testing.T) {
	t.Parallel()

	t.Run("first permit is immediate", func(t *testing.T) {
		t.Parallel()

		l := New(100 * time.Millisecond)
		start := time.Now()
		if err := l.Wait(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
			t.Errorf("first permit should not block, took %v", elapsed)
		}
	})

	t.Run("subsequent permits are spaced by the interval", func(t *testing.T) {
		t.Parallel()

		interval := 50 * time.Millisecond
		l := New(interval)

		start := time.Now()
		for i := 0; i < 3; i++ {
			if err := l.Wait(context.Background()); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		// Three permits means two full intervals of spacing.
		if elapsed := time.Since(start); elapsed < 2*interval {
			t.Errorf("three permits took %v, expected at least %v", elapsed, 2*interval)
		}
	})

	t.Run("serializes permits across concurrent callers", func(t *testing.T) {
		t.Parallel()

		interval := 30 * time.Millisecond
		l := New(interval)

		const callers = 4
		var wg sync.WaitGroup
		start := time.Now()
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = l.Wait(context.Background())
			}()
		}
		wg.Wait()

		// Four permits means three intervals of aggregate spacing.
		if elapsed := time.Since(start); elapsed < 3*interval {
			t.Errorf("aggregate rate too fast: %v for %d permits", elapsed, callers)
		}
	})

	t.Run("zero interval never blocks", func(t *testing.T) {
		t.Parallel()

		l := New(0)
		start := time.Now()
		for i := 0; i < 100; i++ {
			if err := l.Wait(context.Background()); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
			t.Errorf("zero-interval limiter blocked for %v", elapsed)
		}
	})

	t.Run("honors context cancellation while waiting", func(t *testing.T) {
		t.Parallel()

		l := New(time.Hour)
		_ = l.Wait(context.Background()) // consume the immediate permit

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		start := time.Now()
		err := l.Wait(ctx)
		if err == nil {
			t.Fatal("expected a context error")
		}
		if elapsed := time.Since(start); elapsed > time.Second {
			t.Errorf("cancellation took too long: %v", elapsed)
		}
	})
}
