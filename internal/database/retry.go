package database

import (
	"context"
	"fmt"
	"time"
)

// retryBaseDelay is the delay before the first retry. It doubles on
// each subsequent attempt.
const retryBaseDelay = 100 * time.Millisecond

// WithRetry runs op, retrying up to limit additional times with doubling
// backoff. A canceled context aborts the wait between attempts. The last
// error is returned when all attempts fail.
func WithRetry(ctx context.Context, limit int, op func(ctx context.Context) error) error {
	if limit < 0 {
		limit = 0
	}

	var err error
	delay := retryBaseDelay
	for attempt := 0; attempt <= limit; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
			delay *= 2
		}

		if err = op(ctx); err == nil {
			return nil
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", limit+1, err)
}
