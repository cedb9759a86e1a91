package retry

import (
	"context"
	"time"
)

// ExponentialBackoff doubles the delay after each failure.
// There is no jitter, so the schedule is fully deterministic.
type ExponentialBackoff struct {
	// BaseDelay is the pause after the first failure
	BaseDelay time.Duration
}

// NextDelay returns BaseDelay * 2^attempt.
// attempt is zero-based: 0 is the pause after the first failure.
func (eb ExponentialBackoff) NextDelay(attempt int) time.Duration {
	if attempt < 0 {
		return 0
	}
	return eb.BaseDelay << uint(attempt)
}

// Wait waits for the specified duration or until context is cancelled
func Wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
