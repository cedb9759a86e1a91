package retry

import (
	"context"
	"fmt"
	"time"

	"gametracker/pkg/logger"
)

// Operation is a fallible unit of work that may be retried
type Operation[T any] func(ctx context.Context) (T, error)

// Policy controls how an operation is retried
type Policy struct {
	// MaxRetries is the number of retries after the first attempt
	MaxRetries int
	// BaseDelay is the pause after the first failure; it doubles on each retry
	BaseDelay time.Duration
	// Name identifies the operation in log output
	Name string
	// Logger receives one warning per retried failure and one error on exhaustion
	Logger logger.Logger
}

// WithRetry wraps op so that every call is retried according to p.
// The returned function has the same signature as op.
func WithRetry[T any](op Operation[T], p Policy) Operation[T] {
	return func(ctx context.Context) (T, error) {
		return DoWithResult(ctx, op, p)
	}
}

// DoWithResult executes op up to MaxRetries+1 times and returns the first success.
// Cancellation of ctx stops the loop immediately and is never retried.
func DoWithResult[T any](ctx context.Context, op Operation[T], p Policy) (T, error) {
	var zero T
	log := logger.OrNop(p.Logger)
	backoff := ExponentialBackoff{BaseDelay: p.BaseDelay}
	maxRetries := p.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := op(ctx)
		if err == nil {
			if attempt > 0 {
				log.DebugWithFields("operation succeeded after retry", map[string]interface{}{
					"operation": p.Name,
					"attempt":   attempt + 1,
				})
			}
			return result, nil
		}

		// A cancelled caller is not a transient failure
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}

		if attempt >= maxRetries {
			log.ErrorWithFields("max retry attempts exceeded", map[string]interface{}{
				"operation": p.Name,
				"attempts":  attempt + 1,
				"error":     err.Error(),
			})
			return zero, fmt.Errorf("%s failed after %d attempts: %w", p.Name, attempt+1, err)
		}

		delay := backoff.NextDelay(attempt)
		log.WarnWithFields("retrying operation", map[string]interface{}{
			"operation": p.Name,
			"attempt":   attempt + 1,
			"error":     err.Error(),
			"delay":     delay,
		})

		if err := Wait(ctx, delay); err != nil {
			return zero, err
		}
	}
}
