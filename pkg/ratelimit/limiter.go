package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter defines the interface for rate limiting
type Limiter interface {
	// Wait blocks until a request may proceed or ctx is done
	Wait(ctx context.Context) error
}

// FixedDelay is the pause a source takes after each successful request
type FixedDelay struct {
	delay time.Duration
}

// NewFixedDelay creates a FixedDelay that pauses for delay
func NewFixedDelay(delay time.Duration) *FixedDelay {
	return &FixedDelay{delay: delay}
}

// Delay returns the configured gap
func (fd *FixedDelay) Delay() time.Duration {
	return fd.delay
}

// Cooldown sleeps the full delay unconditionally. It is used after a
// successful request so the caller's outbound rate stays bounded.
func (fd *FixedDelay) Cooldown(ctx context.Context) error {
	if fd.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(fd.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TokenBucket caps the request rate using golang.org/x/time/rate
type TokenBucket struct {
	limiter *rate.Limiter
}

// NewTokenBucket allows requestsPerMinute requests per minute with the given burst
func NewTokenBucket(requestsPerMinute, burst int) *TokenBucket {
	if burst < 1 {
		burst = 1
	}
	return &TokenBucket{
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), burst),
	}
}

// Wait blocks until a token is available
func (tb *TokenBucket) Wait(ctx context.Context) error {
	return tb.limiter.Wait(ctx)
}

// Unlimited admits every request
type Unlimited struct{}

func (Unlimited) Wait(ctx context.Context) error { return ctx.Err() }

// New returns a TokenBucket for a positive requestsPerMinute, otherwise Unlimited
func New(requestsPerMinute int) Limiter {
	if requestsPerMinute <= 0 {
		return Unlimited{}
	}
	return NewTokenBucket(requestsPerMinute, 1)
}
