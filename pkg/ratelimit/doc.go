// Package ratelimit keeps outbound request rates bounded.
//
// FixedDelay is the unconditional pause a source takes after each
// successful request. TokenBucket wraps golang.org/x/time/rate to cap
// requests per minute and satisfies Limiter along with Unlimited.
//
//	limiter := ratelimit.New(cfg.RateLimit.RequestsPerMinute)
//	if err := limiter.Wait(ctx); err != nil {
//		return err
//	}
package ratelimit
