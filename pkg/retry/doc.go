// Package retry runs fallible operations with bounded retries and a
// deterministic exponential backoff.
//
// An operation that keeps failing is invoked MaxRetries+1 times in total.
// The pause after failed attempt a (zero-based) is BaseDelay * 2^a.
//
//	fetch := retry.WithRetry(func(ctx context.Context) ([]byte, error) {
//		return client.Get(ctx, pageURL)
//	}, retry.Policy{MaxRetries: 3, BaseDelay: 2 * time.Second, Name: "follower page"})
//
//	body, err := fetch(ctx)
//
// Cancelling ctx aborts both a running wait and any further attempts.
package retry
