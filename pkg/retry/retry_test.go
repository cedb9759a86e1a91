package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gametracker/pkg/logger"
)

func failing(calls *int, err error) Operation[string] {
	return func(ctx context.Context) (string, error) {
		*calls++
		return "", err
	}
}

func TestExponentialBackoff(t *testing.T) {
	backoff := ExponentialBackoff{BaseDelay: 100 * time.Millisecond}

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{-1, 0},
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 400 * time.Millisecond},
		{3, 800 * time.Millisecond},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, backoff.NextDelay(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestSucceedsAfterKFailures(t *testing.T) {
	for k := 0; k <= 3; k++ {
		calls := 0
		op := WithRetry(func(ctx context.Context) (string, error) {
			calls++
			if calls <= k {
				return "", errors.New("temporary error")
			}
			return "ok", nil
		}, Policy{MaxRetries: 3, BaseDelay: time.Millisecond, Name: "test"})

		result, err := op(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "ok", result)
		assert.Equal(t, k+1, calls, "k=%d", k)
	}
}

func TestAlwaysFailing(t *testing.T) {
	tl := logger.NewTestLogger()
	sentinel := errors.New("persistent error")
	calls := 0

	_, err := DoWithResult(context.Background(), failing(&calls, sentinel),
		Policy{MaxRetries: 3, BaseDelay: time.Millisecond, Name: "page", Logger: tl})

	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 4, calls)
	assert.Len(t, tl.GetMessagesByLevel("WARN"), 3)
	assert.Len(t, tl.GetMessagesByLevel("ERROR"), 1)
}

func TestZeroRetries(t *testing.T) {
	calls := 0
	_, err := DoWithResult(context.Background(), failing(&calls, errors.New("nope")),
		Policy{MaxRetries: 0, BaseDelay: time.Hour})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestBackoffScheduleIsFollowed(t *testing.T) {
	tl := logger.NewTestLogger()
	calls := 0
	_, _ = DoWithResult(context.Background(), failing(&calls, errors.New("fail")),
		Policy{MaxRetries: 3, BaseDelay: time.Millisecond, Logger: tl})

	warns := tl.GetMessagesByLevel("WARN")
	require.Len(t, warns, 3)
	assert.Equal(t, time.Millisecond, warns[0].Fields["delay"])
	assert.Equal(t, 2*time.Millisecond, warns[1].Fields["delay"])
	assert.Equal(t, 4*time.Millisecond, warns[2].Fields["delay"])
}

func TestContextCancelledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	done := make(chan error, 1)
	go func() {
		_, err := WithRetry(failing(&calls, errors.New("fail")),
			Policy{MaxRetries: 5, BaseDelay: time.Hour})(ctx)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	case <-time.After(2 * time.Second):
		t.Fatal("retry did not observe cancellation")
	}
}

func TestCancelledContextIsNotRetried(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	_, err := DoWithResult(ctx, func(ctx context.Context) (int, error) {
		calls++
		cancel()
		return 0, ctx.Err()
	}, Policy{MaxRetries: 3, BaseDelay: time.Millisecond})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestWait(t *testing.T) {
	assert.NoError(t, Wait(context.Background(), 0))
	assert.NoError(t, Wait(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Wait(ctx, time.Hour), context.Canceled)
}
