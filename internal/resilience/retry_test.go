package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_SucceedsFirstTry(t *testing.T) {
	calls := 0
	val, err := Do(context.Background(), RetryConfig{}, func(context.Context) (string, error) {
		calls++
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", val)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	val, err := Do(context.Background(), RetryConfig{
		MaxAttempts:    5,
		InitialBackoff: time.Millisecond,
	}, func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, eris.New("flaky")
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, val)
	assert.Equal(t, 3, calls)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
	}, func(context.Context) (int, error) {
		calls++
		return 0, eris.New("always fails")
	})

	require.Error(t, err)
	assert.ErrorContains(t, err, "always fails")
	assert.Equal(t, 3, calls)
}

func TestDo_ShouldRetryStops(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), RetryConfig{
		MaxAttempts:    5,
		InitialBackoff: time.Millisecond,
		ShouldRetry:    func(error) bool { return false },
	}, func(context.Context) (int, error) {
		calls++
		return 0, eris.New("permanent")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelStopsRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := Do(ctx, RetryConfig{
		MaxAttempts:    10,
		InitialBackoff: time.Millisecond,
	}, func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, eris.New("failed once")
	})

	require.Error(t, err)
	assert.ErrorContains(t, err, "failed once")
	assert.Equal(t, 1, calls)
}

func TestDo_OnRetryCallback(t *testing.T) {
	var attempts []int
	_, _ = Do(context.Background(), RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		OnRetry: func(attempt int, err error) {
			attempts = append(attempts, attempt)
		},
	}, func(context.Context) (int, error) {
		return 0, eris.New("nope")
	})

	assert.Equal(t, []int{1, 2}, attempts)
}

func TestBackoff_Doubles(t *testing.T) {
	cfg := RetryConfig{InitialBackoff: time.Second, MaxBackoff: time.Minute}

	assert.Equal(t, time.Second, Backoff(0, cfg))
	assert.Equal(t, 2*time.Second, Backoff(1, cfg))
	assert.Equal(t, 4*time.Second, Backoff(2, cfg))
	assert.Equal(t, 8*time.Second, Backoff(3, cfg))
}

func TestBackoff_Capped(t *testing.T) {
	cfg := RetryConfig{InitialBackoff: time.Second, MaxBackoff: 5 * time.Second}
	assert.Equal(t, 5*time.Second, Backoff(10, cfg))
}

func TestBackoff_Jitter(t *testing.T) {
	cfg := RetryConfig{InitialBackoff: time.Second, MaxBackoff: time.Minute, JitterFraction: 0.5}
	for range 20 {
		d := Backoff(1, cfg)
		assert.GreaterOrEqual(t, d, time.Second)
		assert.LessOrEqual(t, d, 3*time.Second)
	}
}
