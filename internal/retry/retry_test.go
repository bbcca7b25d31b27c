package retry

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_SucceedsOnFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), DefaultConfig(), func(attempt int) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesRetryableError(t *testing.T) {
	calls := 0
	cfg := Config{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2,
		IsRetryable:  func(error) bool { return true },
		Rand:         rand.New(rand.NewSource(1)),
	}
	err := Do(context.Background(), cfg, func(attempt int) error {
		calls++
		if attempt < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_NonRetryableFailsImmediately(t *testing.T) {
	calls := 0
	cfg := DefaultConfig()
	cfg.IsRetryable = func(error) bool { return false }
	err := Do(context.Background(), cfg, func(attempt int) error {
		calls++
		return errors.New("permanent")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	cfg := Config{
		MaxAttempts:  2,
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
		Multiplier:   2,
		IsRetryable:  func(error) bool { return true },
		Rand:         rand.New(rand.NewSource(1)),
	}
	calls := 0
	err := Do(context.Background(), cfg, func(attempt int) error {
		calls++
		return errors.New("always fails")
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMaxAttemptsExceeded)
	assert.Equal(t, 2, calls)
}

func TestDo_HonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Do(ctx, DefaultConfig(), func(attempt int) error {
		t.Fatal("fn should not be called after cancellation")
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestDefaultIsRetryable(t *testing.T) {
	assert.True(t, DefaultIsRetryable(errors.New("connection refused")))
	assert.True(t, DefaultIsRetryable(errors.New("received 503 from upstream")))
	assert.False(t, DefaultIsRetryable(errors.New("invalid api key")))
	assert.False(t, DefaultIsRetryable(nil))
}
