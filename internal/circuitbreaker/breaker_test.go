package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreaker_StaysClosedOnSuccess(t *testing.T) {
	b := New(Config{FailureThreshold: 3, SuccessThreshold: 1, Timeout: time.Minute})
	for i := 0; i < 5; i++ {
		err := b.Execute(func() error { return nil })
		require.NoError(t, err)
	}
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_TripsAfterThreshold(t *testing.T) {
	b := New(Config{FailureThreshold: 3, SuccessThreshold: 1, Timeout: time.Minute})
	failing := errors.New("boom")
	for i := 0; i < 3; i++ {
		_ = b.Execute(func() error { return failing })
	}
	assert.Equal(t, StateOpen, b.State())

	err := b.Execute(func() error { return nil })
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestBreaker_HalfOpenAfterTimeoutThenCloses(t *testing.T) {
	b := New(Config{FailureThreshold: 1, SuccessThreshold: 2, Timeout: 10 * time.Millisecond})
	_ = b.Execute(func() error { return errors.New("boom") })
	assert.Equal(t, StateOpen, b.State())

	time.Sleep(15 * time.Millisecond)

	require.NoError(t, b.Execute(func() error { return nil }))
	assert.Equal(t, StateHalfOpen, b.State())

	require.NoError(t, b.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	b := New(Config{FailureThreshold: 1, SuccessThreshold: 2, Timeout: 10 * time.Millisecond})
	_ = b.Execute(func() error { return errors.New("boom") })
	time.Sleep(15 * time.Millisecond)

	err := b.Execute(func() error { return errors.New("still failing") })
	require.Error(t, err)
	assert.Equal(t, StateOpen, b.State())
}

func TestBreaker_OnStateChangeCallback(t *testing.T) {
	var transitions []string
	b := New(Config{
		FailureThreshold: 1,
		SuccessThreshold: 1,
		Timeout:          time.Minute,
		OnStateChange: func(from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})
	_ = b.Execute(func() error { return errors.New("boom") })
	require.Len(t, transitions, 1)
	assert.Equal(t, "closed->open", transitions[0])
}
