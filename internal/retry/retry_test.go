package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBusy = errors.New("busy")

func isBusy(err error) bool { return errors.Is(err, errBusy) }

func fastPolicy(t *testing.T, attempts int) Policy {
	t.Helper()
	p, err := New(
		WithMaxAttempts(attempts),
		WithBaseDelay(time.Millisecond),
		WithMaxDelay(2*time.Millisecond),
		WithJitterFactor(0),
		WithRetryable(isBusy),
	)
	require.NoError(t, err)
	return p
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want error
	}{
		{name: "zero attempts", opts: []Option{WithMaxAttempts(0)}, want: ErrInvalidMaxAttempts},
		{name: "negative base", opts: []Option{WithBaseDelay(-time.Second)}, want: ErrNegativeBaseDelay},
		{name: "jitter too big", opts: []Option{WithJitterFactor(1.5)}, want: ErrInvalidJitterFactor},
		{name: "max below base", opts: []Option{WithBaseDelay(time.Second), WithMaxDelay(time.Millisecond)}, want: ErrInvalidMaxDelay},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts...)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	p, err := New()
	require.NoError(t, err)
	assert.Equal(t, 3, p.MaxAttempts)
	assert.Equal(t, 20*time.Millisecond, p.BaseDelay)
}

func TestBackoff(t *testing.T) {
	p := Policy{MaxAttempts: 6, BaseDelay: 10 * time.Millisecond, MaxDelay: 50 * time.Millisecond}

	assert.Equal(t, time.Duration(0), p.Backoff(0))
	assert.Equal(t, 10*time.Millisecond, p.Backoff(1))
	assert.Equal(t, 20*time.Millisecond, p.Backoff(2))
	assert.Equal(t, 40*time.Millisecond, p.Backoff(3))
	assert.Equal(t, 50*time.Millisecond, p.Backoff(4))
	assert.Equal(t, 50*time.Millisecond, p.Backoff(60))
}

func TestDoRetriesTransientErrors(t *testing.T) {
	calls := 0
	attempts, err := Do(context.Background(), fastPolicy(t, 3), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errBusy
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, calls)
}

func TestDoGivesUp(t *testing.T) {
	calls := 0
	attempts, err := Do(context.Background(), fastPolicy(t, 2), func(ctx context.Context) error {
		calls++
		return errBusy
	})
	assert.ErrorIs(t, err, errBusy)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, 2, calls)
}

func TestDoFailsFastOnPermanentError(t *testing.T) {
	permanent := errors.New("permanent")
	calls := 0
	attempts, err := Do(context.Background(), fastPolicy(t, 5), func(ctx context.Context) error {
		calls++
		return permanent
	})
	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, calls)
}

func TestDoStopsOnContextCancel(t *testing.T) {
	p, err := New(WithMaxAttempts(5), WithBaseDelay(time.Second), WithMaxDelay(time.Second), WithRetryable(isBusy))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	attempts, err := Do(ctx, p, func(ctx context.Context) error {
		calls++
		cancel()
		return errBusy
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, calls)
}

func TestDoRejectsInvalidPolicy(t *testing.T) {
	_, err := Do(context.Background(), Policy{}, func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
}
