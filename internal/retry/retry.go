// Package retry runs an operation under a bounded exponential backoff policy.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

var (
	// ErrInvalidMaxAttempts is returned when max attempts are not positive.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrNegativeBaseDelay is returned when the base delay is negative.
	ErrNegativeBaseDelay = errors.New("base delay must not be negative")

	// ErrInvalidMaxDelay is returned when the max delay is smaller than the base delay.
	ErrInvalidMaxDelay = errors.New("max delay must not be smaller than base delay")

	// ErrInvalidJitterFactor is returned when the jitter factor is not between 0.0 and 1.0.
	ErrInvalidJitterFactor = errors.New("jitter factor must be between 0.0 and 1.0")
)

// Func is the unit of work being retried.
type Func func(ctx context.Context) error

// Policy describes how many times to attempt an operation and how long to wait in between.
// Only errors accepted by Retryable are retried, everything else fails fast.
type Policy struct {
	MaxAttempts  int
	BaseDelay    time.Duration
	MaxDelay     time.Duration
	JitterFactor float64
	Retryable    func(error) bool
}

// Option configures a Policy.
type Option func(*Policy) error

// New returns a policy with defaults of 3 attempts, 20ms base delay, 500ms cap and 20% jitter.
func New(opts ...Option) (Policy, error) {
	p := Policy{
		MaxAttempts:  3,
		BaseDelay:    20 * time.Millisecond,
		MaxDelay:     500 * time.Millisecond,
		JitterFactor: 0.2,
	}
	for _, opt := range opts {
		if err := opt(&p); err != nil {
			return Policy{}, err
		}
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// WithMaxAttempts sets the total number of attempts, including the first one.
func WithMaxAttempts(n int) Option {
	return func(p *Policy) error {
		if n <= 0 {
			return ErrInvalidMaxAttempts
		}
		p.MaxAttempts = n
		return nil
	}
}

// WithBaseDelay sets the delay before the second attempt.
func WithBaseDelay(d time.Duration) Option {
	return func(p *Policy) error {
		if d < 0 {
			return ErrNegativeBaseDelay
		}
		p.BaseDelay = d
		return nil
	}
}

// WithMaxDelay caps the exponential delay before jitter is added.
func WithMaxDelay(d time.Duration) Option {
	return func(p *Policy) error {
		p.MaxDelay = d
		return nil
	}
}

// WithJitterFactor sets the share of the delay added as random jitter.
func WithJitterFactor(f float64) Option {
	return func(p *Policy) error {
		if f < 0.0 || f > 1.0 {
			return ErrInvalidJitterFactor
		}
		p.JitterFactor = f
		return nil
	}
}

// WithRetryable sets the classifier deciding which errors are worth another attempt.
func WithRetryable(fn func(error) bool) Option {
	return func(p *Policy) error {
		p.Retryable = fn
		return nil
	}
}

// Validate checks the policy fields.
func (p Policy) Validate() error {
	switch {
	case p.MaxAttempts <= 0:
		return ErrInvalidMaxAttempts
	case p.BaseDelay < 0:
		return ErrNegativeBaseDelay
	case p.MaxDelay < p.BaseDelay:
		return ErrInvalidMaxDelay
	case p.JitterFactor < 0.0 || p.JitterFactor > 1.0:
		return ErrInvalidJitterFactor
	}
	return nil
}

// Backoff returns the wait before the given attempt (attempt 1 is the first retry),
// without jitter: min(BaseDelay * 2^(attempt-1), MaxDelay).
func (p Policy) Backoff(attempt int) time.Duration {
	if attempt < 1 || p.BaseDelay == 0 {
		return 0
	}
	delay := p.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= p.MaxDelay || delay <= 0 {
			return p.MaxDelay
		}
	}
	if delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}

// Do runs fn until it succeeds, returns a non-retryable error, the attempts are
// exhausted or ctx is done. It returns the number of attempts made and the last error.
func Do(ctx context.Context, p Policy, fn Func) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := p.Backoff(attempt)
			jitter := time.Duration(rand.Float64() * float64(delay) * p.JitterFactor)
			timer := time.NewTimer(delay + jitter)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return attempt, ctx.Err()
			}
		}
		lastErr = fn(ctx)
		if lastErr == nil {
			return attempt + 1, nil
		}
		if p.Retryable == nil || !p.Retryable(lastErr) {
			return attempt + 1, lastErr
		}
	}
	return p.MaxAttempts, lastErr
}
