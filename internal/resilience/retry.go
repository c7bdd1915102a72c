// Package resilience retries transient failures of backend calls.
package resilience

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// Policy defines the retry behavior for an operation.
type Policy struct {
	// MaxRetries is the number of retries after the initial call.
	MaxRetries int `yaml:"max_retries"`

	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration `yaml:"base_delay"`

	// MaxDelay caps the delay between retries. Equal to BaseDelay for a
	// fixed delay.
	MaxDelay time.Duration `yaml:"max_delay"`

	// UseJitter scales each delay by a random factor in [0.5, 1.5).
	UseJitter bool `yaml:"use_jitter"`

	// OnRetry, when set, is called before each retry with the attempt that
	// just failed (starting at 1) and its error.
	OnRetry func(attempt int, err error) `yaml:"-"`
}

// OrgUnitPolicy is used for the organisational unit lookups: two retries one
// second apart.
var OrgUnitPolicy = Policy{
	MaxRetries: 2,
	BaseDelay:  time.Second,
	MaxDelay:   time.Second,
}

// permanent is implemented by errors that must not be retried.
type permanent interface {
	Permanent() bool
}

type permanentError struct{ err error }

func (e *permanentError) Error() string   { return e.err.Error() }
func (e *permanentError) Unwrap() error   { return e.err }
func (e *permanentError) Permanent() bool { return true }

// Permanent marks err so Retry returns it without further attempts.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Retry runs fn until it succeeds, returns a non-retryable error, or the
// policy is exhausted. The error of the last attempt is returned.
func Retry(ctx context.Context, policy Policy, fn func(context.Context) error) error {
	var lastErr error
	maxAttempts := max(policy.MaxRetries, 0) + 1

	for attempt := range maxAttempts {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return lastErr
			}
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !IsRetryable(err) || attempt == maxAttempts-1 {
			return err
		}
		if policy.OnRetry != nil {
			policy.OnRetry(attempt+1, err)
		}

		timer := time.NewTimer(CalculateBackoff(attempt, policy.BaseDelay, policy.MaxDelay, policy.UseJitter))
		select {
		case <-ctx.Done():
			timer.Stop()
			return lastErr
		case <-timer.C:
		}
	}

	return lastErr
}

// CalculateBackoff returns baseDelay * 2^attempt, capped at maxDelay.
func CalculateBackoff(attempt int, baseDelay, maxDelay time.Duration, useJitter bool) time.Duration {
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}
	if maxDelay <= 0 {
		maxDelay = 30 * time.Second
	}

	delay := baseDelay
	for range attempt {
		delay *= 2
		if delay > maxDelay {
			delay = maxDelay
			break
		}
	}

	if useJitter {
		delay = time.Duration(float64(delay) * (0.5 + rand.Float64()))
	}

	return min(delay, maxDelay)
}

// IsRetryable reports whether err may succeed on another attempt. Context
// errors and errors marked permanent are not retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var p permanent
	if errors.As(err, &p) && p.Permanent() {
		return false
	}
	return true
}
