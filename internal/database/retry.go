package database

import (
	"context"
	"fmt"
	"time"

	"github.com/artisanexperiences/taproot/internal/driver"
)

// RetryPolicy bounds how long we wait for a server that is reachable but
// not yet accepting connections.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
	MaxBackoff  time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 5,
		Backoff:     100 * time.Millisecond,
		MaxBackoff:  2 * time.Second,
	}
}

// retryConnectErrors runs fn, retrying with doubling backoff while the
// failure is a transient connection error. Anything else returns
// immediately. fn must be idempotent; never wrap create or drop in this.
func retryConnectErrors[T any](ctx context.Context, policy RetryPolicy, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	delay := policy.Backoff
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		if !driver.IsTransient(err) {
			return zero, err
		}
		lastErr = err

		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if policy.MaxBackoff > 0 && delay > policy.MaxBackoff {
			delay = policy.MaxBackoff
		}
	}

	return zero, fmt.Errorf("giving up after %d attempts: %w", attempts, lastErr)
}
