package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(attempts int) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: attempts,
		Backoff:     time.Millisecond,
		MaxBackoff:  4 * time.Millisecond,
	}
}

func TestRetryConnectErrors(t *testing.T) {
	t.Run("returns the result on first success", func(t *testing.T) {
		calls := 0
		got, err := retryConnectErrors(context.Background(), fastPolicy(5), func(ctx context.Context) (bool, error) {
			calls++
			return true, nil
		})
		require.NoError(t, err)
		assert.True(t, got)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries transient failures and succeeds on the third attempt", func(t *testing.T) {
		calls := 0
		got, err := retryConnectErrors(context.Background(), fastPolicy(5), func(ctx context.Context) (bool, error) {
			calls++
			if calls < 3 {
				return false, errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
			}
			return true, nil
		})
		require.NoError(t, err)
		assert.True(t, got)
		assert.Equal(t, 3, calls)
	})

	t.Run("returns non-transient failures immediately after one attempt", func(t *testing.T) {
		calls := 0
		_, err := retryConnectErrors(context.Background(), fastPolicy(5), func(ctx context.Context) (string, error) {
			calls++
			return "", errors.New("permission denied for database")
		})
		assert.ErrorContains(t, err, "permission denied")
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after the attempt ceiling", func(t *testing.T) {
		calls := 0
		_, err := retryConnectErrors(context.Background(), fastPolicy(4), func(ctx context.Context) (int, error) {
			calls++
			return 0, errors.New("connection refused")
		})
		assert.ErrorContains(t, err, "giving up after 4 attempts")
		assert.ErrorContains(t, err, "connection refused")
		assert.Equal(t, 4, calls)
	})

	t.Run("treats a zero-attempt policy as one attempt", func(t *testing.T) {
		calls := 0
		_, err := retryConnectErrors(context.Background(), RetryPolicy{}, func(ctx context.Context) (int, error) {
			calls++
			return 0, errors.New("connection refused")
		})
		assert.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("stops when the context is cancelled between attempts", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		policy := RetryPolicy{MaxAttempts: 10, Backoff: 50 * time.Millisecond}

		_, err := retryConnectErrors(ctx, policy, func(ctx context.Context) (int, error) {
			calls++
			cancel()
			return 0, errors.New("connection refused")
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}
