package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/goran-ethernal/StateIndexor/internal/common"
	"github.com/goran-ethernal/StateIndexor/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockNetError implements net.Error for testing
type mockNetError struct {
	msg     string
	timeout bool
}

func (e *mockNetError) Error() string   { return e.msg }
func (e *mockNetError) Timeout() bool   { return e.timeout }
func (e *mockNetError) Temporary() bool { return false }

func fastConfig(attempts int) *config.RetryConfig {
	return &config.RetryConfig{
		MaxAttempts:       attempts,
		InitialBackoff:    common.NewDuration(time.Millisecond),
		MaxBackoff:        common.NewDuration(5 * time.Millisecond),
		BackoffMultiplier: 2.0,
	}
}

func TestIsTransientNetwork(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{name: "nil error", err: nil, retryable: false},
		{name: "network timeout error", err: &mockNetError{msg: "network timeout", timeout: true}, retryable: true},
		{name: "connection refused", err: syscall.ECONNREFUSED, retryable: true},
		{name: "connection reset", err: syscall.ECONNRESET, retryable: true},
		{name: "broken pipe", err: syscall.EPIPE, retryable: true},
		{name: "wrapped connection refused", err: fmt.Errorf("dial: %w", syscall.ECONNREFUSED), retryable: true},
		{name: "net.OpError", err: &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}, retryable: true},
		{name: "timeout string", err: errors.New("operation timeout"), retryable: true},
		{name: "context deadline exceeded", err: context.DeadlineExceeded, retryable: true},
		{name: "rate limit 429", err: errors.New("HTTP 429"), retryable: true},
		{name: "503 service unavailable", err: errors.New("503 Service Unavailable"), retryable: true},
		{name: "node warming up", err: errors.New("-28: Loading block index..."), retryable: true},
		{name: "invalid parameter", err: errors.New("invalid parameter"), retryable: false},
		{name: "authentication failed", err: errors.New("401 Unauthorized"), retryable: false},
		{name: "bad request", err: errors.New("400 Bad Request"), retryable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, IsTransientNetwork(tt.err))
		})
	}
}

func TestBackoff(t *testing.T) {
	cfg := &config.RetryConfig{
		InitialBackoff:    common.NewDuration(1 * time.Second),
		MaxBackoff:        common.NewDuration(30 * time.Second),
		BackoffMultiplier: 2.0,
	}

	tests := []struct {
		attempt int
		min     time.Duration
		max     time.Duration
	}{
		{attempt: 1, min: 0, max: 0},
		{attempt: 2, min: 750 * time.Millisecond, max: 1250 * time.Millisecond},
		{attempt: 3, min: 1500 * time.Millisecond, max: 2500 * time.Millisecond},
		{attempt: 4, min: 3 * time.Second, max: 5 * time.Second},
		{attempt: 5, min: 6 * time.Second, max: 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt %d", tt.attempt), func(t *testing.T) {
			for range 10 {
				backoff := Backoff(tt.attempt, cfg)
				assert.GreaterOrEqual(t, backoff, tt.min)
				assert.LessOrEqual(t, backoff, tt.max)
			}
		})
	}
}

func TestBackoff_CappedAtMax(t *testing.T) {
	cfg := &config.RetryConfig{
		InitialBackoff:    common.NewDuration(1 * time.Second),
		MaxBackoff:        common.NewDuration(5 * time.Second),
		BackoffMultiplier: 2.0,
	}

	assert.LessOrEqual(t, Backoff(10, cfg), 6250*time.Millisecond)
}

func TestDo(t *testing.T) {
	errPermanent := errors.New("invalid parameter")
	errTransient := &mockNetError{msg: "temporary error", timeout: true}

	tests := []struct {
		name          string
		cfg           *config.RetryConfig
		failures      int
		failWith      error
		expectedCalls int
		expectedErr   string
	}{
		{
			name:          "success on first attempt",
			cfg:           fastConfig(3),
			expectedCalls: 1,
		},
		{
			name:          "success after retries",
			cfg:           fastConfig(5),
			failures:      2,
			failWith:      errTransient,
			expectedCalls: 3,
		},
		{
			name:          "non-retryable",
			cfg:           fastConfig(5),
			failures:      10,
			failWith:      errPermanent,
			expectedCalls: 1,
			expectedErr:   "non-retryable error",
		},
		{
			name:          "exhausted",
			cfg:           fastConfig(3),
			failures:      10,
			failWith:      errTransient,
			expectedCalls: 3,
			expectedErr:   "all 3 attempts failed",
		},
		{
			name:          "nil config runs once",
			cfg:           nil,
			failures:      10,
			failWith:      errTransient,
			expectedCalls: 1,
			expectedErr:   "temporary error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Do(context.Background(), tt.cfg, "op", nil, func() error {
				calls++
				if calls <= tt.failures {
					return tt.failWith
				}
				return nil
			})

			require.Equal(t, tt.expectedCalls, calls)
			if tt.expectedErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.expectedErr)
			require.ErrorIs(t, err, tt.failWith)
		})
	}
}

func TestDo_CustomClassifier(t *testing.T) {
	errUnavailable := errors.New("upstream unavailable")

	calls := 0
	err := New(fastConfig(4), func(err error) bool { return errors.Is(err, errUnavailable) }).
		Do(context.Background(), "catch_up", func() error {
			calls++
			if calls < 4 {
				return errUnavailable
			}
			return nil
		})

	require.NoError(t, err)
	require.Equal(t, 4, calls)
}

func TestDo_OnRetryHook(t *testing.T) {
	var attempts []int

	r := New(fastConfig(3), nil).OnRetry(func(operation string, attempt int, err error) {
		require.Equal(t, "fetch", operation)
		require.Error(t, err)
		attempts = append(attempts, attempt)
	})

	err := r.Do(context.Background(), "fetch", func() error {
		return &mockNetError{msg: "timeout", timeout: true}
	})

	require.Error(t, err)
	require.Equal(t, []int{2, 3}, attempts)
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := Do(ctx, fastConfig(5), "op", nil, func() error {
		calls++
		if calls == 2 {
			cancel()
		}
		return &mockNetError{msg: "temporary error", timeout: true}
	})

	require.ErrorContains(t, err, "context cancelled")
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 2, calls)
}

func TestDo_ContextDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	cfg := &config.RetryConfig{
		MaxAttempts:       10,
		InitialBackoff:    common.NewDuration(100 * time.Millisecond),
		MaxBackoff:        common.NewDuration(1 * time.Second),
		BackoffMultiplier: 2.0,
	}

	calls := 0
	err := Do(ctx, cfg, "op", nil, func() error {
		calls++
		return &mockNetError{msg: "temporary error", timeout: true}
	})

	require.ErrorContains(t, err, "context")
	require.Less(t, calls, 10)
}
