// Package retry runs operations with exponential backoff and jitter.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/goran-ethernal/StateIndexor/pkg/config"
)

// Classifier reports whether an error is worth another attempt.
type Classifier func(err error) bool

// Retrier retries an operation according to a RetryConfig.
type Retrier struct {
	cfg       *config.RetryConfig
	retryable Classifier
	onRetry   func(operation string, attempt int, err error)
}

// New creates a Retrier. A nil classifier falls back to IsTransientNetwork.
func New(cfg *config.RetryConfig, retryable Classifier) *Retrier {
	if retryable == nil {
		retryable = IsTransientNetwork
	}
	return &Retrier{cfg: cfg, retryable: retryable}
}

// OnRetry registers a hook called before every retry attempt.
func (r *Retrier) OnRetry(fn func(operation string, attempt int, err error)) *Retrier {
	r.onRetry = fn
	return r
}

// Do executes fn until it succeeds, returns a non-retryable error,
// exhausts MaxAttempts or ctx is done. A nil config runs fn once.
// The returned error wraps the last error returned by fn.
func (r *Retrier) Do(ctx context.Context, operation string, fn func() error) error {
	if r.cfg == nil {
		return fn()
	}

	var lastErr error
	startTime := time.Now()

	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context cancelled before attempt %d: %w", attempt, err)
		}

		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err

		if !r.retryable(err) {
			return fmt.Errorf("non-retryable error on attempt %d/%d: %w", attempt, r.cfg.MaxAttempts, err)
		}

		if attempt >= r.cfg.MaxAttempts {
			break
		}

		if backoff := Backoff(attempt+1, r.cfg); backoff > 0 {
			timer := time.NewTimer(backoff)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("context cancelled during backoff (attempt %d/%d): %w",
					attempt, r.cfg.MaxAttempts, errors.Join(ctx.Err(), lastErr))
			}
		}

		if r.onRetry != nil {
			r.onRetry(operation, attempt+1, lastErr)
		}
	}

	return fmt.Errorf("%s: all %d attempts failed after %v (last error: %w)",
		operation, r.cfg.MaxAttempts, time.Since(startTime), lastErr)
}

// Do is a shorthand for New(cfg, retryable).Do(ctx, operation, fn).
func Do(ctx context.Context, cfg *config.RetryConfig, operation string, retryable Classifier, fn func() error) error {
	return New(cfg, retryable).Do(ctx, operation, fn)
}

// Backoff computes the wait before the given attempt, with ±25% jitter.
// The first attempt never waits.
func Backoff(attempt int, cfg *config.RetryConfig) time.Duration {
	if attempt <= 1 {
		return 0
	}

	backoff := float64(cfg.InitialBackoff.Duration) * math.Pow(cfg.BackoffMultiplier, float64(attempt-2))

	if backoff > float64(cfg.MaxBackoff.Duration) {
		backoff = float64(cfg.MaxBackoff.Duration)
	}

	jitterRange := backoff * 0.25 //nolint:mnd
	jitter := (rand.Float64() * 2 * jitterRange) - jitterRange //nolint:gosec
	backoff += jitter

	if backoff < 0 {
		backoff = 0
	}

	return time.Duration(backoff)
}

// IsTransientNetwork reports network, timeout, rate limit and temporary
// server errors as retryable.
func IsTransientNetwork(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(errStr, marker) {
			return true
		}
	}

	return false
}

var transientMarkers = []string{
	"timeout",
	"deadline exceeded",
	"429",
	"too many requests",
	"rate limit",
	"502",
	"503",
	"504",
	"bad gateway",
	"service unavailable",
	"connection pool",
	"no available connection",
	"connection refused",
	"eof",
	// bitcoind answers -28 while loading the block index
	"-28",
}
