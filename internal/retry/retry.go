// Package retry provides bounded retry with a fixed delay for transient
// failures during provisioning.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrMaxAttemptsExceeded is returned when max retry attempts are exceeded.
	ErrMaxAttemptsExceeded = errors.New("max retry attempts exceeded")
	// ErrContextCancelled is returned when the context is cancelled during retry.
	ErrContextCancelled = errors.New("context cancelled during retry")
)

// Config configures retry behavior.
type Config struct {
	// MaxAttempts is the maximum number of attempts (including the first).
	MaxAttempts int
	// Delay is the fixed delay between attempts.
	Delay time.Duration
	// IsRetryable determines if an error should be retried. If nil, every
	// error is retried.
	IsRetryable func(error) bool
	// OnAttempt is called after each failed attempt, before the delay.
	OnAttempt func(attempt int, err error)
}

// Do executes fn until it succeeds, the error is not retryable, the attempt
// budget is spent, or the context is cancelled. The terminal error wraps
// ErrMaxAttemptsExceeded and the last error from fn.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if cfg.IsRetryable != nil && !cfg.IsRetryable(err) {
			return err
		}

		if cfg.OnAttempt != nil {
			cfg.OnAttempt(attempt, err)
		}

		// No sleep after the last attempt.
		if attempt < cfg.MaxAttempts {
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
			case <-time.After(cfg.Delay):
			}
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrMaxAttemptsExceeded, cfg.MaxAttempts, lastErr)
}
