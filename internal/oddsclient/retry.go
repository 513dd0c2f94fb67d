package oddsclient

import (
	"context"
	"time"
)

// RetryPolicy retries a retryable fetch with exponential backoff, capped,
// per spec §7's "retry with exponential backoff up to N=3".
type RetryPolicy struct {
	maxAttempts  int
	initialDelay time.Duration
	maxDelay     time.Duration
}

// NewRetryPolicy creates a retry policy with a 1.5x backoff multiplier
// capped at 30s, matching the teacher's bot-service/internal/retry policy.
func NewRetryPolicy(maxAttempts int, initialDelay time.Duration) *RetryPolicy {
	return &RetryPolicy{
		maxAttempts:  maxAttempts,
		initialDelay: initialDelay,
		maxDelay:     30 * time.Second,
	}
}

// Execute runs fn, retrying only while the returned error is a retryable
// *FetchError, up to maxAttempts. Execute returns immediately on context
// cancellation or a non-retryable error.
func (r *RetryPolicy) Execute(ctx context.Context, fn func() error) error {
	var lastErr error
	delay := r.initialDelay

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		fetchErr, ok := err.(*FetchError)
		if !ok || !fetchErr.Retryable() {
			return err
		}

		if attempt < r.maxAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * 1.5)
			if delay > r.maxDelay {
				delay = r.maxDelay
			}
		}
	}

	return lastErr
}
