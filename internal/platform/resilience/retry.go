package resilience

import (
	"context"
	"errors"
	"time"
)

// RetryPolicy retries a call up to MaxRetries extra times, waiting
// Backoff(attempt) between attempts. A nil Backoff waits (attempt+1) * BaseDelay.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	Backoff    func(attempt int) time.Duration
}

type permanentError struct {
	err error
}

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var p permanentError
	return errors.As(err, &p)
}

func (p RetryPolicy) delay(attempt int) time.Duration {
	if p.Backoff != nil {
		return p.Backoff(attempt)
	}
	return time.Duration(attempt+1) * p.BaseDelay
}

// Retry runs fn until it succeeds, returns a permanent error, the context is
// done, or the attempts are used up. The last error is returned unwrapped
// from its permanent marker.
func Retry(ctx context.Context, policy RetryPolicy, fn func(attempt int) error) error {
	maxRetries := max(policy.MaxRetries, 0)

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := fn(attempt)
		if err == nil {
			return nil
		}
		var p permanentError
		if errors.As(err, &p) {
			return p.err
		}
		lastErr = err

		if attempt == maxRetries {
			break
		}
		wait := policy.delay(attempt)
		if wait <= 0 {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			continue
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}
