package httputil

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/matzehuels/tokenlogo/pkg/errors"
)

// maxRetryAfter caps how long a server-provided Retry-After can stall a
// retry loop.
const maxRetryAfter = 30 * time.Second

// RetryableError marks a failure as transient. [Retry] only retries errors
// that wrap one.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry runs fn up to attempts times. After each retryable failure it
// waits delay, doubling it every time. A rate limit response that carries
// Retry-After waits at least that long, capped at 30 seconds.
//
// Non-retryable errors are returned at once. After the last attempt the
// last error is returned; a cancelled ctx returns ctx.Err().
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var err error

	for i := range attempts {
		if err = fn(); err == nil {
			return nil
		}
		if !stderrors.As(err, new(*RetryableError)) {
			return err
		}
		if i == attempts-1 {
			break
		}

		wait := max(delay, retryAfter(err))
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
	return err
}

// retryAfter extracts the server-requested wait from a rate limit error.
func retryAfter(err error) time.Duration {
	var rl *errors.RateLimitedError
	if !stderrors.As(err, &rl) || rl.RetryAfter <= 0 {
		return 0
	}
	return min(time.Duration(rl.RetryAfter)*time.Second, maxRetryAfter)
}
