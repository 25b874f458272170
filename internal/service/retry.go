package service

import (
	"context"
	"errors"
	"time"
)

// withRetry runs op once plus up to maxRetries more times while it fails
// with a transient RemoteError. Cancellation of ctx stops the loop.
func withRetry[T any](ctx context.Context, maxRetries int, backoff time.Duration, op func(context.Context) (T, error)) (T, error) {
	var (
		zero    T
		lastErr error
	)

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 && backoff > 0 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(backoff):
			}
		}

		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if ctx.Err() != nil || !isTransient(err) {
			break
		}
	}

	return zero, lastErr
}

func isTransient(err error) bool {
	var remote *RemoteError
	return errors.As(err, &remote) && remote.Transient
}
