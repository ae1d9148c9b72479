package retry

import (
	"context"
	"time"

	apperrors "nestbook/pkg/errors"

	"github.com/cenkalti/backoff/v5"
)

// Do runs op under exponential backoff until it succeeds, returns a
// permanent error, or the budget runs out. Validation-class AppErrors
// short-circuit immediately; only transient failures burn retries.
func Do[T any](ctx context.Context, maxElapsed time.Duration, op func() (T, error)) (T, error) {
	wrapped := func() (T, error) {
		result, err := op()
		if err != nil && !apperrors.IsRetryable(err) {
			return result, backoff.Permanent(err)
		}
		return result, err
	}

	return backoff.Retry(ctx, wrapped,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(maxElapsed),
	)
}

// DoVoid is Do for operations with no result.
func DoVoid(ctx context.Context, maxElapsed time.Duration, op func() error) error {
	_, err := Do(ctx, maxElapsed, func() (struct{}, error) {
		return struct{}{}, op()
	})
	return err
}
