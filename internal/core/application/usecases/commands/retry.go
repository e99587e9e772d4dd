package commands

import (
	"context"
	"errors"

	"dispatch/internal/pkg/errs"
)

// DefaultMaxAttempts is one try plus one retry.
const DefaultMaxAttempts = 2

// retryOnConflict runs fn until it succeeds, fails with anything other than
// errs.ErrConflict, or maxAttempts is reached. Each attempt must use its own
// unit of work.
func retryOnConflict[T any](ctx context.Context, maxAttempts int, fn func(context.Context) (T, error)) (T, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var (
		result T
		err    error
	)
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err = fn(ctx)
		if !errors.Is(err, errs.ErrConflict) {
			return result, err
		}
		if ctx.Err() != nil {
			return result, err
		}
	}
	return result, err
}
