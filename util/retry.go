package util

import (
	"context"
	"fmt"
	"time"
)

func Retry[T any](f func() (T, error), maxRetries int, d time.Duration) (v T, err error) {
	return RetryContext(context.Background(), func(context.Context) (T, error) { return f() }, maxRetries, d)
}

// RetryContext calls f up to maxRetries+1 times, waiting d between failed attempts.
// Negative maxRetries count as 0.
func RetryContext[T any](ctx context.Context, f func(context.Context) (T, error), maxRetries int, d time.Duration) (v T, err error) {
	maxRetries = max(maxRetries, 0)
	for i := 0; i <= maxRetries; i++ {
		if v, err = f(ctx); err == nil {
			return v, nil
		} else if i == maxRetries {
			break
		}
		Debugf(ctx, "retry %d/%d after %s: %s", i+1, maxRetries, d, err)
		t := time.NewTimer(d)
		select {
		case <-ctx.Done():
			t.Stop()
			return *new(T), ctx.Err()
		case <-t.C:
		}
	}
	if maxRetries == 0 {
		return v, err
	}
	return v, fmt.Errorf("max retries reached: %w", err)
}
