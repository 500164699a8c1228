package db

import (
	"context"
	"time"

	"go.uber.org/zap"

	"costwatch/core/formula"
	"costwatch/internal/logging"
)

// retrySource retries failed row fetches at the boundary. The formula
// engine never retries: a metric either evaluates against a complete
// fetch or fails wholesale.
type retrySource struct {
	inner    RowSource
	attempts int
	backoff  time.Duration
}

// WithRetry wraps a row source so failed fetches are retried up to
// attempts times with a doubling backoff. attempts < 1 is treated as 1.
func WithRetry(inner RowSource, attempts int) RowSource {
	if attempts < 1 {
		attempts = 1
	}
	return &retrySource{
		inner:    inner,
		attempts: attempts,
		backoff:  100 * time.Millisecond,
	}
}

func (r *retrySource) Aggregate(ctx context.Context, q AggregateQuery) (formula.Aggregates, error) {
	var agg formula.Aggregates
	err := r.do(ctx, "aggregate", func() error {
		var innerErr error
		agg, innerErr = r.inner.Aggregate(ctx, q)
		return innerErr
	})
	return agg, err
}

func (r *retrySource) Series(ctx context.Context, q SeriesQuery) ([]SeriesPoint, error) {
	var points []SeriesPoint
	err := r.do(ctx, "series", func() error {
		var innerErr error
		points, innerErr = r.inner.Series(ctx, q)
		return innerErr
	})
	return points, err
}

func (r *retrySource) do(ctx context.Context, op string, fn func() error) error {
	var err error
	delay := r.backoff
	for attempt := 1; attempt <= r.attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == r.attempts {
			break
		}
		logging.Warn("row fetch failed, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Error(err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return err
}
