package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/example/hamlet/internal/core/failure"
	"github.com/example/hamlet/internal/ports/secondary"
)

const (
	maxTxAttempts   = 5
	firstRetryDelay = 20 * time.Millisecond
)

// withRetry runs fn until it succeeds or fails with anything other than a
// store conflict. Conflicts are retried with doubling backoff; once
// attempts run out the caller gets failure.ErrTryAgain.
func withRetry(ctx context.Context, logger *slog.Logger, op string, fn func() error) error {
	delay := firstRetryDelay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !errors.Is(err, secondary.ErrConflict) {
			return err
		}
		if attempt == maxTxAttempts {
			logger.Warn("giving up after conflicts", "op", op, "attempts", attempt, "err", err)
			return failure.ErrTryAgain
		}
		logger.Debug("retrying after conflict", "op", op, "attempt", attempt, "delay", delay)
		if err := sleepWithContext(ctx, delay); err != nil {
			return err
		}
		delay *= 2
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
