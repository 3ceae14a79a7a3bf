package service

import (
	"context"
	"errors"
	"math/rand"
	"time"

	apperrors "inkwell/internal/errors"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// Backoff intervals: attempt 1 (0ms), attempt 2 (100ms), attempt 3 (200ms), etc.
var retryBackoffs = []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

func withDeadlockRetry(ctx context.Context, maxAttempts int, logger *zap.Logger, fn func() error) error {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !isDeadlockError(err) {
			return err
		}
		if attempt == maxAttempts {
			break
		}

		base := retryBackoffs[len(retryBackoffs)-1]
		if attempt-1 < len(retryBackoffs) {
			base = retryBackoffs[attempt-1]
		}
		// ±20% jitter
		wait := time.Duration(float64(base) * (0.8 + rand.Float64()*0.4))
		logger.Warn("deadlock detected, retrying", zap.Int("attempt", attempt), zap.Int("maxAttempts", maxAttempts))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	return apperrors.NewDeadlockError("max retries exceeded")
}

func isDeadlockError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}
