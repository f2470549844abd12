package helpers

import (
	"context"
	"fmt"
	"time"

	"price-streamer/src/logger"
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type StreamerError struct {
	Message string
	Cause   error
}

func (e *StreamerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *StreamerError) Unwrap() error {
	return e.Cause
}

// Helper to define distinct error types for type assertions if needed
type CatalogError struct{ StreamerError }
type StorageError struct{ StreamerError }
type FeedError struct{ StreamerError }

// -----------------------------------------------------------------------------
// Retry Logic
// -----------------------------------------------------------------------------

// RetryWithBackoff executes fn up to maxRetries times with a doubling delay.
// Cancelling the context aborts the wait between attempts.
func RetryWithBackoff(ctx context.Context, log *logger.Logger, operation string, maxRetries int, baseDelay time.Duration, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == maxRetries {
			break
		}

		delay := baseDelay << (attempt - 1)
		log.Warning("%s failed (attempt %d/%d): %v. Retrying in %v", operation, attempt, maxRetries, lastErr, delay)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return &StreamerError{Message: fmt.Sprintf("%s failed after %d attempts", operation, maxRetries), Cause: lastErr}
}
