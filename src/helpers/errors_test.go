package helpers

import (
	"context"
	"errors"
	"testing"
	"time"

	"price-streamer/src/logger"
)

// -----------------------------------------------------------------------------

func testLogger() *logger.Logger {
	return logger.NewLogger("ERROR", "HelpersTest")
}

// -----------------------------------------------------------------------------

func TestRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), testLogger(), "flaky op", 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("retry must succeed on the third attempt: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

// -----------------------------------------------------------------------------

func TestRetryExhaustsAttempts(t *testing.T) {
	cause := errors.New("permanent")
	calls := 0
	err := RetryWithBackoff(context.Background(), testLogger(), "doomed op", 3, time.Millisecond, func() error {
		calls++
		return cause
	})

	if err == nil {
		t.Fatal("exhausted retries must return an error")
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	if !errors.Is(err, cause) {
		t.Error("the last failure must be wrapped in the returned error")
	}
}

// -----------------------------------------------------------------------------

func TestRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, testLogger(), "cancelled op", 5, time.Hour, func() error {
		return errors.New("transient")
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

// -----------------------------------------------------------------------------

func TestTypedErrorsUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &CatalogError{StreamerError: StreamerError{Message: "catalog down", Cause: cause}}

	if !errors.Is(err, cause) {
		t.Error("typed errors must unwrap to their cause")
	}
	if err.Error() != "catalog down: root cause" {
		t.Errorf("unexpected error text: %q", err.Error())
	}
}
