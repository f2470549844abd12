package server

import (
	"testing"
	"time"
)

// -----------------------------------------------------------------------------

func TestRateLimiterBurstAndRefill(t *testing.T) {
	rl := newRateLimiter(60, 2) // 1 token/sec, burst of 2
	now := time.Now()

	if !rl.allow("1.2.3.4", now) {
		t.Fatal("first request within burst must pass")
	}
	if !rl.allow("1.2.3.4", now) {
		t.Fatal("second request within burst must pass")
	}
	if rl.allow("1.2.3.4", now) {
		t.Error("third request with an empty bucket must be rejected")
	}

	// One second later one token has refilled.
	if !rl.allow("1.2.3.4", now.Add(time.Second)) {
		t.Error("request after refill must pass")
	}
}

// -----------------------------------------------------------------------------

func TestRateLimiterIsolatesClients(t *testing.T) {
	rl := newRateLimiter(60, 1)
	now := time.Now()

	if !rl.allow("1.1.1.1", now) {
		t.Fatal("first client must pass")
	}
	if rl.allow("1.1.1.1", now) {
		t.Error("first client exceeded its bucket")
	}
	if !rl.allow("2.2.2.2", now) {
		t.Error("second client must have its own bucket")
	}
}

// -----------------------------------------------------------------------------

func TestRateLimiterDisabled(t *testing.T) {
	rl := newRateLimiter(0, 0)
	now := time.Now()

	for i := 0; i < 100; i++ {
		if !rl.allow("1.2.3.4", now) {
			t.Fatal("disabled limiter must allow everything")
		}
	}
}
