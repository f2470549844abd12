package utils

import "testing"

// -----------------------------------------------------------------------------

func TestFormatTimestamp(t *testing.T) {
	// 1970-01-01 00:00:01 UTC is 05:30:01 in the presentation zone.
	if got := FormatTimestamp(1000); got != "1970-01-01 05:30:01 IST" {
		t.Errorf("got %q", got)
	}
}

// -----------------------------------------------------------------------------

func TestFormatTimestampFallsBackOnNonsense(t *testing.T) {
	if got := FormatTimestamp(0); got != "0" {
		t.Errorf("got %q", got)
	}
	if got := FormatTimestamp(-5); got != "-5" {
		t.Errorf("got %q", got)
	}
}
