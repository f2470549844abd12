package utils

import (
	"testing"

	"price-streamer/src/models"
)

// -----------------------------------------------------------------------------

func candleAt(ts int64) models.MCandle {
	return models.MCandle{Symbol: "BTCUSDT", Timestamp: ts, Open: 1, High: 2, Low: 0.5, Close: 1.5}
}

// -----------------------------------------------------------------------------

func TestRingAppendAndLatest(t *testing.T) {
	rb := NewCandleRing(3)

	rb.Append(candleAt(1000))
	rb.Append(candleAt(2000))

	if rb.Size() != 2 || rb.IsFull() {
		t.Fatalf("unexpected state: size=%d full=%v", rb.Size(), rb.IsFull())
	}

	latest := rb.Latest(1)
	if len(latest) != 1 || latest[0].Timestamp != 2000 {
		t.Errorf("Latest(1) must return the newest candle: %+v", latest)
	}
}

// -----------------------------------------------------------------------------

func TestRingOverwritesOldest(t *testing.T) {
	rb := NewCandleRing(3)
	for ts := int64(1000); ts <= 5000; ts += 1000 {
		rb.Append(candleAt(ts))
	}

	if !rb.IsFull() || rb.Size() != 3 {
		t.Fatalf("buffer must be full at capacity 3, size=%d", rb.Size())
	}

	all := rb.All()
	want := []int64{3000, 4000, 5000}
	for i, ts := range want {
		if all[i].Timestamp != ts {
			t.Errorf("All()[%d]: expected ts %d, got %d", i, ts, all[i].Timestamp)
		}
	}
}

// -----------------------------------------------------------------------------

func TestRingLatestClampsToSize(t *testing.T) {
	rb := NewCandleRing(5)
	rb.Append(candleAt(1000))
	rb.Append(candleAt(2000))

	latest := rb.Latest(10)
	if len(latest) != 2 {
		t.Fatalf("Latest must clamp to size: got %d", len(latest))
	}
	if latest[0].Timestamp != 1000 || latest[1].Timestamp != 2000 {
		t.Errorf("Latest must be oldest first: %+v", latest)
	}
}

// -----------------------------------------------------------------------------

func TestRingEmptyAndClear(t *testing.T) {
	rb := NewCandleRing(2)

	if got := rb.Latest(5); len(got) != 0 {
		t.Errorf("empty buffer must return no candles: %+v", got)
	}

	rb.Append(candleAt(1000))
	rb.Clear()
	if rb.Size() != 0 {
		t.Errorf("Clear must empty the buffer, size=%d", rb.Size())
	}
}
