package core

import (
	"testing"

	"price-streamer/src/models"
)

// -----------------------------------------------------------------------------

func tick(sym string, ts int64, price float64) models.MTick {
	return models.MTick{Symbol: sym, Price: price, Qty: 1, Timestamp: ts}
}

// -----------------------------------------------------------------------------

func TestAggregatorFoldsBucketAndEmitsOnAdvance(t *testing.T) {
	out := make(chan models.MCandle, 4)
	agg := NewSymbolAggregator("BTCUSDT", out)

	// Four events: three inside bucket 1000, one opening bucket 2000.
	agg.ProcessTick(tick("BTCUSDT", 1000, 10))
	agg.ProcessTick(tick("BTCUSDT", 1500, 12))
	agg.ProcessTick(tick("BTCUSDT", 1999, 9))

	if len(out) != 0 {
		t.Fatalf("no candle should be emitted before the bucket advances, got %d", len(out))
	}

	agg.ProcessTick(tick("BTCUSDT", 2000, 11))

	if len(out) != 1 {
		t.Fatalf("expected exactly one candle, got %d", len(out))
	}

	candle := <-out
	want := models.MCandle{Symbol: "BTCUSDT", Timestamp: 1000, Open: 10, High: 12, Low: 9, Close: 9}
	if candle != want {
		t.Errorf("candle mismatch: got %+v, want %+v", candle, want)
	}
}

// -----------------------------------------------------------------------------

func TestAggregatorQuietBucketNeverEmits(t *testing.T) {
	out := make(chan models.MCandle, 1)
	agg := NewSymbolAggregator("ETHUSDT", out)

	agg.ProcessTick(tick("ETHUSDT", 5000, 100))
	agg.ProcessTick(tick("ETHUSDT", 5500, 101))

	if len(out) != 0 {
		t.Errorf("a bucket with no successor event must never be emitted")
	}
}

// -----------------------------------------------------------------------------

func TestAggregatorOpenEqualsCloseOnNewBucket(t *testing.T) {
	out := make(chan models.MCandle, 2)
	agg := NewSymbolAggregator("ETHUSDT", out)

	agg.ProcessTick(tick("ETHUSDT", 1000, 50))
	agg.ProcessTick(tick("ETHUSDT", 2100, 60))
	agg.ProcessTick(tick("ETHUSDT", 3200, 70))

	first := <-out
	second := <-out

	if first.Open != 50 || first.Close != 50 {
		t.Errorf("single-event bucket must have open == close == price, got %+v", first)
	}
	if second.Open != 60 || second.Close != 60 || second.Timestamp != 2000 {
		t.Errorf("new bucket must open at the closing price of its first event, got %+v", second)
	}
}

// -----------------------------------------------------------------------------

func TestAggregatorDropsStaleTicks(t *testing.T) {
	out := make(chan models.MCandle, 2)
	agg := NewSymbolAggregator("BTCUSDT", out)

	agg.ProcessTick(tick("BTCUSDT", 2000, 10))
	agg.ProcessTick(tick("BTCUSDT", 1500, 99)) // older bucket, must not merge

	if agg.StaleDropped() != 1 {
		t.Errorf("expected 1 stale tick dropped, got %d", agg.StaleDropped())
	}

	agg.ProcessTick(tick("BTCUSDT", 3000, 20))
	candle := <-out
	if candle.High != 10 || candle.Low != 10 {
		t.Errorf("stale tick leaked into the open bucket: %+v", candle)
	}
}

// -----------------------------------------------------------------------------

func TestAggregatorIgnoresForeignSymbols(t *testing.T) {
	out := make(chan models.MCandle, 1)
	agg := NewSymbolAggregator("BTCUSDT", out)

	agg.ProcessTick(tick("ETHUSDT", 1000, 10))
	agg.ProcessTick(tick("BTCUSDT", 1000, 20))
	agg.ProcessTick(tick("BTCUSDT", 2000, 21))

	candle := <-out
	if candle.Open != 20 {
		t.Errorf("foreign-symbol tick contaminated the bucket: %+v", candle)
	}
}

// -----------------------------------------------------------------------------

func TestAggregatorBucketFlooring(t *testing.T) {
	out := make(chan models.MCandle, 1)
	agg := NewSymbolAggregator("BTCUSDT", out)

	agg.ProcessTick(tick("BTCUSDT", 1999, 10))
	agg.ProcessTick(tick("BTCUSDT", 2001, 11))

	candle := <-out
	if candle.Timestamp != 1000 {
		t.Errorf("bucket start must be floored to the second, got %d", candle.Timestamp)
	}
}
