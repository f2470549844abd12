package core

import (
	"price-streamer/src/models"
)

// -----------------------------------------------------------------------------
// Constants
// -----------------------------------------------------------------------------

// BucketWidthMs is the fixed candle bucket width. One candle per second.
const BucketWidthMs = int64(1000)

// -----------------------------------------------------------------------------
// SymbolAggregator
// -----------------------------------------------------------------------------

// SymbolAggregator folds the trade stream of one symbol into second-aligned
// OHLC candles. A bucket is only closed when a later tick proves it is over;
// a symbol that goes quiet never emits its last bucket.
//
// The aggregator has no lock of its own: the owning registry serializes all
// calls for a given symbol.
type SymbolAggregator struct {
	symbol string
	out    chan<- models.MCandle

	// Open bucket state. opened == false means no bucket yet.
	opened bool
	bucket int64
	open   float64
	high   float64
	low    float64
	close  float64

	// Stale ticks (bucket older than the open one) are dropped, not merged.
	staleDropped int64
}

// -----------------------------------------------------------------------------

// NewSymbolAggregator binds an aggregator to one symbol and an emission
// channel shared with the registry's candle fan-in loop.
func NewSymbolAggregator(symbol string, out chan<- models.MCandle) *SymbolAggregator {
	return &SymbolAggregator{
		symbol: symbol,
		out:    out,
	}
}

// -----------------------------------------------------------------------------

// ProcessTick advances the OHLC state machine with one trade event.
// Ticks for other symbols are ignored.
func (a *SymbolAggregator) ProcessTick(tick models.MTick) {
	if tick.Symbol != a.symbol {
		return
	}

	bucket := (tick.Timestamp / BucketWidthMs) * BucketWidthMs

	// First tick ever: open the bucket, nothing to emit.
	if !a.opened {
		a.reset(bucket, tick.Price)
		return
	}

	switch {
	case bucket == a.bucket:
		// Same second: fold into the open bucket.
		if tick.Price > a.high {
			a.high = tick.Price
		}
		if tick.Price < a.low {
			a.low = tick.Price
		}
		a.close = tick.Price

	case bucket > a.bucket:
		// New second: the open bucket is complete.
		a.emit()
		a.reset(bucket, tick.Price)

	default:
		// Late tick from an already-closed second. Dropping keeps emitted
		// candles immutable; merging would corrupt the open bucket.
		a.staleDropped++
	}
}

// -----------------------------------------------------------------------------

// StaleDropped returns how many out-of-order ticks were discarded.
func (a *SymbolAggregator) StaleDropped() int64 {
	return a.staleDropped
}

// -----------------------------------------------------------------------------
// Internal Helpers
// -----------------------------------------------------------------------------

func (a *SymbolAggregator) reset(bucket int64, price float64) {
	a.opened = true
	a.bucket = bucket
	a.open = price
	a.high = price
	a.low = price
	a.close = price
}

// -----------------------------------------------------------------------------

func (a *SymbolAggregator) emit() {
	a.out <- models.MCandle{
		Symbol:    a.symbol,
		Timestamp: a.bucket,
		Open:      a.open,
		High:      a.high,
		Low:       a.low,
		Close:     a.close,
	}
}
