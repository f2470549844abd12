package interfaces

import "price-streamer/src/models"

// -----------------------------------------------------------------------------
// IRegistry is the query/control surface over the tracked-symbol state.
// Consumed by the REST shell and by the feed supervisor.
// -----------------------------------------------------------------------------

type IRegistry interface {

	// Add starts tracking a symbol. Returns false when already tracked.
	// The caller is responsible for validating the symbol beforehand.
	Add(symbol string) bool

	// -----------------------------------------------------------------------------

	// Remove stops tracking a symbol. Returns false when not tracked.
	Remove(symbol string) bool

	// -----------------------------------------------------------------------------

	// ListSymbols returns the currently tracked symbols. Order is not stable.
	ListSymbols() []string

	// -----------------------------------------------------------------------------

	// ProcessTick routes one trade event to the symbol's aggregator and
	// refreshes the latest-tick cache.
	ProcessTick(tick models.MTick)

	// -----------------------------------------------------------------------------

	// LatestTick returns the most recently processed tick for a symbol.
	LatestTick(symbol string) (models.MTick, bool)

	// -----------------------------------------------------------------------------

	// LatestCandle returns the most recently completed candle for a symbol.
	LatestCandle(symbol string) (models.MCandle, bool)

	// -----------------------------------------------------------------------------

	// RecentCandles returns up to limit completed candles for a symbol,
	// oldest first. Nil when the symbol is not tracked.
	RecentCandles(symbol string, limit int) []models.MCandle
}

// -----------------------------------------------------------------------------
// ICatalog answers whether a symbol is a recognized tradeable instrument.
// -----------------------------------------------------------------------------

type ICatalog interface {

	// IsValid reports whether the symbol exists on the exchange and trades.
	IsValid(symbol string) bool

	// -----------------------------------------------------------------------------

	// All returns the full recognized-symbol list, sorted.
	All() []string
}
