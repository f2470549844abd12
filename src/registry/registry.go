package registry

import (
	"context"
	"strings"
	"sync"

	"price-streamer/src/core"
	"price-streamer/src/interfaces"
	"price-streamer/src/logger"
	"price-streamer/src/models"
	"price-streamer/src/utils"
)

// candleHistoryDepth is how many completed candles are retained per symbol,
// five minutes of one-second bars.
const candleHistoryDepth = 300

// -----------------------------------------------------------------------------
// SymbolRegistry
// -----------------------------------------------------------------------------

// SymbolRegistry owns the tracked-symbol set, one aggregator per symbol, and
// the latest tick/candle caches. It is the single source of truth for the
// REST shell and the feed supervisor.
//
// Aggregators emit completed candles onto a shared channel; Run consumes it,
// refreshes the candle cache and forwards to the broadcast sink. Lock order
// is always mu before candleMu; the fan-in loop only ever takes candleMu, so
// an aggregator blocked on a full channel can never deadlock against it.
type SymbolRegistry struct {
	Logger  *logger.Logger
	candles chan models.MCandle

	mu          sync.RWMutex
	aggregators map[string]*core.SymbolAggregator
	latestTick  map[string]models.MTick

	candleMu     sync.RWMutex
	tracked      map[string]struct{}
	latestCandle map[string]models.MCandle
	history      map[string]*utils.CandleRing
}

// -----------------------------------------------------------------------------

func NewSymbolRegistry(log *logger.Logger) *SymbolRegistry {
	return &SymbolRegistry{
		Logger: log,
		// Buffered so aggregators never stall on a healthy fan-in loop
		candles:      make(chan models.MCandle, 256),
		aggregators:  make(map[string]*core.SymbolAggregator),
		latestTick:   make(map[string]models.MTick),
		tracked:      make(map[string]struct{}),
		latestCandle: make(map[string]models.MCandle),
		history:      make(map[string]*utils.CandleRing),
	}
}

// -----------------------------------------------------------------------------
// Tracking Lifecycle
// -----------------------------------------------------------------------------

// Add starts tracking a symbol. Symbols are canonicalized to upper-case.
// Returns false when the symbol is already tracked.
func (r *SymbolRegistry) Add(symbol string) bool {
	symbol = strings.ToUpper(symbol)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.aggregators[symbol]; exists {
		return false
	}
	r.aggregators[symbol] = core.NewSymbolAggregator(symbol, r.candles)

	// Candle state must appear together with the aggregator; a concurrent
	// Remove between the two would otherwise leave orphaned candle state.
	r.candleMu.Lock()
	r.tracked[symbol] = struct{}{}
	r.history[symbol] = utils.NewCandleRing(candleHistoryDepth)
	r.candleMu.Unlock()

	r.Logger.Info("Tracking symbol %s", symbol)
	return true
}

// -----------------------------------------------------------------------------

// Remove stops tracking a symbol, dropping its aggregator and both caches.
// Returns false when the symbol is not tracked.
func (r *SymbolRegistry) Remove(symbol string) bool {
	symbol = strings.ToUpper(symbol)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.aggregators[symbol]; !exists {
		return false
	}
	delete(r.aggregators, symbol)
	delete(r.latestTick, symbol)

	r.candleMu.Lock()
	delete(r.tracked, symbol)
	delete(r.latestCandle, symbol)
	delete(r.history, symbol)
	r.candleMu.Unlock()

	r.Logger.Info("Untracked symbol %s", symbol)
	return true
}

// -----------------------------------------------------------------------------

// ListSymbols returns the tracked symbols. Iteration order is not stable.
func (r *SymbolRegistry) ListSymbols() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	symbols := make([]string, 0, len(r.aggregators))
	for sym := range r.aggregators {
		symbols = append(symbols, sym)
	}
	return symbols
}

// -----------------------------------------------------------------------------
// Hot Path
// -----------------------------------------------------------------------------

// ProcessTick refreshes the latest-tick cache and routes the tick to the
// symbol's aggregator. The cache update is unconditional: a tick for an
// untracked symbol is recorded and otherwise ignored, never an error.
func (r *SymbolRegistry) ProcessTick(tick models.MTick) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.latestTick[tick.Symbol] = tick
	if agg, ok := r.aggregators[tick.Symbol]; ok {
		agg.ProcessTick(tick)
	}
}

// -----------------------------------------------------------------------------
// Cache Reads
// -----------------------------------------------------------------------------

// LatestTick returns the most recently processed tick for a symbol.
func (r *SymbolRegistry) LatestTick(symbol string) (models.MTick, bool) {
	symbol = strings.ToUpper(symbol)

	r.mu.RLock()
	defer r.mu.RUnlock()
	tick, ok := r.latestTick[symbol]
	return tick, ok
}

// -----------------------------------------------------------------------------

// LatestCandle returns the most recently completed candle for a symbol.
func (r *SymbolRegistry) LatestCandle(symbol string) (models.MCandle, bool) {
	symbol = strings.ToUpper(symbol)

	r.candleMu.RLock()
	defer r.candleMu.RUnlock()
	candle, ok := r.latestCandle[symbol]
	return candle, ok
}

// -----------------------------------------------------------------------------

// RecentCandles returns up to limit completed candles for a symbol, oldest
// first. At most candleHistoryDepth candles are retained.
func (r *SymbolRegistry) RecentCandles(symbol string, limit int) []models.MCandle {
	symbol = strings.ToUpper(symbol)

	r.candleMu.RLock()
	defer r.candleMu.RUnlock()

	ring, ok := r.history[symbol]
	if !ok {
		return nil
	}
	return ring.Latest(limit)
}

// -----------------------------------------------------------------------------
// Candle Fan-In
// -----------------------------------------------------------------------------

// Run consumes completed candles from the aggregators, refreshes the candle
// cache and hands each candle to the sink. Blocks until ctx is cancelled.
func (r *SymbolRegistry) Run(ctx context.Context, sink interfaces.ICandleSink) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case candle := <-r.candles:
			r.candleMu.Lock()
			// A candle can still be in flight while its symbol is being
			// removed; it must not resurrect the cache entry.
			if _, ok := r.tracked[candle.Symbol]; ok {
				r.latestCandle[candle.Symbol] = candle
				r.history[candle.Symbol].Append(candle)
			}
			r.candleMu.Unlock()

			if sink != nil {
				sink.PublishCandle(candle)
			}
		}
	}
}
