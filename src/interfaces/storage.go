package interfaces

// -----------------------------------------------------------------------------
// IWatchlistStore defines the contract for persisting the tracked-symbol set.
// Ticks and candles are deliberately never persisted; only the watchlist
// survives a restart.
// -----------------------------------------------------------------------------

type IWatchlistStore interface {

	// -----------------------------------------------------------------------------

	// Initialize sets up the database schema and tables.
	Initialize() error

	// -----------------------------------------------------------------------------

	// SaveSymbol records a tracked symbol. Idempotent.
	SaveSymbol(symbol string) error

	// -----------------------------------------------------------------------------

	// DeleteSymbol removes a tracked symbol. Unknown symbols are not an error.
	DeleteSymbol(symbol string) error

	// -----------------------------------------------------------------------------

	// LoadSymbols returns every persisted symbol.
	LoadSymbols() ([]string, error)

	// -----------------------------------------------------------------------------

	// Close the database connection
	Close() error
}
