package storage

import (
	"database/sql"
	"fmt"

	"price-streamer/src/helpers"
	"price-streamer/src/logger"
	"price-streamer/src/models"

	_ "modernc.org/sqlite"
)

// -----------------------------------------------------------------------------

// SQLiteWatchlist persists the tracked-symbol set in a local SQLite file so
// a restart resumes tracking. Nothing else is stored; ticks and candles stay
// in memory only.
type SQLiteWatchlist struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewSQLiteWatchlist(cfg *models.MConfig, log *logger.Logger) (*SQLiteWatchlist, error) {
	return &SQLiteWatchlist{
		Config: cfg,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteWatchlist) Initialize() error {
	dsn := d.Config.Storage.DBPath

	// Open DB
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return &helpers.StorageError{StreamerError: helpers.StreamerError{Message: "failed to open sqlite database", Cause: err}}
	}

	if err := db.Ping(); err != nil {
		return &helpers.StorageError{StreamerError: helpers.StreamerError{Message: "sqlite database unreachable", Cause: err}}
	}

	d.DB = db

	// PRAGMA optimizations
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		d.Logger.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		d.Logger.Warning("Failed to set synchronous mode: %v", err)
	}

	query := `
		CREATE TABLE IF NOT EXISTS watchlist (
			symbol TEXT PRIMARY KEY,
			added_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create watchlist: %w", err)
	}

	return nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteWatchlist) SaveSymbol(symbol string) error {
	_, err := d.DB.Exec(`
		INSERT INTO watchlist (symbol) VALUES (?)
		ON CONFLICT (symbol) DO NOTHING
	`, symbol)
	return err
}

// -----------------------------------------------------------------------------

func (d *SQLiteWatchlist) DeleteSymbol(symbol string) error {
	_, err := d.DB.Exec("DELETE FROM watchlist WHERE symbol = ?", symbol)
	return err
}

// -----------------------------------------------------------------------------

func (d *SQLiteWatchlist) LoadSymbols() ([]string, error) {
	rows, err := d.DB.Query("SELECT symbol FROM watchlist ORDER BY symbol")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		symbols = append(symbols, s)
	}

	return symbols, rows.Err()
}

// -----------------------------------------------------------------------------

func (d *SQLiteWatchlist) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
