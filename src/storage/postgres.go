package storage

import (
	"database/sql"
	"fmt"

	"price-streamer/src/helpers"
	"price-streamer/src/logger"
	"price-streamer/src/models"

	_ "github.com/lib/pq"
)

// -----------------------------------------------------------------------------

// PostgresWatchlist is the Postgres-backed watchlist store, for deployments
// that already run a shared database.
type PostgresWatchlist struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewPostgresWatchlist(cfg *models.MConfig, log *logger.Logger) (*PostgresWatchlist, error) {
	return &PostgresWatchlist{
		Config: cfg,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *PostgresWatchlist) Initialize() error {
	dsn := d.Config.Storage.DBConnectionString
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return &helpers.StorageError{StreamerError: helpers.StreamerError{Message: "failed to open postgres database", Cause: err}}
	}

	if err := db.Ping(); err != nil {
		return &helpers.StorageError{StreamerError: helpers.StreamerError{Message: "postgres database unreachable", Cause: err}}
	}

	d.DB = db

	query := `
		CREATE TABLE IF NOT EXISTS watchlist (
			symbol TEXT PRIMARY KEY,
			added_at TIMESTAMPTZ DEFAULT NOW()
		);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create watchlist: %w", err)
	}

	d.Logger.Info("PostgresWatchlist initialized successfully")
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresWatchlist) SaveSymbol(symbol string) error {
	_, err := d.DB.Exec(`
		INSERT INTO watchlist (symbol) VALUES ($1)
		ON CONFLICT (symbol) DO NOTHING
	`, symbol)
	return err
}

// -----------------------------------------------------------------------------

func (d *PostgresWatchlist) DeleteSymbol(symbol string) error {
	_, err := d.DB.Exec("DELETE FROM watchlist WHERE symbol = $1", symbol)
	return err
}

// -----------------------------------------------------------------------------

func (d *PostgresWatchlist) LoadSymbols() ([]string, error) {
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

func (d *PostgresWatchlist) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
