package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"price-streamer/src/helpers"
	"price-streamer/src/logger"
	"price-streamer/src/models"
)

// -----------------------------------------------------------------------------
// Constants
// -----------------------------------------------------------------------------

const (
	fetchTimeout   = 5 * time.Second
	fetchBaseDelay = 2 * time.Second
)

// -----------------------------------------------------------------------------
// Catalog
// -----------------------------------------------------------------------------

// Catalog holds the recognized-symbol set fetched from the exchange. The
// REST shell validates add requests against it; the core never does.
type Catalog struct {
	Config *models.MConfig
	Logger *logger.Logger
	client *http.Client

	mu      sync.RWMutex
	symbols map[string]struct{}
}

// -----------------------------------------------------------------------------

// exchangeInfoResponse is the slice of the exchange metadata we care about.
type exchangeInfoResponse struct {
	Symbols []struct {
		Symbol string `json:"symbol"`
		Status string `json:"status"`
	} `json:"symbols"`
}

// -----------------------------------------------------------------------------

func NewCatalog(cfg *models.MConfig, log *logger.Logger) *Catalog {
	return &Catalog{
		Config:  cfg,
		Logger:  log,
		client:  &http.Client{Timeout: fetchTimeout},
		symbols: make(map[string]struct{}),
	}
}

// -----------------------------------------------------------------------------
// Fetching
// -----------------------------------------------------------------------------

// Fetch loads the recognized-symbol set, retrying with a doubling delay.
// Only symbols with status TRADING are kept.
func (c *Catalog) Fetch(ctx context.Context) error {
	err := helpers.RetryWithBackoff(ctx, c.Logger, "exchange info fetch",
		c.Config.Catalog.FetchRetries, fetchBaseDelay, func() error {
			return c.fetchOnce(ctx)
		})
	if err != nil {
		return &helpers.CatalogError{StreamerError: helpers.StreamerError{Message: "symbol catalog unavailable", Cause: err}}
	}
	return nil
}

// -----------------------------------------------------------------------------

func (c *Catalog) fetchOnce(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Config.Catalog.ExchangeInfoURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("exchange info returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	count, err := c.LoadFromJSON(body)
	if err != nil {
		return err
	}

	c.Logger.Info("Loaded %d symbols from exchange", count)
	return nil
}

// -----------------------------------------------------------------------------

// LoadFromJSON replaces the symbol set from a raw exchange-info document.
func (c *Catalog) LoadFromJSON(body []byte) (int, error) {
	var parsed exchangeInfoResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("failed to parse exchange info: %w", err)
	}

	symbols := make(map[string]struct{}, len(parsed.Symbols))
	for _, s := range parsed.Symbols {
		if s.Status == "TRADING" {
			symbols[strings.ToUpper(s.Symbol)] = struct{}{}
		}
	}

	c.mu.Lock()
	c.symbols = symbols
	c.mu.Unlock()

	return len(symbols), nil
}

// -----------------------------------------------------------------------------

// RefreshLoop re-fetches the symbol set periodically. A refresh failure
// keeps the previous set; it is logged, never fatal.
func (c *Catalog) RefreshLoop(ctx context.Context) error {
	if c.Config.Catalog.RefreshIntervalMin <= 0 {
		<-ctx.Done()
		return nil
	}

	interval := time.Duration(c.Config.Catalog.RefreshIntervalMin) * time.Minute
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := c.Fetch(ctx); err != nil {
				c.Logger.Warning("Symbol refresh failed, keeping previous set: %v", err)
			}
		}
	}
}

// -----------------------------------------------------------------------------
// Queries
// -----------------------------------------------------------------------------

// IsValid reports whether the symbol is recognized. Case-insensitive.
func (c *Catalog) IsValid(symbol string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.symbols[strings.ToUpper(symbol)]
	return ok
}

// -----------------------------------------------------------------------------

// All returns the recognized symbols, sorted.
func (c *Catalog) All() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	list := make([]string, 0, len(c.symbols))
	for sym := range c.symbols {
		list = append(list, sym)
	}
	sort.Strings(list)
	return list
}
