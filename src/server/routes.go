package server

import (
	"net/http"
	"strconv"
	"strings"

	"price-streamer/src/utils"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// Request/Response Shapes
// -----------------------------------------------------------------------------

type symbolRequest struct {
	Symbol string `json:"symbol" binding:"required"`
}

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *StreamServer) getRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Crypto Price Streaming Platform is active"})
}

// -----------------------------------------------------------------------------

// addSymbol validates the symbol against the exchange catalog, then hands it
// to the registry. The registry itself never validates identifiers.
func (s *StreamServer) addSymbol(c *gin.Context) {
	var req symbolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Field 'symbol' is required"})
		return
	}

	sym := strings.ToUpper(strings.TrimSpace(req.Symbol))

	if !s.Catalog.IsValid(sym) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid symbol: " + sym + "."})
		return
	}

	if !s.Registry.Add(sym) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Symbol " + sym + " is already subscribed."})
		return
	}

	if err := s.Store.SaveSymbol(sym); err != nil {
		// Tracking is live either way; only the restart resume is degraded.
		s.Logger.Error("Failed to persist symbol %s: %v", sym, err)
	}

	s.Logger.Info("Added symbol: %s", sym)
	c.JSON(http.StatusOK, gin.H{"message": "Subscribed to " + sym, "symbol": sym})
}

// -----------------------------------------------------------------------------

func (s *StreamServer) removeSymbol(c *gin.Context) {
	sym := strings.ToUpper(c.Param("symbol"))

	if !s.Registry.Remove(sym) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Symbol not found"})
		return
	}

	if err := s.Store.DeleteSymbol(sym); err != nil {
		s.Logger.Error("Failed to unpersist symbol %s: %v", sym, err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Unsubscribed from " + sym})
}

// -----------------------------------------------------------------------------

func (s *StreamServer) listSymbols(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"symbols": s.Registry.ListSymbols()})
}

// -----------------------------------------------------------------------------

func (s *StreamServer) listAvailable(c *gin.Context) {
	symbols := s.Catalog.All()
	c.JSON(http.StatusOK, gin.H{"count": len(symbols), "symbols": symbols})
}

// -----------------------------------------------------------------------------

// getLatestTick responds with the latest raw trade snapshot for a symbol.
func (s *StreamServer) getLatestTick(c *gin.Context) {
	tick, ok := s.Registry.LatestTick(c.Param("symbol"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "No tick data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"symbol":    tick.Symbol,
		"price":     tick.Price,
		"qty":       tick.Qty,
		"timestamp": utils.FormatTimestamp(tick.Timestamp),
	})
}

// -----------------------------------------------------------------------------

// getLatestOHLC responds with the latest completed 1s candle for a symbol.
func (s *StreamServer) getLatestOHLC(c *gin.Context) {
	candle, ok := s.Registry.LatestCandle(c.Param("symbol"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "No OHLC data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"symbol":    candle.Symbol,
		"timestamp": utils.FormatTimestamp(candle.Timestamp),
		"open":      candle.Open,
		"high":      candle.High,
		"low":       candle.Low,
		"close":     candle.Close,
	})
}

// -----------------------------------------------------------------------------

// getOHLCHistory responds with the recent completed candles for a symbol,
// oldest first, capped at the registry's retention depth.
func (s *StreamServer) getOHLCHistory(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "60"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid limit"})
		return
	}

	candles := s.Registry.RecentCandles(c.Param("symbol"), limit)
	if candles == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Symbol not found"})
		return
	}

	out := make([]gin.H, 0, len(candles))
	for _, candle := range candles {
		out = append(out, gin.H{
			"timestamp": utils.FormatTimestamp(candle.Timestamp),
			"open":      candle.Open,
			"high":      candle.High,
			"low":       candle.Low,
			"close":     candle.Close,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"symbol":  strings.ToUpper(c.Param("symbol")),
		"count":   len(out),
		"candles": out,
	})
}

// -----------------------------------------------------------------------------

func (s *StreamServer) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"connections": s.ClientCount(),
		"tracked":     len(s.Registry.ListSymbols()),
	})
}
