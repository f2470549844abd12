package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"price-streamer/src/interfaces"
	"price-streamer/src/logger"
	"price-streamer/src/models"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// StreamServer
// -----------------------------------------------------------------------------

// StreamServer is the request/response shell plus the candle broadcast hub:
// REST endpoints for managing and querying tracked symbols, and a websocket
// endpoint that streams every completed candle to all connected clients.
type StreamServer struct {
	Config   *models.MConfig
	Logger   *logger.Logger
	Registry interfaces.IRegistry
	Catalog  interfaces.ICatalog
	Store    interfaces.IWatchlistStore

	engine  *gin.Engine
	limiter *rateLimiter

	// WebSocket clients, owned by the hub loop
	clientsMu  sync.RWMutex
	clients    map[*Client]struct{}
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewStreamServer(
	cfg *models.MConfig,
	log *logger.Logger,
	reg interfaces.IRegistry,
	cat interfaces.ICatalog,
	store interfaces.IWatchlistStore,
) *StreamServer {
	// Set Gin mode
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &StreamServer{
		Config:   cfg,
		Logger:   log,
		Registry: reg,
		Catalog:  cat,
		Store:    store,
		engine:   gin.Default(),
		limiter:  newRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst),
		clients:  make(map[*Client]struct{}),
		// Buffered so publishers never stall on a healthy hub loop
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}

	s.setupRoutes()
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *StreamServer) setupRoutes() {
	// REST API endpoints
	api := s.engine.Group("/", s.limiter.Middleware())
	api.GET("/", s.getRoot)
	api.POST("/add_symbol", s.addSymbol)
	api.DELETE("/remove_symbol/:symbol", s.removeSymbol)
	api.GET("/symbols", s.listSymbols)
	api.GET("/symbols/available", s.listAvailable)
	api.GET("/tick/:symbol", s.getLatestTick)
	api.GET("/ohlc/:symbol", s.getLatestOHLC)
	api.GET("/ohlc/:symbol/history", s.getOHLCHistory)
	api.GET("/api/health", s.getHealth)

	// WebSocket endpoint
	s.engine.GET("/ws", s.handleWebSocket)
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

// Start runs the hub loop and the HTTP listener until ctx is cancelled, then
// shuts the listener down gracefully.
func (s *StreamServer) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.Logger.Info("Starting server on %s", addr)

	go s.runHub(ctx)

	httpSrv := &http.Server{Addr: addr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)

	case err := <-errCh:
		return err
	}
}

// -----------------------------------------------------------------------------

// Engine exposes the router for tests.
func (s *StreamServer) Engine() http.Handler {
	return s.engine
}

// -----------------------------------------------------------------------------

// ClientCount returns the number of connected websocket clients.
func (s *StreamServer) ClientCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}
