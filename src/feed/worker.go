package feed

import (
	"context"
	"strings"
	"time"

	"price-streamer/src/interfaces"
	"price-streamer/src/logger"
	"price-streamer/src/models"

	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Constants
// -----------------------------------------------------------------------------

const (
	handshakeTimeout = 10 * time.Second
	writeWait        = 2 * time.Second
)

// -----------------------------------------------------------------------------
// worker
// -----------------------------------------------------------------------------

// worker maintains the streaming connection for exactly one symbol's trade
// channel, feeding parsed ticks into the registry. Failures are retried with
// bounded exponential backoff; once the budget is exhausted the worker exits
// for good and leaves respawning to the supervisor.
type worker struct {
	symbol   string
	cfg      models.MFeedConfig
	registry interfaces.IRegistry
	logger   *logger.Logger
	dialer   *websocket.Dialer
}

// -----------------------------------------------------------------------------

func newWorker(symbol string, cfg models.MFeedConfig, reg interfaces.IRegistry, log *logger.Logger) *worker {
	return &worker{
		symbol:   symbol,
		cfg:      cfg,
		registry: reg,
		logger:   log,
		dialer:   &websocket.Dialer{HandshakeTimeout: handshakeTimeout},
	}
}

// -----------------------------------------------------------------------------

// BackoffDelay returns the reconnect delay for the given failure count,
// doubling from base and capped. attempt starts at 1.
func BackoffDelay(attempt int, base, cap float64) time.Duration {
	delay := base
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= cap {
			delay = cap
			break
		}
	}
	return time.Duration(delay * float64(time.Second))
}

// -----------------------------------------------------------------------------

// run connects and reads until cancelled or the retry budget is spent.
// A successful connect resets the failure counter.
func (w *worker) run(ctx context.Context) {
	attempt := 0

	for {
		if ctx.Err() != nil {
			return
		}

		err := w.connectAndRead(ctx, &attempt)
		if ctx.Err() != nil {
			w.logger.Info("[%s] Stream cancelled", w.symbol)
			return
		}

		attempt++
		delay := BackoffDelay(attempt, w.cfg.BackoffBaseSec, w.cfg.BackoffCapSec)
		w.logger.Warning("[%s] Attempt %d/%d, error: %v. Backing off %s...",
			w.symbol, attempt, w.cfg.MaxRetries, err, delay)

		// The budget check comes after the backoff: every failure, the last
		// one included, pays its full delay.
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}

		if attempt >= w.cfg.MaxRetries {
			w.logger.Error("[%s] Exceeded max retries (%d), stopping stream", w.symbol, w.cfg.MaxRetries)
			return
		}
	}
}

// -----------------------------------------------------------------------------

// connectAndRead opens the per-symbol trade stream and pumps messages into
// the registry until the connection dies or ctx is cancelled. Always returns
// a non-nil error describing why reading ended.
func (w *worker) connectAndRead(ctx context.Context, attempt *int) error {
	streamURL := w.cfg.WsURL + "?streams=" + strings.ToLower(w.symbol) + "@trade"

	w.logger.Info("[%s] Connecting to feed...", w.symbol)
	conn, _, err := w.dialer.DialContext(ctx, streamURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	w.logger.Info("[%s] Connected to feed stream", w.symbol)
	*attempt = 0

	pingInterval := time.Duration(w.cfg.PingIntervalSec) * time.Second
	// A silent connection fails once it misses a full ping round-trip.
	pongWait := 2 * pingInterval

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Keep-alive pings plus cancellation watchdog. Closing the connection is
	// the only way to abort the blocking read below.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				conn.Close()
				return
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					conn.Close()
					return
				}
			}
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		tick, ok := ParseTradeMessage(message)
		if !ok {
			// Non-trade frames and junk are ignorable noise, never fatal.
			w.logger.Debug("[%s] Ignoring non-trade frame", w.symbol)
			continue
		}
		w.registry.ProcessTick(tick)
	}
}
