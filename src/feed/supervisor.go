package feed

import (
	"context"
	"sync"
	"time"

	"price-streamer/src/interfaces"
	"price-streamer/src/logger"
	"price-streamer/src/models"
)

// -----------------------------------------------------------------------------
// Supervisor
// -----------------------------------------------------------------------------

// Supervisor keeps one live feed worker per tracked symbol. It reconciles the
// registry's tracked set against its own worker table on a fixed interval:
// newly tracked symbols get a worker, untracked symbols get their worker
// cancelled abruptly, and a worker that died after exhausting its retry
// budget is respawned while its symbol remains tracked.
type Supervisor struct {
	Config   *models.MConfig
	Logger   *logger.Logger
	Registry interfaces.IRegistry

	mu      sync.Mutex
	workers map[string]*workerHandle
}

// -----------------------------------------------------------------------------

// workerHandle pairs a worker's cancel function with its completion signal.
type workerHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// -----------------------------------------------------------------------------

func NewSupervisor(cfg *models.MConfig, reg interfaces.IRegistry, log *logger.Logger) *Supervisor {
	return &Supervisor{
		Config:   cfg,
		Logger:   log,
		Registry: reg,
		workers:  make(map[string]*workerHandle),
	}
}

// -----------------------------------------------------------------------------

// Run reconciles workers until ctx is cancelled, then cancels every worker.
func (s *Supervisor) Run(ctx context.Context) error {
	interval := time.Duration(s.Config.Feed.ReconcileIntervalSec) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.Logger.Info("Feed supervisor starting (reconcile every %s)", interval)
	s.Reconcile(ctx)

	for {
		select {
		case <-ctx.Done():
			s.stopAll()
			return nil

		case <-ticker.C:
			s.Reconcile(ctx)
		}
	}
}

// -----------------------------------------------------------------------------

// Reconcile runs one pass: spawn workers for newly tracked symbols, replace
// workers that stopped with their symbol still tracked, cancel the rest.
func (s *Supervisor) Reconcile(ctx context.Context) {
	desired := make(map[string]struct{})
	for _, sym := range s.Registry.ListSymbols() {
		desired[sym] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for sym := range desired {
		if h, ok := s.workers[sym]; ok {
			select {
			case <-h.done:
				// Retry budget exhausted while still tracked: replace it.
				s.Logger.Warning("[%s] Worker dead, respawning", sym)
				delete(s.workers, sym)
			default:
				continue
			}
		}
		s.workers[sym] = s.spawn(ctx, sym)
		s.Logger.Info("Started stream for %s", sym)
	}

	for sym, h := range s.workers {
		if _, ok := desired[sym]; !ok {
			s.Logger.Info("Stopping stream for %s", sym)
			h.cancel()
			delete(s.workers, sym)
		}
	}
}

// -----------------------------------------------------------------------------

// ActiveWorkers returns how many workers currently hold a handle.
func (s *Supervisor) ActiveWorkers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.workers)
}

// -----------------------------------------------------------------------------
// Internal Helpers
// -----------------------------------------------------------------------------

func (s *Supervisor) spawn(ctx context.Context, symbol string) *workerHandle {
	wctx, cancel := context.WithCancel(ctx)
	h := &workerHandle{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	w := newWorker(symbol, s.Config.Feed, s.Registry,
		logger.NewLogger(s.Config.LogLevel, "FeedWorker"))

	go func() {
		defer close(h.done)
		w.run(wctx)
	}()

	return h
}

// -----------------------------------------------------------------------------

func (s *Supervisor) stopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for sym, h := range s.workers {
		h.cancel()
		delete(s.workers, sym)
	}
	s.Logger.Info("All streams stopped")
}
