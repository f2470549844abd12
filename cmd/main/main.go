package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"price-streamer/src/catalog"
	"price-streamer/src/config"
	"price-streamer/src/feed"
	"price-streamer/src/interfaces"
	"price-streamer/src/logger"
	"price-streamer/src/registry"
	"price-streamer/src/server"
	"price-streamer/src/storage"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

// -----------------------------------------------------------------------------

func main() {

	// Parse command line flags
	configPath := flag.String("config", "config/default.yaml", "path to config file")
	flag.Parse()

	// Optional .env for deployment overrides
	_ = godotenv.Load()

	// Load config from YAML file
	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	appLogger := logger.NewLogger(cfg.LogLevel, cfg.Name)
	appLogger.Info("STARTING CRYPTO PRICE STREAMING PLATFORM")

	// 1. Watchlist storage
	var store interfaces.IWatchlistStore

	switch cfg.Storage.DBType {
	case "postgres":
		store, err = storage.NewPostgresWatchlist(cfg.MConfig, appLogger)
	default:
		// Default to SQLite
		store, err = storage.NewSQLiteWatchlist(cfg.MConfig, appLogger)
	}

	if err != nil {
		appLogger.Critical("Failed to init storage: %v", err)
	}
	if err := store.Initialize(); err != nil {
		appLogger.Critical("Failed to migrate storage: %v", err)
	}
	defer store.Close()

	// 2. Lifecycle context, cancelled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Recognized-symbol catalog
	cat := catalog.NewCatalog(cfg.MConfig, logger.NewLogger(cfg.LogLevel, "Catalog"))
	if err := cat.Fetch(ctx); err != nil {
		appLogger.Critical("Failed to fetch symbol catalog: %v", err)
	}

	// 4. Registry, resuming the persisted watchlist
	reg := registry.NewSymbolRegistry(logger.NewLogger(cfg.LogLevel, "Registry"))

	if symbols, err := store.LoadSymbols(); err != nil {
		appLogger.Error("Failed to load persisted watchlist: %v", err)
	} else {
		for _, sym := range symbols {
			if !cat.IsValid(sym) {
				appLogger.Warning("Persisted symbol %s no longer tradeable, skipping", sym)
				continue
			}
			reg.Add(sym)
		}
	}

	// 5. Server shell + broadcast hub, feed supervisor
	srv := server.NewStreamServer(cfg.MConfig, logger.NewLogger(cfg.LogLevel, "Server"), reg, cat, store)
	sup := feed.NewSupervisor(cfg.MConfig, reg, logger.NewLogger(cfg.LogLevel, "Supervisor"))

	// 6. Run everything until the context dies
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return reg.Run(ctx, srv) })
	g.Go(func() error { return sup.Run(ctx) })
	g.Go(func() error { return cat.RefreshLoop(ctx) })
	g.Go(func() error { return srv.Start(ctx) })

	if err := g.Wait(); err != nil {
		appLogger.Error("Shutdown with error: %v", err)
	}
	appLogger.Info("SHUTTING DOWN CRYPTO PRICE STREAMING PLATFORM")
}
