// Command deck-advisor runs the deck recommendation service: a REST API and
// WebSocket event stream over a SQLite-backed card catalog, collections,
// and decks.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deckwise/deck-advisor/internal/advisor"
	"github.com/deckwise/deck-advisor/internal/analyzer"
	"github.com/deckwise/deck-advisor/internal/api"
	"github.com/deckwise/deck-advisor/internal/api/websocket"
	"github.com/deckwise/deck-advisor/internal/cache"
	"github.com/deckwise/deck-advisor/internal/catalog"
	"github.com/deckwise/deck-advisor/internal/collection"
	"github.com/deckwise/deck-advisor/internal/config"
	"github.com/deckwise/deck-advisor/internal/events"
	"github.com/deckwise/deck-advisor/internal/progress"
	"github.com/deckwise/deck-advisor/internal/storage"
	"github.com/deckwise/deck-advisor/internal/storage/repository"
)

var (
	configPath  = flag.String("config", "", "Path to config file (default: ~/.deck-advisor/config.toml)")
	port        = flag.Int("port", 0, "HTTP port (overrides config)")
	catalogPath = flag.String("catalog", "", "Path to bulk card JSON file (overrides config)")
	debugMode   = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		log.Fatalf("[Main] %v", err)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}

	// Run migrations before opening the pool.
	mm, err := storage.NewMigrationManager(dbPath)
	if err != nil {
		return fmt.Errorf("create migration manager: %w", err)
	}
	if err := mm.Up(); err != nil {
		_ = mm.Close()
		return fmt.Errorf("run migrations: %w", err)
	}
	if err := mm.Close(); err != nil {
		return fmt.Errorf("close migration manager: %w", err)
	}

	db, err := storage.Open(storage.DefaultConfig(dbPath))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("[Main] Error closing database: %v", err)
		}
	}()

	// Repositories.
	cardRepo := repository.NewCardRepository(db.Conn())
	collectionRepo := repository.NewCollectionRepository(db.Conn())
	deckRepo := repository.NewDeckRepository(db.Conn())
	templateRepo := repository.NewTemplateRepository(db.Conn())

	// Core services.
	recCache := cache.New(cfg.CacheTTLs())
	dispatcher := events.NewDispatcher()
	collections := collection.NewService(collectionRepo, cardRepo)
	deckAnalyzer := analyzer.NewAnalyzer(templateRepo, collections)
	adv := advisor.New(cardRepo, collections, deckRepo, deckAnalyzer, recCache, dispatcher)

	// Observers.
	dispatcher.Register(events.NewLoggingObserver(cfg.App.DebugMode))
	dispatcher.Register(progress.NewTracker(deckAnalyzer, dispatcher))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Catalog load and optional hot reload.
	loader := catalog.NewLoader(cardRepo, recCache, dispatcher)
	if cfg.Catalog.Path != "" {
		if _, err := loader.Load(ctx, cfg.Catalog.Path); err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		if cfg.Catalog.Watch {
			watcher := catalog.NewWatcher(loader, cfg.Catalog.Path)
			go func() {
				if err := watcher.Start(ctx); err != nil && ctx.Err() == nil {
					log.Printf("[Main] Catalog watcher stopped: %v", err)
				}
			}()
		}
	} else if count, err := cardRepo.Count(ctx); err == nil && count == 0 {
		log.Println("[Main] Warning: card catalog is empty and no catalog file is configured")
	}

	// HTTP server.
	server := api.NewServer(&api.Config{
		Port:      cfg.Server.Port,
		RateLimit: cfg.Server.RateLimit,
		RateBurst: cfg.Server.RateBurst,
	}, adv, api.Stores{
		Decks:       deckRepo,
		Collections: collectionRepo,
	}, recCache)

	dispatcher.Register(websocket.NewObserver(server.WebSocketHub()))

	if err := server.Start(); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	// Wait for shutdown signal.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("[Main] Received %s, shutting down", sig)

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}

	log.Println("[Main] Goodbye")
	return nil
}

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error

	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// Flag overrides.
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *catalogPath != "" {
		cfg.Catalog.Path = *catalogPath
	}
	if *debugMode {
		cfg.App.DebugMode = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
