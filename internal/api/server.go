// Package api exposes the advisor over a versioned REST interface plus a
// WebSocket event stream.
package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/deckwise/deck-advisor/internal/advisor"
	"github.com/deckwise/deck-advisor/internal/api/websocket"
	"github.com/deckwise/deck-advisor/internal/cache"
	"github.com/deckwise/deck-advisor/internal/storage/repository"
)

// Server represents the REST API server.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	port       int

	wsHub   *websocket.Hub
	limiter *rateLimiter

	advisor     *advisor.Advisor
	decks       repository.DeckRepository
	collections repository.CollectionRepository
	cache       *cache.Cache
}

// Config holds configuration for the API server.
type Config struct {
	Port      int
	RateLimit float64 // requests per second per client, 0 disables limiting
	RateBurst int
}

// DefaultConfig returns the default API server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:      8085,
		RateLimit: 20,
		RateBurst: 40,
	}
}

// Stores holds the repositories the API serves directly.
type Stores struct {
	Decks       repository.DeckRepository
	Collections repository.CollectionRepository
}

// NewServer creates a new API server.
func NewServer(cfg *Config, adv *advisor.Advisor, stores Stores, c *cache.Cache) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	s := &Server{
		router:      chi.NewRouter(),
		port:        cfg.Port,
		wsHub:       websocket.NewHub(),
		advisor:     adv,
		decks:       stores.Decks,
		collections: stores.Collections,
		cache:       c,
	}
	if cfg.RateLimit > 0 {
		s.limiter = newRateLimiter(cfg.RateLimit, cfg.RateBurst)
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))

	if s.limiter != nil {
		s.router.Use(s.limiter.middleware)
	}

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.router.Use(s.jsonContentTypeMiddleware)
}

// jsonContentTypeMiddleware enforces application/json content-type for
// requests with bodies.
func (s *Server) jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			if r.ContentLength == 0 {
				next.ServeHTTP(w, r)
				return
			}

			contentType := r.Header.Get("Content-Type")
			if contentType == "" || (contentType != "application/json" && !strings.HasPrefix(contentType, "application/json;")) {
				http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Start starts the API server in a goroutine.
func (s *Server) Start() error {
	go s.wsHub.Run()

	// Periodic upkeep: expired cache entries and idle rate limiters never
	// resolve themselves.
	go s.upkeepLoop()

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Printf("[API] Server starting on port %d", s.port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("[API] Server error: %v", err)
		}
	}()

	return nil
}

func (s *Server) upkeepLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if swept := s.cache.Sweep(); swept > 0 {
				log.Printf("[API] Swept %d expired cache entries", swept)
			}
			if s.limiter != nil {
				s.limiter.prune(10 * time.Minute)
			}
		case <-s.wsHub.Done():
			return
		}
	}
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.wsHub.Stop()
	if s.httpServer == nil {
		return nil
	}

	log.Println("[API] Shutting down server...")
	return s.httpServer.Shutdown(ctx)
}

// Port returns the port the server is configured to listen on.
func (s *Server) Port() int {
	return s.port
}

// WebSocketHub returns the hub, for registering the event observer.
func (s *Server) WebSocketHub() *websocket.Hub {
	return s.wsHub
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
