package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/deckwise/deck-advisor/internal/api/handlers"
	"github.com/deckwise/deck-advisor/internal/api/response"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check endpoint (no versioning)
	s.router.Get("/health", s.healthCheck)

	// WebSocket endpoint (no JSON content-type requirement)
	s.router.Get("/ws", s.wsHub.ServeWs)

	// API v1 routes
	s.router.Route("/api/v1", func(r chi.Router) {
		deckHandler := handlers.NewDeckHandler(s.decks, s.advisor)
		r.Route("/decks", func(r chi.Router) {
			r.Get("/", deckHandler.GetDecks)
			r.Post("/", deckHandler.CreateDeck)
			r.Get("/{deckID}", deckHandler.GetDeck)
			r.Delete("/{deckID}", deckHandler.DeleteDeck)
			r.Get("/{deckID}/suggestions", deckHandler.GetSuggestions)
			r.Get("/{deckID}/validation", deckHandler.GetValidation)
			r.Post("/{deckID}/cards", deckHandler.ApplyCardChange)
		})

		collectionHandler := handlers.NewCollectionHandler(s.collections, s.advisor)
		r.Route("/collections", func(r chi.Router) {
			r.Post("/", collectionHandler.CreateCollection)
			r.Post("/{collectionID}/cards", collectionHandler.AdjustCard)
			r.Get("/{collectionID}/coverage", collectionHandler.GetCoverage)
			r.Get("/{collectionID}/buildable", collectionHandler.GetBuildable)
		})

		systemHandler := handlers.NewSystemHandler(s.cache)
		r.Route("/system", func(r chi.Router) {
			r.Get("/formats", systemHandler.GetFormats)
			r.Get("/cache", systemHandler.GetCacheStats)
			r.Post("/cache/sweep", systemHandler.SweepCache)
		})
	})
}

// healthCheck reports service liveness.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"clients": s.wsHub.ClientCount(),
	})
}
