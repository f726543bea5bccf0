package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/deckwise/deck-advisor/internal/advisor"
	"github.com/deckwise/deck-advisor/internal/api/response"
	"github.com/deckwise/deck-advisor/internal/events"
	"github.com/deckwise/deck-advisor/internal/format"
	"github.com/deckwise/deck-advisor/internal/storage/repository"
)

// CollectionHandler handles collection-related API requests.
type CollectionHandler struct {
	collections repository.CollectionRepository
	advisor     *advisor.Advisor
}

// NewCollectionHandler creates a new CollectionHandler.
func NewCollectionHandler(collections repository.CollectionRepository, adv *advisor.Advisor) *CollectionHandler {
	return &CollectionHandler{collections: collections, advisor: adv}
}

// CreateCollectionRequest represents a request to create a collection.
type CreateCollectionRequest struct {
	Name string `json:"name"`
}

// CreateCollection creates a new, empty collection.
func (h *CollectionHandler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	var req CreateCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}
	if req.Name == "" {
		response.BadRequest(w, errors.New("collection name is required"))
		return
	}

	id := uuid.New().String()
	if err := h.collections.CreateCollection(r.Context(), id, req.Name); err != nil {
		response.InternalError(w, err)
		return
	}

	response.Created(w, map[string]string{"id": id, "name": req.Name})
}

// AdjustCardRequest changes the owned quantity of one card.
type AdjustCardRequest struct {
	CardID string `json:"cardId"`
	Delta  int    `json:"delta"`
}

// AdjustCard applies a quantity delta to one owned card and notifies the
// advisor so caches invalidate and progress tracking re-runs.
func (h *CollectionHandler) AdjustCard(w http.ResponseWriter, r *http.Request) {
	collectionID := chi.URLParam(r, "collectionID")

	var req AdjustCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}
	if req.CardID == "" {
		response.BadRequest(w, errors.New("card ID is required"))
		return
	}
	if req.Delta == 0 {
		response.BadRequest(w, errors.New("delta cannot be zero"))
		return
	}

	quantity, err := h.collections.AdjustQuantity(r.Context(), collectionID, req.CardID, req.Delta)
	if err != nil {
		response.InternalError(w, err)
		return
	}

	h.advisor.RecordCollectionChange(r.Context(), events.CollectionChangeEvent{
		CollectionID:  collectionID,
		CardID:        req.CardID,
		DeltaQuantity: req.Delta,
	})

	response.Success(w, map[string]any{
		"cardId":   req.CardID,
		"quantity": quantity,
	})
}

// GetCoverage reports how much of each format the collection covers.
// With ?format= it reports one format, otherwise all supported formats.
func (h *CollectionHandler) GetCoverage(w http.ResponseWriter, r *http.Request) {
	collectionID := chi.URLParam(r, "collectionID")

	if raw := r.URL.Query().Get("format"); raw != "" {
		f, err := format.Parse(raw)
		if err != nil {
			response.BadRequest(w, err)
			return
		}
		coverage, err := h.advisor.GetFormatCoverage(r.Context(), collectionID, f)
		if err != nil {
			response.InternalError(w, err)
			return
		}
		response.Success(w, coverage)
		return
	}

	coverage, err := h.advisor.GetAllFormatCoverage(r.Context(), collectionID)
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.Success(w, coverage)
}

// GetBuildable reports which archetype templates the collection can build,
// ranked by completeness.
func (h *CollectionHandler) GetBuildable(w http.ResponseWriter, r *http.Request) {
	collectionID := chi.URLParam(r, "collectionID")

	f, err := format.Parse(r.URL.Query().Get("format"))
	if err != nil {
		response.BadRequest(w, err)
		return
	}
	limit := queryInt(r, "limit", 0)

	report, err := h.advisor.GetBuildableDecks(r.Context(), collectionID, f, limit)
	if err != nil {
		response.InternalError(w, err)
		return
	}

	response.Success(w, report)
}
