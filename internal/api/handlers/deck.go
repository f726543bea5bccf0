// Package handlers implements the HTTP handlers for the REST API.
package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/deckwise/deck-advisor/internal/advisor"
	"github.com/deckwise/deck-advisor/internal/api/response"
	"github.com/deckwise/deck-advisor/internal/cards"
	"github.com/deckwise/deck-advisor/internal/deck"
	"github.com/deckwise/deck-advisor/internal/format"
	"github.com/deckwise/deck-advisor/internal/storage/repository"
)

// DeckHandler handles deck-related API requests.
type DeckHandler struct {
	decks   repository.DeckRepository
	advisor *advisor.Advisor
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(decks repository.DeckRepository, adv *advisor.Advisor) *DeckHandler {
	return &DeckHandler{decks: decks, advisor: adv}
}

// GetDecks returns all decks.
func (h *DeckHandler) GetDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := h.decks.ListDecks(r.Context())
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.Success(w, decks)
}

// CreateDeckRequest represents a request to create a deck.
type CreateDeckRequest struct {
	Name         string   `json:"name"`
	Format       string   `json:"format"`
	CollectionID string   `json:"collectionId,omitempty"`
	CommanderID  string   `json:"commanderId,omitempty"`
	Colors       []string `json:"colors,omitempty"`
	Strategy     string   `json:"strategy,omitempty"`
}

// CreateDeck creates a new deck.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	var req CreateDeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	if req.Name == "" {
		response.BadRequest(w, errors.New("deck name is required"))
		return
	}
	if _, err := format.Parse(req.Format); err != nil {
		response.BadRequest(w, err)
		return
	}

	d := &deck.Deck{
		ID:            uuid.New().String(),
		Name:          req.Name,
		Format:        req.Format,
		CollectionID:  req.CollectionID,
		CommanderID:   req.CommanderID,
		ColorIdentity: req.Colors,
		Strategy:      req.Strategy,
	}
	if err := h.decks.CreateDeck(r.Context(), d); err != nil {
		response.InternalError(w, err)
		return
	}

	response.Created(w, d)
}

// GetDeck returns a single deck by ID.
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	deckID := chi.URLParam(r, "deckID")

	d, err := h.decks.GetDeck(r.Context(), deckID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			response.NotFound(w, errors.New("deck not found"))
			return
		}
		response.InternalError(w, err)
		return
	}

	response.Success(w, d)
}

// DeleteDeck deletes a deck.
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	deckID := chi.URLParam(r, "deckID")

	if err := h.decks.DeleteDeck(r.Context(), deckID); err != nil {
		response.InternalError(w, err)
		return
	}

	response.NoContent(w)
}

// GetSuggestions returns ranked card suggestions for a deck. The format and
// collection default to the deck's own when not given as query parameters.
func (h *DeckHandler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	deckID := chi.URLParam(r, "deckID")

	d, err := h.decks.GetDeck(r.Context(), deckID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			response.NotFound(w, errors.New("deck not found"))
			return
		}
		response.InternalError(w, err)
		return
	}

	formatName := r.URL.Query().Get("format")
	if formatName == "" {
		formatName = d.Format
	}
	f, err := format.Parse(formatName)
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	collectionID := r.URL.Query().Get("collection")
	if collectionID == "" {
		collectionID = d.CollectionID
	}
	if collectionID == "" {
		response.BadRequest(w, errors.New("deck has no collection; pass ?collection="))
		return
	}

	var categoryFilter cards.CardCategory
	if raw := r.URL.Query().Get("category"); raw != "" {
		categoryFilter = cards.CardCategory(raw)
	}

	limit := queryInt(r, "limit", 0)
	offset := queryInt(r, "offset", 0)

	page, err := h.advisor.GetSuggestions(r.Context(), deckID, collectionID, f, categoryFilter, limit, offset)
	if err != nil {
		response.InternalError(w, err)
		return
	}

	response.Success(w, page)
}

// GetValidation validates a deck against its format's rules. Rule
// violations come back as data, not as an HTTP error.
func (h *DeckHandler) GetValidation(w http.ResponseWriter, r *http.Request) {
	deckID := chi.URLParam(r, "deckID")

	result, err := h.advisor.ValidateDeck(r.Context(), deckID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			response.NotFound(w, errors.New("deck not found"))
			return
		}
		var unsupported *format.UnsupportedFormatError
		if errors.As(err, &unsupported) {
			response.BadRequest(w, err)
			return
		}
		response.InternalError(w, err)
		return
	}

	response.Success(w, result)
}

// CardChangeRequest sets the quantity of one card in a deck. Quantity 0
// removes the card.
type CardChangeRequest struct {
	CardID   string `json:"cardId"`
	Quantity int    `json:"quantity"`
	Role     string `json:"role,omitempty"` // defaults to mainboard
}

// ApplyCardChange adds, updates, or removes one card entry in a deck.
func (h *DeckHandler) ApplyCardChange(w http.ResponseWriter, r *http.Request) {
	deckID := chi.URLParam(r, "deckID")

	var req CardChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}
	if req.CardID == "" {
		response.BadRequest(w, errors.New("card ID is required"))
		return
	}
	if req.Quantity < 0 {
		response.BadRequest(w, errors.New("quantity cannot be negative"))
		return
	}

	role := deck.RoleMainboard
	switch req.Role {
	case "", string(deck.RoleMainboard):
	case string(deck.RoleSideboard):
		role = deck.RoleSideboard
	case string(deck.RoleCommander):
		role = deck.RoleCommander
	default:
		response.BadRequest(w, errors.New("invalid role: "+req.Role))
		return
	}

	if err := h.advisor.ApplyCardChange(r.Context(), deckID, req.CardID, req.Quantity, role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			response.NotFound(w, errors.New("deck not found"))
			return
		}
		response.InternalError(w, err)
		return
	}

	response.NoContent(w)
}

// queryInt parses an integer query parameter with a fallback.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
