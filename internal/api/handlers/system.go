package handlers

import (
	"net/http"

	"github.com/deckwise/deck-advisor/internal/api/response"
	"github.com/deckwise/deck-advisor/internal/cache"
	"github.com/deckwise/deck-advisor/internal/format"
)

// SystemHandler handles operational endpoints.
type SystemHandler struct {
	cache *cache.Cache
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(c *cache.Cache) *SystemHandler {
	return &SystemHandler{cache: c}
}

// GetCacheStats returns cache hit/miss/eviction counters.
func (h *SystemHandler) GetCacheStats(w http.ResponseWriter, r *http.Request) {
	stats := h.cache.GetStats()
	response.Success(w, map[string]any{
		"hits":          stats.Hits,
		"misses":        stats.Misses,
		"evictions":     stats.Evictions,
		"invalidations": stats.Invalidations,
		"hitRate":       h.cache.HitRate(),
	})
}

// SweepCache evicts expired cache entries and reports how many went.
func (h *SystemHandler) SweepCache(w http.ResponseWriter, r *http.Request) {
	swept := h.cache.Sweep()
	response.Success(w, map[string]int{"swept": swept})
}

// GetFormats lists the supported formats.
func (h *SystemHandler) GetFormats(w http.ResponseWriter, r *http.Request) {
	response.Success(w, format.Supported())
}
