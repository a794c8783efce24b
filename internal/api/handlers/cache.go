package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/jlim/tickerpulse/internal/marketdata"
	"github.com/jlim/tickerpulse/pkg/logger"
)

// CacheHandler handles price cache operational endpoints.
type CacheHandler struct {
	cache  *marketdata.Cache
	logger *logger.Logger
}

// NewCacheHandler creates a new cache handler.
func NewCacheHandler(cache *marketdata.Cache, log *logger.Logger) *CacheHandler {
	return &CacheHandler{
		cache:  cache,
		logger: log,
	}
}

// GetStats returns cache occupancy and freshness counters.
// GET /api/cache/stats
func (h *CacheHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.cache.Stats(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to read cache stats")
		respondError(w, http.StatusInternalServerError, "Failed to read cache stats")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// Invalidate drops one ticker's cached series.
// DELETE /api/cache/{ticker}
func (h *CacheHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ticker := strings.ToUpper(mux.Vars(r)["ticker"])
	if err := h.cache.Invalidate(ctx, ticker); err != nil {
		h.logger.WithError(err).Error("Failed to invalidate cache entry")
		respondError(w, http.StatusInternalServerError, "Failed to invalidate "+ticker)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status": "success",
		"ticker": ticker,
	})
}

// Clear drops every cached series.
// DELETE /api/cache
func (h *CacheHandler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.cache.ClearAll(ctx); err != nil {
		h.logger.WithError(err).Error("Failed to clear cache")
		respondError(w, http.StatusInternalServerError, "Failed to clear cache")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status": "success",
	})
}
