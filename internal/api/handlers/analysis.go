// Package handlers contains the HTTP handlers for the API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/jlim/tickerpulse/internal/engine"
	"github.com/jlim/tickerpulse/internal/setups"
	"github.com/jlim/tickerpulse/pkg/logger"
)

// AnalysisHandler handles per-ticker analysis and screening endpoints.
type AnalysisHandler struct {
	engine *engine.Engine
	logger *logger.Logger
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(eng *engine.Engine, log *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		engine: eng,
		logger: log,
	}
}

// GetAnalysis returns the full technical picture for one ticker.
// GET /api/analyze/{ticker}
func (h *AnalysisHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ticker := strings.ToUpper(mux.Vars(r)["ticker"])
	if ticker == "" {
		respondError(w, http.StatusBadRequest, "Ticker is required")
		return
	}

	analysis, err := h.engine.AnalyzeFull(ctx, ticker)
	if err != nil {
		if errors.Is(err, engine.ErrNoData) {
			respondError(w, http.StatusNotFound, "No price data for "+ticker)
			return
		}
		h.logger.WithError(err).Error("Failed to analyze ticker")
		respondError(w, http.StatusInternalServerError, "Failed to analyze "+ticker)
		return
	}

	respondJSON(w, http.StatusOK, analysis)
}

// Screen runs the screener over a ticker list, or the whole configured
// universe when no tickers are given.
// GET /api/screen?tickers=AAPL,MSFT&min_score=60&setup=breakout
func (h *AnalysisHandler) Screen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	minScore := 0
	if raw := q.Get("min_score"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 || v > 100 {
			respondError(w, http.StatusBadRequest, "min_score must be an integer in [0,100]")
			return
		}
		minScore = v
	}

	var filter setups.Type
	if raw := q.Get("setup"); raw != "" {
		filter = setups.Type(raw)
		if !filter.Valid() {
			respondError(w, http.StatusBadRequest, "Invalid setup type (valid: "+strings.Join(typeNames(), ", ")+")")
			return
		}
	}

	var results []engine.ScreenerResult
	if raw := q.Get("tickers"); raw != "" {
		tickers := splitTickers(raw)
		if len(tickers) == 0 {
			respondError(w, http.StatusBadRequest, "tickers must be a comma-separated list")
			return
		}
		results = h.engine.Screen(ctx, tickers, minScore, filter)
	} else {
		results = h.engine.ScreenUniverse(ctx, minScore, filter)
	}

	respondJSON(w, http.StatusOK, ScreenResponse{
		Count:   len(results),
		Results: results,
	})
}

// ScreenResponse wraps screener output with a result count.
type ScreenResponse struct {
	Count   int                     `json:"count"`
	Results []engine.ScreenerResult `json:"results"`
}

func splitTickers(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func typeNames() []string {
	names := make([]string, 0, len(setups.AllTypes))
	for _, t := range setups.AllTypes {
		names = append(names, string(t))
	}
	return names
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
