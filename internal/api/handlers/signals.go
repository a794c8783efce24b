package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jlim/tickerpulse/internal/engine"
	"github.com/jlim/tickerpulse/internal/signalstore"
	"github.com/jlim/tickerpulse/pkg/logger"
)

// SignalHandler handles the signal ledger and accuracy endpoints.
type SignalHandler struct {
	engine *engine.Engine
	logger *logger.Logger
}

// NewSignalHandler creates a new signal handler.
func NewSignalHandler(eng *engine.Engine, log *logger.Logger) *SignalHandler {
	return &SignalHandler{
		engine: eng,
		logger: log,
	}
}

// RecordRequest represents an incoming signal to persist. Technical
// fields left zero are filled from a fresh analysis before the write.
type RecordRequest struct {
	Ticker     string  `json:"ticker"`
	Date       string  `json:"date"` // YYYY-MM-DD, defaults to today
	Sentiment  string  `json:"sentiment"`
	Mentions   int     `json:"mentions"`
	Confluence int     `json:"confluence_score"`
	Price      float64 `json:"price_at_signal"`
}

// Record persists one external signal.
// POST /api/signals
func (h *SignalHandler) Record(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	date := time.Now().UTC()
	if req.Date != "" {
		var err error
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid date format (expected YYYY-MM-DD)")
			return
		}
	}

	sig := &signalstore.Signal{
		SignalDate:    date,
		Ticker:        strings.ToUpper(req.Ticker),
		Sentiment:     signalstore.Sentiment(strings.ToLower(req.Sentiment)),
		Mentions:      req.Mentions,
		Confluence:    req.Confluence,
		PriceAtSignal: req.Price,
	}

	if err := h.engine.RecordSignal(ctx, sig); err != nil {
		h.logger.WithError(err).Error("Failed to record signal")
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, sig)
}

// BackfillRequest carries explicit outcome prices keyed by trading-day
// offset from the signal date.
type BackfillRequest struct {
	Ticker string          `json:"ticker"`
	Date   string          `json:"date"`
	Prices map[int]float64 `json:"prices"`
}

// Backfill applies known outcome prices to one signal.
// POST /api/signals/backfill
func (h *SignalHandler) Backfill(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req BackfillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date format (expected YYYY-MM-DD)")
		return
	}

	if err := h.engine.BackfillOutcomes(ctx, strings.ToUpper(req.Ticker), date, req.Prices); err != nil {
		h.logger.WithError(err).Error("Failed to backfill signal")
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status": "success",
		"ticker": strings.ToUpper(req.Ticker),
	})
}

// Sweep fills pending outcomes from the price cache.
// POST /api/signals/sweep
func (h *SignalHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	updated, err := h.engine.SweepOutcomes(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Outcome sweep failed")
		respondError(w, http.StatusInternalServerError, "Outcome sweep failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"updated": updated,
	})
}

// Accuracy reports hit rates over a trailing window.
// GET /api/signals/accuracy?days=30
func (h *SignalHandler) Accuracy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			respondError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = v
	}

	report, err := h.engine.AccuracyStats(ctx, days)
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute accuracy stats")
		respondError(w, http.StatusInternalServerError, "Failed to compute accuracy stats")
		return
	}

	respondJSON(w, http.StatusOK, report)
}
