package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/jlim/tickerpulse/internal/engine"
	"github.com/jlim/tickerpulse/pkg/logger"
)

// SectorHandler handles sector aggregation endpoints.
type SectorHandler struct {
	engine *engine.Engine
	logger *logger.Logger
}

// NewSectorHandler creates a new sector handler.
func NewSectorHandler(eng *engine.Engine, log *logger.Logger) *SectorHandler {
	return &SectorHandler{
		engine: eng,
		logger: log,
	}
}

// ListSectors returns the configured sector names.
// GET /api/sectors
func (h *SectorHandler) ListSectors(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sectors": h.engine.Membership().Sectors(),
	})
}

// GetSector returns aggregated metrics for one sector.
// GET /api/sectors/{name}
func (h *SectorHandler) GetSector(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	name := strings.ToLower(mux.Vars(r)["name"])
	metrics, err := h.engine.AnalyzeSector(ctx, name)
	if err != nil {
		respondError(w, http.StatusNotFound, "Unknown sector "+name)
		return
	}

	respondJSON(w, http.StatusOK, metrics)
}

// GetRotation returns the cross-sector rotation view.
// GET /api/rotation
func (h *SectorHandler) GetRotation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	respondJSON(w, http.StatusOK, h.engine.Rotation(ctx))
}
