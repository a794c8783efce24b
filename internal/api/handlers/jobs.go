package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/jlim/tickerpulse/internal/scheduler"
	"github.com/jlim/tickerpulse/pkg/logger"
)

// JobHandler handles scheduler inspection and manual triggers.
type JobHandler struct {
	scheduler *scheduler.Scheduler
	logger    *logger.Logger
}

// NewJobHandler creates a new job handler.
func NewJobHandler(sched *scheduler.Scheduler, log *logger.Logger) *JobHandler {
	return &JobHandler{
		scheduler: sched,
		logger:    log,
	}
}

// ListJobs returns the registered job names.
// GET /api/jobs
func (h *JobHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"jobs": h.scheduler.Jobs(),
	})
}

// GetHistory returns recent run records for one job.
// GET /api/jobs/{name}/history?limit=20
func (h *JobHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = v
	}

	records, err := h.scheduler.History(name, limit)
	if err != nil {
		respondError(w, http.StatusNotFound, "Unknown job "+name)
		return
	}

	rate, _ := h.scheduler.SuccessRate(name)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"job":          name,
		"success_rate": rate,
		"history":      records,
	})
}

// Trigger runs one job immediately, outside its schedule.
// POST /api/jobs/{name}/trigger
func (h *JobHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	if err := h.scheduler.Trigger(name); err != nil {
		respondError(w, http.StatusNotFound, "Unknown job "+name)
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]string{
		"status": "triggered",
		"job":    name,
	})
}
