package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/jlim/tickerpulse/internal/api/handlers"
	"github.com/jlim/tickerpulse/pkg/logger"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(
	analysisHandler *handlers.AnalysisHandler,
	sectorHandler *handlers.SectorHandler,
	signalHandler *handlers.SignalHandler,
	cacheHandler *handlers.CacheHandler,
	jobHandler *handlers.JobHandler,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Analysis endpoints
	api.HandleFunc("/analyze/{ticker}", analysisHandler.GetAnalysis).Methods("GET")
	api.HandleFunc("/screen", analysisHandler.Screen).Methods("GET")

	// Sector endpoints
	api.HandleFunc("/sectors", sectorHandler.ListSectors).Methods("GET")
	api.HandleFunc("/sectors/rotation", sectorHandler.GetRotation).Methods("GET")
	api.HandleFunc("/sectors/{name}", sectorHandler.GetSector).Methods("GET")

	// Signal ledger endpoints
	api.HandleFunc("/signals", signalHandler.Record).Methods("POST")
	api.HandleFunc("/signals/backfill", signalHandler.Backfill).Methods("POST")
	api.HandleFunc("/signals/sweep", signalHandler.Sweep).Methods("POST")
	api.HandleFunc("/signals/accuracy", signalHandler.Accuracy).Methods("GET")

	// Cache endpoints
	api.HandleFunc("/cache/stats", cacheHandler.GetStats).Methods("GET")
	api.HandleFunc("/cache/{ticker}", cacheHandler.Invalidate).Methods("DELETE")
	api.HandleFunc("/cache", cacheHandler.Clear).Methods("DELETE")

	// Scheduler endpoints
	if jobHandler != nil {
		api.HandleFunc("/jobs", jobHandler.ListJobs).Methods("GET")
		api.HandleFunc("/jobs/{name}/history", jobHandler.GetHistory).Methods("GET")
		api.HandleFunc("/jobs/{name}/trigger", jobHandler.Trigger).Methods("POST")
	}

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "tickerpulse-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
