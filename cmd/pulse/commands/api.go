package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jlim/tickerpulse/internal/api"
	"github.com/jlim/tickerpulse/internal/api/handlers"
	"github.com/jlim/tickerpulse/internal/scheduler"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server together with the job scheduler.

Endpoints:
  GET    /health                    - Health check
  GET    /api/analyze/{ticker}      - Full technical analysis
  GET    /api/screen                - Screener over tickers or the universe
  GET    /api/sectors               - Configured sectors
  GET    /api/sectors/rotation      - Sector rotation view
  GET    /api/sectors/{name}        - One sector's aggregate metrics
  POST   /api/signals               - Record an external signal
  POST   /api/signals/backfill      - Apply known outcome prices
  POST   /api/signals/sweep         - Sweep pending outcomes
  GET    /api/signals/accuracy      - Accuracy report
  GET    /api/cache/stats           - Price cache statistics
  DELETE /api/cache/{ticker}        - Invalidate one ticker
  DELETE /api/cache                 - Clear the price cache
  GET    /api/jobs                  - Registered scheduler jobs
  GET    /api/jobs/{name}/history   - Job run history
  POST   /api/jobs/{name}/trigger   - Run a job immediately

Example:
  go run ./cmd/pulse api
  go run ./cmd/pulse api --port 8087`,
	RunE: runAPIServer,
}

var (
	apiPort        string
	apiNoScheduler bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
	apiCmd.Flags().BoolVar(&apiNoScheduler, "no-scheduler", false, "serve without the job scheduler")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== tickerpulse API Server ===")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	var jobHandler *handlers.JobHandler
	var sched *scheduler.Scheduler
	if !apiNoScheduler {
		sched, err = newScheduler(a)
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
		jobHandler = handlers.NewJobHandler(sched, a.log)
	}

	router := api.NewRouter(
		handlers.NewAnalysisHandler(a.engine, a.log),
		handlers.NewSectorHandler(a.engine, a.log),
		handlers.NewSignalHandler(a.engine, a.log),
		handlers.NewCacheHandler(a.cache, a.log),
		jobHandler,
		a.log,
	)

	server := api.New(a.cfg, a.log, router)

	go func() {
		if err := server.Start(); err != nil {
			a.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	a.log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}

// newScheduler registers the standing jobs against a wired app.
func newScheduler(a *app) (*scheduler.Scheduler, error) {
	sched := scheduler.New(a.log)

	jobs := []scheduler.Job{
		&scheduler.ScanJob{
			Engine:   a.engine,
			MinScore: a.strategy.Screening.MinScore,
			Logger:   a.log,
		},
		&scheduler.BackfillJob{
			Engine: a.engine,
			Logger: a.log,
		},
		&scheduler.MaintenanceJob{
			Engine:        a.engine,
			Store:         a.store,
			RetentionDays: a.cfg.Engine.RetentionDays,
			Logger:        a.log,
		},
	}
	for _, j := range jobs {
		if err := sched.Register(j); err != nil {
			return nil, fmt.Errorf("register job %s: %w", j.Name(), err)
		}
	}
	return sched, nil
}
