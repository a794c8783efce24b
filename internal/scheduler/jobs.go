package scheduler

import (
	"context"
	"time"

	"github.com/jlim/tickerpulse/internal/engine"
	"github.com/jlim/tickerpulse/internal/signalstore"
	"github.com/jlim/tickerpulse/pkg/logger"
)

// ScanJob screens the configured universe after the close and logs the
// strongest candidates.
type ScanJob struct {
	Engine   *engine.Engine
	MinScore int
	Logger   *logger.Logger
}

func (j *ScanJob) Name() string { return "daily_scan" }

// Weekdays at 17:30, after the US close.
func (j *ScanJob) Schedule() string { return "0 30 17 * * MON-FRI" }

func (j *ScanJob) Run(ctx context.Context) error {
	results := j.Engine.ScreenUniverse(ctx, j.MinScore, "")

	for i, r := range results {
		if i >= 10 {
			break
		}
		j.Logger.WithFields(map[string]interface{}{
			"ticker":      r.Ticker,
			"score":       r.Snapshot.Score,
			"total_score": r.TotalScore,
			"setups":      len(r.Setups),
		}).Info("scan candidate")
	}

	j.Logger.WithField("candidates", len(results)).Info("daily scan finished")
	return nil
}

// BackfillJob sweeps pending signal outcomes from cached prices.
type BackfillJob struct {
	Engine *engine.Engine
	Logger *logger.Logger
}

func (j *BackfillJob) Name() string { return "outcome_backfill" }

// Weekdays at 18:00, after the scan has refreshed the price cache.
func (j *BackfillJob) Schedule() string { return "0 0 18 * * MON-FRI" }

func (j *BackfillJob) Run(ctx context.Context) error {
	updated, err := j.Engine.SweepOutcomes(ctx)
	if err != nil {
		return err
	}
	j.Logger.WithField("updated", updated).Info("outcome backfill finished")
	return nil
}

// MaintenanceJob purges expired cache entries and prunes old signals.
type MaintenanceJob struct {
	Engine        *engine.Engine
	Store         signalstore.Store
	RetentionDays int
	Logger        *logger.Logger
}

func (j *MaintenanceJob) Name() string { return "maintenance" }

// Daily at 03:00.
func (j *MaintenanceJob) Schedule() string { return "0 0 3 * * *" }

func (j *MaintenanceJob) Run(ctx context.Context) error {
	purged, err := j.Engine.Cache().PurgeExpired(ctx)
	if err != nil {
		return err
	}

	retention := j.RetentionDays
	if retention <= 0 {
		retention = 180
	}
	pruned, err := j.Store.Prune(ctx, time.Now().AddDate(0, 0, -retention))
	if err != nil {
		return err
	}

	j.Logger.WithFields(map[string]interface{}{
		"cache_purged":   purged,
		"signals_pruned": pruned,
	}).Info("maintenance finished")
	return nil
}
