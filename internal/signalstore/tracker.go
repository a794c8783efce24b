package signalstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jlim/tickerpulse/internal/marketdata"
	"github.com/jlim/tickerpulse/pkg/logger"
)

// Tracker records signals and back-fills realized outcomes.
type Tracker struct {
	store        Store
	cache        *marketdata.Cache
	lookbackDays int
	logger       *logger.Logger
}

func NewTracker(store Store, cache *marketdata.Cache, lookbackDays int, log *logger.Logger) *Tracker {
	if lookbackDays <= 0 {
		lookbackDays = 365
	}
	return &Tracker{store: store, cache: cache, lookbackDays: lookbackDays, logger: log}
}

// Record validates and upserts a freshly issued signal. Re-issuing on
// the same (date, ticker) overwrites the earlier row.
func (t *Tracker) Record(ctx context.Context, s *Signal) error {
	return t.store.Upsert(ctx, s)
}

// Backfill applies realized prices for one signal. Offsets absent from
// prices stay unfilled; unknown offsets are ignored.
func (t *Tracker) Backfill(ctx context.Context, ticker string, date time.Time, prices map[int]float64) error {
	s, err := t.store.Get(ctx, date, ticker)
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("no signal for %s on %s", ticker, day(date).Format("2006-01-02"))
	}

	for _, offset := range OutcomeOffsets {
		if p, ok := prices[offset]; ok {
			s.ApplyOutcome(offset, p)
		}
	}

	return t.store.Upsert(ctx, s)
}

// Sweep walks every pending signal sequentially and fills whatever
// offsets the price series already covers. Row failures are logged and
// skipped so one bad ticker never aborts the sweep.
func (t *Tracker) Sweep(ctx context.Context, asOf time.Time) (int, error) {
	// Only signals at least one day old can have an outcome.
	pending, err := t.store.Pending(ctx, asOf.AddDate(0, 0, -1))
	if err != nil {
		return 0, fmt.Errorf("load pending signals: %w", err)
	}

	updated := 0
	for _, s := range pending {
		if ctx.Err() != nil {
			return updated, ctx.Err()
		}
		if t.sweepOne(ctx, s) {
			updated++
		}
	}

	t.logger.WithFields(map[string]interface{}{
		"pending": len(pending),
		"updated": updated,
	}).Info("outcome sweep finished")

	return updated, nil
}

func (t *Tracker) sweepOne(ctx context.Context, s *Signal) bool {
	series := t.cache.Get(ctx, s.Ticker, t.lookbackDays, false)
	if series.Empty() {
		t.logger.WithField("ticker", s.Ticker).Warn("sweep: no price data")
		return false
	}

	filled := false
	for _, offset := range OutcomeOffsets {
		if outcomeFilled(s, offset) {
			continue
		}
		price, ok := series.CloseAfter(s.SignalDate, offset)
		if !ok {
			continue // not enough trading days yet
		}
		s.ApplyOutcome(offset, price)
		filled = true
	}

	if !filled {
		return false
	}

	if err := t.store.Upsert(ctx, s); err != nil {
		t.logger.WithError(err).WithField("ticker", s.Ticker).Error("sweep: persist failed")
		return false
	}
	return true
}

func outcomeFilled(s *Signal, offset int) bool {
	switch offset {
	case 1:
		return s.Price1D != nil
	case 3:
		return s.Price3D != nil
	case 5:
		return s.Price5D != nil
	case 10:
		return s.Price10D != nil
	}
	return true
}
