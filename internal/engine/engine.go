// Package engine is the facade tying the price cache, indicator
// computation, level finding, setup detection and the signal ledger
// together behind the operations the API and CLI expose.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jlim/tickerpulse/internal/indicators"
	"github.com/jlim/tickerpulse/internal/levels"
	"github.com/jlim/tickerpulse/internal/marketdata"
	"github.com/jlim/tickerpulse/internal/sectors"
	"github.com/jlim/tickerpulse/internal/setups"
	"github.com/jlim/tickerpulse/internal/signalstore"
	"github.com/jlim/tickerpulse/internal/strategyconfig"
	"github.com/jlim/tickerpulse/pkg/config"
	"github.com/jlim/tickerpulse/pkg/logger"
)

// ErrNoData marks a ticker whose price series is unavailable. Batch
// callers skip it; single-ticker callers surface it.
var ErrNoData = errors.New("no price data")

// benchmarkWindow is the trading-day window for relative strength.
const benchmarkWindow = 63

// Engine owns the analysis pipeline for one configured strategy.
type Engine struct {
	cache    *marketdata.Cache
	tracker  *signalstore.Tracker
	agg      *sectors.Aggregator
	members  *sectors.Membership
	strategy *strategyconfig.Config

	workers      int
	taskTimeout  time.Duration
	lookbackDays int
	benchmark    string

	logger *logger.Logger
}

// New wires an engine from its parts. The strategy provides detector
// thresholds and the sector universe; cfg provides the runtime knobs.
func New(
	cache *marketdata.Cache,
	store signalstore.Store,
	strategy *strategyconfig.Config,
	cfg config.EngineConfig,
	log *logger.Logger,
) *Engine {
	lookback := strategy.Cache.LookbackDays
	if lookback <= 0 {
		lookback = cfg.LookbackDays
	}

	members := sectors.NewMembership(strategy.Sectors)
	tracker := signalstore.NewTracker(store, cache, lookback, log)
	agg := sectors.NewAggregator(cache, members, cfg.Workers, lookback, cfg.TaskTimeout, log)

	return &Engine{
		cache:        cache,
		tracker:      tracker,
		agg:          agg,
		members:      members,
		strategy:     strategy,
		workers:      cfg.Workers,
		taskTimeout:  cfg.TaskTimeout,
		lookbackDays: lookback,
		benchmark:    cfg.Benchmark,
		logger:       log,
	}
}

// Cache exposes the price cache for operational endpoints.
func (e *Engine) Cache() *marketdata.Cache { return e.cache }

// Tracker exposes the accuracy tracker.
func (e *Engine) Tracker() *signalstore.Tracker { return e.tracker }

// Membership exposes the sector mapping.
func (e *Engine) Membership() *sectors.Membership { return e.members }

// Strategy exposes the loaded strategy config.
func (e *Engine) Strategy() *strategyconfig.Config { return e.strategy }

// series fetches a ticker's bars, re-fetching a full one-year window
// when the configured lookback yields too little history for the
// 52-week extremes.
func (e *Engine) series(ctx context.Context, ticker string) marketdata.PriceSeries {
	s := e.cache.Get(ctx, ticker, e.lookbackDays, false)
	if s.Len() < indicators.MinYearBars && e.lookbackDays < 365 {
		if full := e.cache.Get(ctx, ticker, 365, false); full.Len() > s.Len() {
			return full
		}
	}
	return s
}

// Analyze computes the technical snapshot for one ticker.
func (e *Engine) Analyze(ctx context.Context, ticker string) (*indicators.Snapshot, error) {
	series := e.series(ctx, ticker)
	if series.Empty() {
		return nil, fmt.Errorf("%s: %w", ticker, ErrNoData)
	}
	return indicators.Compute(&series), nil
}

// TickerAnalysis is the full per-instrument picture: snapshot, levels,
// Fibonacci range and whichever setups fired.
type TickerAnalysis struct {
	Ticker           string               `json:"ticker"`
	Sector           string               `json:"sector,omitempty"`
	Snapshot         *indicators.Snapshot `json:"snapshot"`
	Levels           *levels.Levels       `json:"levels"`
	Fib              *levels.Fibonacci    `json:"fibonacci,omitempty"`
	RelativeStrength float64              `json:"relative_strength"`
	Setups           []setups.Setup       `json:"setups"`
}

// AnalyzeFull runs the whole per-ticker pipeline.
func (e *Engine) AnalyzeFull(ctx context.Context, ticker string) (*TickerAnalysis, error) {
	series := e.series(ctx, ticker)
	if series.Empty() {
		return nil, fmt.Errorf("%s: %w", ticker, ErrNoData)
	}

	snap := indicators.Compute(&series)
	lv := levels.Find(series.Bars, snap.Price, levels.DefaultLookback, levels.DefaultClusterPct)
	fib := levels.Fib(series.Bars, levels.DefaultFibLookback)
	rs := e.relativeStrength(ctx, series)

	in := setups.Input{
		Snapshot:         snap,
		Levels:           lv,
		Fib:              fib,
		VolumeRatio:      snap.VolumeRatioOrDefault(),
		RelativeStrength: rs,
		Sector:           e.members.SectorOf(ticker),
	}

	return &TickerAnalysis{
		Ticker:           ticker,
		Sector:           in.Sector,
		Snapshot:         snap,
		Levels:           lv,
		Fib:              fib,
		RelativeStrength: rs,
		Setups:           setups.DetectAll(in, e.strategy.Detectors),
	}, nil
}

// relativeStrength is the ticker's trailing-quarter return minus the
// benchmark's. Zero when either side lacks history.
func (e *Engine) relativeStrength(ctx context.Context, series marketdata.PriceSeries) float64 {
	own, ok := series.ReturnOver(benchmarkWindow)
	if !ok || e.benchmark == "" {
		return 0
	}
	bench := e.cache.Get(ctx, e.benchmark, e.lookbackDays, false)
	benchRet, ok := bench.ReturnOver(benchmarkWindow)
	if !ok {
		return 0
	}
	return own - benchRet
}

// AnalyzeSector aggregates one sector.
func (e *Engine) AnalyzeSector(ctx context.Context, sector string) (*sectors.SectorMetrics, error) {
	return e.agg.Analyze(ctx, sector)
}

// Rotation aggregates every sector and buckets them.
func (e *Engine) Rotation(ctx context.Context) *sectors.RotationView {
	return sectors.Rotate(e.agg.AnalyzeAll(ctx))
}

// RecordSignal fills the technical fields from a fresh analysis when
// the caller left them empty, then persists the signal.
func (e *Engine) RecordSignal(ctx context.Context, sig *signalstore.Signal) error {
	if sig.TechScore == 0 || sig.PriceAtSignal == 0 {
		snap, err := e.Analyze(ctx, sig.Ticker)
		if err != nil {
			return err
		}
		if sig.PriceAtSignal == 0 {
			sig.PriceAtSignal = snap.Price
		}
		if sig.TechScore == 0 {
			sig.TechScore = snap.Score
			sig.TechBias = string(snap.Bias)
			sig.RSI = snap.RSI
			if snap.MACD != nil {
				sig.MACDTrend = snap.MACD.Trend
			}
		}
	}
	return e.tracker.Record(ctx, sig)
}

// BackfillOutcomes applies explicit realized prices to one signal.
func (e *Engine) BackfillOutcomes(ctx context.Context, ticker string, date time.Time, prices map[int]float64) error {
	return e.tracker.Backfill(ctx, ticker, date, prices)
}

// SweepOutcomes back-fills every pending signal from cached prices.
func (e *Engine) SweepOutcomes(ctx context.Context) (int, error) {
	return e.tracker.Sweep(ctx, time.Now())
}

// AccuracyStats reports hit rates over the trailing window.
func (e *Engine) AccuracyStats(ctx context.Context, days int) (*signalstore.Report, error) {
	return e.tracker.AccuracyStats(ctx, days)
}
