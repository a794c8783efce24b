// Package setups runs six independent trade-setup detectors over one
// ticker's technical snapshot and levels. Detectors are pure: same
// inputs, same output, and they are not mutually exclusive.
package setups

import (
	"github.com/jlim/tickerpulse/internal/indicators"
	"github.com/jlim/tickerpulse/internal/levels"
)

// Type identifies one of the closed set of setup heuristics.
type Type string

const (
	OversoldBounce       Type = "oversold_bounce"
	PullbackToEMA        Type = "pullback_to_ema"
	Breakout             Type = "breakout"
	MomentumContinuation Type = "momentum_continuation"
	MeanReversion        Type = "mean_reversion"
	BreakdownWarning     Type = "breakdown_warning"
)

// AllTypes lists every detector in evaluation order.
var AllTypes = []Type{
	OversoldBounce,
	PullbackToEMA,
	Breakout,
	MomentumContinuation,
	MeanReversion,
	BreakdownWarning,
}

// Valid reports whether t names a known setup type.
func (t Type) Valid() bool {
	for _, k := range AllTypes {
		if t == k {
			return true
		}
	}
	return false
}

// Setup is one detected trading opportunity. BreakdownWarning is a
// bearish warning, not a long setup: its stop sits above the broken
// support and its targets below price.
type Setup struct {
	Ticker       string             `json:"ticker"`
	Sector       string             `json:"sector,omitempty"`
	Type         Type               `json:"setup_type"`
	CurrentPrice float64            `json:"current_price"`
	EntryLow     float64            `json:"entry_low"`
	EntryHigh    float64            `json:"entry_high"`
	StopLoss     float64            `json:"stop_loss"`
	Target1      float64            `json:"target_1"`
	Target2      float64            `json:"target_2"`
	RiskReward   float64            `json:"risk_reward"`
	Confidence   int                `json:"confidence_score"`
	Signals      []string           `json:"signals"`
	Summary      map[string]float64 `json:"technical_summary"`
}

// Input bundles everything the detectors examine for one ticker.
type Input struct {
	Snapshot         *indicators.Snapshot
	Levels           *levels.Levels
	Fib              *levels.Fibonacci
	VolumeRatio      float64
	RelativeStrength float64 // pct return vs benchmark over the same window
	Sector           string
}

// DetectAll runs every detector and returns the setups that fired.
func DetectAll(in Input, th Thresholds) []Setup {
	if in.Snapshot == nil {
		return nil
	}

	var out []Setup
	for _, d := range detectors {
		if s, ok := d(in, th); ok {
			out = append(out, s)
		}
	}
	return out
}

type detector func(Input, Thresholds) (Setup, bool)

var detectors = []detector{
	detectOversoldBounce,
	detectPullback,
	detectBreakout,
	detectMomentum,
	detectMeanReversion,
	detectBreakdown,
}

// newSetup fills the fields shared by every detector. Risk/reward is
// reward to target 1 over risk to the stop; the breakdown detector
// passes inverted=true because its stop is above price.
func newSetup(in Input, t Type, stop, target1, target2 float64, signals []string, inverted bool) Setup {
	snap := in.Snapshot
	price := snap.Price

	var rr float64
	if inverted {
		if risk := stop - price; risk > 0 {
			rr = (price - target1) / risk
		}
	} else {
		if risk := price - stop; risk > 0 {
			rr = (target1 - price) / risk
		}
	}

	s := Setup{
		Ticker:       snap.Ticker,
		Sector:       in.Sector,
		Type:         t,
		CurrentPrice: price,
		EntryLow:     round2(price * 0.99),
		EntryHigh:    round2(price * 1.01),
		StopLoss:     round2(stop),
		Target1:      round2(target1),
		Target2:      round2(target2),
		RiskReward:   round2(rr),
		Signals:      signals,
		Confidence:   confidence(t, signals),
		Summary:      summarize(in),
	}
	return s
}

// summarize captures the indicator values a reader needs to sanity-check
// the setup.
func summarize(in Input) map[string]float64 {
	snap := in.Snapshot
	m := map[string]float64{
		"price":        round2(snap.Price),
		"score":        float64(snap.Score),
		"volume_ratio": round2(in.VolumeRatio),
	}
	if snap.RSI != nil {
		m["rsi"] = round2(*snap.RSI)
	}
	if snap.MACD != nil {
		m["macd_histogram"] = round4(snap.MACD.Histogram)
	}
	if snap.EMA20 != nil {
		m["ema_20"] = round2(*snap.EMA20)
	}
	if snap.EMA50 != nil {
		m["ema_50"] = round2(*snap.EMA50)
	}
	if snap.ADX != nil {
		m["adx"] = round2(snap.ADX.ADX)
	}
	return m
}
