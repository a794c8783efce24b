package indicators

import "github.com/jlim/tickerpulse/internal/marketdata"

// Default indicator periods
const (
	RSIPeriod       = 14
	MACDFast        = 12
	MACDSlow        = 26
	MACDSignal      = 9
	BollingerPeriod = 20
	BollingerMult   = 2.0
	ATRPeriod       = 14
	ADXPeriod       = 14
	StochRSIPeriod  = 14
)

// Compute folds every indicator over the series into one Snapshot.
// Indicators that cannot be computed from the available history are
// left nil. Returns nil only for an empty series.
func Compute(series *marketdata.PriceSeries) *Snapshot {
	if series == nil || series.Empty() {
		return nil
	}

	bars := series.Bars
	closes := series.Closes()
	last, _ := series.Last()

	snap := &Snapshot{
		Ticker:  series.Ticker,
		AsOf:    last.Date,
		Price:   last.Close,
		Bars:    len(bars),
		MATrend: MAMixed,
	}

	if v, ok := RSI(closes, RSIPeriod); ok {
		snap.RSI = &v
	}
	if m, ok := MACD(closes, MACDFast, MACDSlow, MACDSignal); ok {
		snap.MACD = m
	}
	if v, ok := EMA(closes, 20); ok {
		snap.EMA20 = &v
	}
	if v, ok := EMA(closes, 50); ok {
		snap.EMA50 = &v
	}
	if v, ok := EMA(closes, 200); ok {
		snap.EMA200 = &v
	}
	snap.MATrend = maTrend(snap.EMA20, snap.EMA50, snap.EMA200)

	if b, ok := Bollinger(closes, BollingerPeriod, BollingerMult); ok {
		snap.Bollinger = b
	}
	if a, ok := ATR(bars, ATRPeriod); ok {
		snap.ATR = a
	}
	if a, ok := ADX(bars, ADXPeriod); ok {
		snap.ADX = a
	}
	if s, ok := StochRSI(closes, StochRSIPeriod); ok {
		snap.StochRSI = s
	}
	if d, ok := Divergence(closes, RSIPeriod); ok {
		snap.Divergence = d
	}
	if e, ok := Extremes(bars); ok {
		snap.Extremes = e
	}
	if v, ok := VolumeRatio(bars); ok {
		snap.Volume = v
	}

	snap.Score, snap.Bias = score(snap)

	return snap
}

// maTrend stacks the three EMAs: 20>50>200 is bullish, the reverse is
// bearish, anything else (including a missing EMA) is mixed.
func maTrend(ema20, ema50, ema200 *float64) MATrend {
	if ema20 == nil || ema50 == nil || ema200 == nil {
		return MAMixed
	}
	switch {
	case *ema20 > *ema50 && *ema50 > *ema200:
		return MABullish
	case *ema20 < *ema50 && *ema50 < *ema200:
		return MABearish
	default:
		return MAMixed
	}
}
