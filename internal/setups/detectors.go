package setups

import (
	"fmt"

	"github.com/jlim/tickerpulse/internal/indicators"
	"github.com/jlim/tickerpulse/internal/levels"
)

// detectOversoldBounce fires on RSI below the oversold gate. Proximity
// to support and a bullish MACD add signals but are not required. Stop
// under the nearest support, or 5% under price without one.
func detectOversoldBounce(in Input, th Thresholds) (Setup, bool) {
	snap := in.Snapshot
	if snap.RSI == nil || *snap.RSI >= th.OversoldRSI {
		return Setup{}, false
	}

	signals := []string{fmt.Sprintf("RSI oversold at %.1f", *snap.RSI)}

	stop := snap.Price * 0.95
	if in.Levels != nil {
		if sup, ok := in.Levels.NearestSupport(); ok {
			stop = sup.Price * 0.97
			if dist := (snap.Price - sup.Price) / sup.Price; dist <= th.SupportProximity {
				signals = append(signals, fmt.Sprintf("price within %.1f%% of support %.2f", dist*100, sup.Price))
			}
		}
	}

	if snap.MACD != nil && snap.MACD.Bullish() {
		signals = append(signals, "MACD turning bullish")
	}
	if snap.Divergence != nil && snap.Divergence.Kind == indicators.DivergenceBullish {
		signals = append(signals, fmt.Sprintf("%s bullish divergence", snap.Divergence.Strength))
	}
	if snap.NearLow52w() {
		signals = append(signals, "near 52-week low")
	}

	return newSetup(in, OversoldBounce, stop, snap.Price*1.05, snap.Price*1.10, signals, false), true
}

// detectPullback fires when a bullish MA stack sees price dip back to
// the 20 or 50-day EMA. Stop under the lower of the two EMAs.
func detectPullback(in Input, th Thresholds) (Setup, bool) {
	snap := in.Snapshot
	if snap.MATrend != indicators.MABullish || snap.EMA20 == nil || snap.EMA50 == nil {
		return Setup{}, false
	}

	near20 := withinPct(snap.Price, *snap.EMA20, th.PullbackEMA20)
	near50 := withinPct(snap.Price, *snap.EMA50, th.PullbackEMA50)
	if !near20 && !near50 {
		return Setup{}, false
	}

	signals := []string{"uptrend intact (EMA20 > EMA50 > EMA200)"}
	if near20 {
		signals = append(signals, fmt.Sprintf("pullback to EMA20 at %.2f", *snap.EMA20))
	} else {
		signals = append(signals, fmt.Sprintf("pullback to EMA50 at %.2f", *snap.EMA50))
	}
	if snap.ADX != nil && snap.ADX.Strength == indicators.TrendStrong {
		signals = append(signals, "strong trend (ADX)")
	}
	if in.VolumeRatio < 1.0 {
		signals = append(signals, "light volume on the dip")
	}

	stop := min64(*snap.EMA20, *snap.EMA50) * 0.98

	return newSetup(in, PullbackToEMA, stop, snap.Price*1.06, snap.Price*1.12, signals, false), true
}

// detectBreakout fires when price clears a pivot-high level by under
// the max-above gate on elevated volume. Volume is a hard requirement.
func detectBreakout(in Input, th Thresholds) (Setup, bool) {
	snap := in.Snapshot
	if in.Levels == nil || in.VolumeRatio < th.BreakoutVolumeMin {
		return Setup{}, false
	}

	broken, ok := brokenLevel(in.Levels.PivotHighs, snap.Price, th.BreakoutMaxAbove)
	if !ok {
		return Setup{}, false
	}

	signals := []string{
		fmt.Sprintf("broke above resistance %.2f", broken.Price),
		fmt.Sprintf("volume %.1fx average", in.VolumeRatio),
	}
	if in.RelativeStrength > 0 {
		signals = append(signals, fmt.Sprintf("outperforming benchmark by %.1f%%", in.RelativeStrength))
	}
	if snap.NearHigh52w() {
		signals = append(signals, "near 52-week high")
	}
	if snap.ADX != nil && snap.ADX.Strength == indicators.TrendStrong {
		signals = append(signals, "strong trend (ADX)")
	}

	stop := broken.Price * 0.97

	return newSetup(in, Breakout, stop, snap.Price*1.08, snap.Price*1.15, signals, false), true
}

// detectMomentum fires on a bullish MA stack with RSI in the healthy
// band, a strong ADX and price above the EMA20. Targets extend from the
// Fibonacci swing high when one sits above price.
func detectMomentum(in Input, th Thresholds) (Setup, bool) {
	snap := in.Snapshot
	if snap.MATrend != indicators.MABullish {
		return Setup{}, false
	}
	if snap.RSI == nil || *snap.RSI < th.MomentumRSIMin || *snap.RSI > th.MomentumRSIMax {
		return Setup{}, false
	}
	if snap.ADX == nil || snap.ADX.ADX < th.MomentumADXMin {
		return Setup{}, false
	}
	if !snap.AboveEMA20() {
		return Setup{}, false
	}

	signals := []string{
		"uptrend intact (EMA20 > EMA50 > EMA200)",
		fmt.Sprintf("strong trend (ADX %.1f)", snap.ADX.ADX),
		fmt.Sprintf("RSI healthy at %.1f", *snap.RSI),
	}

	target1 := snap.Price * 1.06
	target2 := snap.Price * 1.12
	if in.Fib != nil && in.Fib.SwingHigh > snap.Price {
		target1 = in.Fib.SwingHigh
		target2 = snap.Price + (in.Fib.SwingHigh-snap.Price)*1.618
		signals = append(signals, fmt.Sprintf("fibonacci extension from swing high %.2f", in.Fib.SwingHigh))
	}
	if in.RelativeStrength > 0 {
		signals = append(signals, fmt.Sprintf("outperforming benchmark by %.1f%%", in.RelativeStrength))
	}

	stop := *snap.EMA20 * 0.97

	return newSetup(in, MomentumContinuation, stop, target1, target2, signals, false), true
}

// detectMeanReversion fires on stretched-down price (oversold RSI or a
// lower-band tag) only when momentum is already turning: a bullish
// divergence or an improving MACD. Stretched alone is rejected. Targets
// are the EMAs themselves.
func detectMeanReversion(in Input, th Thresholds) (Setup, bool) {
	snap := in.Snapshot

	stretched := (snap.RSI != nil && *snap.RSI < th.OversoldRSI) ||
		(snap.Bollinger != nil && snap.Bollinger.AtOrBelowLower())
	if !stretched {
		return Setup{}, false
	}

	turning := (snap.Divergence != nil && snap.Divergence.Kind == indicators.DivergenceBullish) ||
		(snap.MACD != nil && snap.MACD.Bullish())
	if !turning {
		return Setup{}, false
	}

	if snap.EMA20 == nil || snap.EMA50 == nil || *snap.EMA20 <= snap.Price {
		return Setup{}, false
	}

	var signals []string
	if snap.RSI != nil && *snap.RSI < th.OversoldRSI {
		signals = append(signals, fmt.Sprintf("RSI oversold at %.1f", *snap.RSI))
	}
	if snap.Bollinger != nil && snap.Bollinger.AtOrBelowLower() {
		signals = append(signals, "tagging lower Bollinger band")
	}
	if snap.Divergence != nil && snap.Divergence.Kind == indicators.DivergenceBullish {
		signals = append(signals, fmt.Sprintf("%s bullish divergence", snap.Divergence.Strength))
	}
	if snap.MACD != nil && snap.MACD.Bullish() {
		signals = append(signals, "MACD turning bullish")
	}

	stop := snap.Price * 0.95

	return newSetup(in, MeanReversion, stop, *snap.EMA20, *snap.EMA50, signals, false), true
}

// detectBreakdown is the bearish warning: price slipping just under a
// pivot-low level on volume with a bearish MACD, while RSI is not
// already washed out. The stop sits ABOVE the broken support as the
// loss-cut for a wrong call; targets sit below.
func detectBreakdown(in Input, th Thresholds) (Setup, bool) {
	snap := in.Snapshot
	if in.Levels == nil || in.VolumeRatio < th.BreakdownVolumeMin {
		return Setup{}, false
	}
	if snap.RSI == nil || *snap.RSI <= th.BreakdownRSIMin {
		return Setup{}, false
	}
	if snap.MACD == nil || !snap.MACD.Bearish() {
		return Setup{}, false
	}

	broken, ok := brokenBelow(in.Levels.PivotLows, snap.Price, th.BreakdownProximity)
	if !ok {
		return Setup{}, false
	}

	signals := []string{
		fmt.Sprintf("broke below support %.2f", broken.Price),
		fmt.Sprintf("volume %.1fx average", in.VolumeRatio),
		"MACD bearish",
	}
	if snap.MATrend == indicators.MABearish {
		signals = append(signals, "downtrend (EMA20 < EMA50 < EMA200)")
	}
	if snap.Divergence != nil && snap.Divergence.Kind == indicators.DivergenceBearish {
		signals = append(signals, fmt.Sprintf("%s bearish divergence", snap.Divergence.Strength))
	}

	stop := broken.Price * 1.03

	return newSetup(in, BreakdownWarning, stop, snap.Price*0.95, snap.Price*0.90, signals, true), true
}

// brokenLevel finds the highest pivot level at or below price within
// maxAbove of it, inclusive: the resistance price just cleared.
func brokenLevel(pivots []levels.Level, price, maxAbove float64) (levels.Level, bool) {
	var best levels.Level
	found := false
	for _, p := range pivots {
		if p.Price <= 0 || price < p.Price {
			continue
		}
		if (price-p.Price)/p.Price > maxAbove {
			continue
		}
		if !found || p.Price > best.Price {
			best = p
			found = true
		}
	}
	return best, found
}

// brokenBelow finds the lowest pivot level at or above price within
// maxBelow of it, inclusive: the support price just slipped under.
func brokenBelow(pivots []levels.Level, price, maxBelow float64) (levels.Level, bool) {
	var best levels.Level
	found := false
	for _, p := range pivots {
		if p.Price <= 0 || price > p.Price {
			continue
		}
		if (p.Price-price)/p.Price > maxBelow {
			continue
		}
		if !found || p.Price < best.Price {
			best = p
			found = true
		}
	}
	return best, found
}

func withinPct(price, level, pct float64) bool {
	if level <= 0 {
		return false
	}
	diff := price - level
	if diff < 0 {
		diff = -diff
	}
	return diff/level <= pct
}

func min64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
