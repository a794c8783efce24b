package indicators

import "github.com/jlim/tickerpulse/internal/marketdata"

// ATRResult holds the Wilder-smoothed average true range and its value
// as a percentage of the last close.
type ATRResult struct {
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
}

// ATR computes the Wilder-smoothed average true range over period bars.
// True range is max(high-low, |high-prevClose|, |low-prevClose|).
// Requires period*2 bars; a zero ATR is degenerate and reported absent.
func ATR(bars []marketdata.Bar, period int) (*ATRResult, bool) {
	if period <= 0 || len(bars) < period*2 {
		return nil, false
	}

	trs := trueRanges(bars)

	// Seed with the SMA of the first period true ranges, then smooth
	var atr float64
	for i := 0; i < period; i++ {
		atr += trs[i]
	}
	atr /= float64(period)

	for i := period; i < len(trs); i++ {
		atr = (atr*float64(period-1) + trs[i]) / float64(period)
	}

	if atr == 0 {
		return nil, false
	}

	lastClose := bars[len(bars)-1].Close
	if lastClose == 0 {
		return nil, false
	}

	return &ATRResult{
		Value:   atr,
		Percent: atr / lastClose * 100,
	}, true
}

// trueRanges returns the true range for each bar after the first
func trueRanges(bars []marketdata.Bar) []float64 {
	trs := make([]float64, 0, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		trs = append(trs, trueRange(bars[i], bars[i-1].Close))
	}
	return trs
}

func trueRange(b marketdata.Bar, prevClose float64) float64 {
	tr := b.High - b.Low
	if hc := abs(b.High - prevClose); hc > tr {
		tr = hc
	}
	if lc := abs(b.Low - prevClose); lc > tr {
		tr = lc
	}
	return tr
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
