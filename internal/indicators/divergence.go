package indicators

import "math"

// Divergence kinds and strengths
const (
	DivergenceBullish = "bullish"
	DivergenceBearish = "bearish"

	DivergenceStrong   = "strong"
	DivergenceModerate = "moderate"
)

const divergenceWindow = 20

// DivergenceResult describes a price/RSI divergence over the trailing
// 20 bars.
type DivergenceResult struct {
	Kind     string  `json:"kind"`
	Strength string  `json:"strength"`
	PriceGap float64 `json:"price_gap_pct"`
	RSIGap   float64 `json:"rsi_gap"`
}

// Divergence splits the last 20 bars into two halves and compares price
// extremes against the RSI at those extremes. Bullish: second-half price
// low undercuts the first-half low while RSI at the low is higher.
// Bearish is the mirror on highs. Strong when the price gap exceeds 2%
// and the RSI gap exceeds 5 points.
func Divergence(closes []float64, period int) (*DivergenceResult, bool) {
	rsis, ok := rsiSeries(closes, period)
	if !ok {
		return nil, false
	}

	n := len(closes)
	if n < divergenceWindow {
		return nil, false
	}

	start := n - divergenceWindow
	mid := start + divergenceWindow/2

	// The whole window needs valid RSI values.
	if start < period {
		return nil, false
	}

	loIdx1, hiIdx1 := extremeIdx(closes, start, mid)
	loIdx2, hiIdx2 := extremeIdx(closes, mid, n)

	// Bullish: lower price low, higher RSI at the low
	if closes[loIdx2] < closes[loIdx1] && rsis[loIdx2] > rsis[loIdx1] {
		priceGap := (closes[loIdx1] - closes[loIdx2]) / closes[loIdx1] * 100
		rsiGap := rsis[loIdx2] - rsis[loIdx1]
		return &DivergenceResult{
			Kind:     DivergenceBullish,
			Strength: divergenceStrength(priceGap, rsiGap),
			PriceGap: priceGap,
			RSIGap:   rsiGap,
		}, true
	}

	// Bearish: higher price high, lower RSI at the high
	if closes[hiIdx2] > closes[hiIdx1] && rsis[hiIdx2] < rsis[hiIdx1] {
		priceGap := (closes[hiIdx2] - closes[hiIdx1]) / closes[hiIdx1] * 100
		rsiGap := rsis[hiIdx1] - rsis[hiIdx2]
		return &DivergenceResult{
			Kind:     DivergenceBearish,
			Strength: divergenceStrength(priceGap, rsiGap),
			PriceGap: priceGap,
			RSIGap:   rsiGap,
		}, true
	}

	return nil, false
}

func divergenceStrength(priceGapPct, rsiGap float64) string {
	if math.Abs(priceGapPct) > 2 && math.Abs(rsiGap) > 5 {
		return DivergenceStrong
	}
	return DivergenceModerate
}

// extremeIdx returns the indexes of the lowest and highest close in
// closes[from:to].
func extremeIdx(closes []float64, from, to int) (loIdx, hiIdx int) {
	loIdx, hiIdx = from, from
	for i := from + 1; i < to; i++ {
		if closes[i] < closes[loIdx] {
			loIdx = i
		}
		if closes[i] > closes[hiIdx] {
			hiIdx = i
		}
	}
	return loIdx, hiIdx
}
