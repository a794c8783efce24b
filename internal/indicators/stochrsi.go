package indicators

// StochRSI cross signals
const (
	StochCrossBullish = "bullish_cross"
	StochCrossBearish = "bearish_cross"
	StochCrossNone    = "none"
)

// StochRSIResult carries %K, its 3-period SMA %D and the latest
// midline-gated cross between them.
type StochRSIResult struct {
	K     float64 `json:"k"`
	D     float64 `json:"d"`
	Cross string  `json:"cross"`
}

// StochRSI applies a stochastic oscillator to the RSI series: %K locates
// the current RSI within its period-bar range scaled to [0,100], %D is a
// 3-bar SMA of %K. A cross counts as bullish only below the 50 midline
// and bearish only above it.
func StochRSI(closes []float64, period int) (*StochRSIResult, bool) {
	rsis, ok := rsiSeries(closes, period)
	if !ok {
		return nil, false
	}
	rsis = rsis[period:] // strip the NaN warm-up prefix

	// Need period RSI values for each %K, 4 %K values for the %D cross.
	ks := stochSeries(rsis, period)
	if len(ks) < 4 {
		return nil, false
	}

	k := ks[len(ks)-1]
	prevK := ks[len(ks)-2]

	d, ok := SMA(ks, 3)
	if !ok {
		return nil, false
	}
	prevD, ok := SMA(ks[:len(ks)-1], 3)
	if !ok {
		return nil, false
	}

	cross := StochCrossNone
	switch {
	case prevK <= prevD && k > d && k < 50:
		cross = StochCrossBullish
	case prevK >= prevD && k < d && k > 50:
		cross = StochCrossBearish
	}

	return &StochRSIResult{K: k, D: d, Cross: cross}, true
}

// stochSeries produces %K values for every index with a full period-bar
// RSI window behind it. A flat window yields 50.
func stochSeries(rsis []float64, period int) []float64 {
	var out []float64
	for i := period - 1; i < len(rsis); i++ {
		window := rsis[i-period+1 : i+1]

		lo, hi := window[0], window[0]
		for _, v := range window[1:] {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}

		if hi == lo {
			out = append(out, 50)
			continue
		}
		out = append(out, (rsis[i]-lo)/(hi-lo)*100)
	}
	return out
}
