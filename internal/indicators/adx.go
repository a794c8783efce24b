package indicators

import "github.com/jlim/tickerpulse/internal/marketdata"

// ADX trend strength labels
const (
	TrendStrong = "strong"
	TrendWeak   = "weak"
	TrendNone   = "no_trend"
)

// ADXResult holds the average directional index and directional indicators
type ADXResult struct {
	ADX      float64 `json:"adx"`
	PlusDI   float64 `json:"plus_di"`
	MinusDI  float64 `json:"minus_di"`
	Strength string  `json:"strength"`
}

// ADX computes the standard Wilder directional movement system over
// period bars. Trend is "strong" above 25 and "no_trend" below 20.
// Requires roughly three periods of bars for the double smoothing.
func ADX(bars []marketdata.Bar, period int) (*ADXResult, bool) {
	if period <= 0 || len(bars) < period*3 {
		return nil, false
	}

	n := len(bars) - 1
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	trs := make([]float64, n)

	for i := 1; i < len(bars); i++ {
		upMove := bars[i].High - bars[i-1].High
		downMove := bars[i-1].Low - bars[i].Low

		if upMove > downMove && upMove > 0 {
			plusDM[i-1] = upMove
		}
		if downMove > upMove && downMove > 0 {
			minusDM[i-1] = downMove
		}
		trs[i-1] = trueRange(bars[i], bars[i-1].Close)
	}

	// Wilder-smoothed sums
	smPlus := wilderSum(plusDM, period)
	smMinus := wilderSum(minusDM, period)
	smTR := wilderSum(trs, period)

	// DX series from index period-1 onward
	dxs := make([]float64, 0, len(smTR))
	var lastPlusDI, lastMinusDI float64
	for i := range smTR {
		if smTR[i] == 0 {
			dxs = append(dxs, 0)
			continue
		}
		plusDI := smPlus[i] / smTR[i] * 100
		minusDI := smMinus[i] / smTR[i] * 100
		lastPlusDI, lastMinusDI = plusDI, minusDI

		sum := plusDI + minusDI
		if sum == 0 {
			dxs = append(dxs, 0)
			continue
		}
		dxs = append(dxs, abs(plusDI-minusDI)/sum*100)
	}

	if len(dxs) < period {
		return nil, false
	}

	// ADX = Wilder-smoothed DX
	var adx float64
	for i := 0; i < period; i++ {
		adx += dxs[i]
	}
	adx /= float64(period)
	for i := period; i < len(dxs); i++ {
		adx = (adx*float64(period-1) + dxs[i]) / float64(period)
	}

	strength := TrendWeak
	switch {
	case adx > 25:
		strength = TrendStrong
	case adx < 20:
		strength = TrendNone
	}

	return &ADXResult{
		ADX:      adx,
		PlusDI:   lastPlusDI,
		MinusDI:  lastMinusDI,
		Strength: strength,
	}, true
}

// wilderSum smooths values with Wilder's method, seeded by a plain sum of
// the first period values. Result is aligned from index period-1 of values.
func wilderSum(values []float64, period int) []float64 {
	if len(values) < period {
		return nil
	}

	out := make([]float64, 0, len(values)-period+1)

	var sum float64
	for i := 0; i < period; i++ {
		sum += values[i]
	}
	out = append(out, sum)

	for i := period; i < len(values); i++ {
		sum = sum - sum/float64(period) + values[i]
		out = append(out, sum)
	}

	return out
}
