package sectors

// Momentum score weights
const (
	momentumBase = 50

	returnWeight  = 25.0 // scaled from the 1M average return
	returnFullPct = 10.0 // a +/-10% month saturates the return leg

	rsiWeight    = 15.0
	rsiFullBand  = 20.0 // 20 RSI points past the band saturate
	rsiHighEdge  = 60.0
	rsiLowEdge   = 40.0
	skewWeight   = 10.0
	agreeBonus   = 5
	mixedPenalty = 10
)

// momentumScore folds the aggregate stats into a 0-100 score: base 50,
// up to +/-25 from the 1-month average return, +/-15 from the average
// RSI position, +/-10 from the bullish/bearish skew, and a consistency
// adjustment from whether the 1W/1M/3M averages agree in sign.
func momentumScore(m *SectorMetrics) int {
	score := float64(momentumBase)

	// 1M return leg, saturating at +/-10%
	ret := m.AvgReturn1M / returnFullPct * returnWeight
	score += clampF(ret, -returnWeight, returnWeight)

	// RSI leg only reacts outside the 40-60 band
	switch {
	case m.AvgRSI > rsiHighEdge:
		score += clampF((m.AvgRSI-rsiHighEdge)/rsiFullBand, 0, 1) * rsiWeight
	case m.AvgRSI < rsiLowEdge:
		score -= clampF((rsiLowEdge-m.AvgRSI)/rsiFullBand, 0, 1) * rsiWeight
	}

	// bias skew
	if total := m.Bullish + m.Bearish + m.Neutral; total > 0 {
		score += float64(m.Bullish-m.Bearish) / float64(total) * skewWeight
	}

	score += float64(consistency(m.AvgReturn1W, m.AvgReturn1M, m.AvgReturn3M))

	return clampI(int(score+0.5), 0, 100)
}

// consistency rewards timeframe agreement: all positive +5, all
// negative -5, and a sign disagreement -10 since a sector pulling in
// two directions has no usable momentum.
func consistency(r1w, r1m, r3m float64) int {
	allPos := r1w > 0 && r1m > 0 && r3m > 0
	allNeg := r1w < 0 && r1m < 0 && r3m < 0
	switch {
	case allPos:
		return agreeBonus
	case allNeg:
		return -agreeBonus
	default:
		return -mixedPenalty
	}
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampI(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
