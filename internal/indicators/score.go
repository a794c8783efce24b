package indicators

// RSI regime boundaries
const (
	RSIOversold       = 30.0
	RSINearOversold   = 35.0
	RSINearOverbought = 65.0
	RSIOverbought     = 70.0
)

// StochRSI regime boundaries
const (
	StochOversold   = 20.0
	StochOverbought = 80.0
)

// Composite score contribution weights
const (
	scoreBase = 50

	rsiExtremeWeight     = 15
	rsiCounterTrendWght  = 5
	rsiNearExtremeWeight = 8

	macdCrossoverWeight = 18
	macdTrendWeight     = 10

	maTrendWeight = 15
	priceEMAWght  = 8

	volumeTrendWeight = 8
	volumeLeanWeight  = 5

	adxAmplifyWeight = 8
	adxLeanHigh      = 55
	adxLeanLow       = 45
	adxDampHigh      = 58
	adxDampLow       = 42

	divergenceWeight = 12
	bollingerWeight  = 5
	stochWeight      = 8

	low52wWeight  = 5
	high52wWeight = 3
)

// Bias boundaries on the composite score
const (
	BullishScoreMin = 60
	BearishScoreMax = 40
)

// score folds the snapshot's indicator reads into a composite 0-100
// score starting at 50, then derives the bias. Absent indicators
// contribute nothing.
func score(s *Snapshot) (int, Bias) {
	sc := scoreBase

	sc += rsiContribution(s)
	sc += macdContribution(s.MACD)
	sc += maTrendContribution(s)
	sc += volumeContribution(s, sc)
	sc = adxAdjust(s.ADX, sc)
	sc += divergenceContribution(s.Divergence)
	sc += bollingerContribution(s.Bollinger)
	sc += stochContribution(s.StochRSI)
	sc += extremesContribution(s.Extremes)

	sc = clampScore(sc)

	bias := BiasNeutral
	switch {
	case sc >= BullishScoreMin:
		bias = BiasBullish
	case sc <= BearishScoreMax:
		bias = BiasBearish
	}

	return sc, bias
}

// rsiContribution rewards oversold and punishes overbought, muted when
// the reading runs against the prevailing MA trend: oversold in a
// downtrend is a weaker buy signal, overbought in an uptrend a weaker
// sell signal.
func rsiContribution(s *Snapshot) int {
	if s.RSI == nil {
		return 0
	}
	rsi := *s.RSI

	switch {
	case rsi < RSIOversold:
		if s.MATrend == MABearish {
			return rsiCounterTrendWght
		}
		return rsiExtremeWeight
	case rsi < RSINearOversold:
		return rsiNearExtremeWeight
	case rsi > RSIOverbought:
		if s.MATrend == MABullish {
			return -rsiCounterTrendWght
		}
		return -rsiExtremeWeight
	case rsi > RSINearOverbought:
		return -rsiNearExtremeWeight
	}
	return 0
}

func macdContribution(m *MACDResult) int {
	if m == nil {
		return 0
	}
	switch m.Trend {
	case MACDBullishCrossover:
		return macdCrossoverWeight
	case MACDBullish:
		return macdTrendWeight
	case MACDBearishCrossover:
		return -macdCrossoverWeight
	case MACDBearish:
		return -macdTrendWeight
	}
	return 0
}

func maTrendContribution(s *Snapshot) int {
	var c int
	switch s.MATrend {
	case MABullish:
		c += maTrendWeight
	case MABearish:
		c -= maTrendWeight
	}

	if s.EMA50 != nil {
		if s.Price > *s.EMA50 {
			c += priceEMAWght
		} else if s.Price < *s.EMA50 {
			c -= priceEMAWght
		}
	}

	return c
}

// volumeContribution applies high volume in the direction of the MA
// trend; with a mixed trend it instead amplifies whichever way the
// running score already leans.
func volumeContribution(s *Snapshot, running int) int {
	if s.Volume == nil || !s.Volume.High {
		return 0
	}

	switch s.MATrend {
	case MABullish:
		return volumeTrendWeight
	case MABearish:
		return -volumeTrendWeight
	}

	switch {
	case running > scoreBase:
		return volumeLeanWeight
	case running < scoreBase:
		return -volumeLeanWeight
	}
	return 0
}

// adxAdjust amplifies a leaning score when the trend is strong and
// pulls an over-extended score back toward neutral when there is no
// trend to back it.
func adxAdjust(a *ADXResult, running int) int {
	if a == nil {
		return running
	}

	if a.ADX > 25 {
		switch {
		case running > adxLeanHigh:
			return running + adxAmplifyWeight
		case running < adxLeanLow:
			return running - adxAmplifyWeight
		}
		return running
	}

	if a.ADX < 20 {
		if running > adxDampHigh {
			return adxDampHigh
		}
		if running < adxDampLow {
			return adxDampLow
		}
	}

	return running
}

func divergenceContribution(d *DivergenceResult) int {
	if d == nil {
		return 0
	}
	if d.Kind == DivergenceBullish {
		return divergenceWeight
	}
	return -divergenceWeight
}

func bollingerContribution(b *BollingerResult) int {
	if b == nil {
		return 0
	}
	if b.AtOrBelowLower() {
		return bollingerWeight
	}
	if b.AtOrAboveUpper() {
		return -bollingerWeight
	}
	return 0
}

func stochContribution(sr *StochRSIResult) int {
	if sr == nil {
		return 0
	}
	if sr.K < StochOversold || sr.Cross == StochCrossBullish {
		return stochWeight
	}
	if sr.K > StochOverbought || sr.Cross == StochCrossBearish {
		return -stochWeight
	}
	return 0
}

// extremesContribution is asymmetric: a 52-week low is a contrarian
// buy nudge, a 52-week high only a mild caution since new highs can
// keep breaking out.
func extremesContribution(e *ExtremesResult) int {
	if e == nil {
		return 0
	}
	var c int
	if e.NearLow {
		c += low52wWeight
	}
	if e.NearHigh {
		c -= high52wWeight
	}
	return c
}

func clampScore(sc int) int {
	if sc < 0 {
		return 0
	}
	if sc > 100 {
		return 100
	}
	return sc
}
