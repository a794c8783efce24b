package indicators

// MACD trend labels
const (
	MACDBullish          = "bullish"
	MACDBearish          = "bearish"
	MACDBullishCrossover = "bullish_crossover"
	MACDBearishCrossover = "bearish_crossover"
)

// MACDResult holds the MACD line, signal line and histogram as of the
// last bar, plus a trend label. A crossover is a histogram sign change
// between the last two bars.
type MACDResult struct {
	Line      float64 `json:"line"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
	Trend     string  `json:"trend"`
}

// MACD computes EMA(fast) - EMA(slow) with an EMA(signalPeriod) signal
// line. Requires slow+signalPeriod closes.
func MACD(closes []float64, fast, slow, signalPeriod int) (*MACDResult, bool) {
	if len(closes) < slow+signalPeriod {
		return nil, false
	}

	fastSeries, ok := emaSeries(closes, fast)
	if !ok {
		return nil, false
	}
	slowSeries, ok := emaSeries(closes, slow)
	if !ok {
		return nil, false
	}

	// MACD line exists from index slow-1 onward
	macdLine := make([]float64, 0, len(closes)-slow+1)
	for i := slow - 1; i < len(closes); i++ {
		macdLine = append(macdLine, fastSeries[i]-slowSeries[i])
	}

	signalSeries, ok := emaSeries(macdLine, signalPeriod)
	if !ok {
		return nil, false
	}

	n := len(macdLine)
	histogram := macdLine[n-1] - signalSeries[n-1]
	prevHistogram := macdLine[n-2] - signalSeries[n-2]

	trend := MACDBearish
	switch {
	case prevHistogram <= 0 && histogram > 0:
		trend = MACDBullishCrossover
	case prevHistogram >= 0 && histogram < 0:
		trend = MACDBearishCrossover
	case histogram > 0:
		trend = MACDBullish
	}

	return &MACDResult{
		Line:      macdLine[n-1],
		Signal:    signalSeries[n-1],
		Histogram: histogram,
		Trend:     trend,
	}, true
}

// Bullish reports whether the MACD trend is bullish or just crossed bullish
func (m *MACDResult) Bullish() bool {
	return m.Trend == MACDBullish || m.Trend == MACDBullishCrossover
}

// Bearish reports whether the MACD trend is bearish or just crossed bearish
func (m *MACDResult) Bearish() bool {
	return m.Trend == MACDBearish || m.Trend == MACDBearishCrossover
}
