package indicators

import "math"

// RSI computes the Relative Strength Index with Wilder's smoothing:
// gains and losses are exponentially smoothed with alpha = 1/period,
// RS = avg_gain/avg_loss, RSI = 100 - 100/(1+RS).
// Requires at least period*2 closes.
func RSI(closes []float64, period int) (float64, bool) {
	series, ok := rsiSeries(closes, period)
	if !ok {
		return 0, false
	}
	last := series[len(series)-1]
	if math.IsNaN(last) {
		return 0, false
	}
	return last, true
}

// rsiSeries returns the Wilder RSI at every index, aligned with closes.
// Indexes before period hold NaN. A perfectly flat stretch resolves to a
// neutral 50, never NaN.
func rsiSeries(closes []float64, period int) ([]float64, bool) {
	if period <= 0 || len(closes) < period*2 {
		return nil, false
	}

	series := make([]float64, len(closes))
	for i := 0; i < period; i++ {
		series[i] = math.NaN()
	}

	// Seed averages over the first period changes
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss += -change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	series[period] = rsiValue(avgGain, avgLoss)

	// Wilder smoothing for the rest
	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		series[i] = rsiValue(avgGain, avgLoss)
	}

	return series, true
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			// Flat series: no gains, no losses, neutral
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
