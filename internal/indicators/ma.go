package indicators

import "math"

// SMA computes the simple moving average of the trailing period values
func SMA(values []float64, period int) (float64, bool) {
	if period <= 0 || len(values) < period {
		return 0, false
	}
	var sum float64
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period), true
}

// EMA computes the exponential moving average of the trailing values,
// seeded with the SMA of the first period values.
func EMA(values []float64, period int) (float64, bool) {
	series, ok := emaSeries(values, period)
	if !ok {
		return 0, false
	}
	return series[len(series)-1], true
}

// emaSeries returns the EMA at every index from period-1 onward, aligned so
// that series[i] corresponds to values[i]. Indexes before period-1 hold the
// seed SMA and must not be read.
func emaSeries(values []float64, period int) ([]float64, bool) {
	if period <= 0 || len(values) < period {
		return nil, false
	}

	series := make([]float64, len(values))

	var sum float64
	for i := 0; i < period; i++ {
		sum += values[i]
	}
	series[period-1] = sum / float64(period)

	multiplier := 2.0 / (float64(period) + 1.0)
	for i := period; i < len(values); i++ {
		series[i] = (values[i]-series[i-1])*multiplier + series[i-1]
	}

	return series, true
}

// stdDev computes the population standard deviation of the trailing period values
func stdDev(values []float64, period int) (float64, bool) {
	mean, ok := SMA(values, period)
	if !ok {
		return 0, false
	}

	var sumSq float64
	for _, v := range values[len(values)-period:] {
		diff := v - mean
		sumSq += diff * diff
	}
	variance := sumSq / float64(period)

	return math.Sqrt(variance), true
}
