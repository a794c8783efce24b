package levels

import "github.com/jlim/tickerpulse/internal/marketdata"

// DefaultFibLookback is the trailing window used to find the swing range.
const DefaultFibLookback = 60

// FibRatios are the standard retracement ratios, measured down from the
// swing high.
var FibRatios = []float64{0.236, 0.382, 0.5, 0.618, 0.786}

// FibLevel is one retracement price at its ratio.
type FibLevel struct {
	Ratio float64 `json:"ratio"`
	Price float64 `json:"price"`
}

// Fibonacci holds the trailing swing range and its retracement prices,
// ordered shallowest retracement first.
type Fibonacci struct {
	SwingHigh float64    `json:"swing_high"`
	SwingLow  float64    `json:"swing_low"`
	Levels    []FibLevel `json:"levels"`
}

// Fib computes retracements from the swing high/low of the trailing
// lookback bars. A degenerate (flat or empty) range yields nil.
func Fib(bars []marketdata.Bar, lookback int) *Fibonacci {
	if lookback <= 0 {
		lookback = DefaultFibLookback
	}
	if len(bars) == 0 {
		return nil
	}
	if len(bars) > lookback {
		bars = bars[len(bars)-lookback:]
	}

	high, low := bars[0].High, bars[0].Low
	for _, b := range bars[1:] {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}

	if high <= low {
		return nil
	}

	span := high - low
	fib := &Fibonacci{SwingHigh: high, SwingLow: low}
	for _, r := range FibRatios {
		fib.Levels = append(fib.Levels, FibLevel{Ratio: r, Price: high - span*r})
	}
	return fib
}
