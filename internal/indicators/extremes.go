package indicators

import "github.com/jlim/tickerpulse/internal/marketdata"

const (
	yearBars = 252

	// MinYearBars is the fewest bars accepted for a 52-week extremum.
	// Callers holding a shorter series should re-fetch a full one-year
	// window instead of reporting a truncated high/low.
	MinYearBars = 200

	nearExtremePct = 0.05
)

// ExtremesResult carries the trailing 52-week high/low and proximity
// flags relative to the latest close.
type ExtremesResult struct {
	High     float64 `json:"high_52w"`
	Low      float64 `json:"low_52w"`
	NearHigh bool    `json:"near_52w_high"`
	NearLow  bool    `json:"near_52w_low"`
}

// Extremes computes the 52-week high and low over the trailing ~252
// bars. Fewer than MinYearBars yields absent. Near flags trip within 5%
// of the extremum.
func Extremes(bars []marketdata.Bar) (*ExtremesResult, bool) {
	if len(bars) < MinYearBars {
		return nil, false
	}

	window := bars
	if len(window) > yearBars {
		window = window[len(window)-yearBars:]
	}

	high, low := window[0].High, window[0].Low
	for _, b := range window[1:] {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}

	close := bars[len(bars)-1].Close

	return &ExtremesResult{
		High:     high,
		Low:      low,
		NearHigh: high > 0 && close >= high*(1-nearExtremePct),
		NearLow:  low > 0 && close <= low*(1+nearExtremePct),
	}, true
}
