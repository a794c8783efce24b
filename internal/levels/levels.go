// Package levels finds support and resistance from pivot clustering and
// Fibonacci retracements from the trailing swing range.
package levels

import (
	"sort"

	"github.com/jlim/tickerpulse/internal/marketdata"
)

// Finder defaults
const (
	DefaultLookback   = 30
	DefaultClusterPct = 0.015
	MaxLevels         = 3

	minPivotWindow = 2
	maxPivotWindow = 5
)

// Level is one clustered price level with the number of pivots that
// formed it.
type Level struct {
	Price   float64 `json:"price"`
	Touches int     `json:"touches"`
}

// Levels holds up to three supports below the current price, sorted
// ascending, and three resistances above it, sorted descending.
// PivotHighs and PivotLows keep every cluster regardless of side; a
// freshly broken resistance sits below price and would otherwise be
// invisible.
type Levels struct {
	Supports    []Level `json:"supports"`
	Resistances []Level `json:"resistances"`
	PivotHighs  []Level `json:"pivot_highs,omitempty"`
	PivotLows   []Level `json:"pivot_lows,omitempty"`
}

// NearestSupport returns the closest support below price, ok=false when
// none was found. Works regardless of slice ordering.
func (l *Levels) NearestSupport() (Level, bool) {
	if len(l.Supports) == 0 {
		return Level{}, false
	}
	best := l.Supports[0]
	for _, s := range l.Supports[1:] {
		if s.Price > best.Price {
			best = s
		}
	}
	return best, true
}

// NearestResistance returns the closest resistance above price.
func (l *Levels) NearestResistance() (Level, bool) {
	if len(l.Resistances) == 0 {
		return Level{}, false
	}
	best := l.Resistances[0]
	for _, r := range l.Resistances[1:] {
		if r.Price < best.Price {
			best = r
		}
	}
	return best, true
}

// Find scans the trailing lookback bars for pivot highs and lows using
// flexible 2-5 bar windows, clusters levels closer than clusterPct by
// averaging, and splits them around currentPrice ranked by touch count.
// Falls back to the simple trailing min/max when no pivots qualify.
func Find(bars []marketdata.Bar, currentPrice float64, lookback int, clusterPct float64) *Levels {
	if lookback <= 0 {
		lookback = DefaultLookback
	}
	if clusterPct <= 0 {
		clusterPct = DefaultClusterPct
	}
	if len(bars) > lookback {
		bars = bars[len(bars)-lookback:]
	}

	var rawHighs, rawLows []float64
	for i := range bars {
		if isPivotHigh(bars, i) {
			rawHighs = append(rawHighs, bars[i].High)
		}
		if isPivotLow(bars, i) {
			rawLows = append(rawLows, bars[i].Low)
		}
	}

	highClusters := cluster(rawHighs, clusterPct)
	lowClusters := cluster(rawLows, clusterPct)

	supports := pick(lowClusters, currentPrice, false)
	resistances := pick(highClusters, currentPrice, true)

	// No pivots at all: fall back to the trailing extremes
	if len(supports) == 0 && len(resistances) == 0 && len(bars) > 0 {
		lo, hi := bars[0].Low, bars[0].High
		for _, b := range bars[1:] {
			if b.Low < lo {
				lo = b.Low
			}
			if b.High > hi {
				hi = b.High
			}
		}
		if lo < currentPrice {
			supports = []Level{{Price: lo, Touches: 1}}
		}
		if hi > currentPrice {
			resistances = []Level{{Price: hi, Touches: 1}}
		}
	}

	return &Levels{
		Supports:    supports,
		Resistances: resistances,
		PivotHighs:  highClusters,
		PivotLows:   lowClusters,
	}
}

// isPivotHigh reports whether bar i is the highest high within any
// symmetric window of 2 to 5 bars on both sides.
func isPivotHigh(bars []marketdata.Bar, i int) bool {
	for w := minPivotWindow; w <= maxPivotWindow; w++ {
		if i-w < 0 || i+w >= len(bars) {
			continue
		}
		pivot := true
		for j := i - w; j <= i+w; j++ {
			if j != i && bars[j].High >= bars[i].High {
				pivot = false
				break
			}
		}
		if pivot {
			return true
		}
	}
	return false
}

func isPivotLow(bars []marketdata.Bar, i int) bool {
	for w := minPivotWindow; w <= maxPivotWindow; w++ {
		if i-w < 0 || i+w >= len(bars) {
			continue
		}
		pivot := true
		for j := i - w; j <= i+w; j++ {
			if j != i && bars[j].Low <= bars[i].Low {
				pivot = false
				break
			}
		}
		if pivot {
			return true
		}
	}
	return false
}

// cluster merges sorted raw levels whose distance from the running
// cluster average is below pct, averaging each group.
func cluster(raw []float64, pct float64) []Level {
	if len(raw) == 0 {
		return nil
	}

	sorted := make([]float64, len(raw))
	copy(sorted, raw)
	sort.Float64s(sorted)

	var out []Level
	sum, count := sorted[0], 1

	flush := func() {
		out = append(out, Level{Price: sum / float64(count), Touches: count})
	}

	for _, v := range sorted[1:] {
		avg := sum / float64(count)
		if avg > 0 && (v-avg)/avg <= pct {
			sum += v
			count++
			continue
		}
		flush()
		sum, count = v, 1
	}
	flush()

	return out
}

// pick filters clusters to one side of price, ranks by touch count then
// proximity to keep at most MaxLevels, and returns them sorted by price:
// ascending below price, descending above it.
func pick(clusters []Level, price float64, above bool) []Level {
	var side []Level
	for _, c := range clusters {
		if above && c.Price > price {
			side = append(side, c)
		}
		if !above && c.Price < price {
			side = append(side, c)
		}
	}

	sort.Slice(side, func(i, j int) bool {
		if side[i].Touches != side[j].Touches {
			return side[i].Touches > side[j].Touches
		}
		di, dj := abs(side[i].Price-price), abs(side[j].Price-price)
		return di < dj
	})

	if len(side) > MaxLevels {
		side = side[:MaxLevels]
	}

	sort.Slice(side, func(i, j int) bool {
		if above {
			return side[i].Price > side[j].Price
		}
		return side[i].Price < side[j].Price
	})

	return side
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
