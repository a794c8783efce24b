package marketdata

import (
	"sort"
	"time"
)

// Bar is one OHLCV observation for a single trading day
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PriceSeries holds the daily bars for one instrument, ascending by date
// with no duplicate dates. Treated as read-only by everything downstream.
type PriceSeries struct {
	Ticker string `json:"ticker"`
	Bars   []Bar  `json:"bars"`
}

// Len returns the number of bars
func (s PriceSeries) Len() int {
	return len(s.Bars)
}

// Empty reports whether the series has no bars.
// An empty series means "data unavailable", not an error.
func (s PriceSeries) Empty() bool {
	return len(s.Bars) == 0
}

// Last returns the most recent bar
func (s PriceSeries) Last() (Bar, bool) {
	if len(s.Bars) == 0 {
		return Bar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}

// Closes returns the close prices in series order
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Tail returns the last n bars (all bars when fewer are available)
func (s PriceSeries) Tail(n int) []Bar {
	if n >= len(s.Bars) {
		return s.Bars
	}
	return s.Bars[len(s.Bars)-n:]
}

// ReturnOver computes the percentage return over the trailing n bars.
// Returns false when the series is too short.
func (s PriceSeries) ReturnOver(n int) (float64, bool) {
	if n <= 0 || len(s.Bars) < n+1 {
		return 0, false
	}
	base := s.Bars[len(s.Bars)-1-n].Close
	if base == 0 {
		return 0, false
	}
	last := s.Bars[len(s.Bars)-1].Close
	return (last - base) / base * 100, true
}

// CloseAfter returns the close of the nth trading day strictly after date.
// Used by the outcome backfill to resolve t+n prices.
func (s PriceSeries) CloseAfter(date time.Time, n int) (float64, bool) {
	if n <= 0 {
		return 0, false
	}
	count := 0
	for _, b := range s.Bars {
		if b.Date.After(date) {
			count++
			if count == n {
				return b.Close, true
			}
		}
	}
	return 0, false
}

// Normalize sorts bars ascending by date and drops duplicate dates,
// keeping the last occurrence. Called once when a series is built from
// provider rows; the result is immutable from the caller's perspective.
func Normalize(ticker string, bars []Bar) PriceSeries {
	sorted := make([]Bar, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	deduped := sorted[:0]
	for _, b := range sorted {
		if len(deduped) > 0 && sameDay(deduped[len(deduped)-1].Date, b.Date) {
			deduped[len(deduped)-1] = b
			continue
		}
		deduped = append(deduped, b)
	}

	return PriceSeries{Ticker: ticker, Bars: deduped}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
