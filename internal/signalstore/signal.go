// Package signalstore persists every issued signal and back-fills
// realized prices to measure how the signals actually did.
package signalstore

import (
	"fmt"
	"time"
)

// Sentiment is supplied by the external analysis collaborator; this
// package only reads it.
type Sentiment string

const (
	SentimentBullish Sentiment = "bullish"
	SentimentBearish Sentiment = "bearish"
	SentimentNeutral Sentiment = "neutral"
	SentimentMixed   Sentiment = "mixed"
)

// Valid reports whether s is a known sentiment.
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentBullish, SentimentBearish, SentimentNeutral, SentimentMixed:
		return true
	}
	return false
}

// Directional reports whether accuracy is defined for this sentiment.
func (s Sentiment) Directional() bool {
	return s == SentimentBullish || s == SentimentBearish
}

// Outcome offsets in trading days. Offset 10 stores a return-free price
// checkpoint; accuracy verdicts stop at 5 days.
var OutcomeOffsets = []int{1, 3, 5, 10}

// Confluence buckets
const (
	BucketWeak     = "weak"     // 0-2 aligned signals
	BucketModerate = "moderate" // 3
	BucketStrong   = "strong"   // 4-5
)

// ConfluenceBucket maps a confluence score to its bucket label.
func ConfluenceBucket(score int) string {
	switch {
	case score <= 2:
		return BucketWeak
	case score == 3:
		return BucketModerate
	default:
		return BucketStrong
	}
}

// Signal is one persisted row, unique on (SignalDate, Ticker).
// Outcome fields stay nil until the backfill sweep reaches them.
type Signal struct {
	SignalDate time.Time `json:"signal_date"`
	Ticker     string    `json:"ticker"`

	Sentiment Sentiment `json:"sentiment"`
	Mentions  int       `json:"mentions"`

	TechScore  int      `json:"tech_score"`
	TechBias   string   `json:"tech_bias"`
	RSI        *float64 `json:"rsi,omitempty"`
	MACDTrend  string   `json:"macd_trend,omitempty"`
	Confluence int      `json:"confluence_score"`

	PriceAtSignal float64 `json:"price_at_signal"`

	Price1D  *float64 `json:"price_1d,omitempty"`
	Price3D  *float64 `json:"price_3d,omitempty"`
	Price5D  *float64 `json:"price_5d,omitempty"`
	Price10D *float64 `json:"price_10d,omitempty"`

	Return1D *float64 `json:"return_1d,omitempty"`
	Return3D *float64 `json:"return_3d,omitempty"`
	Return5D *float64 `json:"return_5d,omitempty"`

	Accurate1D *bool `json:"was_accurate_1d,omitempty"`
	Accurate3D *bool `json:"was_accurate_3d,omitempty"`
	Accurate5D *bool `json:"was_accurate_5d,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the fields the store cannot accept broken.
func (s *Signal) Validate() error {
	if s.Ticker == "" {
		return fmt.Errorf("signal: ticker required")
	}
	if s.SignalDate.IsZero() {
		return fmt.Errorf("signal: date required")
	}
	if !s.Sentiment.Valid() {
		return fmt.Errorf("signal: unknown sentiment %q", s.Sentiment)
	}
	if s.PriceAtSignal <= 0 {
		return fmt.Errorf("signal: price_at_signal must be positive")
	}
	if s.Confluence < 0 {
		return fmt.Errorf("signal: confluence must not be negative")
	}
	return nil
}

// Backfilled reports whether every outcome offset has been filled.
func (s *Signal) Backfilled() bool {
	return s.Price1D != nil && s.Price3D != nil && s.Price5D != nil && s.Price10D != nil
}

// ApplyOutcome stores the realized price at one offset and derives the
// return and, for directional sentiment at offsets up to 5 days, the
// accuracy verdict. Unknown offsets are ignored.
func (s *Signal) ApplyOutcome(offset int, price float64) {
	if price <= 0 || s.PriceAtSignal <= 0 {
		return
	}
	ret := (price - s.PriceAtSignal) / s.PriceAtSignal * 100

	var acc *bool
	if offset <= 5 && s.Sentiment.Directional() {
		hit := ret > 0
		if s.Sentiment == SentimentBearish {
			hit = ret < 0
		}
		acc = &hit
	}

	switch offset {
	case 1:
		s.Price1D, s.Return1D, s.Accurate1D = &price, &ret, acc
	case 3:
		s.Price3D, s.Return3D, s.Accurate3D = &price, &ret, acc
	case 5:
		s.Price5D, s.Return5D, s.Accurate5D = &price, &ret, acc
	case 10:
		s.Price10D = &price
	}
}
