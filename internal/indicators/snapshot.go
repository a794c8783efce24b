package indicators

import "time"

// MATrend classifies the EMA20/EMA50/EMA200 stack.
type MATrend string

const (
	MABullish MATrend = "bullish"
	MABearish MATrend = "bearish"
	MAMixed   MATrend = "mixed"
)

// Bias is the overall read derived from the composite score.
type Bias string

const (
	BiasBullish Bias = "bullish"
	BiasNeutral Bias = "neutral"
	BiasBearish Bias = "bearish"
)

// Snapshot is an immutable technical picture of one ticker as of the
// last bar of its price series. Nil pointer fields mean the indicator
// could not be computed from the available history; the composite score
// simply omits their contribution.
type Snapshot struct {
	Ticker string    `json:"ticker"`
	AsOf   time.Time `json:"as_of"`
	Price  float64   `json:"price"`
	Bars   int       `json:"bars"`

	RSI        *float64          `json:"rsi,omitempty"`
	MACD       *MACDResult       `json:"macd,omitempty"`
	EMA20      *float64          `json:"ema_20,omitempty"`
	EMA50      *float64          `json:"ema_50,omitempty"`
	EMA200     *float64          `json:"ema_200,omitempty"`
	MATrend    MATrend           `json:"ma_trend"`
	Bollinger  *BollingerResult  `json:"bollinger,omitempty"`
	ATR        *ATRResult        `json:"atr,omitempty"`
	ADX        *ADXResult        `json:"adx,omitempty"`
	StochRSI   *StochRSIResult   `json:"stoch_rsi,omitempty"`
	Divergence *DivergenceResult `json:"divergence,omitempty"`
	Extremes   *ExtremesResult   `json:"extremes,omitempty"`
	Volume     *VolumeResult     `json:"volume,omitempty"`

	Score int  `json:"score"`
	Bias  Bias `json:"bias"`
}

// VolumeRatioOrDefault returns the volume ratio, or 1.0 when volume
// history is too short to compute one.
func (s *Snapshot) VolumeRatioOrDefault() float64 {
	if s.Volume == nil {
		return 1.0
	}
	return s.Volume.Ratio
}

// RSIOrNeutral returns the RSI, or a neutral 50 when absent.
func (s *Snapshot) RSIOrNeutral() float64 {
	if s.RSI == nil {
		return 50
	}
	return *s.RSI
}

// AboveEMA20 reports whether price sits above the 20-day EMA.
func (s *Snapshot) AboveEMA20() bool {
	return s.EMA20 != nil && s.Price > *s.EMA20
}

// NearHigh52w reports proximity to the 52-week high.
func (s *Snapshot) NearHigh52w() bool {
	return s.Extremes != nil && s.Extremes.NearHigh
}

// NearLow52w reports proximity to the 52-week low.
func (s *Snapshot) NearLow52w() bool {
	return s.Extremes != nil && s.Extremes.NearLow
}
