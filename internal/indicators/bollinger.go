package indicators

// Bollinger band position labels
const (
	BandBelowLower = "below_lower"
	BandNearLower  = "near_lower"
	BandMiddle     = "middle"
	BandNearUpper  = "near_upper"
	BandAboveUpper = "above_upper"
)

// bandProximityPct is how close (as a fraction of band price) the close
// must be to count as "near" a band.
const bandProximityPct = 0.02

// BollingerResult holds the bands as of the last bar and where the close
// sits relative to them.
type BollingerResult struct {
	Upper    float64 `json:"upper"`
	Middle   float64 `json:"middle"`
	Lower    float64 `json:"lower"`
	Position string  `json:"position"`
}

// Bollinger computes period-SMA bands at +/- mult standard deviations
func Bollinger(closes []float64, period int, mult float64) (*BollingerResult, bool) {
	middle, ok := SMA(closes, period)
	if !ok {
		return nil, false
	}
	sd, ok := stdDev(closes, period)
	if !ok {
		return nil, false
	}

	upper := middle + mult*sd
	lower := middle - mult*sd
	price := closes[len(closes)-1]

	position := BandMiddle
	switch {
	case price < lower:
		position = BandBelowLower
	case lower > 0 && (price-lower)/lower <= bandProximityPct:
		position = BandNearLower
	case price > upper:
		position = BandAboveUpper
	case upper > 0 && (upper-price)/upper <= bandProximityPct:
		position = BandNearUpper
	}

	return &BollingerResult{
		Upper:    upper,
		Middle:   middle,
		Lower:    lower,
		Position: position,
	}, true
}

// AtOrBelowLower reports whether price is pressing or breaching the lower band
func (b *BollingerResult) AtOrBelowLower() bool {
	return b.Position == BandBelowLower || b.Position == BandNearLower
}

// AtOrAboveUpper reports whether price is pressing or breaching the upper band
func (b *BollingerResult) AtOrAboveUpper() bool {
	return b.Position == BandAboveUpper || b.Position == BandNearUpper
}
