package indicators

import "github.com/jlim/tickerpulse/internal/marketdata"

const (
	volumePeriod  = 20
	highVolumeMin = 1.5
)

// VolumeResult relates the latest bar's volume to its 20-bar average.
type VolumeResult struct {
	Ratio float64 `json:"ratio"`
	High  bool    `json:"high"`
}

// VolumeRatio divides the latest volume by the 20-bar simple average
// volume. The High flag trips at a ratio of 1.5 or more.
func VolumeRatio(bars []marketdata.Bar) (*VolumeResult, bool) {
	if len(bars) < volumePeriod {
		return nil, false
	}

	window := bars[len(bars)-volumePeriod:]
	var sum float64
	for _, b := range window {
		sum += float64(b.Volume)
	}
	avg := sum / float64(volumePeriod)
	if avg == 0 {
		return nil, false
	}

	ratio := float64(bars[len(bars)-1].Volume) / avg
	return &VolumeResult{Ratio: ratio, High: ratio >= highVolumeMin}, true
}
