package setups

import "math"

// Thresholds are the tunable gates of the six detectors. Zero values
// are replaced by defaults via Normalize, so a partially-populated
// struct from config is safe to use.
type Thresholds struct {
	OversoldRSI        float64 `yaml:"oversold_rsi" json:"oversold_rsi"`
	SupportProximity   float64 `yaml:"support_proximity" json:"support_proximity"`
	PullbackEMA20      float64 `yaml:"pullback_ema20" json:"pullback_ema20"`
	PullbackEMA50      float64 `yaml:"pullback_ema50" json:"pullback_ema50"`
	BreakoutMaxAbove   float64 `yaml:"breakout_max_above" json:"breakout_max_above"`
	BreakoutVolumeMin  float64 `yaml:"breakout_volume_min" json:"breakout_volume_min"`
	MomentumRSIMin     float64 `yaml:"momentum_rsi_min" json:"momentum_rsi_min"`
	MomentumRSIMax     float64 `yaml:"momentum_rsi_max" json:"momentum_rsi_max"`
	MomentumADXMin     float64 `yaml:"momentum_adx_min" json:"momentum_adx_min"`
	BreakdownRSIMin    float64 `yaml:"breakdown_rsi_min" json:"breakdown_rsi_min"`
	BreakdownProximity float64 `yaml:"breakdown_proximity" json:"breakdown_proximity"`
	BreakdownVolumeMin float64 `yaml:"breakdown_volume_min" json:"breakdown_volume_min"`
}

// DefaultThresholds returns the stock detector gates.
func DefaultThresholds() Thresholds {
	return Thresholds{
		OversoldRSI:        35,
		SupportProximity:   0.03,
		PullbackEMA20:      0.02,
		PullbackEMA50:      0.03,
		BreakoutMaxAbove:   0.02,
		BreakoutVolumeMin:  1.3,
		MomentumRSIMin:     50,
		MomentumRSIMax:     70,
		MomentumADXMin:     25,
		BreakdownRSIMin:    30,
		BreakdownProximity: 0.02,
		BreakdownVolumeMin: 1.2,
	}
}

// Normalize fills zero fields with their defaults.
func (t Thresholds) Normalize() Thresholds {
	d := DefaultThresholds()
	if t.OversoldRSI == 0 {
		t.OversoldRSI = d.OversoldRSI
	}
	if t.SupportProximity == 0 {
		t.SupportProximity = d.SupportProximity
	}
	if t.PullbackEMA20 == 0 {
		t.PullbackEMA20 = d.PullbackEMA20
	}
	if t.PullbackEMA50 == 0 {
		t.PullbackEMA50 = d.PullbackEMA50
	}
	if t.BreakoutMaxAbove == 0 {
		t.BreakoutMaxAbove = d.BreakoutMaxAbove
	}
	if t.BreakoutVolumeMin == 0 {
		t.BreakoutVolumeMin = d.BreakoutVolumeMin
	}
	if t.MomentumRSIMin == 0 {
		t.MomentumRSIMin = d.MomentumRSIMin
	}
	if t.MomentumRSIMax == 0 {
		t.MomentumRSIMax = d.MomentumRSIMax
	}
	if t.MomentumADXMin == 0 {
		t.MomentumADXMin = d.MomentumADXMin
	}
	if t.BreakdownRSIMin == 0 {
		t.BreakdownRSIMin = d.BreakdownRSIMin
	}
	if t.BreakdownProximity == 0 {
		t.BreakdownProximity = d.BreakdownProximity
	}
	if t.BreakdownVolumeMin == 0 {
		t.BreakdownVolumeMin = d.BreakdownVolumeMin
	}
	return t
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
