package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fptr(v float64) *float64 { return &v }

func TestScoreBaseline(t *testing.T) {
	sc, bias := score(&Snapshot{MATrend: MAMixed})
	assert.Equal(t, 50, sc)
	assert.Equal(t, BiasNeutral, bias)
}

func TestScoreRSI(t *testing.T) {
	tests := []struct {
		name  string
		rsi   float64
		trend MATrend
		want  int
	}{
		{"oversold", 25, MAMixed, 65},
		{"oversold in downtrend muted", 25, MABearish, 40}, // +5 rsi, -15 trend
		{"near oversold", 33, MAMixed, 58},
		{"overbought", 75, MAMixed, 35},
		{"overbought in uptrend muted", 75, MABullish, 60}, // -5 rsi, +15 trend
		{"near overbought", 67, MAMixed, 42},
		{"neutral band", 50, MAMixed, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, _ := score(&Snapshot{RSI: fptr(tt.rsi), MATrend: tt.trend})
			assert.Equal(t, tt.want, sc)
		})
	}
}

func TestScoreMACD(t *testing.T) {
	tests := []struct {
		trend string
		want  int
	}{
		{MACDBullishCrossover, 68},
		{MACDBullish, 60},
		{MACDBearishCrossover, 32},
		{MACDBearish, 40},
	}
	for _, tt := range tests {
		t.Run(tt.trend, func(t *testing.T) {
			sc, _ := score(&Snapshot{MACD: &MACDResult{Trend: tt.trend}, MATrend: MAMixed})
			assert.Equal(t, tt.want, sc)
		})
	}
}

func TestScorePriceVsEMA50(t *testing.T) {
	sc, _ := score(&Snapshot{Price: 110, EMA50: fptr(100), MATrend: MAMixed})
	assert.Equal(t, 58, sc)

	sc, _ = score(&Snapshot{Price: 90, EMA50: fptr(100), MATrend: MAMixed})
	assert.Equal(t, 42, sc)
}

func TestScoreVolume(t *testing.T) {
	high := &VolumeResult{Ratio: 2.0, High: true}

	t.Run("with trend", func(t *testing.T) {
		sc, _ := score(&Snapshot{Volume: high, MATrend: MABullish})
		assert.Equal(t, 50+15+8, sc) // trend +15, volume +8

		sc, _ = score(&Snapshot{Volume: high, MATrend: MABearish})
		assert.Equal(t, 50-15-8, sc)
	})

	t.Run("mixed trend amplifies the lean", func(t *testing.T) {
		sc, _ := score(&Snapshot{RSI: fptr(25), Volume: high, MATrend: MAMixed})
		assert.Equal(t, 50+15+5, sc)

		sc, _ = score(&Snapshot{RSI: fptr(75), Volume: high, MATrend: MAMixed})
		assert.Equal(t, 50-15-5, sc)
	})

	t.Run("mixed trend no lean no effect", func(t *testing.T) {
		sc, _ := score(&Snapshot{Volume: high, MATrend: MAMixed})
		assert.Equal(t, 50, sc)
	})

	t.Run("normal volume no effect", func(t *testing.T) {
		sc, _ := score(&Snapshot{Volume: &VolumeResult{Ratio: 1.0}, MATrend: MABullish})
		assert.Equal(t, 65, sc)
	})
}

func TestScoreADX(t *testing.T) {
	t.Run("strong trend amplifies a lean", func(t *testing.T) {
		sc, _ := score(&Snapshot{RSI: fptr(25), ADX: &ADXResult{ADX: 30}, MATrend: MAMixed})
		assert.Equal(t, 65+8, sc)

		sc, _ = score(&Snapshot{RSI: fptr(75), ADX: &ADXResult{ADX: 30}, MATrend: MAMixed})
		assert.Equal(t, 35-8, sc)
	})

	t.Run("strong trend leaves a near-neutral score alone", func(t *testing.T) {
		sc, _ := score(&Snapshot{ADX: &ADXResult{ADX: 30}, MATrend: MAMixed})
		assert.Equal(t, 50, sc)
	})

	t.Run("no trend dampens an extended score", func(t *testing.T) {
		sc, _ := score(&Snapshot{RSI: fptr(25), ADX: &ADXResult{ADX: 15}, MATrend: MAMixed})
		assert.Equal(t, 58, sc)

		sc, _ = score(&Snapshot{RSI: fptr(75), ADX: &ADXResult{ADX: 15}, MATrend: MAMixed})
		assert.Equal(t, 42, sc)
	})
}

func TestScoreDivergenceBollingerStoch(t *testing.T) {
	sc, _ := score(&Snapshot{Divergence: &DivergenceResult{Kind: DivergenceBullish}, MATrend: MAMixed})
	assert.Equal(t, 62, sc)

	sc, _ = score(&Snapshot{Divergence: &DivergenceResult{Kind: DivergenceBearish}, MATrend: MAMixed})
	assert.Equal(t, 38, sc)

	sc, _ = score(&Snapshot{Bollinger: &BollingerResult{Position: BandNearLower}, MATrend: MAMixed})
	assert.Equal(t, 55, sc)

	sc, _ = score(&Snapshot{Bollinger: &BollingerResult{Position: BandAboveUpper}, MATrend: MAMixed})
	assert.Equal(t, 45, sc)

	sc, _ = score(&Snapshot{StochRSI: &StochRSIResult{K: 10, D: 15}, MATrend: MAMixed})
	assert.Equal(t, 58, sc)

	sc, _ = score(&Snapshot{StochRSI: &StochRSIResult{K: 55, D: 50, Cross: StochCrossBearish}, MATrend: MAMixed})
	assert.Equal(t, 42, sc)
}

func TestScoreExtremes(t *testing.T) {
	sc, _ := score(&Snapshot{Extremes: &ExtremesResult{NearLow: true}, MATrend: MAMixed})
	assert.Equal(t, 55, sc)

	// Asymmetric: a new high is only a mild caution
	sc, _ = score(&Snapshot{Extremes: &ExtremesResult{NearHigh: true}, MATrend: MAMixed})
	assert.Equal(t, 47, sc)
}

func TestScoreBiasBoundaries(t *testing.T) {
	// 60 is bullish, 59 is not
	sc, bias := score(&Snapshot{MACD: &MACDResult{Trend: MACDBullish}, MATrend: MAMixed})
	assert.Equal(t, 60, sc)
	assert.Equal(t, BiasBullish, bias)

	sc, bias = score(&Snapshot{RSI: fptr(33), MATrend: MAMixed})
	assert.Equal(t, 58, sc)
	assert.Equal(t, BiasNeutral, bias)

	// 40 is bearish, 42 is not
	sc, bias = score(&Snapshot{MACD: &MACDResult{Trend: MACDBearish}, MATrend: MAMixed})
	assert.Equal(t, 40, sc)
	assert.Equal(t, BiasBearish, bias)

	sc, bias = score(&Snapshot{RSI: fptr(67), MATrend: MAMixed})
	assert.Equal(t, 42, sc)
	assert.Equal(t, BiasNeutral, bias)
}

func TestScoreClamp(t *testing.T) {
	snap := &Snapshot{
		RSI:        fptr(25),
		MACD:       &MACDResult{Trend: MACDBullishCrossover},
		MATrend:    MABullish,
		Price:      110,
		EMA50:      fptr(100),
		Volume:     &VolumeResult{Ratio: 2.0, High: true},
		ADX:        &ADXResult{ADX: 35},
		Divergence: &DivergenceResult{Kind: DivergenceBullish},
		Bollinger:  &BollingerResult{Position: BandNearLower},
		StochRSI:   &StochRSIResult{K: 10, Cross: StochCrossBullish},
		Extremes:   &ExtremesResult{NearLow: true},
	}
	sc, bias := score(snap)
	assert.Equal(t, 100, sc)
	assert.Equal(t, BiasBullish, bias)

	bear := &Snapshot{
		RSI:       fptr(80),
		MACD:      &MACDResult{Trend: MACDBearishCrossover},
		MATrend:   MABearish,
		Price:     90,
		EMA50:     fptr(100),
		Volume:    &VolumeResult{Ratio: 2.0, High: true},
		ADX:       &ADXResult{ADX: 35},
		StochRSI:  &StochRSIResult{K: 90, Cross: StochCrossBearish},
		Bollinger: &BollingerResult{Position: BandAboveUpper},
	}
	sc, bias = score(bear)
	assert.Equal(t, 0, sc)
	assert.Equal(t, BiasBearish, bias)
}
