package setups

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlim/tickerpulse/internal/indicators"
	"github.com/jlim/tickerpulse/internal/levels"
)

func fptr(v float64) *float64 { return &v }

func findSetup(setups []Setup, t Type) (Setup, bool) {
	for _, s := range setups {
		if s.Type == t {
			return s, true
		}
	}
	return Setup{}, false
}

func TestDetectOversoldBounce(t *testing.T) {
	th := DefaultThresholds()

	t.Run("fires below gate with support stop", func(t *testing.T) {
		in := Input{
			Snapshot: &indicators.Snapshot{
				Ticker: "AAPL",
				Price:  100,
				RSI:    fptr(28),
				MACD:   &indicators.MACDResult{Trend: indicators.MACDBullishCrossover},
			},
			Levels: &levels.Levels{
				Supports: []levels.Level{{Price: 98, Touches: 3}},
			},
			VolumeRatio: 1.0,
		}

		s, ok := detectOversoldBounce(in, th)
		require.True(t, ok)
		assert.Equal(t, OversoldBounce, s.Type)
		assert.InDelta(t, 98*0.97, s.StopLoss, 0.01)
		assert.InDelta(t, 105.0, s.Target1, 0.01)
		assert.InDelta(t, 110.0, s.Target2, 0.01)
		assert.GreaterOrEqual(t, s.Confidence, 1)
		assert.LessOrEqual(t, s.Confidence, 10)
		assert.NotEmpty(t, s.Signals)
	})

	t.Run("no support falls back to price stop", func(t *testing.T) {
		in := Input{
			Snapshot: &indicators.Snapshot{Ticker: "X", Price: 100, RSI: fptr(30)},
			Levels:   &levels.Levels{},
		}
		s, ok := detectOversoldBounce(in, th)
		require.True(t, ok)
		assert.InDelta(t, 95.0, s.StopLoss, 0.01)
	})

	t.Run("does not fire at the gate", func(t *testing.T) {
		in := Input{Snapshot: &indicators.Snapshot{Ticker: "X", Price: 100, RSI: fptr(35)}}
		_, ok := detectOversoldBounce(in, th)
		assert.False(t, ok)
	})

	t.Run("absent RSI never fires", func(t *testing.T) {
		in := Input{Snapshot: &indicators.Snapshot{Ticker: "X", Price: 100}}
		_, ok := detectOversoldBounce(in, th)
		assert.False(t, ok)
	})
}

func TestDetectPullback(t *testing.T) {
	th := DefaultThresholds()

	base := func() *indicators.Snapshot {
		return &indicators.Snapshot{
			Ticker:  "MSFT",
			Price:   101,
			EMA20:   fptr(100),
			EMA50:   fptr(95),
			EMA200:  fptr(90),
			MATrend: indicators.MABullish,
		}
	}

	t.Run("fires near EMA20", func(t *testing.T) {
		in := Input{Snapshot: base(), VolumeRatio: 0.8}
		s, ok := detectPullback(in, th)
		require.True(t, ok)
		assert.Equal(t, PullbackToEMA, s.Type)
		assert.InDelta(t, 95*0.98, s.StopLoss, 0.01) // under the lower EMA
		assert.InDelta(t, 101*1.06, s.Target1, 0.01)
	})

	t.Run("requires bullish stack", func(t *testing.T) {
		snap := base()
		snap.MATrend = indicators.MAMixed
		_, ok := detectPullback(in(snap), th)
		assert.False(t, ok)
	})

	t.Run("too far from both EMAs", func(t *testing.T) {
		snap := base()
		snap.Price = 120
		_, ok := detectPullback(in(snap), th)
		assert.False(t, ok)
	})
}

func in(snap *indicators.Snapshot) Input {
	return Input{Snapshot: snap, VolumeRatio: 1.0}
}

func TestDetectBreakout(t *testing.T) {
	th := DefaultThresholds()

	mk := func(price, volRatio float64) Input {
		return Input{
			Snapshot: &indicators.Snapshot{Ticker: "NVDA", Price: price},
			Levels: &levels.Levels{
				PivotHighs: []levels.Level{{Price: 100, Touches: 4}},
			},
			VolumeRatio:      volRatio,
			RelativeStrength: 2.5,
		}
	}

	t.Run("fires just above resistance on volume", func(t *testing.T) {
		s, ok := detectBreakout(mk(101.5, 1.4), th)
		require.True(t, ok)
		assert.Equal(t, Breakout, s.Type)
		assert.InDelta(t, 97.0, s.StopLoss, 0.01)
		assert.InDelta(t, 101.5*1.08, s.Target1, 0.01)
		assert.InDelta(t, 101.5*1.15, s.Target2, 0.01)
		assert.Greater(t, s.RiskReward, 1.0)
	})

	t.Run("no volume no breakout", func(t *testing.T) {
		_, ok := detectBreakout(mk(101.5, 1.2), th)
		assert.False(t, ok)
	})

	t.Run("fires at exactly two percent above", func(t *testing.T) {
		in := mk(102, 1.4)
		in.Snapshot.RSI = fptr(55)
		in.Snapshot.MACD = &indicators.MACDResult{Trend: indicators.MACDBullish}
		s, ok := detectBreakout(in, th)
		require.True(t, ok)
		assert.InDelta(t, 97.0, s.StopLoss, 0.001)
		assert.InDelta(t, 110.16, s.Target1, 0.001)
	})

	t.Run("beyond two percent is too extended", func(t *testing.T) {
		_, ok := detectBreakout(mk(102.5, 1.4), th)
		assert.False(t, ok)
	})

	t.Run("below the level is not a break", func(t *testing.T) {
		_, ok := detectBreakout(mk(99, 1.4), th)
		assert.False(t, ok)
	})
}

func TestDetectMomentum(t *testing.T) {
	th := DefaultThresholds()

	base := func() Input {
		return Input{
			Snapshot: &indicators.Snapshot{
				Ticker:  "AMD",
				Price:   110,
				RSI:     fptr(60),
				EMA20:   fptr(105),
				EMA50:   fptr(100),
				EMA200:  fptr(90),
				MATrend: indicators.MABullish,
				ADX:     &indicators.ADXResult{ADX: 30, Strength: indicators.TrendStrong},
			},
			Fib:         &levels.Fibonacci{SwingHigh: 120, SwingLow: 90},
			VolumeRatio: 1.1,
		}
	}

	t.Run("fib extension targets", func(t *testing.T) {
		s, ok := detectMomentum(base(), th)
		require.True(t, ok)
		assert.Equal(t, MomentumContinuation, s.Type)
		assert.InDelta(t, 120.0, s.Target1, 0.01)
		assert.InDelta(t, 110+(120-110)*1.618, s.Target2, 0.01)
	})

	t.Run("fallback targets without a swing above", func(t *testing.T) {
		in := base()
		in.Fib = nil
		s, ok := detectMomentum(in, th)
		require.True(t, ok)
		assert.InDelta(t, 110*1.06, s.Target1, 0.01)
		assert.InDelta(t, 110*1.12, s.Target2, 0.01)
	})

	t.Run("hot RSI is rejected", func(t *testing.T) {
		in := base()
		in.Snapshot.RSI = fptr(75)
		_, ok := detectMomentum(in, th)
		assert.False(t, ok)
	})

	t.Run("weak ADX is rejected", func(t *testing.T) {
		in := base()
		in.Snapshot.ADX = &indicators.ADXResult{ADX: 18}
		_, ok := detectMomentum(in, th)
		assert.False(t, ok)
	})
}

func TestDetectMeanReversion(t *testing.T) {
	th := DefaultThresholds()

	base := func() Input {
		return Input{
			Snapshot: &indicators.Snapshot{
				Ticker:     "INTC",
				Price:      90,
				RSI:        fptr(30),
				EMA20:      fptr(95),
				EMA50:      fptr(100),
				Divergence: &indicators.DivergenceResult{Kind: indicators.DivergenceBullish, Strength: indicators.DivergenceStrong},
			},
			VolumeRatio: 1.0,
		}
	}

	t.Run("fires with divergence and targets the means", func(t *testing.T) {
		s, ok := detectMeanReversion(base(), th)
		require.True(t, ok)
		assert.Equal(t, MeanReversion, s.Type)
		assert.InDelta(t, 95.0, s.Target1, 0.01)
		assert.InDelta(t, 100.0, s.Target2, 0.01)
	})

	t.Run("oversold alone is rejected", func(t *testing.T) {
		in := base()
		in.Snapshot.Divergence = nil
		_, ok := detectMeanReversion(in, th)
		assert.False(t, ok)
	})

	t.Run("macd turning also qualifies", func(t *testing.T) {
		in := base()
		in.Snapshot.Divergence = nil
		in.Snapshot.MACD = &indicators.MACDResult{Trend: indicators.MACDBullishCrossover}
		_, ok := detectMeanReversion(in, th)
		assert.True(t, ok)
	})
}

func TestDetectBreakdown(t *testing.T) {
	th := DefaultThresholds()

	base := func() Input {
		return Input{
			Snapshot: &indicators.Snapshot{
				Ticker:  "BA",
				Price:   99,
				RSI:     fptr(42),
				MACD:    &indicators.MACDResult{Trend: indicators.MACDBearish},
				MATrend: indicators.MABearish,
			},
			Levels: &levels.Levels{
				PivotLows: []levels.Level{{Price: 100, Touches: 3}},
			},
			VolumeRatio: 1.5,
		}
	}

	t.Run("stop above the broken support", func(t *testing.T) {
		s, ok := detectBreakdown(base(), th)
		require.True(t, ok)
		assert.Equal(t, BreakdownWarning, s.Type)
		assert.InDelta(t, 103.0, s.StopLoss, 0.01)
		assert.InDelta(t, 99*0.95, s.Target1, 0.01)
		assert.Less(t, s.Target1, s.CurrentPrice)
		assert.Greater(t, s.StopLoss, s.CurrentPrice)
		assert.InDelta(t, (99-99*0.95)/(103-99), s.RiskReward, 0.01)
	})

	t.Run("washed-out RSI is too late to warn", func(t *testing.T) {
		in := base()
		in.Snapshot.RSI = fptr(25)
		_, ok := detectBreakdown(in, th)
		assert.False(t, ok)
	})

	t.Run("needs bearish macd", func(t *testing.T) {
		in := base()
		in.Snapshot.MACD = &indicators.MACDResult{Trend: indicators.MACDBullish}
		_, ok := detectBreakdown(in, th)
		assert.False(t, ok)
	})

	t.Run("needs volume", func(t *testing.T) {
		in := base()
		in.VolumeRatio = 0.9
		_, ok := detectBreakdown(in, th)
		assert.False(t, ok)
	})
}

func TestDetectAll(t *testing.T) {
	t.Run("detectors are independent", func(t *testing.T) {
		in := Input{
			Snapshot: &indicators.Snapshot{
				Ticker:     "GME",
				Price:      90,
				RSI:        fptr(30),
				EMA20:      fptr(95),
				EMA50:      fptr(100),
				MACD:       &indicators.MACDResult{Trend: indicators.MACDBullishCrossover},
				Divergence: &indicators.DivergenceResult{Kind: indicators.DivergenceBullish, Strength: indicators.DivergenceModerate},
			},
			Levels:      &levels.Levels{Supports: []levels.Level{{Price: 88, Touches: 2}}},
			VolumeRatio: 1.0,
		}
		out := DetectAll(in, DefaultThresholds())

		_, hasBounce := findSetup(out, OversoldBounce)
		_, hasReversion := findSetup(out, MeanReversion)
		assert.True(t, hasBounce)
		assert.True(t, hasReversion)
	})

	t.Run("nil snapshot", func(t *testing.T) {
		assert.Nil(t, DetectAll(Input{}, DefaultThresholds()))
	})
}

func TestThresholdsNormalize(t *testing.T) {
	th := Thresholds{OversoldRSI: 40}.Normalize()
	assert.Equal(t, 40.0, th.OversoldRSI)
	assert.Equal(t, 1.3, th.BreakoutVolumeMin)
	assert.Equal(t, 25.0, th.MomentumADXMin)
}

func TestTypeValid(t *testing.T) {
	assert.True(t, Breakout.Valid())
	assert.True(t, BreakdownWarning.Valid())
	assert.False(t, Type("janky").Valid())
}
