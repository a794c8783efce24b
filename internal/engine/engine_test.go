package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlim/tickerpulse/internal/indicators"
	"github.com/jlim/tickerpulse/internal/marketdata"
	"github.com/jlim/tickerpulse/internal/setups"
	"github.com/jlim/tickerpulse/internal/signalstore"
	"github.com/jlim/tickerpulse/internal/strategyconfig"
	"github.com/jlim/tickerpulse/pkg/config"
	"github.com/jlim/tickerpulse/pkg/logger"
)

// uptrendProvider serves a clean rising series for every symbol except
// the ones listed in empty.
type uptrendProvider struct {
	empty map[string]bool
}

func (p *uptrendProvider) Fetch(_ context.Context, symbol string, from, to time.Time) ([]marketdata.Bar, error) {
	if p.empty[symbol] {
		return nil, nil
	}
	var bars []marketdata.Bar
	day := from
	c := 100.0
	for len(bars) < 260 && day.Before(to) {
		bars = append(bars, marketdata.Bar{
			Date: day, Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 1_000_000,
		})
		c += 0.4
		day = day.AddDate(0, 0, 1)
	}
	return bars, nil
}

func newTestEngine(t *testing.T, provider marketdata.Provider) (*Engine, *signalstore.MemoryStore) {
	t.Helper()

	cache := marketdata.NewCache(provider, marketdata.NewMemoryStore(), nil, time.Hour, logger.NewNop())
	store := signalstore.NewMemoryStore()

	strategy := strategyconfig.Default()
	strategy.Sectors = []strategyconfig.SectorDef{
		{Name: "tech", Tickers: []string{"AAPL", "MSFT", "EMPTY"}},
	}

	cfg := config.EngineConfig{
		Workers:      2,
		TaskTimeout:  10 * time.Second,
		LookbackDays: 365,
		Benchmark:    "SPY",
	}

	return New(cache, store, strategy, cfg, logger.NewNop()), store
}

func TestEngineAnalyze(t *testing.T) {
	eng, _ := newTestEngine(t, &uptrendProvider{empty: map[string]bool{"EMPTY": true}})

	snap, err := eng.Analyze(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", snap.Ticker)
	assert.GreaterOrEqual(t, snap.Score, 0)
	assert.LessOrEqual(t, snap.Score, 100)

	_, err = eng.Analyze(context.Background(), "EMPTY")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestEngineAnalyzeFull(t *testing.T) {
	eng, _ := newTestEngine(t, &uptrendProvider{})

	ta, err := eng.AnalyzeFull(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "tech", ta.Sector)
	assert.NotNil(t, ta.Snapshot)
	assert.NotNil(t, ta.Levels)
	assert.NotNil(t, ta.Fib)
	// Same uptrend as the benchmark, so no edge either way
	assert.InDelta(t, 0.0, ta.RelativeStrength, 1e-9)
}

func TestEngineScreen(t *testing.T) {
	eng, _ := newTestEngine(t, &uptrendProvider{empty: map[string]bool{"EMPTY": true}})

	t.Run("failures are absent not fatal", func(t *testing.T) {
		out := eng.Screen(context.Background(), []string{"AAPL", "MSFT", "EMPTY"}, 0, "")
		require.Len(t, out, 2)
		for _, r := range out {
			assert.NotEqual(t, "EMPTY", r.Ticker)
			assert.GreaterOrEqual(t, r.TotalScore, float64(r.Snapshot.Score))
		}
	})

	t.Run("min score filters", func(t *testing.T) {
		out := eng.Screen(context.Background(), []string{"AAPL"}, 101, "")
		assert.Empty(t, out)
	})

	t.Run("universe comes from the sector map", func(t *testing.T) {
		out := eng.ScreenUniverse(context.Background(), 0, "")
		assert.Len(t, out, 2)
	})
}

func TestApplyScreeningGates(t *testing.T) {
	mk := func() *TickerAnalysis {
		return &TickerAnalysis{
			Ticker:   "AAPL",
			Snapshot: &indicators.Snapshot{Score: 70},
			Setups: []setups.Setup{
				{Type: setups.Breakout, Confidence: 7},
				{Type: setups.PullbackToEMA, Confidence: 3},
			},
		}
	}

	t.Run("confidence floor drops weak setups", func(t *testing.T) {
		ta := mk()
		keep := applyScreeningGates(ta, strategyconfig.Screening{MinConfidence: 5})
		assert.True(t, keep)
		require.Len(t, ta.Setups, 1)
		assert.Equal(t, setups.Breakout, ta.Setups[0].Type)
	})

	t.Run("require setup cuts tickers with none left", func(t *testing.T) {
		ta := mk()
		keep := applyScreeningGates(ta, strategyconfig.Screening{MinConfidence: 9, RequireSetup: true})
		assert.False(t, keep)
	})

	t.Run("default gates keep everything", func(t *testing.T) {
		ta := mk()
		keep := applyScreeningGates(ta, strategyconfig.Screening{MinConfidence: 1})
		assert.True(t, keep)
		assert.Len(t, ta.Setups, 2)
	})

	t.Run("no setup required keeps setup-less tickers", func(t *testing.T) {
		ta := mk()
		ta.Setups = nil
		keep := applyScreeningGates(ta, strategyconfig.Screening{MinConfidence: 5})
		assert.True(t, keep)
	})
}

func TestEngineRecordSignal(t *testing.T) {
	eng, store := newTestEngine(t, &uptrendProvider{})
	ctx := context.Background()

	sig := &signalstore.Signal{
		SignalDate: time.Now().UTC(),
		Ticker:     "AAPL",
		Sentiment:  signalstore.SentimentBullish,
		Mentions:   7,
		Confluence: 4,
	}
	require.NoError(t, eng.RecordSignal(ctx, sig))

	got, err := store.Get(ctx, sig.SignalDate, "AAPL")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Greater(t, got.PriceAtSignal, 0.0)
	assert.Greater(t, got.TechScore, 0)
	assert.NotEmpty(t, got.TechBias)
}

func TestRunPool(t *testing.T) {
	t.Run("collects all results", func(t *testing.T) {
		out := runPool(context.Background(), []string{"a", "b", "c"}, 2, time.Second,
			func(_ context.Context, key string) (string, error) {
				return key + "!", nil
			})
		require.Len(t, out, 3)
		seen := map[string]bool{}
		for _, r := range out {
			require.NoError(t, r.Err)
			seen[r.Value] = true
		}
		assert.True(t, seen["a!"] && seen["b!"] && seen["c!"])
	})

	t.Run("one failure never aborts the batch", func(t *testing.T) {
		out := runPool(context.Background(), []string{"ok", "boom"}, 2, time.Second,
			func(_ context.Context, key string) (int, error) {
				if key == "boom" {
					return 0, errors.New("provider down")
				}
				return 42, nil
			})
		require.Len(t, out, 2)
		var failed, succeeded int
		for _, r := range out {
			if r.Err != nil {
				failed++
				assert.Equal(t, "boom", r.Key)
			} else {
				succeeded++
			}
		}
		assert.Equal(t, 1, failed)
		assert.Equal(t, 1, succeeded)
	})

	t.Run("panic is contained", func(t *testing.T) {
		out := runPool(context.Background(), []string{"p"}, 1, time.Second,
			func(_ context.Context, _ string) (int, error) {
				panic("indicator blew up")
			})
		require.Len(t, out, 1)
		require.Error(t, out[0].Err)
		assert.Contains(t, out[0].Err.Error(), "panicked")
	})

	t.Run("slow task times out", func(t *testing.T) {
		out := runPool(context.Background(), []string{"slow"}, 1, 20*time.Millisecond,
			func(taskCtx context.Context, _ string) (int, error) {
				select {
				case <-taskCtx.Done():
					return 0, taskCtx.Err()
				case <-time.After(5 * time.Second):
					return 1, nil
				}
			})
		require.Len(t, out, 1)
		assert.ErrorIs(t, out[0].Err, context.DeadlineExceeded)
	})
}
