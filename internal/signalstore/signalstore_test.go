package signalstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlim/tickerpulse/internal/marketdata"
	"github.com/jlim/tickerpulse/pkg/logger"
)

var signalDate = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func newSignal(ticker string, sentiment Sentiment, price float64) *Signal {
	return &Signal{
		SignalDate:    signalDate,
		Ticker:        ticker,
		Sentiment:     sentiment,
		Mentions:      12,
		TechScore:     64,
		TechBias:      "bullish",
		Confluence:    3,
		PriceAtSignal: price,
	}
}

func TestConfluenceBucket(t *testing.T) {
	assert.Equal(t, BucketWeak, ConfluenceBucket(0))
	assert.Equal(t, BucketWeak, ConfluenceBucket(2))
	assert.Equal(t, BucketModerate, ConfluenceBucket(3))
	assert.Equal(t, BucketStrong, ConfluenceBucket(4))
	assert.Equal(t, BucketStrong, ConfluenceBucket(5))
}

func TestApplyOutcome(t *testing.T) {
	t.Run("bullish win", func(t *testing.T) {
		s := newSignal("AAPL", SentimentBullish, 100)
		s.ApplyOutcome(3, 105)

		require.NotNil(t, s.Return3D)
		assert.InDelta(t, 5.0, *s.Return3D, 1e-9)
		require.NotNil(t, s.Accurate3D)
		assert.True(t, *s.Accurate3D)
	})

	t.Run("bearish call on a rising price is a miss", func(t *testing.T) {
		s := newSignal("AAPL", SentimentBearish, 100)
		s.ApplyOutcome(3, 105)

		require.NotNil(t, s.Accurate3D)
		assert.False(t, *s.Accurate3D)
	})

	t.Run("neutral has no verdict", func(t *testing.T) {
		s := newSignal("AAPL", SentimentNeutral, 100)
		s.ApplyOutcome(3, 105)

		require.NotNil(t, s.Return3D)
		assert.Nil(t, s.Accurate3D)
	})

	t.Run("mixed has no verdict", func(t *testing.T) {
		s := newSignal("AAPL", SentimentMixed, 100)
		s.ApplyOutcome(5, 95)
		assert.Nil(t, s.Accurate5D)
	})

	t.Run("offset 10 stores price only", func(t *testing.T) {
		s := newSignal("AAPL", SentimentBullish, 100)
		s.ApplyOutcome(10, 120)

		require.NotNil(t, s.Price10D)
		assert.Equal(t, 120.0, *s.Price10D)
	})

	t.Run("degenerate price ignored", func(t *testing.T) {
		s := newSignal("AAPL", SentimentBullish, 100)
		s.ApplyOutcome(3, 0)
		assert.Nil(t, s.Price3D)
	})
}

func TestMemoryStoreUpsert(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	first := newSignal("TSLA", SentimentBullish, 250)
	require.NoError(t, store.Upsert(ctx, first))

	// Re-issuing on the same day replaces the row
	second := newSignal("TSLA", SentimentBearish, 255)
	second.SignalDate = signalDate.Add(9 * time.Hour) // same calendar day
	require.NoError(t, store.Upsert(ctx, second))

	got, err := store.Get(ctx, signalDate, "TSLA")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, SentimentBearish, got.Sentiment)
	assert.Equal(t, 255.0, got.PriceAtSignal)

	missing, err := store.Get(ctx, signalDate, "NOPE")
	require.NoError(t, err)
	assert.Nil(t, missing)

	invalid := newSignal("", SentimentBullish, 100)
	assert.Error(t, store.Upsert(ctx, invalid))
}

func TestMemoryStorePendingAndPrune(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	old := newSignal("A", SentimentBullish, 100)
	old.SignalDate = signalDate.AddDate(0, 0, -20)
	require.NoError(t, store.Upsert(ctx, old))

	done := newSignal("B", SentimentBullish, 100)
	done.SignalDate = signalDate.AddDate(0, 0, -15)
	for _, off := range OutcomeOffsets {
		done.ApplyOutcome(off, 103)
	}
	require.NoError(t, store.Upsert(ctx, done))

	fresh := newSignal("C", SentimentBullish, 100)
	require.NoError(t, store.Upsert(ctx, fresh))

	pending, err := store.Pending(ctx, signalDate.AddDate(0, 0, -1))
	require.NoError(t, err)
	require.Len(t, pending, 1) // done is filled, fresh is too new
	assert.Equal(t, "A", pending[0].Ticker)

	n, err := store.Prune(ctx, signalDate.AddDate(0, 0, -10))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	left, err := store.Window(ctx, signalDate.AddDate(0, 0, -30))
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "C", left[0].Ticker)
}

type fixedProvider struct {
	start  time.Time
	closes []float64
}

func (p *fixedProvider) Fetch(_ context.Context, _ string, _, _ time.Time) ([]marketdata.Bar, error) {
	bars := make([]marketdata.Bar, len(p.closes))
	for i, c := range p.closes {
		bars[i] = marketdata.Bar{
			Date: p.start.AddDate(0, 0, i),
			Open: c, High: c + 1, Low: c - 1, Close: c,
			Volume: 1000,
		}
	}
	return bars, nil
}

func newTestTracker(store Store, closes []float64) *Tracker {
	cache := marketdata.NewCache(
		&fixedProvider{start: signalDate, closes: closes},
		marketdata.NewMemoryStore(),
		nil,
		time.Hour,
		logger.NewNop(),
	)
	return NewTracker(store, cache, 365, logger.NewNop())
}

func TestTrackerBackfill(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	tracker := newTestTracker(store, nil)

	require.NoError(t, tracker.Record(ctx, newSignal("NVDA", SentimentBullish, 100)))

	err := tracker.Backfill(ctx, "NVDA", signalDate, map[int]float64{1: 101, 3: 97, 5: 108, 10: 112})
	require.NoError(t, err)

	got, err := store.Get(ctx, signalDate, "NVDA")
	require.NoError(t, err)
	require.NotNil(t, got)

	require.NotNil(t, got.Return1D)
	assert.InDelta(t, 1.0, *got.Return1D, 1e-9)
	require.NotNil(t, got.Accurate3D)
	assert.False(t, *got.Accurate3D) // bullish but -3%
	require.NotNil(t, got.Accurate5D)
	assert.True(t, *got.Accurate5D)
	require.NotNil(t, got.Price10D)
	require.NotNil(t, got.Accurate1D)
	assert.True(t, *got.Accurate1D)
}

func TestTrackerBackfillUnknownSignal(t *testing.T) {
	tracker := newTestTracker(NewMemoryStore(), nil)
	err := tracker.Backfill(context.Background(), "GHOST", signalDate, map[int]float64{1: 100})
	assert.Error(t, err)
}

func TestTrackerSweep(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	// 15 bars starting on the signal date: closes 100, 101, ...
	closes := make([]float64, 15)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	tracker := newTestTracker(store, closes)

	sig := newSignal("AMD", SentimentBullish, 100)
	require.NoError(t, tracker.Record(ctx, sig))

	updated, err := tracker.Sweep(ctx, signalDate.AddDate(0, 0, 20))
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	got, err := store.Get(ctx, signalDate, "AMD")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Backfilled())

	require.NotNil(t, got.Return3D)
	assert.InDelta(t, 3.0, *got.Return3D, 1e-9) // t+3 close is 103
	require.NotNil(t, got.Accurate3D)
	assert.True(t, *got.Accurate3D)

	// A second sweep has nothing left to do
	updated, err = tracker.Sweep(ctx, signalDate.AddDate(0, 0, 20))
	require.NoError(t, err)
	assert.Zero(t, updated)
}

func TestAccuracyStats(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	tracker := newTestTracker(store, nil)

	put := func(ticker string, daysAgo int, sentiment Sentiment, ret3 float64, confluence int) {
		s := newSignal(ticker, sentiment, 100)
		s.SignalDate = time.Now().UTC().AddDate(0, 0, -daysAgo)
		s.Confluence = confluence
		s.ApplyOutcome(3, 100+ret3)
		require.NoError(t, store.Upsert(ctx, s))
	}

	put("AAPL", 3, SentimentBullish, 5, 4)
	put("AAPL", 5, SentimentBullish, 3, 4)
	put("AAPL", 7, SentimentBullish, -2, 2)
	put("MSFT", 4, SentimentBearish, -1, 3)
	put("MSFT", 6, SentimentNeutral, 2, 1)
	put("OLD", 90, SentimentBullish, 9, 5) // outside the window

	rep, err := tracker.AccuracyStats(ctx, 30)
	require.NoError(t, err)

	assert.Equal(t, 5, rep.Total)

	bull := rep.BySentiment[SentimentBullish]
	require.NotNil(t, bull)
	assert.Equal(t, 3, bull.Count)
	assert.InDelta(t, 2.0/3.0*100, bull.HitRate3D, 0.01)
	assert.InDelta(t, 2.0, bull.AvgReturn3D, 1e-9)

	bear := rep.BySentiment[SentimentBearish]
	require.NotNil(t, bear)
	assert.InDelta(t, 100.0, bear.HitRate3D, 0.01)

	neutral := rep.BySentiment[SentimentNeutral]
	require.NotNil(t, neutral)
	assert.Equal(t, 0.0, neutral.HitRate3D) // no verdicts ever

	strong := rep.ByConfluence[BucketStrong]
	require.NotNil(t, strong)
	assert.Equal(t, 2, strong.Count)

	// leaderboard: only AAPL has >= 3 signals
	require.Len(t, rep.Leaderboard, 1)
	assert.Equal(t, "AAPL", rep.Leaderboard[0].Ticker)
	assert.InDelta(t, 2.0, rep.Leaderboard[0].AvgReturn3D, 1e-9)
}
