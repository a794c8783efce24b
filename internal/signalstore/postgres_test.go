package signalstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestPool connects to the database named by TEST_DATABASE_URL.
// The signals schema must already be migrated.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestPostgresStoreRoundTrip(t *testing.T) {
	pool := newTestPool(t)
	store := NewPostgresStore(pool)
	ctx := context.Background()

	date := time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC)
	sig := &Signal{
		SignalDate:    date,
		Ticker:        "ZZTEST",
		Sentiment:     SentimentBullish,
		Mentions:      5,
		TechScore:     70,
		TechBias:      "bullish",
		Confluence:    4,
		PriceAtSignal: 42.5,
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM signals.ledger WHERE ticker = 'ZZTEST'`)
	})

	require.NoError(t, store.Upsert(ctx, sig))

	// Idempotent re-issue with updated fields
	sig.Mentions = 9
	sig.ApplyOutcome(3, 45.0)
	require.NoError(t, store.Upsert(ctx, sig))

	got, err := store.Get(ctx, date, "ZZTEST")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 9, got.Mentions)
	require.NotNil(t, got.Return3D)
	assert.InDelta(t, (45.0-42.5)/42.5*100, *got.Return3D, 1e-9)

	pending, err := store.Pending(ctx, date)
	require.NoError(t, err)
	found := false
	for _, p := range pending {
		if p.Ticker == "ZZTEST" {
			found = true
		}
	}
	assert.True(t, found, "partially filled signal should stay pending")

	n, err := store.Prune(ctx, date.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))
}
