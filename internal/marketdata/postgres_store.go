package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists price cache entries in two plain tables:
// prices.cache_entries keyed (ticker, lookback_days) and prices.cache_bars
// holding the bars for each entry.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new durable cache store
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Get(ctx context.Context, ticker string, lookbackDays int) (*CacheEntry, error) {
	entryQuery := `
		SELECT ticker, lookback_days, fetched_at, expires_at
		FROM prices.cache_entries
		WHERE ticker = $1 AND lookback_days = $2
	`

	entry := &CacheEntry{}
	err := s.pool.QueryRow(ctx, entryQuery, ticker, lookbackDays).Scan(
		&entry.Ticker, &entry.LookbackDays, &entry.FetchedAt, &entry.ExpiresAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cache entry: %w", err)
	}

	barsQuery := `
		SELECT bar_date, open_price, high_price, low_price, close_price, volume
		FROM prices.cache_bars
		WHERE ticker = $1 AND lookback_days = $2
		ORDER BY bar_date ASC
	`

	rows, err := s.pool.Query(ctx, barsQuery, ticker, lookbackDays)
	if err != nil {
		return nil, fmt.Errorf("get cache bars: %w", err)
	}
	defer rows.Close()

	var bars []Bar
	for rows.Next() {
		var b Bar
		if err := rows.Scan(&b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan cache bar: %w", err)
		}
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	entry.Series = PriceSeries{Ticker: ticker, Bars: bars}
	return entry, nil
}

func (s *PostgresStore) Put(ctx context.Context, entry *CacheEntry) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin cache put: %w", err)
	}
	defer tx.Rollback(ctx)

	entryQuery := `
		INSERT INTO prices.cache_entries (ticker, lookback_days, fetched_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (ticker, lookback_days) DO UPDATE SET
			fetched_at = EXCLUDED.fetched_at,
			expires_at = EXCLUDED.expires_at
	`
	if _, err := tx.Exec(ctx, entryQuery,
		entry.Ticker, entry.LookbackDays, entry.FetchedAt, entry.ExpiresAt,
	); err != nil {
		return fmt.Errorf("upsert cache entry: %w", err)
	}

	// Replace the bars wholesale; supersedes any previous window content
	if _, err := tx.Exec(ctx,
		`DELETE FROM prices.cache_bars WHERE ticker = $1 AND lookback_days = $2`,
		entry.Ticker, entry.LookbackDays,
	); err != nil {
		return fmt.Errorf("clear cache bars: %w", err)
	}

	batch := &pgx.Batch{}
	barQuery := `
		INSERT INTO prices.cache_bars
			(ticker, lookback_days, bar_date, open_price, high_price, low_price, close_price, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, b := range entry.Series.Bars {
		batch.Queue(barQuery, entry.Ticker, entry.LookbackDays,
			b.Date, b.Open, b.High, b.Low, b.Close, b.Volume)
	}

	br := tx.SendBatch(ctx, batch)
	for range entry.Series.Bars {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("insert cache bar: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close cache bar batch: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) Delete(ctx context.Context, ticker string) (int, error) {
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM prices.cache_bars WHERE ticker = $1`, ticker,
	); err != nil {
		return 0, fmt.Errorf("delete cache bars: %w", err)
	}

	tag, err := s.pool.Exec(ctx,
		`DELETE FROM prices.cache_entries WHERE ticker = $1`, ticker,
	)
	if err != nil {
		return 0, fmt.Errorf("delete cache entries: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM prices.cache_bars`); err != nil {
		return fmt.Errorf("clear cache bars: %w", err)
	}
	if _, err := s.pool.Exec(ctx, `DELETE FROM prices.cache_entries`); err != nil {
		return fmt.Errorf("clear cache entries: %w", err)
	}
	return nil
}

func (s *PostgresStore) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	if _, err := s.pool.Exec(ctx, `
		DELETE FROM prices.cache_bars cb
		USING prices.cache_entries ce
		WHERE cb.ticker = ce.ticker
		  AND cb.lookback_days = ce.lookback_days
		  AND ce.expires_at < $1
	`, now); err != nil {
		return 0, fmt.Errorf("purge expired bars: %w", err)
	}

	tag, err := s.pool.Exec(ctx,
		`DELETE FROM prices.cache_entries WHERE expires_at < $1`, now,
	)
	if err != nil {
		return 0, fmt.Errorf("purge expired entries: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStore) Stats(ctx context.Context) (*StoreStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE expires_at >= NOW()),
			MIN(fetched_at),
			MAX(fetched_at)
		FROM prices.cache_entries
	`

	stats := &StoreStats{}
	err := s.pool.QueryRow(ctx, query).Scan(
		&stats.Entries, &stats.LiveEntries, &stats.OldestFetch, &stats.NewestFetch,
	)
	if err != nil {
		return nil, fmt.Errorf("cache stats: %w", err)
	}
	return stats, nil
}
