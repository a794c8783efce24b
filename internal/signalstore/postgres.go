package signalstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists signals in signals.ledger, one row per
// (signal_date, ticker).
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

var _ Store = (*PostgresStore)(nil)

const signalColumns = `
	signal_date, ticker, sentiment, mentions,
	tech_score, tech_bias, rsi, macd_trend, confluence_score,
	price_at_signal,
	price_1d, price_3d, price_5d, price_10d,
	return_1d, return_3d, return_5d,
	was_accurate_1d, was_accurate_3d, was_accurate_5d,
	created_at, updated_at`

func (r *PostgresStore) Upsert(ctx context.Context, s *Signal) error {
	if err := s.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO signals.ledger (
			signal_date, ticker, sentiment, mentions,
			tech_score, tech_bias, rsi, macd_trend, confluence_score,
			price_at_signal,
			price_1d, price_3d, price_5d, price_10d,
			return_1d, return_3d, return_5d,
			was_accurate_1d, was_accurate_3d, was_accurate_5d,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			NOW(), NOW()
		)
		ON CONFLICT (signal_date, ticker) DO UPDATE SET
			sentiment = EXCLUDED.sentiment,
			mentions = EXCLUDED.mentions,
			tech_score = EXCLUDED.tech_score,
			tech_bias = EXCLUDED.tech_bias,
			rsi = EXCLUDED.rsi,
			macd_trend = EXCLUDED.macd_trend,
			confluence_score = EXCLUDED.confluence_score,
			price_at_signal = EXCLUDED.price_at_signal,
			price_1d = EXCLUDED.price_1d,
			price_3d = EXCLUDED.price_3d,
			price_5d = EXCLUDED.price_5d,
			price_10d = EXCLUDED.price_10d,
			return_1d = EXCLUDED.return_1d,
			return_3d = EXCLUDED.return_3d,
			return_5d = EXCLUDED.return_5d,
			was_accurate_1d = EXCLUDED.was_accurate_1d,
			was_accurate_3d = EXCLUDED.was_accurate_3d,
			was_accurate_5d = EXCLUDED.was_accurate_5d,
			updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query,
		day(s.SignalDate), s.Ticker, s.Sentiment, s.Mentions,
		s.TechScore, s.TechBias, s.RSI, s.MACDTrend, s.Confluence,
		s.PriceAtSignal,
		s.Price1D, s.Price3D, s.Price5D, s.Price10D,
		s.Return1D, s.Return3D, s.Return5D,
		s.Accurate1D, s.Accurate3D, s.Accurate5D,
	)
	if err != nil {
		return fmt.Errorf("upsert signal %s/%s: %w", s.Ticker, day(s.SignalDate).Format("2006-01-02"), err)
	}
	return nil
}

func (r *PostgresStore) Get(ctx context.Context, date time.Time, ticker string) (*Signal, error) {
	query := `SELECT ` + signalColumns + `
		FROM signals.ledger
		WHERE signal_date = $1 AND ticker = $2`

	s, err := scanSignal(r.pool.QueryRow(ctx, query, day(date), ticker))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

func (r *PostgresStore) Pending(ctx context.Context, cutoff time.Time) ([]*Signal, error) {
	query := `SELECT ` + signalColumns + `
		FROM signals.ledger
		WHERE signal_date <= $1
		  AND (price_1d IS NULL OR price_3d IS NULL OR price_5d IS NULL OR price_10d IS NULL)
		ORDER BY signal_date ASC, ticker ASC`

	return r.querySignals(ctx, query, day(cutoff))
}

func (r *PostgresStore) Window(ctx context.Context, since time.Time) ([]*Signal, error) {
	query := `SELECT ` + signalColumns + `
		FROM signals.ledger
		WHERE signal_date >= $1
		ORDER BY signal_date DESC, ticker ASC`

	return r.querySignals(ctx, query, day(since))
}

func (r *PostgresStore) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM signals.ledger WHERE signal_date < $1`, day(cutoff))
	if err != nil {
		return 0, fmt.Errorf("prune signals: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresStore) querySignals(ctx context.Context, query string, args ...any) ([]*Signal, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Signal
	for rows.Next() {
		s, err := scanSignal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSignal(row rowScanner) (*Signal, error) {
	var s Signal
	err := row.Scan(
		&s.SignalDate, &s.Ticker, &s.Sentiment, &s.Mentions,
		&s.TechScore, &s.TechBias, &s.RSI, &s.MACDTrend, &s.Confluence,
		&s.PriceAtSignal,
		&s.Price1D, &s.Price3D, &s.Price5D, &s.Price10D,
		&s.Return1D, &s.Return3D, &s.Return5D,
		&s.Accurate1D, &s.Accurate3D, &s.Accurate5D,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
