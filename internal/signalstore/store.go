package signalstore

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Store is the durable signals ledger. Implementations must be safe for
// concurrent use.
type Store interface {
	// Upsert writes the signal, replacing an existing (date, ticker) row.
	Upsert(ctx context.Context, s *Signal) error
	// Get returns nil, nil when the row does not exist.
	Get(ctx context.Context, date time.Time, ticker string) (*Signal, error)
	// Pending lists signals issued on or before cutoff that still miss
	// at least one outcome, oldest first.
	Pending(ctx context.Context, cutoff time.Time) ([]*Signal, error)
	// Window lists signals issued within [since, now], newest first.
	Window(ctx context.Context, since time.Time) ([]*Signal, error)
	// Prune deletes signals older than cutoff, returning the count.
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}

// day truncates to the calendar date in UTC; the ledger keys on dates,
// not instants.
func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type memKey struct {
	date   time.Time
	ticker string
}

// MemoryStore is the in-process Store used by tests and the cache-only
// deployment mode.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[memKey]*Signal
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[memKey]*Signal)}
}

var _ Store = (*MemoryStore)(nil)

func (m *MemoryStore) Upsert(_ context.Context, s *Signal) error {
	if err := s.Validate(); err != nil {
		return err
	}

	cp := *s
	cp.SignalDate = day(s.SignalDate)
	cp.UpdatedAt = time.Now()
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = cp.UpdatedAt
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[memKey{cp.SignalDate, cp.Ticker}] = &cp
	return nil
}

func (m *MemoryStore) Get(_ context.Context, date time.Time, ticker string) (*Signal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.rows[memKey{day(date), ticker}]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *MemoryStore) Pending(_ context.Context, cutoff time.Time) ([]*Signal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Signal
	for _, s := range m.rows {
		if s.Backfilled() || s.SignalDate.After(day(cutoff)) {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SignalDate.Equal(out[j].SignalDate) {
			return out[i].SignalDate.Before(out[j].SignalDate)
		}
		return out[i].Ticker < out[j].Ticker
	})
	return out, nil
}

func (m *MemoryStore) Window(_ context.Context, since time.Time) ([]*Signal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Signal
	for _, s := range m.rows {
		if s.SignalDate.Before(day(since)) {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SignalDate.Equal(out[j].SignalDate) {
			return out[i].SignalDate.After(out[j].SignalDate)
		}
		return out[i].Ticker < out[j].Ticker
	})
	return out, nil
}

func (m *MemoryStore) Prune(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for k, s := range m.rows {
		if s.SignalDate.Before(day(cutoff)) {
			delete(m.rows, k)
			n++
		}
	}
	return n, nil
}
