package marketdata

import (
	"context"
	"sync"
	"time"
)

// CacheEntry is one durable cache row: a fetched series plus its lifetime.
// At most one live entry exists per (ticker, lookback_days) pair.
type CacheEntry struct {
	Ticker       string
	LookbackDays int
	Series       PriceSeries
	FetchedAt    time.Time
	ExpiresAt    time.Time
}

// Expired reports whether the entry is past its TTL
func (e *CacheEntry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// StoreStats summarizes the durable cache for operational visibility
type StoreStats struct {
	Entries     int        `json:"entries"`
	LiveEntries int        `json:"live_entries"`
	OldestFetch *time.Time `json:"oldest_fetch,omitempty"`
	NewestFetch *time.Time `json:"newest_fetch,omitempty"`
}

// Store is the durable backing for the price cache. Implementations must
// tolerate concurrent reads/writes to distinct keys; each key is
// independently read-modify-written.
type Store interface {
	// Get returns the entry for the exact (ticker, lookbackDays) key,
	// or nil when absent.
	Get(ctx context.Context, ticker string, lookbackDays int) (*CacheEntry, error)
	// Put inserts or replaces the entry for its key.
	Put(ctx context.Context, entry *CacheEntry) error
	// Delete removes all windows for a ticker.
	Delete(ctx context.Context, ticker string) (int, error)
	// Clear removes every entry.
	Clear(ctx context.Context) error
	// PurgeExpired removes entries past their TTL.
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
	// Stats reports entry counts and fetch-time bounds.
	Stats(ctx context.Context) (*StoreStats, error)
}

// MemoryStore is an in-memory Store used in tests and as a fallback when
// no database is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[memKey]*CacheEntry
}

type memKey struct {
	ticker       string
	lookbackDays int
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[memKey]*CacheEntry)}
}

func (m *MemoryStore) Get(ctx context.Context, ticker string, lookbackDays int) (*CacheEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[memKey{ticker, lookbackDays}]
	if !ok {
		return nil, nil
	}
	cp := *entry
	return &cp, nil
}

func (m *MemoryStore) Put(ctx context.Context, entry *CacheEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *entry
	m.entries[memKey{entry.Ticker, entry.LookbackDays}] = &cp
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, ticker string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for k := range m.entries {
		if k.ticker == ticker {
			delete(m.entries, k)
			removed++
		}
	}
	return removed, nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[memKey]*CacheEntry)
	return nil
}

func (m *MemoryStore) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for k, e := range m.entries {
		if e.Expired(now) {
			delete(m.entries, k)
			removed++
		}
	}
	return removed, nil
}

func (m *MemoryStore) Stats(ctx context.Context) (*StoreStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &StoreStats{Entries: len(m.entries)}
	now := time.Now()
	for _, e := range m.entries {
		if !e.Expired(now) {
			stats.LiveEntries++
		}
		fetched := e.FetchedAt
		if stats.OldestFetch == nil || fetched.Before(*stats.OldestFetch) {
			t := fetched
			stats.OldestFetch = &t
		}
		if stats.NewestFetch == nil || fetched.After(*stats.NewestFetch) {
			t := fetched
			stats.NewestFetch = &t
		}
	}
	return stats, nil
}
