package marketdata

import (
	"context"
	"sync/atomic"
	"time"

	pkgredis "github.com/jlim/tickerpulse/pkg/redis"

	"github.com/jlim/tickerpulse/pkg/logger"
)

// Cache fronts the price provider with a durable TTL cache keyed by the
// exact (ticker, lookback_days) pair. Different callers request different
// window lengths; a ticker-only key would either over-fetch or under-serve.
type Cache struct {
	provider Provider
	store    Store
	hot      *pkgredis.Cache // optional fast layer; may serve stale-free hits without a DB roundtrip
	ttl      time.Duration
	logger   *logger.Logger

	hits      atomic.Int64
	misses    atomic.Int64
	refreshes atomic.Int64
}

// CacheStats combines in-process counters with durable store stats
type CacheStats struct {
	Hits      int64      `json:"hits"`
	Misses    int64      `json:"misses"`
	Refreshes int64      `json:"refreshes"`
	Store     StoreStats `json:"store"`
}

// NewCache creates a price cache. hot may be nil when Redis is not in use.
func NewCache(provider Provider, store Store, hot *pkgredis.Cache, ttl time.Duration, log *logger.Logger) *Cache {
	return &Cache{
		provider: provider,
		store:    store,
		hot:      hot,
		ttl:      ttl,
		logger:   log.WithField("module", "price_cache"),
	}
}

// Get returns the price series for (ticker, lookbackDays). On a live cache
// hit no provider call is made. On miss/expired/forced the provider is
// called, the result normalized and stored with a fresh TTL. A provider
// failure or empty result yields an empty series, never an error: callers
// treat an empty series as "unavailable".
func (c *Cache) Get(ctx context.Context, ticker string, lookbackDays int, forceRefresh bool) PriceSeries {
	if !forceRefresh {
		if series, ok := c.lookup(ctx, ticker, lookbackDays); ok {
			c.hits.Add(1)
			return series
		}
		c.misses.Add(1)
	} else {
		c.refreshes.Add(1)
	}

	return c.refresh(ctx, ticker, lookbackDays)
}

// lookup checks the hot layer, then the durable store
func (c *Cache) lookup(ctx context.Context, ticker string, lookbackDays int) (PriceSeries, bool) {
	if c.hot != nil {
		var series PriceSeries
		found, err := c.hot.Get(ctx, pkgredis.SeriesKey(ticker, lookbackDays), &series)
		if err == nil && found && !series.Empty() {
			return series, true
		}
	}

	entry, err := c.store.Get(ctx, ticker, lookbackDays)
	if err != nil {
		// Durable store trouble degrades to a refetch, not a failure
		c.logger.WithError(err).WithField("ticker", ticker).Warn("Cache store read failed")
		return PriceSeries{}, false
	}
	if entry == nil || entry.Expired(time.Now()) || entry.Series.Empty() {
		return PriceSeries{}, false
	}

	return entry.Series, true
}

// refresh calls the provider and persists the result
func (c *Cache) refresh(ctx context.Context, ticker string, lookbackDays int) PriceSeries {
	now := time.Now()
	from := now.AddDate(0, 0, -lookbackDays)

	bars, err := c.provider.Fetch(ctx, ticker, from, now)
	if err != nil {
		c.logger.WithError(err).WithFields(map[string]interface{}{
			"ticker":        ticker,
			"lookback_days": lookbackDays,
		}).Warn("Provider fetch failed")
		return PriceSeries{Ticker: ticker}
	}

	series := Normalize(ticker, bars)
	if series.Empty() {
		c.logger.WithField("ticker", ticker).Debug("Provider returned no bars")
		return series
	}

	entry := &CacheEntry{
		Ticker:       ticker,
		LookbackDays: lookbackDays,
		Series:       series,
		FetchedAt:    now,
		ExpiresAt:    now.Add(c.ttl),
	}

	// Persistence failures are logged and swallowed; the series is still
	// served and simply recomputed on the next call.
	if err := c.store.Put(ctx, entry); err != nil {
		c.logger.WithError(err).WithField("ticker", ticker).Error("Cache store write failed")
	}

	if c.hot != nil {
		if err := c.hot.Set(ctx, pkgredis.SeriesKey(ticker, lookbackDays), series, c.ttl); err != nil {
			c.logger.WithError(err).WithField("ticker", ticker).Warn("Hot cache write failed")
		}
	}

	return series
}

// Invalidate drops all cached windows for a ticker
func (c *Cache) Invalidate(ctx context.Context, ticker string) error {
	if c.hot != nil {
		if err := c.hot.DeleteByPattern(ctx, pkgredis.SeriesPattern(ticker)); err != nil {
			c.logger.WithError(err).WithField("ticker", ticker).Warn("Hot cache invalidate failed")
		}
	}

	removed, err := c.store.Delete(ctx, ticker)
	if err != nil {
		return err
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker":  ticker,
		"removed": removed,
	}).Info("Cache invalidated")
	return nil
}

// ClearAll drops every cached series
func (c *Cache) ClearAll(ctx context.Context) error {
	if c.hot != nil {
		if err := c.hot.DeleteByPattern(ctx, "series:*"); err != nil {
			c.logger.WithError(err).Warn("Hot cache clear failed")
		}
	}
	return c.store.Clear(ctx)
}

// PurgeExpired removes entries past their TTL from the durable store
func (c *Cache) PurgeExpired(ctx context.Context) (int, error) {
	return c.store.PurgeExpired(ctx, time.Now())
}

// Stats reports cache effectiveness and durable store contents
func (c *Cache) Stats(ctx context.Context) (*CacheStats, error) {
	storeStats, err := c.store.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &CacheStats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Refreshes: c.refreshes.Load(),
		Store:     *storeStats,
	}, nil
}
