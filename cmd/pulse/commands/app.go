package commands

import (
	"fmt"
	"time"

	"github.com/jlim/tickerpulse/internal/engine"
	"github.com/jlim/tickerpulse/internal/marketdata"
	"github.com/jlim/tickerpulse/internal/signalstore"
	"github.com/jlim/tickerpulse/internal/strategyconfig"
	"github.com/jlim/tickerpulse/pkg/config"
	"github.com/jlim/tickerpulse/pkg/database"
	"github.com/jlim/tickerpulse/pkg/httputil"
	"github.com/jlim/tickerpulse/pkg/logger"
	pkgredis "github.com/jlim/tickerpulse/pkg/redis"
)

// app holds the wired runtime shared by every command.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	db       *database.DB
	redis    *pkgredis.Client
	cache    *marketdata.Cache
	store    signalstore.Store
	strategy *strategyconfig.Config
	engine   *engine.Engine
}

// newApp wires the full runtime. Without DATABASE_URL the cache and
// the signal ledger fall back to in-memory stores, which is enough for
// one-shot commands.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)
	if verbose {
		log = log.WithField("verbose", true)
	}

	redisClient, err := pkgredis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	var (
		db          *database.DB
		priceStore  marketdata.Store
		signalStore signalstore.Store
	)
	if cfg.Database.URL != "" {
		db, err = database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		priceStore = marketdata.NewPostgresStore(db.Pool)
		signalStore = signalstore.NewPostgresStore(db.Pool)
		log.Info("Connected to database")
	} else {
		priceStore = marketdata.NewMemoryStore()
		signalStore = signalstore.NewMemoryStore()
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	httpClient := httputil.New(log, cfg.Provider.Timeout).
		WithRetry(cfg.Provider.MaxRetries, time.Second)
	if cfg.Redis.Enabled {
		// Distributed cap across processes; the provider's local token
		// bucket still smooths bursts within this one.
		limiter := pkgredis.NewRateLimiter(redisClient, "provider")
		httpClient = httpClient.WithRateLimiter(limiter, pkgredis.RateLimitConfig{
			Key:    "daily_bars",
			Limit:  int(cfg.Provider.RatePerSecond * 60),
			Window: time.Minute,
		})
	}
	provider := marketdata.NewHTTPProvider(cfg, httpClient, log)

	strategy, err := loadStrategy(cfg, log)
	if err != nil {
		return nil, err
	}

	hot := pkgredis.NewCache(redisClient, "prices")
	cache := marketdata.NewCache(provider, priceStore, hot, cacheTTL(cfg, strategy), log)

	eng := engine.New(cache, signalStore, strategy, cfg.Engine, log)

	return &app{
		cfg:      cfg,
		log:      log,
		db:       db,
		redis:    redisClient,
		cache:    cache,
		store:    signalStore,
		strategy: strategy,
		engine:   eng,
	}, nil
}

// cacheTTL prefers the strategy file's cache tuning over the env
// default.
func cacheTTL(cfg *config.Config, strategy *strategyconfig.Config) time.Duration {
	if strategy.Cache.TTL > 0 {
		return strategy.Cache.TTL
	}
	return cfg.Engine.CacheTTL
}

func loadStrategy(cfg *config.Config, log *logger.Logger) (*strategyconfig.Config, error) {
	if cfg.Engine.StrategyFile == "" {
		return strategyconfig.Default(), nil
	}

	strategy, raw, err := strategyconfig.Load(cfg.Engine.StrategyFile)
	if err != nil {
		return nil, fmt.Errorf("load strategy %s: %w", cfg.Engine.StrategyFile, err)
	}

	hash, err := strategyconfig.Hash(strategy)
	if err != nil {
		return nil, fmt.Errorf("hash strategy: %w", err)
	}
	log.WithFields(map[string]interface{}{
		"file":  cfg.Engine.StrategyFile,
		"bytes": len(raw),
		"hash":  hash[:12],
	}).Info("Loaded strategy config")

	return strategy, nil
}

func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.redis != nil {
		a.redis.Close()
	}
}
