package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jlim/tickerpulse/internal/strategyconfig"
	"github.com/jlim/tickerpulse/pkg/config"
)

func TestCacheTTLPrefersStrategyOverride(t *testing.T) {
	cfg := &config.Config{}
	cfg.Engine.CacheTTL = 24 * time.Hour

	strategy := strategyconfig.Default()
	strategy.Cache.TTL = 6 * time.Hour
	assert.Equal(t, 6*time.Hour, cacheTTL(cfg, strategy))

	strategy.Cache.TTL = 0
	assert.Equal(t, 24*time.Hour, cacheTTL(cfg, strategy))
}
