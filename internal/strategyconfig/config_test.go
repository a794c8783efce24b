package strategyconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
meta:
  strategy_id: test-strategy
  version: "2"
detectors:
  oversold_rsi: 32
  breakout_volume_min: 1.5
screening:
  min_score: 60
  min_confidence: 3
sectors:
  - name: technology
    tickers: [AAPL, MSFT]
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "strategy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("valid file with defaults filled", func(t *testing.T) {
		cfg, raw, err := Load(writeTemp(t, validYAML))
		require.NoError(t, err)
		assert.NotEmpty(t, raw)

		assert.Equal(t, "test-strategy", cfg.Meta.StrategyID)
		assert.Equal(t, 32.0, cfg.Detectors.OversoldRSI)
		assert.Equal(t, 1.5, cfg.Detectors.BreakoutVolumeMin)
		// untouched thresholds fall back to defaults
		assert.Equal(t, 25.0, cfg.Detectors.MomentumADXMin)
		assert.Equal(t, "America/New_York", cfg.Meta.Timezone)
		assert.Equal(t, 365, cfg.Cache.LookbackDays)
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		_, _, err := Load(writeTemp(t, validYAML+"\nbogus_field: 1\n"))
		assert.Error(t, err)
	})

	t.Run("missing strategy id", func(t *testing.T) {
		_, _, err := Load(writeTemp(t, "meta:\n  version: \"1\"\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "strategy_id")
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := Load("/nonexistent/strategy.yaml")
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	t.Run("default config is valid", func(t *testing.T) {
		assert.NoError(t, Validate(Default()))
	})

	t.Run("inverted momentum band", func(t *testing.T) {
		cfg := Default()
		cfg.Detectors.MomentumRSIMin = 80
		err := Validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "momentum_rsi_min")
	})

	t.Run("duplicate sector", func(t *testing.T) {
		cfg := Default()
		cfg.Sectors = append(cfg.Sectors, SectorDef{Name: "technology", Tickers: []string{"IBM"}})
		assert.Error(t, Validate(cfg))
	})

	t.Run("empty sector tickers", func(t *testing.T) {
		cfg := Default()
		cfg.Sectors = append(cfg.Sectors, SectorDef{Name: "empty"})
		assert.Error(t, Validate(cfg))
	})
}

func TestHash(t *testing.T) {
	a, err := Hash(Default())
	require.NoError(t, err)
	b, err := Hash(Default())
	require.NoError(t, err)
	assert.Equal(t, a, b, "hash must be deterministic")
	assert.Len(t, a, 64)

	changed := Default()
	changed.Detectors.OversoldRSI = 40
	c, err := Hash(changed)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}
