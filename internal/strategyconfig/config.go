// Package strategyconfig loads the tunable strategy parameters from
// YAML with strict field checking and a deterministic content hash, so
// every stored signal can be traced back to the exact thresholds that
// produced it.
package strategyconfig

import (
	"time"

	"github.com/jlim/tickerpulse/internal/setups"
)

// Config is the full strategy tuning file.
type Config struct {
	Meta      Meta              `yaml:"meta" json:"meta"`
	Detectors setups.Thresholds `yaml:"detectors" json:"detectors"`
	Screening Screening         `yaml:"screening" json:"screening"`
	Cache     CacheTuning       `yaml:"cache" json:"cache"`
	Sectors   []SectorDef       `yaml:"sectors" json:"sectors"`
}

// Meta identifies the strategy revision.
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
	Timezone   string `yaml:"timezone" json:"timezone"`
}

// Screening gates the screener output.
type Screening struct {
	MinScore      int  `yaml:"min_score" json:"min_score"`
	MinConfidence int  `yaml:"min_confidence" json:"min_confidence"`
	RequireSetup  bool `yaml:"require_setup" json:"require_setup"`
}

// CacheTuning overrides the price cache defaults.
type CacheTuning struct {
	TTL          time.Duration `yaml:"ttl" json:"ttl"`
	LookbackDays int           `yaml:"lookback_days" json:"lookback_days"`
}

// SectorDef maps one sector name to its constituents. Order matters:
// when a ticker appears in two sectors the first definition wins.
type SectorDef struct {
	Name    string   `yaml:"name" json:"name"`
	Tickers []string `yaml:"tickers" json:"tickers"`
}

// Default returns the built-in strategy used when no YAML file is
// configured.
func Default() *Config {
	return &Config{
		Meta: Meta{
			StrategyID: "tickerpulse-default",
			Version:    "1",
			Timezone:   "America/New_York",
		},
		Detectors: setups.DefaultThresholds(),
		Screening: Screening{MinScore: 0, MinConfidence: 1},
		Cache: CacheTuning{
			TTL:          24 * time.Hour,
			LookbackDays: 365,
		},
		Sectors: DefaultSectors,
	}
}

// DefaultSectors is a compact built-in universe grouped the way the
// rotation view expects. Ordered: first match wins on reverse lookup.
var DefaultSectors = []SectorDef{
	{Name: "technology", Tickers: []string{"AAPL", "MSFT", "NVDA", "AMD", "AVGO", "CRM", "ORCL", "ADBE"}},
	{Name: "communication", Tickers: []string{"GOOGL", "META", "NFLX", "DIS", "TMUS"}},
	{Name: "consumer_discretionary", Tickers: []string{"AMZN", "TSLA", "HD", "MCD", "NKE"}},
	{Name: "financials", Tickers: []string{"JPM", "BAC", "GS", "MS", "V", "MA"}},
	{Name: "healthcare", Tickers: []string{"UNH", "JNJ", "LLY", "PFE", "ABBV"}},
	{Name: "energy", Tickers: []string{"XOM", "CVX", "COP", "SLB"}},
	{Name: "industrials", Tickers: []string{"CAT", "BA", "GE", "UPS", "DE"}},
	{Name: "consumer_staples", Tickers: []string{"PG", "KO", "PEP", "COST", "WMT"}},
	{Name: "utilities", Tickers: []string{"NEE", "DUK", "SO"}},
	{Name: "real_estate", Tickers: []string{"PLD", "AMT", "O"}},
}
