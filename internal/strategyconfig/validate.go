package strategyconfig

import (
	"fmt"
	"time"
)

// ValidationError names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate rejects configs that would make the detectors or screener
// misbehave. A failed validation is fatal at load time.
func Validate(cfg *Config) error {
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}
	if _, err := time.LoadLocation(cfg.Meta.Timezone); err != nil {
		return ValidationError{"meta.timezone", "unknown timezone"}
	}

	d := cfg.Detectors
	if d.OversoldRSI <= 0 || d.OversoldRSI >= 50 {
		return ValidationError{"detectors.oversold_rsi", "must be in (0, 50)"}
	}
	if d.MomentumRSIMin >= d.MomentumRSIMax {
		return ValidationError{"detectors.momentum_rsi_min", "must be below momentum_rsi_max"}
	}
	if d.BreakoutVolumeMin < 1 {
		return ValidationError{"detectors.breakout_volume_min", "must be >= 1"}
	}
	if d.BreakoutMaxAbove <= 0 || d.BreakoutMaxAbove > 0.1 {
		return ValidationError{"detectors.breakout_max_above", "must be in (0, 0.1]"}
	}

	if cfg.Screening.MinScore < 0 || cfg.Screening.MinScore > 100 {
		return ValidationError{"screening.min_score", "must be in [0, 100]"}
	}
	if cfg.Screening.MinConfidence < 1 || cfg.Screening.MinConfidence > 10 {
		return ValidationError{"screening.min_confidence", "must be in [1, 10]"}
	}

	if cfg.Cache.TTL < time.Minute {
		return ValidationError{"cache.ttl", "must be at least 1m"}
	}
	if cfg.Cache.LookbackDays < 30 {
		return ValidationError{"cache.lookback_days", "must be at least 30"}
	}

	seen := make(map[string]bool)
	for i, s := range cfg.Sectors {
		if s.Name == "" {
			return ValidationError{fmt.Sprintf("sectors[%d].name", i), "required"}
		}
		if seen[s.Name] {
			return ValidationError{fmt.Sprintf("sectors[%d].name", i), "duplicate sector"}
		}
		seen[s.Name] = true
		if len(s.Tickers) == 0 {
			return ValidationError{fmt.Sprintf("sectors[%d].tickers", i), "must not be empty"}
		}
	}

	return nil
}
