package strategyconfig

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a strategy YAML file. Unknown fields are an error so a
// typo never silently falls back to a default threshold.
func Load(path string) (*Config, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, nil, err
	}

	cfg.Detectors = cfg.Detectors.Normalize()
	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, data, err
	}

	return &cfg, data, nil
}

func applyDefaults(cfg *Config) {
	d := Default()
	if cfg.Meta.Timezone == "" {
		cfg.Meta.Timezone = d.Meta.Timezone
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = d.Cache.TTL
	}
	if cfg.Cache.LookbackDays == 0 {
		cfg.Cache.LookbackDays = d.Cache.LookbackDays
	}
	if cfg.Screening.MinConfidence == 0 {
		cfg.Screening.MinConfidence = d.Screening.MinConfidence
	}
	if len(cfg.Sectors) == 0 {
		cfg.Sectors = DefaultSectors
	}
}

// Hash returns the SHA-256 of the canonical JSON rendering of cfg.
// Structs, not maps, keep the field order and thus the hash stable.
func Hash(cfg *Config) (string, error) {
	jsonBytes, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}
