package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Source string `yaml:"source" envconfig:"DATA_SOURCE"`
		Proxy  string `yaml:"proxy" envconfig:"PROXY"`
		// NoSyntheticFallback disables substituting generated data when the
		// vendor fails; fallback is on by default.
		NoSyntheticFallback bool `yaml:"no_synthetic_fallback" envconfig:"NO_SYNTHETIC_FALLBACK"`
	} `yaml:"data_source"`
	Cache struct {
		StockTTLMinutes   int `yaml:"stock_ttl_minutes" envconfig:"STOCK_TTL_MINUTES"`
		IndexTTLMinutes   int `yaml:"index_ttl_minutes" envconfig:"INDEX_TTL_MINUTES"`
		RateTTLMinutes    int `yaml:"rate_ttl_minutes" envconfig:"RATE_TTL_MINUTES"`
		MinCallIntervalMS int `yaml:"min_call_interval_ms" envconfig:"MIN_CALL_INTERVAL_MS"`
	} `yaml:"cache"`
	Scan struct {
		Watchlist   []string `yaml:"watchlist" envconfig:"WATCHLIST"`
		Strategy    string   `yaml:"strategy" envconfig:"STRATEGY"`
		MinStrength float64  `yaml:"min_strength" envconfig:"MIN_STRENGTH"`
	} `yaml:"scan"`
	Schedule struct {
		ScanCron     string `yaml:"scan_cron" envconfig:"SCAN_CRON"`
		SnapshotCron string `yaml:"snapshot_cron" envconfig:"SNAPSHOT_CRON"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path" envconfig:"SQLITE_PATH"`
	} `yaml:"database"`
}

// Load reads config from a YAML file, then applies HEDGELAB_* environment
// variable overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := envconfig.Process("hedgelab", cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	// Defaults
	if cfg.DataSource.Source == "" {
		cfg.DataSource.Source = "yahoo"
	}
	if cfg.Cache.StockTTLMinutes == 0 {
		cfg.Cache.StockTTLMinutes = 15
	}
	if cfg.Cache.IndexTTLMinutes == 0 {
		cfg.Cache.IndexTTLMinutes = 60
	}
	if cfg.Cache.RateTTLMinutes == 0 {
		cfg.Cache.RateTTLMinutes = 60
	}
	if cfg.Cache.MinCallIntervalMS == 0 {
		cfg.Cache.MinCallIntervalMS = 1000
	}
	if len(cfg.Scan.Watchlist) == 0 {
		cfg.Scan.Watchlist = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA", "JPM", "V", "JNJ"}
	}
	if cfg.Scan.Strategy == "" {
		cfg.Scan.Strategy = "technical"
	}
	if cfg.Scan.MinStrength == 0 {
		cfg.Scan.MinStrength = 0.5
	}
	if cfg.Schedule.ScanCron == "" {
		cfg.Schedule.ScanCron = "0 0 10 * * 1-5"
	}
	if cfg.Schedule.SnapshotCron == "" {
		cfg.Schedule.SnapshotCron = "0 30 22 * * 1-5"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/hedgelab.db"
	}

	return cfg, nil
}

// Validate checks that all fields are in range.
func (c *Config) Validate() error {
	if c.DataSource.Source != "yahoo" && c.DataSource.Source != "synthetic" {
		return fmt.Errorf("data_source.source must be yahoo or synthetic, got %q", c.DataSource.Source)
	}
	if c.Cache.StockTTLMinutes < 0 || c.Cache.IndexTTLMinutes < 0 || c.Cache.RateTTLMinutes < 0 {
		return fmt.Errorf("cache TTLs must not be negative")
	}
	if c.Cache.MinCallIntervalMS < 0 {
		return fmt.Errorf("cache.min_call_interval_ms must not be negative")
	}
	if c.Scan.MinStrength < 0 || c.Scan.MinStrength > 1 {
		return fmt.Errorf("scan.min_strength must be in [0,1], got %v", c.Scan.MinStrength)
	}
	if _, err := os.Stat(c.Database.SQLitePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("database.sqlite_path: %w", err)
	}
	return nil
}
