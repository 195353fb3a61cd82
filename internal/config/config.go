// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New returns a Config populated with defaults.
// - Load layers a YAML file and the environment over those defaults.
// - Validate is the only place that rejects values.
package config

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// Store backends accepted by StoreBackend.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataDir holds the per-source record files and the app config document.
	DataDir      string `koanf:"data_dir"`
	LiveFile     string `koanf:"live_file"`
	PrescoutFile string `koanf:"prescout_file"`
	// AppConfigFile is the JSON document backing GET/PUT /config.
	AppConfigFile string `koanf:"app_config_file"`

	// StoreBackend is one of json, sqlite, memory.
	StoreBackend string `koanf:"store_backend"`
	SQLitePath   string `koanf:"sqlite_path"`

	// TBA client.
	TBABaseURL    string  `koanf:"tba_base_url"`
	TBATimeoutMS  int     `koanf:"tba_timeout_ms"`
	TBARatePerSec float64 `koanf:"tba_rate_per_sec"`
	TBABurst      int     `koanf:"tba_burst"`

	// IngestQueueSize bounds the in-memory submission queue.
	IngestQueueSize int `koanf:"ingest_queue_size"`
	// IngestWorkers sets the number of workers draining the queue.
	IngestWorkers int `koanf:"ingest_workers"`
	// DedupeSize sets the size of the fingerprint cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxRankingLimit caps GET /rankings?limit.
	MaxRankingLimit int `koanf:"max_ranking_limit"`

	MCPEnabled bool `koanf:"mcp_enabled"`

	// DefaultMode and DefaultZeroHandling apply when a request omits them.
	DefaultMode         string `koanf:"default_mode"`
	DefaultZeroHandling string `koanf:"default_zero_handling"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		DataDir:             "data",
		LiveFile:            "scouting-data.json",
		PrescoutFile:        "scouting-data-pre.json",
		AppConfigFile:       "config.json",
		StoreBackend:        BackendJSON,
		SQLitePath:          filepath.Join("data", "reefscout.db"),
		TBABaseURL:          "https://www.thebluealliance.com/api/v3",
		TBATimeoutMS:        10_000,
		TBARatePerSec:       5,
		TBABurst:            5,
		IngestQueueSize:     10_000,
		IngestWorkers:       runtime.NumCPU(),
		DedupeSize:          50_000,
		MaxRankingLimit:     200,
		MCPEnabled:          true,
		DefaultMode:         "average",
		DefaultZeroHandling: "include",
	}
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.StoreBackend {
	case BackendJSON, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("%w: unknown store_backend %q", ErrInvalidConfig, c.StoreBackend)
	}
	if c.IngestQueueSize <= 0 {
		return fmt.Errorf("%w: ingest_queue_size must be positive", ErrInvalidConfig)
	}
	if c.IngestWorkers <= 0 {
		return fmt.Errorf("%w: ingest_workers must be positive", ErrInvalidConfig)
	}
	if c.DedupeSize <= 0 {
		return fmt.Errorf("%w: dedupe_size must be positive", ErrInvalidConfig)
	}
	if c.MaxRankingLimit <= 0 {
		return fmt.Errorf("%w: max_ranking_limit must be positive", ErrInvalidConfig)
	}
	if c.TBARatePerSec <= 0 || c.TBABurst <= 0 {
		return fmt.Errorf("%w: tba rate and burst must be positive", ErrInvalidConfig)
	}
	return nil
}

// LivePath is the JSON file for live match records.
func (c *Config) LivePath() string { return filepath.Join(c.DataDir, c.LiveFile) }

// PrescoutPath is the JSON file for prescouting records.
func (c *Config) PrescoutPath() string { return filepath.Join(c.DataDir, c.PrescoutFile) }

// AppConfigPath is the settings document path.
func (c *Config) AppConfigPath() string { return filepath.Join(c.DataDir, c.AppConfigFile) }
