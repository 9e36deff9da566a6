// Package config defines service configuration and how it is loaded.
package config

import (
	"fmt"
	"runtime"
	"time"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendJSON     = "json"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`
	// LogFile, when set, also writes logs to a rotated file.
	LogFile string `koanf:"log_file"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`
	// ShutdownTimeoutSec bounds graceful shutdown.
	ShutdownTimeoutSec int `koanf:"shutdown_timeout_sec"`

	// Backend selects the repository: memory, json, postgres or redis.
	Backend       string `koanf:"backend"`
	JSONPath      string `koanf:"json_path"`
	DatabaseURL   string `koanf:"database_url"`
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// ScoringMode is legacy or strict one-way counting.
	ScoringMode string `koanf:"scoring_mode"`
	// SkillAliases adds canonical -> aliases entries to the built-in table.
	SkillAliases map[string][]string `koanf:"skill_aliases"`
	// BuildConcurrency bounds parallel candidate scoring per build.
	BuildConcurrency int `koanf:"build_concurrency"`

	// WorkerCount sets the number of regeneration workers.
	WorkerCount int `koanf:"worker_count"`
	// QueueSize bounds the regeneration queue.
	QueueSize int `koanf:"queue_size"`
	// DedupeSize bounds the pending-regeneration set.
	DedupeSize int `koanf:"dedupe_size"`

	// RegenerateRatePerSec and RegenerateBurst limit POST /matches/{user_id}/generate.
	RegenerateRatePerSec float64 `koanf:"regenerate_rate_per_sec"`
	RegenerateBurst      int     `koanf:"regenerate_burst"`

	// MaxMatchesLimit caps GET /matches/{user_id}?limit.
	MaxMatchesLimit int `koanf:"max_matches_limit"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":9080",
		ShutdownTimeoutSec:   10,
		Backend:              BackendMemory,
		JSONPath:             "data/local_db.json",
		RedisAddr:            "localhost:6379",
		ScoringMode:          "legacy",
		BuildConcurrency:     runtime.NumCPU(),
		WorkerCount:          4,
		QueueSize:            1024,
		DedupeSize:           10_000,
		RegenerateRatePerSec: 5,
		RegenerateBurst:      10,
		MaxMatchesLimit:      100,
	}
}

// ShutdownTimeout returns ShutdownTimeoutSec as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSec) * time.Second
}

// Validate checks cross-field constraints. Errors wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.Backend {
	case BackendMemory:
	case BackendJSON:
		if c.JSONPath == "" {
			return fmt.Errorf("%w: json_path is required for the json backend", ErrInvalidConfig)
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: database_url is required for the postgres backend", ErrInvalidConfig)
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("%w: redis_addr is required for the redis backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, c.Backend)
	}
	switch c.ScoringMode {
	case "", "legacy", "strict":
	default:
		return fmt.Errorf("%w: unknown scoring_mode %q", ErrInvalidConfig, c.ScoringMode)
	}
	if c.QueueSize < 1 || c.WorkerCount < 1 {
		return fmt.Errorf("%w: queue_size and worker_count must be positive", ErrInvalidConfig)
	}
	if c.RegenerateRatePerSec < 0 || c.RegenerateBurst < 0 {
		return fmt.Errorf("%w: regenerate rate and burst must not be negative", ErrInvalidConfig)
	}
	return nil
}
