// Package config loads and validates application configuration from a YAML
// file and environment variables. Provider credentials and endpoints live
// here: loaded once at startup, read-only afterwards.
package config

import "time"

// Config is the root application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	OpenF1   OpenF1Config   `yaml:"openf1"`
	Jolpica  JolpicaConfig  `yaml:"jolpica"`
	Seed     SeedConfig     `yaml:"seed"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// OpenF1Config holds settings for the primary telemetry/results source.
type OpenF1Config struct {
	BaseURL string        `yaml:"base_url" env:"OPENF1_BASE_URL" env-default:"https://api.openf1.org/v1"`
	Timeout time.Duration `yaml:"timeout"  env:"OPENF1_TIMEOUT"  env-default:"20s"`
}

// JolpicaConfig holds settings for the secondary Ergast-style reference
// source, used only for corrections.
type JolpicaConfig struct {
	BaseURL string        `yaml:"base_url" env:"JOLPICA_BASE_URL" env-default:"https://api.jolpi.ca/ergast/f1"`
	Timeout time.Duration `yaml:"timeout"  env:"JOLPICA_TIMEOUT"  env-default:"20s"`
}

// SeedConfig holds the ingestion retry policy.
type SeedConfig struct {
	// SessionRetries bounds how many times a transiently failing session
	// fetch is retried before being downgraded to a logged failure.
	SessionRetries int           `yaml:"session_retries" env:"SEED_SESSION_RETRIES" env-default:"3"`
	InitialBackoff time.Duration `yaml:"initial_backoff" env:"SEED_INITIAL_BACKOFF" env-default:"1s"`
	MaxBackoff     time.Duration `yaml:"max_backoff"     env:"SEED_MAX_BACKOFF"     env-default:"30s"`
	IncludeLaps    bool          `yaml:"include_laps"    env:"SEED_INCLUDE_LAPS"    env-default:"true"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
