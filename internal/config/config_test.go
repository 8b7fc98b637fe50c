package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Database: DatabaseConfig{
			DSN:      "postgres://localhost:5432/f1",
			MaxConns: 10,
			MinConns: 2,
		},
		OpenF1:  OpenF1Config{BaseURL: "https://api.openf1.org/v1", Timeout: 20 * time.Second},
		Jolpica: JolpicaConfig{BaseURL: "https://api.jolpi.ca/ergast/f1", Timeout: 20 * time.Second},
		Seed: SeedConfig{
			SessionRetries: 3,
			InitialBackoff: time.Second,
			MaxBackoff:     30 * time.Second,
		},
	}
}

func TestConfig_Validate_OK(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestConfig_Validate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantSub string
	}{
		{
			name:    "missing openf1 base url",
			mutate:  func(c *Config) { c.OpenF1.BaseURL = "" },
			wantSub: "openf1.base_url",
		},
		{
			name:    "relative jolpica base url",
			mutate:  func(c *Config) { c.Jolpica.BaseURL = "ergast/f1" },
			wantSub: "jolpica.base_url",
		},
		{
			name:    "negative retries",
			mutate:  func(c *Config) { c.Seed.SessionRetries = -1 },
			wantSub: "session_retries",
		},
		{
			name:    "zero initial backoff",
			mutate:  func(c *Config) { c.Seed.InitialBackoff = 0 },
			wantSub: "initial_backoff",
		},
		{
			name:    "max backoff below initial",
			mutate:  func(c *Config) { c.Seed.MaxBackoff = time.Millisecond },
			wantSub: "max_backoff",
		},
		{
			name:    "min conns above max conns",
			mutate:  func(c *Config) { c.Database.MinConns = 50 },
			wantSub: "min_conns",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("Validate() error = %q, want substring %q", err, tt.wantSub)
			}
		})
	}
}
