package config

import (
	"fmt"
	"net/url"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("database.max_conns must be >= 1 (got %d)", c.Database.MaxConns)
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) must not exceed max_conns (%d)", c.Database.MinConns, c.Database.MaxConns)
	}

	if err := validateBaseURL("openf1.base_url", c.OpenF1.BaseURL); err != nil {
		return err
	}
	if err := validateBaseURL("jolpica.base_url", c.Jolpica.BaseURL); err != nil {
		return err
	}

	if c.Seed.SessionRetries < 0 {
		return fmt.Errorf("seed.session_retries must be >= 0 (got %d)", c.Seed.SessionRetries)
	}
	if c.Seed.InitialBackoff <= 0 {
		return fmt.Errorf("seed.initial_backoff must be > 0 (got %v)", c.Seed.InitialBackoff)
	}
	if c.Seed.MaxBackoff < c.Seed.InitialBackoff {
		return fmt.Errorf("seed.max_backoff (%v) must not be below initial_backoff (%v)", c.Seed.MaxBackoff, c.Seed.InitialBackoff)
	}

	return nil
}

func validateBaseURL(field, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", field)
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL (got %q)", field, raw)
	}
	return nil
}
