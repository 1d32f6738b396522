package upstream

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds generation service connection parameters.
type Config struct {
	BaseURL           string  `toml:"base_url"`
	Token             string  `toml:"token"`
	Model             string  `toml:"model"`
	RequestTimeout    string  `toml:"request_timeout"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	BaseURL           string
	Token             string
	Model             string
	RequestTimeout    string
	RequestsPerSecond string
	Burst             string
}

// RequestTimeoutDuration returns RequestTimeout as a time.Duration.
func (c *Config) RequestTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.RequestTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.RequestTimeout != "" {
		c.RequestTimeout = overlay.RequestTimeout
	}
	if overlay.RequestsPerSecond != 0 {
		c.RequestsPerSecond = overlay.RequestsPerSecond
	}
	if overlay.Burst != 0 {
		c.Burst = overlay.Burst
	}
}

func (c *Config) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:11434"
	}
	if c.Model == "" {
		c.Model = "covenant-analyst"
	}
	if c.RequestTimeout == "" {
		c.RequestTimeout = "2m"
	}
	if c.RequestsPerSecond == 0 {
		c.RequestsPerSecond = 2
	}
	if c.Burst == 0 {
		c.Burst = 4
	}
}

func (c *Config) loadEnv(env *Env) {
	if v := os.Getenv(env.BaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(env.Token); v != "" {
		c.Token = v
	}
	if v := os.Getenv(env.Model); v != "" {
		c.Model = v
	}
	if v := os.Getenv(env.RequestTimeout); v != "" {
		c.RequestTimeout = v
	}
	if v := os.Getenv(env.RequestsPerSecond); v != "" {
		if rps, err := strconv.ParseFloat(v, 64); err == nil {
			c.RequestsPerSecond = rps
		}
	}
	if v := os.Getenv(env.Burst); v != "" {
		if burst, err := strconv.Atoi(v); err == nil {
			c.Burst = burst
		}
	}
}

func (c *Config) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url required")
	}
	if c.Model == "" {
		return fmt.Errorf("model required")
	}
	if _, err := time.ParseDuration(c.RequestTimeout); err != nil {
		return fmt.Errorf("invalid request_timeout: %w", err)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("invalid requests_per_second: %f", c.RequestsPerSecond)
	}
	return nil
}
