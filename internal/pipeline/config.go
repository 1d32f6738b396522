package pipeline

import (
	"fmt"
	"os"
	"strconv"

	"github.com/covenantlabs/covenant/internal/upstream"
)

// Config holds pipeline tuning parameters.
type Config struct {
	AnalysisAttempts      int  `toml:"analysis_attempts"`
	ExtractionAttempts    int  `toml:"extraction_attempts"`
	ExtractionPrefixChars int  `toml:"extraction_prefix_chars"`
	BatchWorkers          int  `toml:"batch_workers"`
	ExclusiveProcessing   bool `toml:"exclusive_processing"`
	CacheResults          bool `toml:"cache_results"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	AnalysisAttempts      string
	ExtractionAttempts    string
	ExtractionPrefixChars string
	BatchWorkers          string
	ExclusiveProcessing   string
	CacheResults          string
}

// AnalysisPolicy returns the retry policy for full analysis runs: both rate
// limiting and service unavailability earn another attempt.
func (c *Config) AnalysisPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: c.AnalysisAttempts,
		Retryable:   upstream.Classification.Retryable,
		Delay:       Backoff,
	}
}

// ExtractionPolicy returns the retry policy for party extraction runs.
// Extraction is cheaper to re-request than analysis, so only rate limiting
// is retried; an unavailable service fails the run immediately.
func (c *Config) ExtractionPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: c.ExtractionAttempts,
		Retryable: func(class upstream.Classification) bool {
			return class == upstream.RateLimited
		},
		Delay: Backoff,
	}
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
	if overlay.AnalysisAttempts != 0 {
		c.AnalysisAttempts = overlay.AnalysisAttempts
	}
	if overlay.ExtractionAttempts != 0 {
		c.ExtractionAttempts = overlay.ExtractionAttempts
	}
	if overlay.ExtractionPrefixChars != 0 {
		c.ExtractionPrefixChars = overlay.ExtractionPrefixChars
	}
	if overlay.BatchWorkers != 0 {
		c.BatchWorkers = overlay.BatchWorkers
	}
	if overlay.ExclusiveProcessing {
		c.ExclusiveProcessing = true
	}
	if overlay.CacheResults {
		c.CacheResults = true
	}
}

func (c *Config) loadDefaults() {
	if c.AnalysisAttempts == 0 {
		c.AnalysisAttempts = 5
	}
	if c.ExtractionAttempts == 0 {
		c.ExtractionAttempts = 3
	}
	if c.ExtractionPrefixChars == 0 {
		c.ExtractionPrefixChars = 10000
	}
	if c.BatchWorkers == 0 {
		c.BatchWorkers = 4
	}
}

func (c *Config) loadEnv(env *Env) {
	if v := os.Getenv(env.AnalysisAttempts); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.AnalysisAttempts = n
		}
	}
	if v := os.Getenv(env.ExtractionAttempts); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.ExtractionAttempts = n
		}
	}
	if v := os.Getenv(env.ExtractionPrefixChars); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.ExtractionPrefixChars = n
		}
	}
	if v := os.Getenv(env.BatchWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.BatchWorkers = n
		}
	}
	if v := os.Getenv(env.ExclusiveProcessing); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.ExclusiveProcessing = b
		}
	}
	if v := os.Getenv(env.CacheResults); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.CacheResults = b
		}
	}
}

func (c *Config) validate() error {
	if c.AnalysisAttempts < 1 {
		return fmt.Errorf("invalid analysis_attempts: %d", c.AnalysisAttempts)
	}
	if c.ExtractionAttempts < 1 {
		return fmt.Errorf("invalid extraction_attempts: %d", c.ExtractionAttempts)
	}
	if c.ExtractionPrefixChars < 1 {
		return fmt.Errorf("invalid extraction_prefix_chars: %d", c.ExtractionPrefixChars)
	}
	if c.BatchWorkers < 1 {
		return fmt.Errorf("invalid batch_workers: %d", c.BatchWorkers)
	}
	return nil
}
