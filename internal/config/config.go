package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/covenantlabs/covenant/internal/pipeline"
	"github.com/covenantlabs/covenant/internal/upstream"
	"github.com/covenantlabs/covenant/pkg/database"
	"github.com/covenantlabs/covenant/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvCovenantEnv             = "COVENANT_ENV"
	EnvCovenantShutdownTimeout = "COVENANT_SHUTDOWN_TIMEOUT"
	EnvCovenantVersion         = "COVENANT_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "COVENANT_DB_HOST",
	Port:            "COVENANT_DB_PORT",
	Name:            "COVENANT_DB_NAME",
	User:            "COVENANT_DB_USER",
	Password:        "COVENANT_DB_PASSWORD",
	SSLMode:         "COVENANT_DB_SSL_MODE",
	MaxOpenConns:    "COVENANT_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "COVENANT_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "COVENANT_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "COVENANT_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "COVENANT_STORAGE_CONTAINER_NAME",
	ConnectionString: "COVENANT_STORAGE_CONNECTION_STRING",
	MaxListSize:      "COVENANT_STORAGE_MAX_LIST_SIZE",
}

var upstreamEnv = &upstream.Env{
	BaseURL:           "COVENANT_UPSTREAM_BASE_URL",
	Token:             "COVENANT_UPSTREAM_TOKEN",
	Model:             "COVENANT_UPSTREAM_MODEL",
	RequestTimeout:    "COVENANT_UPSTREAM_REQUEST_TIMEOUT",
	RequestsPerSecond: "COVENANT_UPSTREAM_REQUESTS_PER_SECOND",
	Burst:             "COVENANT_UPSTREAM_BURST",
}

var pipelineEnv = &pipeline.Env{
	AnalysisAttempts:      "COVENANT_PIPELINE_ANALYSIS_ATTEMPTS",
	ExtractionAttempts:    "COVENANT_PIPELINE_EXTRACTION_ATTEMPTS",
	ExtractionPrefixChars: "COVENANT_PIPELINE_EXTRACTION_PREFIX_CHARS",
	BatchWorkers:          "COVENANT_PIPELINE_BATCH_WORKERS",
	ExclusiveProcessing:   "COVENANT_PIPELINE_EXCLUSIVE_PROCESSING",
	CacheResults:          "COVENANT_PIPELINE_CACHE_RESULTS",
}

// Config is the root configuration for the Covenant service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	Upstream        upstream.Config `toml:"upstream"`
	Pipeline        pipeline.Config `toml:"pipeline"`
	API             APIConfig       `toml:"api"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the COVENANT_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvCovenantEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Upstream.Merge(&overlay.Upstream)
	c.Pipeline.Merge(&overlay.Pipeline)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Upstream.Finalize(upstreamEnv); err != nil {
		return fmt.Errorf("upstream: %w", err)
	}
	if err := c.Pipeline.Finalize(pipelineEnv); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}
func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvCovenantShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvCovenantVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvCovenantEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
