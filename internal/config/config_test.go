package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/covenantlabs/covenant/internal/config"
)

const baseConfig = `
shutdown_timeout = "30s"
version = "0.1.0"

[server]
host = "0.0.0.0"
port = 8080
read_timeout = "1m"
write_timeout = "15m"
shutdown_timeout = "30s"

[database]
host = "localhost"
port = 5432
name = "covenant"
user = "covenant"
password = "covenant"
ssl_mode = "disable"
max_open_conns = 25
max_idle_conns = 5
conn_max_lifetime = "15m"
conn_timeout = "5s"

[storage]
container_name = "documents"
connection_string = "DefaultEndpointsProtocol=http;AccountName=covenantstore;AccountKey=key;BlobEndpoint=http://127.0.0.1:10000/covenantstore;"

[upstream]
base_url = "http://localhost:11434"
model = "covenant-analyst"
request_timeout = "2m"
requests_per_second = 2.0
burst = 4

[pipeline]
analysis_attempts = 5
extraction_attempts = 3
batch_workers = 4

[api]
base_path = "/api"

[api.cors]
enabled = false

[api.pagination]
default_page_size = 25
max_page_size = 50
`

const overlayConfig = `
[server]
port = 9090

[database]
host = "prodhost"

[upstream]
model = "covenant-analyst-staging"
`

const minimalConfig = `
shutdown_timeout = "30s"

[database]
name = "covenant"
user = "covenant"

[storage]
connection_string = "conn"
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("db host: got %s, want localhost", cfg.Database.Host)
	}
	if cfg.Storage.ContainerName != "documents" {
		t.Errorf("storage container: got %s, want documents", cfg.Storage.ContainerName)
	}
	if !strings.Contains(cfg.Storage.ConnectionString, "covenantstore") {
		t.Errorf("storage connection string not read from file: %q", cfg.Storage.ConnectionString)
	}
	if cfg.Upstream.Model != "covenant-analyst" {
		t.Errorf("upstream model: got %s, want covenant-analyst", cfg.Upstream.Model)
	}
	if cfg.Pipeline.AnalysisAttempts != 5 {
		t.Errorf("analysis attempts: got %d, want 5", cfg.Pipeline.AnalysisAttempts)
	}
	if cfg.API.Pagination.DefaultPageSize != 25 {
		t.Errorf("pagination default_page_size: got %d, want 25", cfg.API.Pagination.DefaultPageSize)
	}
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)
	chdir(t, dir)

	t.Setenv("COVENANT_ENV", "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want 9090 (from overlay)", cfg.Server.Port)
	}
	if cfg.Database.Host != "prodhost" {
		t.Errorf("db host: got %s, want prodhost (from overlay)", cfg.Database.Host)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("db port: got %d, want 5432 (from base)", cfg.Database.Port)
	}
	if cfg.Upstream.Model != "covenant-analyst-staging" {
		t.Errorf("upstream model: got %s, want staging overlay value", cfg.Upstream.Model)
	}
}

func TestLoadEnvVarOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("COVENANT_VERSION", "2.0.0")
	t.Setenv("COVENANT_SERVER_PORT", "3000")
	t.Setenv("COVENANT_UPSTREAM_MODEL", "covenant-analyst-pro")
	t.Setenv("COVENANT_PIPELINE_ANALYSIS_ATTEMPTS", "7")
	t.Setenv("COVENANT_PIPELINE_EXCLUSIVE_PROCESSING", "true")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Version != "2.0.0" {
		t.Errorf("version: got %s, want 2.0.0", cfg.Version)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("server port: got %d, want 3000", cfg.Server.Port)
	}
	if cfg.Upstream.Model != "covenant-analyst-pro" {
		t.Errorf("upstream model: got %s, want covenant-analyst-pro", cfg.Upstream.Model)
	}
	if cfg.Pipeline.AnalysisAttempts != 7 {
		t.Errorf("analysis attempts: got %d, want 7", cfg.Pipeline.AnalysisAttempts)
	}
	if !cfg.Pipeline.ExclusiveProcessing {
		t.Error("exclusive processing should be enabled from env")
	}
}

func TestLoadNoConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	t.Setenv("COVENANT_DB_NAME", "testdb")
	t.Setenv("COVENANT_DB_USER", "testuser")
	t.Setenv("COVENANT_STORAGE_CONNECTION_STRING", "conn")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load without config.toml failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port default: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "testdb" {
		t.Errorf("db name from env: got %s, want testdb", cfg.Database.Name)
	}
	if cfg.Pipeline.AnalysisAttempts != 5 {
		t.Errorf("analysis attempts default: got %d, want 5", cfg.Pipeline.AnalysisAttempts)
	}
	if cfg.Pipeline.ExtractionAttempts != 3 {
		t.Errorf("extraction attempts default: got %d, want 3", cfg.Pipeline.ExtractionAttempts)
	}
	if cfg.Pipeline.ExtractionPrefixChars != 10000 {
		t.Errorf("extraction prefix default: got %d, want 10000", cfg.Pipeline.ExtractionPrefixChars)
	}
	if cfg.Upstream.RequestsPerSecond != 2 {
		t.Errorf("requests per second default: got %f, want 2", cfg.Upstream.RequestsPerSecond)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", `invalid = `)
	chdir(t, dir)

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestEnvDefault(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Env() != "local" {
		t.Errorf("env: got %s, want local", cfg.Env())
	}
}

func TestShutdownTimeoutDuration(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if d := cfg.ShutdownTimeoutDuration(); d != 30*time.Second {
		t.Errorf("shutdown timeout: got %v, want 30s", d)
	}
}

func TestPaginationDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", minimalConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.API.Pagination.DefaultPageSize != 20 {
		t.Errorf("pagination default_page_size: got %d, want 20", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.API.Pagination.MaxPageSize != 100 {
		t.Errorf("pagination max_page_size: got %d, want 100", cfg.API.Pagination.MaxPageSize)
	}
}

func TestMaxUploadSizeBytes(t *testing.T) {
	tests := []struct {
		name string
		size string
		want int64
	}{
		{"valid 50MB", "50MB", 50 * 1024 * 1024},
		{"valid 1GB", "1GB", 1024 * 1024 * 1024},
		{"invalid falls back to 50MB", "bad", 50 * 1024 * 1024},
		{"empty falls back to 50MB", "", 50 * 1024 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.APIConfig{MaxUploadSize: tt.size}
			if got := cfg.MaxUploadSizeBytes(); got != tt.want {
				t.Errorf("MaxUploadSizeBytes() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantErr string
	}{
		{
			name: "invalid port",
			config: `
shutdown_timeout = "30s"

[server]
port = 99999

[database]
name = "covenant"
user = "covenant"

[storage]
connection_string = "conn"
`,
			wantErr: "invalid port",
		},
		{
			name: "invalid upstream timeout",
			config: `
shutdown_timeout = "30s"

[database]
name = "covenant"
user = "covenant"

[storage]
connection_string = "conn"

[upstream]
request_timeout = "bad"
`,
			wantErr: "invalid request_timeout",
		},
		{
			name: "invalid pipeline attempts",
			config: `
shutdown_timeout = "30s"

[database]
name = "covenant"
user = "covenant"

[storage]
connection_string = "conn"

[pipeline]
analysis_attempts = -1
`,
			wantErr: "invalid analysis_attempts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, "config.toml", tt.config)
			chdir(t, dir)

			_, err := config.Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}
