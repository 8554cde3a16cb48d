package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadWithFileOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `
site:
  base_url: /blog
  site_url: https://example.org/blog
runner:
  articles_per_run: 3
  cooldown_seconds: 10
quality:
  threshold: 7
  max_attempts: 2
llm:
  api_key: secret
  draft_model: command-a-03-2025
search:
  endpoint: https://search.example.org/v1
  marketplace_domain: amazon.de
store:
  backend: postgres
  postgres:
    dsn: postgres://localhost/blog
sink:
  backend: gcs
  gcs_bucket: site-bucket
server:
  port: 9090
  auth:
    enabled: true
    api_key: hunter2
logging:
  development: false
`
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Site.BaseURL != "/blog" {
		t.Fatalf("expected base_url /blog, got %q", cfg.Site.BaseURL)
	}
	if cfg.Runner.ArticlesPerRun != 3 || cfg.Runner.CooldownSeconds != 10 {
		t.Fatalf("expected runner overrides to apply: %+v", cfg.Runner)
	}
	if cfg.Quality.Threshold != 7 || cfg.Quality.MaxAttempts != 2 {
		t.Fatalf("expected quality overrides to apply: %+v", cfg.Quality)
	}
	if cfg.Store.Backend != "postgres" || cfg.Store.Postgres.DSN == "" {
		t.Fatalf("expected postgres store config: %+v", cfg.Store)
	}
	if cfg.Sink.Backend != "gcs" || cfg.Sink.GCSBucket != "site-bucket" {
		t.Fatalf("expected gcs sink config: %+v", cfg.Sink)
	}
	if !cfg.Server.Auth.Enabled || cfg.Server.Auth.APIKey != "hunter2" {
		t.Fatalf("expected auth enabled with key")
	}
	if got := cfg.Cooldown(); got != 10*time.Second {
		t.Fatalf("expected cooldown 10s, got %v", got)
	}
	// Defaults still present for untouched sections.
	if cfg.Probe.TimeoutSeconds != 5 {
		t.Fatalf("expected default probe timeout, got %d", cfg.Probe.TimeoutSeconds)
	}
	if cfg.Search.Endpoint != "https://search.example.org/v1" {
		t.Fatalf("expected search endpoint override")
	}
}

func TestLoadDefaultsOnly(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Runner.ArticlesPerRun != 2 {
		t.Fatalf("expected default articles_per_run 2, got %d", cfg.Runner.ArticlesPerRun)
	}
	if cfg.Quality.Threshold != 6 || cfg.Quality.MaxAttempts != 3 {
		t.Fatalf("unexpected quality defaults: %+v", cfg.Quality)
	}
	if cfg.Store.Backend != "file" || cfg.Sink.Backend != "local" {
		t.Fatalf("unexpected backend defaults: %+v %+v", cfg.Store, cfg.Sink)
	}
	if cfg.Search.Endpoint != "" {
		t.Fatalf("search should be disabled by default")
	}
}

func TestConfigValidateErrors(t *testing.T) {
	t.Parallel()

	base := Config{
		Runner:  RunnerConfig{ArticlesPerRun: 2},
		Quality: QualityConfig{Threshold: 6, MaxAttempts: 3},
		Store:   StoreConfig{Backend: "file"},
		Sink:    SinkConfig{Backend: "local"},
		Server:  ServerConfig{Port: 8080},
		Probe:   ProbeConfig{TimeoutSeconds: 5},
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{
			name:   "zero articles per run",
			mutate: func(c *Config) { c.Runner.ArticlesPerRun = 0 },
			want:   "articles_per_run",
		},
		{
			name:   "threshold out of range",
			mutate: func(c *Config) { c.Quality.Threshold = 11 },
			want:   "threshold",
		},
		{
			name:   "unknown store backend",
			mutate: func(c *Config) { c.Store.Backend = "redis" },
			want:   "store.backend",
		},
		{
			name:   "postgres without dsn",
			mutate: func(c *Config) { c.Store.Backend = "postgres" },
			want:   "dsn",
		},
		{
			name:   "gcs without bucket",
			mutate: func(c *Config) { c.Sink.Backend = "gcs" },
			want:   "gcs_bucket",
		},
		{
			name:   "auth without key",
			mutate: func(c *Config) { c.Server.Auth.Enabled = true },
			want:   "api_key",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}
