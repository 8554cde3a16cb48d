// Package config loads and validates blogforge configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Site    SiteConfig    `mapstructure:"site"`
	Paths   PathsConfig   `mapstructure:"paths"`
	Runner  RunnerConfig  `mapstructure:"runner"`
	Quality QualityConfig `mapstructure:"quality"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Images  ImagesConfig  `mapstructure:"images"`
	Search  SearchConfig  `mapstructure:"search"`
	Probe   ProbeConfig   `mapstructure:"probe"`
	Store   StoreConfig   `mapstructure:"store"`
	Sink    SinkConfig    `mapstructure:"sink"`
	Publish PublishConfig `mapstructure:"publish"`
	Notify  NotifyConfig  `mapstructure:"notify"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SiteConfig identifies the published site.
type SiteConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	SiteURL  string `mapstructure:"site_url"`
	Title    string `mapstructure:"title"`
	Language string `mapstructure:"language"`
}

// PathsConfig sets the on-disk layout for data, output, and templates.
type PathsConfig struct {
	DataDir      string `mapstructure:"data_dir"`
	DocsDir      string `mapstructure:"docs_dir"`
	TemplatesDir string `mapstructure:"templates_dir"`
}

// RunnerConfig governs the top-level run loop.
type RunnerConfig struct {
	ArticlesPerRun  int `mapstructure:"articles_per_run"`
	CooldownSeconds int `mapstructure:"cooldown_seconds"`
}

// QualityConfig tunes the quality-gate feedback loop.
type QualityConfig struct {
	Threshold   int `mapstructure:"threshold"`
	MaxAttempts int `mapstructure:"max_attempts"`
}

// LLMConfig configures the text-generation adapter.
type LLMConfig struct {
	APIKey         string `mapstructure:"api_key"`
	ResearchModel  string `mapstructure:"research_model"`
	DraftModel     string `mapstructure:"draft_model"`
	QualityModel   string `mapstructure:"quality_model"`
	ClassifyModel  string `mapstructure:"classify_model"`
	MaxTokens      int    `mapstructure:"max_tokens"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// ImagesConfig configures the image-generation fallback chain.
type ImagesConfig struct {
	GeminiAPIKey       string `mapstructure:"gemini_api_key"`
	GeminiModel        string `mapstructure:"gemini_model"`
	GeminiVariantModel string `mapstructure:"gemini_variant_model"`
	OpenAIAPIKey       string `mapstructure:"openai_api_key"`
	OpenAIModel        string `mapstructure:"openai_model"`
	TimeoutSeconds     int    `mapstructure:"timeout_seconds"`
}

// SearchConfig configures the optional search/verification adapter.
// An empty endpoint disables fact-check and monetization.
type SearchConfig struct {
	Endpoint          string `mapstructure:"endpoint"`
	APIKey            string `mapstructure:"api_key"`
	MarketplaceDomain string `mapstructure:"marketplace_domain"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds"`
}

// ProbeConfig controls reachability probes.
type ProbeConfig struct {
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	PerHostRPS     float64 `mapstructure:"per_host_rps"`
	Burst          int     `mapstructure:"burst"`
}

// StoreConfig selects the content-store backend.
type StoreConfig struct {
	Backend  string         `mapstructure:"backend"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

// PostgresConfig controls the optional Postgres content store.
type PostgresConfig struct {
	DSN      string `mapstructure:"dsn"`
	MaxConns int32  `mapstructure:"max_conns"`
}

// SinkConfig selects where site artifacts are written.
type SinkConfig struct {
	Backend   string `mapstructure:"backend"`
	GCSBucket string `mapstructure:"gcs_bucket"`
	Prefix    string `mapstructure:"prefix"`
}

// PublishConfig controls the git publish step.
type PublishConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	WorkDir string `mapstructure:"work_dir"`
}

// NotifyConfig configures outbound notifications.
type NotifyConfig struct {
	SMTP   SMTPConfig   `mapstructure:"smtp"`
	PubSub PubSubConfig `mapstructure:"pubsub"`
}

// SMTPConfig holds mail delivery settings. An empty host disables mail.
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	To       string `mapstructure:"to"`
}

// PubSubConfig holds metadata for publish-subscribe notifications.
// An empty project disables event publishing.
type PubSubConfig struct {
	ProjectID string `mapstructure:"project_id"`
	TopicName string `mapstructure:"topic_name"`
}

// ServerConfig controls HTTP server behavior for the assistant API.
type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Auth AuthConfig `mapstructure:"auth"`
}

// AuthConfig defines API authentication toggles.
type AuthConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BLOGFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("site.base_url", "/segeln-lernen")
	v.SetDefault("site.site_url", "https://nichtagentur.github.io/segeln-lernen")
	v.SetDefault("site.title", "Segeln Lernen")
	v.SetDefault("site.language", "de-DE")
	v.SetDefault("paths.data_dir", "data")
	v.SetDefault("paths.docs_dir", "docs")
	v.SetDefault("runner.articles_per_run", 2)
	v.SetDefault("runner.cooldown_seconds", 30)
	v.SetDefault("quality.threshold", 6)
	v.SetDefault("quality.max_attempts", 3)
	v.SetDefault("llm.research_model", "command-r7b-12-2024")
	v.SetDefault("llm.draft_model", "command-a-03-2025")
	v.SetDefault("llm.quality_model", "command-r7b-12-2024")
	v.SetDefault("llm.classify_model", "command-r7b-12-2024")
	v.SetDefault("llm.max_tokens", 4096)
	v.SetDefault("llm.timeout_seconds", 120)
	v.SetDefault("images.gemini_model", "gemini-2.0-flash-exp")
	v.SetDefault("images.gemini_variant_model", "gemini-2.0-flash-preview-image-generation")
	v.SetDefault("images.openai_model", "dall-e-3")
	v.SetDefault("images.timeout_seconds", 90)
	v.SetDefault("search.marketplace_domain", "amazon.de")
	v.SetDefault("search.timeout_seconds", 30)
	v.SetDefault("probe.timeout_seconds", 5)
	v.SetDefault("probe.per_host_rps", 2)
	v.SetDefault("probe.burst", 1)
	v.SetDefault("store.backend", "file")
	v.SetDefault("sink.backend", "local")
	v.SetDefault("publish.enabled", false)
	v.SetDefault("notify.smtp.port", 587)
	v.SetDefault("server.port", 8080)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Runner.ArticlesPerRun <= 0 {
		return fmt.Errorf("runner.articles_per_run must be > 0")
	}
	if c.Quality.MaxAttempts <= 0 {
		return fmt.Errorf("quality.max_attempts must be > 0")
	}
	if c.Quality.Threshold < 0 || c.Quality.Threshold > 10 {
		return fmt.Errorf("quality.threshold must be within 0..10")
	}
	switch c.Store.Backend {
	case "file", "memory":
	case "postgres":
		if c.Store.Postgres.DSN == "" {
			return fmt.Errorf("store.postgres.dsn must be set when store.backend is postgres")
		}
	default:
		return fmt.Errorf("unknown store.backend %q", c.Store.Backend)
	}
	switch c.Sink.Backend {
	case "local", "memory":
	case "gcs":
		if c.Sink.GCSBucket == "" {
			return fmt.Errorf("sink.gcs_bucket must be set when sink.backend is gcs")
		}
	default:
		return fmt.Errorf("unknown sink.backend %q", c.Sink.Backend)
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Server.Auth.Enabled && c.Server.Auth.APIKey == "" {
		return fmt.Errorf("server.auth.api_key must be set when auth is enabled")
	}
	if c.Probe.TimeoutSeconds <= 0 {
		return fmt.Errorf("probe.timeout_seconds must be > 0")
	}
	return nil
}

// Cooldown returns the pause inserted between sequential pipeline runs.
func (c Config) Cooldown() time.Duration {
	return time.Duration(c.Runner.CooldownSeconds) * time.Second
}

// ProbeTimeout returns the per-probe request timeout.
func (c Config) ProbeTimeout() time.Duration {
	return time.Duration(c.Probe.TimeoutSeconds) * time.Second
}
