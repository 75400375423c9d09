// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all configuration knobs, loaded from file and environment
// (env prefix LOOPNET, e.g. LOOPNET_HTTP_REQUEST_DELAY_SECONDS).
type Config struct {
	Loopnet  LoopnetConfig  `mapstructure:"loopnet"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Browser  BrowserConfig  `mapstructure:"browser"`
	Archive  ArchiveConfig  `mapstructure:"archive"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// LoopnetConfig identifies the target site.
type LoopnetConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// HTTPConfig governs the primary transport path.
type HTTPConfig struct {
	RequestDelaySeconds   float64 `mapstructure:"request_delay_seconds"`
	MaxConcurrentRequests int     `mapstructure:"max_concurrent_requests"`
	TimeoutSeconds        float64 `mapstructure:"timeout_seconds"`
	MaxRetries            int     `mapstructure:"max_retries"`
	RetryForbidden        bool    `mapstructure:"retry_forbidden"`
	BackoffBaseMs         int     `mapstructure:"backoff_base_ms"`
	Impersonate           string  `mapstructure:"impersonate"`
}

// CacheConfig bounds the in-memory response cache.
type CacheConfig struct {
	TTLSeconds int `mapstructure:"ttl_seconds"`
	MaxEntries int `mapstructure:"max_entries"`
}

// BrowserConfig controls the escalation fetcher.
type BrowserConfig struct {
	Enabled              bool    `mapstructure:"enabled"`
	TimeoutSeconds       float64 `mapstructure:"timeout_seconds"`
	ChallengeWaitSeconds float64 `mapstructure:"challenge_wait_seconds"`
	Headless             bool    `mapstructure:"headless"`
}

// ArchiveConfig enables optional fetch-history persistence. Both stores are
// off when their setting is empty.
type ArchiveConfig struct {
	DSN         string `mapstructure:"dsn"`
	Table       string `mapstructure:"table"`
	SnapshotDir string `mapstructure:"snapshot_dir"`
}

// MetricsConfig controls the optional Prometheus/health listener.
type MetricsConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LOOPNET")
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
	v.SetDefault("loopnet.base_url", "https://www.loopnet.com")
	v.SetDefault("http.request_delay_seconds", 3.0)
	v.SetDefault("http.max_concurrent_requests", 1)
	v.SetDefault("http.timeout_seconds", 30.0)
	v.SetDefault("http.max_retries", 3)
	v.SetDefault("http.retry_forbidden", true)
	v.SetDefault("http.backoff_base_ms", 1000)
	v.SetDefault("http.impersonate", "chrome136")
	v.SetDefault("cache.ttl_seconds", 300)
	v.SetDefault("cache.max_entries", 500)
	v.SetDefault("browser.enabled", true)
	v.SetDefault("browser.timeout_seconds", 30.0)
	v.SetDefault("browser.challenge_wait_seconds", 5.0)
	v.SetDefault("browser.headless", true)
	v.SetDefault("archive.table", "fetches")
	v.SetDefault("logging.development", false)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Loopnet.BaseURL == "" {
		return fmt.Errorf("loopnet.base_url must be set")
	}
	if c.HTTP.MaxConcurrentRequests <= 0 {
		return fmt.Errorf("http.max_concurrent_requests must be > 0")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.HTTP.MaxRetries <= 0 {
		return fmt.Errorf("http.max_retries must be > 0")
	}
	if c.HTTP.RequestDelaySeconds < 0 {
		return fmt.Errorf("http.request_delay_seconds must be >= 0")
	}
	if c.Browser.Enabled && c.Browser.ChallengeWaitSeconds <= 0 {
		return fmt.Errorf("browser.challenge_wait_seconds must be > 0 when the browser is enabled")
	}
	return nil
}

// RequestDelay converts the configured delay to a duration.
func (c Config) RequestDelay() time.Duration {
	return time.Duration(c.HTTP.RequestDelaySeconds * float64(time.Second))
}

// RequestTimeout converts the per-attempt timeout to a duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds * float64(time.Second))
}

// BackoffBase converts the retry backoff base to a duration.
func (c Config) BackoffBase() time.Duration {
	return time.Duration(c.HTTP.BackoffBaseMs) * time.Millisecond
}

// CacheTTL converts the cache TTL to a duration.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// BrowserNavTimeout converts the browser navigation timeout to a duration.
func (c Config) BrowserNavTimeout() time.Duration {
	return time.Duration(c.Browser.TimeoutSeconds * float64(time.Second))
}

// ChallengeWait converts the challenge wait budget to a duration.
func (c Config) ChallengeWait() time.Duration {
	return time.Duration(c.Browser.ChallengeWaitSeconds * float64(time.Second))
}
