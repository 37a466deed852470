// Package config loads and validates extractor configuration via Viper.
package config

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultEndpoint = "https://www.gov.sg/trusted-sites"

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Extractor ExtractorConfig `mapstructure:"extractor"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Output    OutputConfig    `mapstructure:"output"`
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ExtractorConfig identifies the page to extract and how to present ourselves.
type ExtractorConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	UserAgent string `mapstructure:"user_agent"`
}

// HTTPConfig configures fetch engine retry and concurrency behavior.
type HTTPConfig struct {
	MaxRetries     int `mapstructure:"max_retries"`
	MaxConcurrent  int `mapstructure:"max_concurrent"`
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	BackoffBaseMs  int `mapstructure:"backoff_base_ms"`
	SettleDelayMs  int `mapstructure:"settle_delay_ms"`
}

// OutputConfig sets the allowlist file destination.
type OutputConfig struct {
	Path string `mapstructure:"path"`
}

// ServerConfig controls the optional debug HTTP server.
type ServerConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// LoggingConfig controls logger encoding and verbosity.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ALLOWLIST")
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
	v.SetDefault("extractor.endpoint", defaultEndpoint)
	v.SetDefault("extractor.user_agent", defaultUserAgent)
	v.SetDefault("http.max_retries", 5)
	v.SetDefault("http.max_concurrent", 5)
	v.SetDefault("http.timeout_seconds", 300)
	v.SetDefault("http.backoff_base_ms", 1000)
	v.SetDefault("http.settle_delay_ms", 500)
	v.SetDefault("output.path", "allowlist.txt")
	v.SetDefault("server.enabled", false)
	v.SetDefault("server.port", 9090)
	v.SetDefault("logging.development", true)
	v.SetDefault("logging.level", "info")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Extractor.Endpoint == "" {
		return fmt.Errorf("extractor.endpoint must be set")
	}
	if c.HTTP.MaxRetries <= 0 {
		return fmt.Errorf("http.max_retries must be > 0")
	}
	if c.HTTP.MaxConcurrent <= 0 {
		return fmt.Errorf("http.max_concurrent must be > 0")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.Output.Path == "" {
		return fmt.Errorf("output.path must be set")
	}
	if c.Server.Enabled && c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0 when server is enabled")
	}
	return nil
}

// DefaultHeaders returns the header set sent with every request.
func (c Config) DefaultHeaders() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("Connection", "keep-alive")
	h.Set("Cache-Control", "no-cache")
	h.Set("Accept", "*/*")
	h.Set("User-Agent", c.Extractor.UserAgent)
	return h
}

// BackoffFactor converts the backoff base into the fetch engine multiplier.
func (c Config) BackoffFactor() float64 {
	return float64(c.HTTP.BackoffBaseMs) / 1000
}

// Timeout is the wall-clock ceiling for one dispatch.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// SettleDelay is the pause inserted between admission and the first request.
func (c Config) SettleDelay() time.Duration {
	return time.Duration(c.HTTP.SettleDelayMs) * time.Millisecond
}
