package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Astrology  AstrologyConfig  `mapstructure:"astrology"`
	Projection ProjectionConfig `mapstructure:"projection"`
	Digest     DigestConfig     `mapstructure:"digest"`
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// AstrologyConfig holds astrology API configuration
type AstrologyConfig struct {
	APIBaseURL          string        `mapstructure:"api_base_url"`
	APIKey              string        `mapstructure:"api_key"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRetries          int           `mapstructure:"max_retries"`
	RetryDelayBase      time.Duration `mapstructure:"retry_delay_base"`
	MaxIdleConns        int           `mapstructure:"max_idle_conns"`
	MaxIdleConnsPerHost int           `mapstructure:"max_idle_conns_per_host"`
	IdleConnTimeout     time.Duration `mapstructure:"idle_conn_timeout"`
}

// ProjectionConfig holds projection engine configuration
type ProjectionConfig struct {
	CalendarDays int   `mapstructure:"calendar_days"`
	CacheSize    int   `mapstructure:"cache_size"`
	Horizons     []int `mapstructure:"horizons"`
}

// DigestConfig holds the periodic digest configuration
type DigestConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Enabled  bool          `mapstructure:"enabled"`
}

// TelegramConfig holds Telegram notification configuration
type TelegramConfig struct {
	BotToken       string        `mapstructure:"bot_token"`
	ChatID         string        `mapstructure:"chat_id"`
	Enabled        bool          `mapstructure:"enabled"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// TelemetryConfig holds OpenTelemetry tracing configuration
type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load(path string) (*Config, error) {
	v := newViper(path)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return decode(v)
}

// Default returns the configuration built from defaults and environment
// variables alone, for running without a config file.
func Default() (*Config, error) {
	return decode(newViper(""))
}

// Watch loads the configuration at path and calls onChange with the new
// configuration each time the file is rewritten. Changes that fail to decode
// or validate are passed to onError and otherwise ignored.
func Watch(path string, onChange func(*Config), onError func(error)) (*Config, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		next, err := decode(v)
		if err == nil {
			err = next.Validate()
		}
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("reload %s: %w", e.Name, err))
			}
			return
		}
		onChange(next)
	})
	v.WatchConfig()

	return cfg, nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()

	// Set config file
	if path != "" {
		v.SetConfigFile(path)
	}

	// Set defaults
	setDefaults(v)

	// Enable environment variable override
	v.SetEnvPrefix("ASTROCAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Astrology API defaults
	v.SetDefault("astrology.api_base_url", "https://api.astrology-api.io/v1")
	v.SetDefault("astrology.api_key", "")
	v.SetDefault("astrology.timeout", "10s")
	v.SetDefault("astrology.max_retries", 3)
	v.SetDefault("astrology.retry_delay_base", "1s")
	v.SetDefault("astrology.max_idle_conns", 10)
	v.SetDefault("astrology.max_idle_conns_per_host", 2)
	v.SetDefault("astrology.idle_conn_timeout", "90s")

	// Projection defaults
	v.SetDefault("projection.calendar_days", 28)
	v.SetDefault("projection.cache_size", 100)
	v.SetDefault("projection.horizons", []int{7, 14, 21, 28})

	// Digest defaults
	v.SetDefault("digest.interval", "24h")
	v.SetDefault("digest.enabled", true)

	// Telegram defaults
	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.retry_delay_base", "1s")

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "http://localhost:4318")
	v.SetDefault("telemetry.service_name", "astrocal")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	// Validate Astrology config
	if c.Astrology.APIBaseURL == "" {
		return fmt.Errorf("astrology.api_base_url is required")
	}
	if c.Astrology.Timeout <= 0 {
		return fmt.Errorf("astrology.timeout must be positive")
	}
	if c.Astrology.MaxRetries < 1 {
		return fmt.Errorf("astrology.max_retries must be at least 1")
	}
	if c.Astrology.RetryDelayBase <= 0 {
		return fmt.Errorf("astrology.retry_delay_base must be positive")
	}
	if c.Astrology.MaxIdleConns < 0 || c.Astrology.MaxIdleConnsPerHost < 0 {
		return fmt.Errorf("astrology idle connection limits must not be negative")
	}

	// Validate Projection config
	if c.Projection.CalendarDays < 1 || c.Projection.CalendarDays > 366 {
		return fmt.Errorf("projection.calendar_days must be between 1 and 366")
	}
	if c.Projection.CacheSize < 1 {
		return fmt.Errorf("projection.cache_size must be at least 1")
	}
	if len(c.Projection.Horizons) == 0 {
		return fmt.Errorf("projection.horizons must contain at least one offset")
	}
	for _, h := range c.Projection.Horizons {
		if h < 0 {
			return fmt.Errorf("projection.horizons must not contain negative offsets, got %d", h)
		}
	}

	// Validate Digest config
	if c.Digest.Enabled && c.Digest.Interval < 1*time.Minute {
		return fmt.Errorf("digest.interval must be at least 1 minute")
	}

	// Validate Telegram config
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
		if c.Telegram.MaxRetries < 1 {
			return fmt.Errorf("telegram.max_retries must be at least 1")
		}
	}

	// Validate Telemetry config
	if c.Telemetry.Enabled {
		if c.Telemetry.Endpoint == "" {
			return fmt.Errorf("telemetry.endpoint is required when telemetry is enabled")
		}
		if c.Telemetry.ServiceName == "" {
			return fmt.Errorf("telemetry.service_name is required when telemetry is enabled")
		}
	}

	// Validate Logging config
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}

// GetAstrologyConfig returns the astrology API configuration
func (c *Config) GetAstrologyConfig() AstrologyConfig {
	return c.Astrology
}

// GetProjectionConfig returns the projection configuration
func (c *Config) GetProjectionConfig() ProjectionConfig {
	return c.Projection
}

// GetDigestConfig returns the digest configuration
func (c *Config) GetDigestConfig() DigestConfig {
	return c.Digest
}

// GetTelegramConfig returns the Telegram configuration
func (c *Config) GetTelegramConfig() TelegramConfig {
	return c.Telegram
}

// GetTelemetryConfig returns the telemetry configuration
func (c *Config) GetTelemetryConfig() TelemetryConfig {
	return c.Telemetry
}

// GetLoggingConfig returns the Logging configuration
func (c *Config) GetLoggingConfig() LoggingConfig {
	return c.Logging
}
