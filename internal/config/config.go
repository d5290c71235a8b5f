package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Alpha    AlphaConfig    `mapstructure:"alpha"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// AlphaConfig holds the Binance Alpha API configuration.
type AlphaConfig struct {
	APIBaseURL     string        `mapstructure:"api_base_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
}

// SyncConfig holds the sync engine configuration.
type SyncConfig struct {
	RunBudget     time.Duration `mapstructure:"run_budget"`
	RetentionDays int           `mapstructure:"retention_days"`
}

// NotifyConfig holds the notification window configuration. Both windows are
// externally tunable so the reminder cadence can change without a redeploy.
type NotifyConfig struct {
	ReminderWindow time.Duration `mapstructure:"reminder_window"` // look-ahead before a listing
	LiveWindow     time.Duration `mapstructure:"live_window"`     // trailing window after going live
}

// TelegramConfig holds Telegram notification configuration.
type TelegramConfig struct {
	BotToken       string        `mapstructure:"bot_token"`
	ChatID         string        `mapstructure:"chat_id"`
	Enabled        bool          `mapstructure:"enabled"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// StorageConfig holds persistence configuration.
type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// CacheConfig holds the token read-API cache configuration.
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// ServerConfig holds the HTTP trigger/read surface configuration.
type ServerConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	ListenAddr string `mapstructure:"listen_addr"`
	SyncSecret string `mapstructure:"sync_secret"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	setDefaults(v)

	v.SetEnvPrefix("ALPHA_TOOL")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options.
func setDefaults(v *viper.Viper) {
	v.SetDefault("alpha.api_base_url", "https://www.binance.com")
	v.SetDefault("alpha.timeout", "20s")
	v.SetDefault("alpha.max_retries", 3)
	v.SetDefault("alpha.retry_delay_base", "1s")
	v.SetDefault("alpha.poll_interval", "5m")

	v.SetDefault("sync.run_budget", "30s")
	v.SetDefault("sync.retention_days", 30)

	v.SetDefault("notify.reminder_window", "25m")
	v.SetDefault("notify.live_window", "10m")

	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.retry_delay_base", "1s")

	v.SetDefault("storage.db_path", "./data/alpha-tool.db")

	v.SetDefault("cache.ttl", "30s")

	v.SetDefault("server.enabled", true)
	v.SetDefault("server.listen_addr", ":8080")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks that all configuration values are valid. Failures here are
// fatal at startup, never per-run.
func (c *Config) Validate() error {
	if c.Alpha.APIBaseURL == "" {
		return fmt.Errorf("alpha.api_base_url is required")
	}
	if c.Alpha.Timeout < time.Second {
		return fmt.Errorf("alpha.timeout must be at least 1 second")
	}
	if c.Alpha.PollInterval < time.Minute {
		return fmt.Errorf("alpha.poll_interval must be at least 1 minute")
	}

	if c.Sync.RunBudget < 5*time.Second {
		return fmt.Errorf("sync.run_budget must be at least 5 seconds")
	}
	if c.Sync.RetentionDays < 1 {
		return fmt.Errorf("sync.retention_days must be at least 1")
	}

	if c.Notify.ReminderWindow < time.Minute {
		return fmt.Errorf("notify.reminder_window must be at least 1 minute")
	}
	if c.Notify.LiveWindow < time.Minute {
		return fmt.Errorf("notify.live_window must be at least 1 minute")
	}

	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}

	if c.Storage.DBPath == "" {
		return fmt.Errorf("storage.db_path is required")
	}

	if c.Cache.TTL < time.Second {
		return fmt.Errorf("cache.ttl must be at least 1 second")
	}

	if c.Server.Enabled {
		if c.Server.ListenAddr == "" {
			return fmt.Errorf("server.listen_addr is required when the server is enabled")
		}
		if c.Server.SyncSecret == "" {
			return fmt.Errorf("server.sync_secret is required when the server is enabled")
		}
	}

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
