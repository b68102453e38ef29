// Package config provides configuration management for the journal application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Wallet string       `mapstructure:"wallet"`
	Venue  VenueConfig  `mapstructure:"venue"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Sync   SyncConfig   `mapstructure:"sync"`
	Store  StoreConfig  `mapstructure:"store"`
	Log    LoggerConfig `mapstructure:"log"`
}

// VenueConfig holds upstream API configuration.
type VenueConfig struct {
	APIURL         string        `mapstructure:"api_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	RatePerSecond  int           `mapstructure:"rate_per_second"`
}

// CacheConfig holds derived-view cache configuration.
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// SyncConfig holds background sync configuration.
type SyncConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// StoreConfig holds persistence configuration.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/hyperliquid-journal"
	}
	return filepath.Join(home, ".config", "hyperliquid-journal")
}

// Default returns the built-in configuration defaults.
func Default() *Config {
	return &Config{
		Venue: VenueConfig{
			APIURL:         "https://api.hyperliquid.xyz/info",
			RequestTimeout: 15 * time.Second,
			RatePerSecond:  10,
		},
		Cache: CacheConfig{TTL: 30 * time.Second},
		Sync:  SyncConfig{Interval: 5 * time.Minute},
		Store: StoreConfig{Path: filepath.Join(DefaultConfigDir(), "journal.db")},
		Log:   LoggerConfig{Level: "info", Console: true, File: true},
	}
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
		// Config file not found, write a template for the user to fill in
		if err := writeTemplate(configDir); err != nil {
			return nil, fmt.Errorf("writing config template: %w", err)
		}
	} else {
		if err := v.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("parsing config.toml: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	if wallet := os.Getenv("HL_WALLET_ADDRESS"); wallet != "" {
		cfg.Wallet = wallet
	}
	if url := os.Getenv("HL_API_URL"); url != "" {
		cfg.Venue.APIURL = url
	}
	if level := os.Getenv("HL_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Venue.APIURL == "" {
		return fmt.Errorf("venue.api_url must not be empty")
	}
	if c.Venue.RequestTimeout <= 0 {
		return fmt.Errorf("venue.request_timeout must be positive")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}
	if c.Sync.Interval <= 0 {
		return fmt.Errorf("sync.interval must be positive")
	}
	return nil
}

// writeTemplate writes a commented config template to configDir.
func writeTemplate(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}
	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	template := `# hyperliquid-journal configuration

# Default wallet address to sync and report on.
wallet = ""

[venue]
api_url = "https://api.hyperliquid.xyz/info"
request_timeout = "15s"
rate_per_second = 10

[cache]
ttl = "30s"

[sync]
interval = "5m"

[store]
path = ""

[log]
level = "info"
console = true
file = true
`
	return os.WriteFile(path, []byte(template), 0600)
}
