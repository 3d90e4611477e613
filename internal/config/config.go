package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

type StdConfig struct {
	// Channel is the doc.rust-lang.org release channel used for standard
	// library lookups: stable, beta or nightly.
	Channel string `mapstructure:"channel"`
}

type CacheConfig struct {
	// Dir overrides the payload cache location; empty means the XDG
	// default under the rsdoclink cache base.
	Dir string `mapstructure:"dir"`
}

type Config struct {
	HTTP  HTTPConfig  `mapstructure:"http"`
	Std   StdConfig   `mapstructure:"std"`
	Cache CacheConfig `mapstructure:"cache"`
}

// cacheBase returns the base cache directory for rsdoclink.
// Checks XDG_CACHE_HOME, then ~/.cache, then /tmp/rsdoclink as fallback.
func cacheBase() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "rsdoclink")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cache", "rsdoclink")
	}
	return filepath.Join(os.TempDir(), "rsdoclink")
}

// DBPath returns the path to the DuckDB link database.
func DBPath() string {
	return filepath.Join(cacheBase(), "links.db")
}

// PayloadCacheDir returns the default directory for cached index payloads.
func PayloadCacheDir() string {
	return filepath.Join(cacheBase(), "payloads")
}

// CacheDir resolves the configured payload cache directory.
func (c *Config) CacheDir() string {
	if c.Cache.Dir != "" {
		return c.Cache.Dir
	}
	return PayloadCacheDir()
}

func InitializeViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	viper.AddConfigPath(".")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		viper.AddConfigPath(filepath.Join(xdg, "rsdoclink"))
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "rsdoclink"))
	}

	viper.SetDefault("http.timeout", "60s")
	viper.SetDefault("http.user_agent", "rsdoclink/0.1.0")
	viper.SetDefault("std.channel", "stable")
	viper.SetDefault("cache.dir", "")

	viper.SetEnvPrefix("RSDOCLINK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

func Load() (*Config, error) {
	if err := InitializeViper(); err != nil {
		return nil, err
	}

	var config Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
		Result:     &config,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(viper.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	switch config.Std.Channel {
	case "stable", "beta", "nightly":
	default:
		return nil, fmt.Errorf("invalid std channel %q", config.Std.Channel)
	}

	return &config, nil
}
