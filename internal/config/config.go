// Package config wraps Viper behind a small nil-safe accessor type and owns
// the process-wide defaults, including the tier thresholds shared by every
// classifier call site.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is a nil-safe read-only view over a Viper instance.
type Config struct {
	v *viper.Viper
}

// New wraps a Viper instance. A nil Viper yields a Config that returns zero
// values rather than panicking.
func New(v *viper.Viper) *Config {
	return &Config{v: v}
}

// Load builds the application configuration: defaults first, then an optional
// YAML file at path, then LOTVIEW_* environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("storage.path", "lotview.db")
	v.SetDefault("listings.page_size", 20)
	v.SetDefault("listings.page_size_max", 100)
	v.SetDefault("listings.max_visible_pages", 7)
	v.SetDefault("listings.tier.top_pick_min", 80)
	v.SetDefault("listings.tier.good_buy_min", 65)

	v.SetEnvPrefix("LOTVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
	}

	return New(v), nil
}

// GetString returns the string value for key, or "" if unset.
func (c *Config) GetString(key string) string {
	if c.v == nil {
		return ""
	}
	return c.v.GetString(key)
}

// GetInt returns the int value for key, or 0 if unset.
func (c *Config) GetInt(key string) int {
	if c.v == nil {
		return 0
	}
	return c.v.GetInt(key)
}

// GetBool returns the bool value for key, or false if unset.
func (c *Config) GetBool(key string) bool {
	if c.v == nil {
		return false
	}
	return c.v.GetBool(key)
}

// GetDuration returns the duration value for key, or 0 if unset.
func (c *Config) GetDuration(key string) time.Duration {
	if c.v == nil {
		return 0
	}
	return c.v.GetDuration(key)
}

// IsSet reports whether key has a value.
func (c *Config) IsSet(key string) bool {
	if c.v == nil {
		return false
	}
	return c.v.IsSet(key)
}

// Sub returns the subtree rooted at key. A missing key yields an empty
// Config, never nil.
func (c *Config) Sub(key string) *Config {
	if c.v == nil {
		return New(nil)
	}
	return New(c.v.Sub(key))
}

// Unmarshal decodes the configuration into target using mapstructure tags.
func (c *Config) Unmarshal(target any) error {
	if c.v == nil {
		return nil
	}
	return c.v.Unmarshal(target)
}
