// Package config loads qent settings through Viper from a config file
// (.qent.yaml by default), QENT_* environment variables and command-line flags.
//
// Limits use a negative value for "unbounded", which is also the default.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dzjyyds666/qent/parse"
	"github.com/dzjyyds666/qent/parse/qent"
)

const EnvPrefix = "QENT"

type Config struct {
	Profile string       `mapstructure:"profile"`
	Limits  LimitsConfig `mapstructure:"limits"`
	Log     LogConfig    `mapstructure:"log"`
	Serve   ServeConfig  `mapstructure:"serve"`
	Watch   WatchConfig  `mapstructure:"watch"`
}

type LimitsConfig struct {
	MaxKeyLength       int `mapstructure:"max_key_length"`
	MaxValueLength     int `mapstructure:"max_value_length"`
	MaxEntities        int `mapstructure:"max_entities"`
	MaxEntityKeyValues int `mapstructure:"max_entity_key_values"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ServeConfig struct {
	Addr         string `mapstructure:"addr"`
	MaxBodyBytes int64  `mapstructure:"max_body_bytes"`
}

type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// SetDefaults registers every key with its default so environment overrides are
// picked up by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("profile", parse.DefaultProfile)
	v.SetDefault("limits.max_key_length", -1)
	v.SetDefault("limits.max_value_length", -1)
	v.SetDefault("limits.max_entities", -1)
	v.SetDefault("limits.max_entity_key_values", -1)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("serve.addr", ":8080")
	v.SetDefault("serve.max_body_bytes", 64<<20)
	v.SetDefault("watch.debounce", 200*time.Millisecond)
}

// BindEnv enables QENT_SECTION_KEY environment overrides.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load unmarshals and validates the settings held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if _, err := parse.Profile(c.Profile); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Serve.MaxBodyBytes <= 0 {
		return fmt.Errorf("config: serve.max_body_bytes must be positive, got %d", c.Serve.MaxBodyBytes)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("config: watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	return nil
}

// ParseOptions resolves the profile and applies the configured limits to it.
func (c *Config) ParseOptions() (qent.Options, error) {
	opts, err := parse.Profile(c.Profile)
	if err != nil {
		return qent.Options{}, err
	}
	return opts.
		MaxKeyLength(c.Limits.MaxKeyLength).
		MaxValueLength(c.Limits.MaxValueLength).
		MaxEntities(c.Limits.MaxEntities).
		MaxEntityKeyValues(c.Limits.MaxEntityKeyValues), nil
}
