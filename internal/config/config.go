// Package config loads pedalctl settings from an optional YAML file and
// PEDALCTL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Log      LogConfig
	Output   OutputConfig
}

// DatabaseConfig holds journal settings. An empty Path keeps the journal
// in memory.
type DatabaseConfig struct {
	Path string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
}

// OutputConfig holds presentation settings.
type OutputConfig struct {
	Format string
}

// Load reads configuration from file and env. Env var overrides use prefix
// PEDALCTL_ (e.g. PEDALCTL_DATABASE_PATH).
//
// path names the config file explicitly; when empty PEDALCTL_CONFIG is
// tried, then config.yaml in the working directory and in
// $HOME/.config/pedalctl. A missing file is only an error when it was
// named explicitly.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("database.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("output.format", "text")

	v.SetConfigType("yaml")

	if path == "" {
		path = os.Getenv("PEDALCTL_CONFIG")
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "pedalctl"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("PEDALCTL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch c.Output.Format {
	case "text", "json":
	default:
		return fmt.Errorf("output.format: must be text or json, got %q", c.Output.Format)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// SlogLevel returns the configured log level.
func (c Config) SlogLevel() slog.Level {
	level, _ := ParseLevel(c.Log.Level)
	return level
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown level %q", s)
	}
}
