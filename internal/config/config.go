// Package config loads taproot settings from taproot.yaml, the
// environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// Exit codes
	ExitSuccess = iota
	ExitGeneralError
	ExitConfigurationError
)

// ErrConfig tags configuration problems so callers can map them onto
// ExitConfigurationError.
var ErrConfig = errors.New("configuration error")

const (
	ConfigFileName = "taproot"

	// DatabaseURLEnv overrides the configured connection URL. It is also
	// honored when set in a .env file next to taproot.yaml, the way the
	// migration tooling this replaces did.
	DatabaseURLEnv = "DATABASE_URL"
)

// Config represents the project configuration.
type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Migrations MigrationsConfig `mapstructure:"migrations"`
	Retry      RetryConfig      `mapstructure:"retry"`
}

// DatabaseConfig addresses the target database.
type DatabaseConfig struct {
	URL       string `mapstructure:"url"`
	SqliteWAL bool   `mapstructure:"sqlite_wal"`
}

// MigrationsConfig locates the migration scripts.
type MigrationsConfig struct {
	Source string `mapstructure:"source"`
}

// RetryConfig bounds the connect retries around existence checks.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	Backoff     time.Duration `mapstructure:"backoff"`
	MaxBackoff  time.Duration `mapstructure:"max_backoff"`
}

// Default returns the configuration used when taproot.yaml is absent or
// leaves fields unset.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			SqliteWAL: true,
		},
		Migrations: MigrationsConfig{
			Source: "migrations",
		},
		Retry: RetryConfig{
			MaxAttempts: 5,
			Backoff:     100 * time.Millisecond,
			MaxBackoff:  2 * time.Second,
		},
	}
}

// Load reads taproot.yaml from dir and overlays environment settings.
// A missing config file is not an error; DATABASE_URL alone is enough to
// run every command.
func Load(dir string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("%w: reading config: %w", ErrConfig, err)
		}
	} else {
		hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		))
		if err := v.Unmarshal(cfg, hook); err != nil {
			return nil, fmt.Errorf("%w: parsing config: %w", ErrConfig, err)
		}
	}

	if url := os.Getenv(DatabaseURLEnv); url != "" {
		cfg.Database.URL = url
	} else if cfg.Database.URL == "" {
		env := ReadEnvFile(dir, ".env")
		cfg.Database.URL = env[DatabaseURLEnv]
	}

	return cfg, nil
}

// WriteStarter writes a starter taproot.yaml to dir. Refuses to overwrite
// an existing file.
func WriteStarter(dir string, cfg *Config) (string, error) {
	path := filepath.Join(dir, ConfigFileName+".yaml")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	}

	doc := map[string]interface{}{
		"database": map[string]interface{}{
			"url":        cfg.Database.URL,
			"sqlite_wal": cfg.Database.SqliteWAL,
		},
		"migrations": map[string]interface{}{
			"source": cfg.Migrations.Source,
		},
		"retry": map[string]interface{}{
			"max_attempts": cfg.Retry.MaxAttempts,
			"backoff":      cfg.Retry.Backoff.String(),
			"max_backoff":  cfg.Retry.MaxBackoff.String(),
		},
	}

	content, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}

	return path, nil
}
