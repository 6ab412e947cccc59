// Package config loads the server configuration from an optional yaml
// file with environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port int
}

// DatabaseConfig holds the SQLite database configuration.
type DatabaseConfig struct {
	Path string
}

// AuthConfig holds session token configuration.
type AuthConfig struct {
	JWTSecret     string
	TokenTTLHours int
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string
}

// TokenTTL returns the session token lifetime as a duration.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLHours) * time.Hour
}

// Load reads configuration from the given file (optional) and the
// TRAVELOG_* environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.path", "./data/travelog.db")
	v.SetDefault("auth.tokenttlhours", 24)
	// Registered empty so the env override is visible to Unmarshal.
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix("TRAVELOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwtsecret is required (TRAVELOG_AUTH_JWTSECRET)")
	}

	return &cfg, nil
}
