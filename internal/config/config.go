// Package config loads service configuration with viper. Precedence is
// defaults < config file < PEERSIGNAL_* environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds every tunable of the signaling service.
type Config struct {
	Mode string `mapstructure:"mode"` // debug | release
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	DatabasePath string `mapstructure:"database_path"`

	// AuthMode selects the learner join policy: strict (confirmed, paid
	// booking) or permissive (any authenticated user).
	AuthMode string `mapstructure:"auth_mode"`

	ReadLimit    int64         `mapstructure:"read_limit"`
	SendBuffer   int           `mapstructure:"send_buffer"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	PingInterval     time.Duration `mapstructure:"ping_interval"`
	LatencyThreshold time.Duration `mapstructure:"latency_threshold"`

	RateLimit       int           `mapstructure:"rate_limit"` // messages per minute per sender
	SessionCacheTTL time.Duration `mapstructure:"session_cache_ttl"`

	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Load reads configuration. The optional file is
// config/config.<PEERSIGNAL_ENV>.yaml relative to the working directory.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("mode", "release")
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8080)
	v.SetDefault("database_path", "./peerlearn.db")
	v.SetDefault("auth_mode", "strict")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("send_buffer", 100)
	v.SetDefault("write_timeout", "5s")
	v.SetDefault("ping_interval", "15s")
	v.SetDefault("latency_threshold", "1s")
	v.SetDefault("rate_limit", 120)
	v.SetDefault("session_cache_ttl", "30s")
	v.SetDefault("shutdown_timeout", "30s")

	env := os.Getenv("PEERSIGNAL_ENV")
	if env == "" {
		env = "prod"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)
	v.SetConfigFile(fileName)

	v.SetEnvPrefix("PEERSIGNAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Debug().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults and environment")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("config file loaded")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations that cannot run.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path cannot be empty")
	}
	if c.AuthMode != "strict" && c.AuthMode != "permissive" {
		return fmt.Errorf("auth_mode must be 'strict' or 'permissive', got %q", c.AuthMode)
	}
	if c.ReadLimit <= 0 {
		return fmt.Errorf("read_limit must be positive")
	}
	if c.SendBuffer <= 0 {
		return fmt.Errorf("send_buffer must be positive")
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("write_timeout must be positive")
	}
	if c.PingInterval <= 0 {
		return fmt.Errorf("ping_interval must be positive")
	}
	if c.LatencyThreshold <= 0 {
		return fmt.Errorf("latency_threshold must be positive")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit cannot be negative")
	}
	if c.SessionCacheTTL <= 0 {
		return fmt.Errorf("session_cache_ttl must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive")
	}
	return nil
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
