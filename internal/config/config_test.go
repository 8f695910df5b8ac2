package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PEERSIGNAL_ENV", "test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, "./peerlearn.db", cfg.DatabasePath)
	assert.Equal(t, "strict", cfg.AuthMode)
	assert.Equal(t, int64(32768), cfg.ReadLimit)
	assert.Equal(t, 100, cfg.SendBuffer)
	assert.Equal(t, 15*time.Second, cfg.PingInterval)
	assert.Equal(t, time.Second, cfg.LatencyThreshold)
	assert.Equal(t, 120, cfg.RateLimit)
	assert.Equal(t, 30*time.Second, cfg.SessionCacheTTL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PEERSIGNAL_ENV", "test")
	t.Setenv("PEERSIGNAL_PORT", "9090")
	t.Setenv("PEERSIGNAL_AUTH_MODE", "permissive")
	t.Setenv("PEERSIGNAL_PING_INTERVAL", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "permissive", cfg.AuthMode)
	assert.Equal(t, 5*time.Second, cfg.PingInterval)
}

func TestLoad_InvalidEnvValueRejected(t *testing.T) {
	t.Setenv("PEERSIGNAL_ENV", "test")
	t.Setenv("PEERSIGNAL_AUTH_MODE", "open")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth_mode")
}

func validConfig() *Config {
	return &Config{
		Mode:             "release",
		Host:             "0.0.0.0",
		Port:             8080,
		DatabasePath:     "./peerlearn.db",
		AuthMode:         "strict",
		ReadLimit:        32768,
		SendBuffer:       100,
		WriteTimeout:     5 * time.Second,
		PingInterval:     15 * time.Second,
		LatencyThreshold: time.Second,
		RateLimit:        120,
		SessionCacheTTL:  30 * time.Second,
		ShutdownTimeout:  30 * time.Second,
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Port = 0 }},
		{"port too high", func(c *Config) { c.Port = 70000 }},
		{"empty host", func(c *Config) { c.Host = "" }},
		{"empty database path", func(c *Config) { c.DatabasePath = "" }},
		{"unknown auth mode", func(c *Config) { c.AuthMode = "open" }},
		{"zero read limit", func(c *Config) { c.ReadLimit = 0 }},
		{"zero send buffer", func(c *Config) { c.SendBuffer = 0 }},
		{"zero write timeout", func(c *Config) { c.WriteTimeout = 0 }},
		{"zero ping interval", func(c *Config) { c.PingInterval = 0 }},
		{"zero latency threshold", func(c *Config) { c.LatencyThreshold = 0 }},
		{"negative rate limit", func(c *Config) { c.RateLimit = -1 }},
		{"zero cache ttl", func(c *Config) { c.SessionCacheTTL = 0 }},
		{"zero shutdown timeout", func(c *Config) { c.ShutdownTimeout = 0 }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_RateLimitZeroAllowed(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit = 0
	assert.NoError(t, cfg.Validate(), "a zero rate limit disables limiting and is valid")
}
