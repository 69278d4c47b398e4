package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "file::memory:?cache=shared", cfg.DatabaseURL)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 4*time.Second, cfg.ToastTTL)
	assert.Equal(t, 1500*time.Millisecond, cfg.SimulatedDelay)
	assert.Empty(t, cfg.RedisAddr)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("GENAI_BASE_URL", "http://genai.local/")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, "http://genai.local", cfg.GenAI.BaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_RejectsDefaultSecretInProduction(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:           "8080",
			JWTSecret:      "a-secret-that-is-long-enough-for-hs256",
			TokenTTL:       time.Hour,
			RateLimitRPS:   10,
			RateLimitBurst: 50,
			QRTTL:          time.Minute,
			GenAI:          GenAIConfig{Timeout: time.Second},
			LogLevel:       "info",
			LogFormat:      "json",
		}
	}
	require.NoError(t, ValidateConfig(valid()))

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing port", func(c *Config) { c.Port = "" }},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }},
		{"zero token ttl", func(c *Config) { c.TokenTTL = 0 }},
		{"zero burst", func(c *Config) { c.RateLimitBurst = 0 }},
		{"negative delay", func(c *Config) { c.SimulatedDelay = -time.Second }},
		{"zero qr ttl", func(c *Config) { c.QRTTL = 0 }},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, ValidateConfig(cfg))
		})
	}
}
