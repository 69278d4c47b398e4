package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigin  string

	JWTSecret string
	TokenTTL  time.Duration

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RateLimitRPS   float64
	RateLimitBurst int

	ToastTTL       time.Duration
	SimulatedDelay time.Duration
	QRTTL          time.Duration

	GenAI GenAIConfig

	LogLevel  string
	LogFormat string
}

type GenAIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

const defaultJWTSecret = "egov-portal-development-secret-change-me"

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("CORS_ORIGIN", "*")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("DATABASE_URL", "file::memory:?cache=shared")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 50)
	v.SetDefault("TOAST_TTL", "4s")
	v.SetDefault("SIMULATED_DELAY", "1500ms")
	v.SetDefault("QR_TTL", "5m")
	v.SetDefault("GENAI_BASE_URL", "")
	v.SetDefault("GENAI_API_KEY", "")
	v.SetDefault("GENAI_MODEL", "gemini-1.5-flash")
	v.SetDefault("GENAI_TIMEOUT", "30s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
}

// Load reads .env when present, then the process environment, falling back
// to development defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Port:           v.GetString("PORT"),
		Environment:    v.GetString("ENVIRONMENT"),
		CORSOrigin:     v.GetString("CORS_ORIGIN"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		TokenTTL:       v.GetDuration("TOKEN_TTL"),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		RedisPassword:  v.GetString("REDIS_PASSWORD"),
		RedisDB:        v.GetInt("REDIS_DB"),
		RateLimitRPS:   v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst: v.GetInt("RATE_LIMIT_BURST"),
		ToastTTL:       v.GetDuration("TOAST_TTL"),
		SimulatedDelay: v.GetDuration("SIMULATED_DELAY"),
		QRTTL:          v.GetDuration("QR_TTL"),
		GenAI: GenAIConfig{
			BaseURL: strings.TrimRight(v.GetString("GENAI_BASE_URL"), "/"),
			APIKey:  v.GetString("GENAI_API_KEY"),
			Model:   v.GetString("GENAI_MODEL"),
			Timeout: v.GetDuration("GENAI_TIMEOUT"),
		},
		LogLevel:  strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat: strings.ToLower(v.GetString("LOG_FORMAT")),
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func ValidateConfig(cfg *Config) error {
	if cfg.Port == "" {
		return errors.New("PORT is required")
	}
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if cfg.IsProduction() && cfg.JWTSecret == defaultJWTSecret {
		return errors.New("JWT_SECRET must be changed in production")
	}
	if cfg.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", cfg.TokenTTL)
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive, got %v and %d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.ToastTTL < 0 || cfg.SimulatedDelay < 0 {
		return errors.New("TOAST_TTL and SIMULATED_DELAY must not be negative")
	}
	if cfg.QRTTL <= 0 {
		return fmt.Errorf("QR_TTL must be positive, got %s", cfg.QRTTL)
	}
	if cfg.GenAI.Timeout <= 0 {
		return fmt.Errorf("GENAI_TIMEOUT must be positive, got %s", cfg.GenAI.Timeout)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", cfg.LogFormat)
	}
	return nil
}
