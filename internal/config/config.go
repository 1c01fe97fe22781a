package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns  int32  `env:"DB_MIN_CONNS" envDefault:"1"`

	LLMProvider            string `env:"LLM_PROVIDER" envDefault:"openai"`
	LLMAPIKey              string `env:"LLM_API_KEY,required,notEmpty"`
	LLMBaseURL             string `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel               string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	LLMTimeoutSeconds      int    `env:"LLM_TIMEOUT_SECONDS" envDefault:"45"`
	LLMBreakerFailures     uint32 `env:"LLM_BREAKER_FAILURES" envDefault:"5"`
	LLMBreakerCooldownSecs int    `env:"LLM_BREAKER_COOLDOWN_SECONDS" envDefault:"30"`
	GenerationLimitPerHour int    `env:"GENERATION_LIMIT_PER_HOUR" envDefault:"20"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	CacheBackend  string `env:"CACHE_BACKEND" envDefault:"postgres"`

	JWTSecret           string `env:"JWT_SECRET"`
	JWTAccessTTLMinutes int    `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"60"`
}

// LoadConfig carga la configuración desde variables de entorno y la valida.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate normaliza los enums y rechaza combinaciones que no arrancan.
// CACHE_BACKEND=redis sin REDIS_ADDR no es error: main cae a postgres con un warning.
func (c *Config) Validate() error {
	c.LLMProvider = strings.ToLower(strings.TrimSpace(c.LLMProvider))
	c.CacheBackend = strings.ToLower(strings.TrimSpace(c.CacheBackend))

	switch c.LLMProvider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("LLM_PROVIDER must be openai or gemini, got %q", c.LLMProvider)
	}
	switch c.CacheBackend {
	case "postgres", "redis":
	default:
		return fmt.Errorf("CACHE_BACKEND must be postgres or redis, got %q", c.CacheBackend)
	}
	if c.DBMaxConns < 1 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("invalid pool size: DB_MIN_CONNS=%d DB_MAX_CONNS=%d", c.DBMinConns, c.DBMaxConns)
	}
	if c.LLMTimeoutSeconds <= 0 {
		return fmt.Errorf("LLM_TIMEOUT_SECONDS must be positive")
	}
	if c.GenerationLimitPerHour < 0 {
		return fmt.Errorf("GENERATION_LIMIT_PER_HOUR must not be negative")
	}
	return nil
}

func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLMTimeoutSeconds) * time.Second
}

func (c *Config) BreakerCooldown() time.Duration {
	return time.Duration(c.LLMBreakerCooldownSecs) * time.Second
}

func (c *Config) JWTAccessTTL() time.Duration {
	return time.Duration(c.JWTAccessTTLMinutes) * time.Minute
}
