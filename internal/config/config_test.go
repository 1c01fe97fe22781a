package config

import (
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://advisor@localhost/advisor")
	t.Setenv("LLM_API_KEY", "k")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTPPort != "8080" || cfg.LLMProvider != "openai" || cfg.CacheBackend != "postgres" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.LLMTimeout() != 45*time.Second || cfg.BreakerCooldown() != 30*time.Second || cfg.JWTAccessTTL() != time.Hour {
		t.Fatalf("unexpected durations: %v %v %v", cfg.LLMTimeout(), cfg.BreakerCooldown(), cfg.JWTAccessTTL())
	}
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LLM_API_KEY", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error without DATABASE_URL and LLM_API_KEY")
	}
}

func TestLoadConfig_NormalizesEnums(t *testing.T) {
	setRequired(t)
	t.Setenv("LLM_PROVIDER", " Gemini ")
	t.Setenv("CACHE_BACKEND", "REDIS")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.LLMProvider != "gemini" || cfg.CacheBackend != "redis" {
		t.Fatalf("expected normalized enums, got %q %q", cfg.LLMProvider, cfg.CacheBackend)
	}
}

func TestValidate_Rejects(t *testing.T) {
	base := func() Config {
		return Config{
			LLMProvider:       "openai",
			CacheBackend:      "postgres",
			DBMaxConns:        10,
			DBMinConns:        1,
			LLMTimeoutSeconds: 45,
		}
	}
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"provider", func(c *Config) { c.LLMProvider = "claude" }, "LLM_PROVIDER"},
		{"cache backend", func(c *Config) { c.CacheBackend = "memcached" }, "CACHE_BACKEND"},
		{"pool", func(c *Config) { c.DBMinConns = 20 }, "pool size"},
		{"timeout", func(c *Config) { c.LLMTimeoutSeconds = 0 }, "LLM_TIMEOUT_SECONDS"},
		{"limit", func(c *Config) { c.GenerationLimitPerHour = -1 }, "GENERATION_LIMIT_PER_HOUR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}

	cfg := base()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("base config should validate, got %v", err)
	}
}
