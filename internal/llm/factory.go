package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"school-advisor/internal/config"
)

const advisorSystemPrompt = "You are a school and career advisor. Follow the requested output format exactly."

// NewFromConfig arma el cliente del proveedor configurado envuelto en el breaker.
func NewFromConfig(ctx context.Context, cfg *config.Config, logger *zap.Logger) (LLMClient, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	if provider == "" {
		provider = "openai"
	}

	var inner LLMClient
	switch provider {
	case "openai":
		inner = NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, logger,
			WithSystemPrompt(advisorSystemPrompt),
			WithTemperature(0.2),
		)
	case "gemini":
		gc, err := NewGeminiClient(ctx, cfg.LLMAPIKey, cfg.LLMModel)
		if err != nil {
			return nil, err
		}
		inner = gc
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}

	return WithBreaker(inner, BreakerConfig{
		Name:             "llm-" + provider,
		FailureThreshold: cfg.LLMBreakerFailures,
		Cooldown:         cfg.BreakerCooldown(),
	}, logger), nil
}
