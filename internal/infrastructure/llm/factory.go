// Package llm selects a chat model adapter from a "provider/model" spec.
package llm

import (
	"fmt"
	"strings"

	"budget-agent/internal/application/port/output"
	"budget-agent/internal/config"
	"budget-agent/internal/infrastructure/llm/langchain"
	"budget-agent/internal/infrastructure/llm/openrouter"
)

const (
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderAnthropic  = "anthropic"
	ProviderOllama     = "ollama"
)

// New builds the LLM port for cfg.Model.
func New(cfg config.Config, logger output.LoggerPort) (output.LLMPort, error) {
	spec, err := config.ParseModelSpec(cfg.Model)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(spec.Provider) {
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, missingKey(spec, "OPENAI_API_KEY")
		}
		return openrouter.NewOpenRouterAdapter(openrouter.Config{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   spec.Model,
			BaseURL: openrouter.OpenAIBaseURL,
			Logger:  logger,
		}), nil
	case ProviderOpenRouter:
		if cfg.OpenRouterAPIKey == "" {
			return nil, missingKey(spec, "OPENROUTER_API_KEY")
		}
		c := openrouter.DefaultConfig(cfg.OpenRouterAPIKey, spec.Model)
		c.Logger = logger
		return openrouter.NewOpenRouterAdapter(c), nil
	case ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, missingKey(spec, "ANTHROPIC_API_KEY")
		}
		return langchain.NewAnthropic(cfg.AnthropicAPIKey, spec.Model, logger)
	case ProviderOllama:
		return langchain.NewOllama(cfg.OllamaURL, spec.Model, logger)
	default:
		return nil, fmt.Errorf("unsupported model provider %q", spec.Provider)
	}
}

func missingKey(spec config.ModelSpec, key string) error {
	return fmt.Errorf("model %s requires %s", spec, key)
}
