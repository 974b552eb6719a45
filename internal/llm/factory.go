package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenthands/quorum/internal/config"
)

// NewExtractor builds the client for one configured backend. Providers
// sharing the OpenAI wire format differ only in base URL.
func NewExtractor(ctx context.Context, cfg config.BackendConfig) (StructuredExtractor, error) {
	provider := strings.ToLower(cfg.Provider)
	apiKey := cfg.ResolveAPIKey()

	switch provider {
	case "openai":
		return NewOpenAIClient(apiKey, cfg.ModelName, cfg.BaseURL), nil

	case "deepseek":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "https://api.deepseek.com"
		}
		return NewOpenAIClient(apiKey, cfg.ModelName, baseURL), nil

	case "grok":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "https://api.x.ai/v1"
		}
		return NewOpenAIClient(apiKey, cfg.ModelName, baseURL), nil

	case "ollama":
		// Ollama exposes an OpenAI-compatible endpoint under /v1 and
		// ignores the API key, but the client config requires one.
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		if !strings.HasSuffix(baseURL, "/v1") {
			baseURL = fmt.Sprintf("%s/v1", strings.TrimRight(baseURL, "/"))
		}
		if apiKey == "" {
			apiKey = "ollama"
		}
		return NewOpenAIClient(apiKey, cfg.ModelName, baseURL), nil

	case "gemini":
		return NewGeminiClient(ctx, apiKey, cfg.ModelName)

	case "claude":
		return NewClaudeClient(apiKey, cfg.ModelName, cfg.BaseURL), nil

	default:
		return nil, fmt.Errorf("unsupported backend provider: %s", cfg.Provider)
	}
}
