package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/josephgoksu/BibleWing/internal/llm"
)

func setLLMDefaults() {
	viper.SetDefault("llm.provider", string(llm.DefaultProvider))
	viper.SetDefault("llm.model", "")
	viper.SetDefault("llm.baseURL", "")
	viper.SetDefault("llm.maxTokens", llm.DefaultMaxTokens)
	viper.SetDefault("llm.temperature", llm.DefaultTemperature)
}

// LoadLLMConfig loads LLM configuration from Viper and Environment variables.
// It handles precedence: Explicit Viper Config > Environment Variables > Defaults.
// A missing API key is not an error here; the assistant reports it when used.
func LoadLLMConfig() (llm.Config, error) {
	// 1. Provider
	provider := viper.GetString("llm.provider")
	if provider == "" {
		provider = string(llm.DefaultProvider)
	}

	llmProvider, err := llm.ValidateProvider(provider)
	if err != nil {
		return llm.Config{}, fmt.Errorf("invalid provider: %w", err)
	}

	// 2. Model
	model := viper.GetString("llm.model")
	if model == "" {
		model = llm.DefaultModelForProvider(llmProvider)
	}

	// 3. Base URL (Ollama)
	baseURL := viper.GetString("llm.baseURL")
	if baseURL == "" && llmProvider == llm.ProviderOllama {
		baseURL = llm.DefaultOllamaURL
	}

	return llm.Config{
		Provider:    llmProvider,
		Model:       model,
		APIKey:      ResolveAPIKey(llmProvider),
		BaseURL:     baseURL,
		MaxTokens:   viper.GetInt("llm.maxTokens"),
		Temperature: float32(viper.GetFloat64("llm.temperature")),
	}, nil
}

// ResolveAPIKey returns the API key for the given provider: the per-provider
// config key (llm.apiKeys.<provider>) first, then the provider's env var.
func ResolveAPIKey(provider llm.Provider) string {
	path := fmt.Sprintf("llm.apiKeys.%s", provider)
	if viper.IsSet(path) {
		if key := strings.TrimSpace(viper.GetString(path)); key != "" {
			return key
		}
	}
	return providerEnvKey(provider)
}

func providerEnvKey(provider llm.Provider) string {
	switch provider {
	case llm.ProviderOpenAI:
		return strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	case llm.ProviderAnthropic:
		return strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	case llm.ProviderGemini:
		key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
		if key == "" {
			key = strings.TrimSpace(os.Getenv("GOOGLE_API_KEY"))
		}
		return key
	default:
		return ""
	}
}
