package config

import (
	"testing"

	"github.com/spf13/viper"

	"github.com/josephgoksu/BibleWing/internal/llm"
)

func resetViperForTest(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		t.Setenv(k, "")
	}
}

func TestLoadLLMConfig_Defaults(t *testing.T) {
	resetViperForTest(t)
	clearProviderEnv(t)
	SetDefaults()

	cfg, err := LoadLLMConfig()
	if err != nil {
		t.Fatalf("LoadLLMConfig() error = %v", err)
	}
	if cfg.Provider != llm.ProviderOpenAI {
		t.Errorf("provider = %q, want openai", cfg.Provider)
	}
	if cfg.Model != "gpt-4" {
		t.Errorf("model = %q, want gpt-4", cfg.Model)
	}
	if cfg.APIKey != "" {
		t.Errorf("api key = %q, want empty", cfg.APIKey)
	}
	if cfg.MaxTokens != llm.DefaultMaxTokens {
		t.Errorf("max tokens = %d, want %d", cfg.MaxTokens, llm.DefaultMaxTokens)
	}
}

func TestLoadLLMConfig_Ollama(t *testing.T) {
	resetViperForTest(t)
	viper.Set("llm.provider", "ollama")

	cfg, err := LoadLLMConfig()
	if err != nil {
		t.Fatalf("LoadLLMConfig() error = %v", err)
	}
	if cfg.BaseURL != llm.DefaultOllamaURL {
		t.Errorf("base url = %q, want %q", cfg.BaseURL, llm.DefaultOllamaURL)
	}
	if cfg.Model != llm.DefaultModelForProvider(llm.ProviderOllama) {
		t.Errorf("model = %q", cfg.Model)
	}
}

func TestLoadLLMConfig_InvalidProvider(t *testing.T) {
	resetViperForTest(t)
	viper.Set("llm.provider", "watson")

	if _, err := LoadLLMConfig(); err == nil {
		t.Fatal("LoadLLMConfig() error = nil, want invalid provider")
	}
}

func TestResolveAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		provider llm.Provider
		config   map[string]string
		env      map[string]string
		want     string
	}{
		{
			name:     "config key wins over env",
			provider: llm.ProviderOpenAI,
			config:   map[string]string{"llm.apiKeys.openai": "sk-config"},
			env:      map[string]string{"OPENAI_API_KEY": "sk-env"},
			want:     "sk-config",
		},
		{
			name:     "env fallback",
			provider: llm.ProviderAnthropic,
			env:      map[string]string{"ANTHROPIC_API_KEY": " sk-ant "},
			want:     "sk-ant",
		},
		{
			name:     "gemini falls back to GOOGLE_API_KEY",
			provider: llm.ProviderGemini,
			env:      map[string]string{"GOOGLE_API_KEY": "g-key"},
			want:     "g-key",
		},
		{
			name:     "other provider key is not used",
			provider: llm.ProviderAnthropic,
			config:   map[string]string{"llm.apiKeys.openai": "sk-config"},
			want:     "",
		},
		{
			name:     "ollama has no key",
			provider: llm.ProviderOllama,
			env:      map[string]string{"OPENAI_API_KEY": "sk-env"},
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViperForTest(t)
			clearProviderEnv(t)
			for k, v := range tt.config {
				viper.Set(k, v)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if got := ResolveAPIKey(tt.provider); got != tt.want {
				t.Errorf("ResolveAPIKey(%s) = %q, want %q", tt.provider, got, tt.want)
			}
		})
	}
}
