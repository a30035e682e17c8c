package llm

// Provider constants
const (
	// DefaultProvider is the default LLM provider
	DefaultProvider = ProviderOpenAI

	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"

	// ProviderOllama runs against a local server and needs no API key.
	ProviderOllama Provider = "ollama"
)

// DefaultOllamaURL is the default URL for Ollama server
const DefaultOllamaURL = "http://localhost:11434"

// Generation defaults for study answers.
const (
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.7
)

var defaultModels = map[Provider]string{
	ProviderOpenAI:    "gpt-4",
	ProviderAnthropic: "claude-3-5-sonnet-latest",
	ProviderGemini:    "gemini-2.0-flash",
	ProviderOllama:    "llama3.2",
}

// DefaultModelForProvider returns the default model ID for a given provider,
// or "" for an unknown one.
func DefaultModelForProvider(p Provider) string {
	return defaultModels[p]
}
