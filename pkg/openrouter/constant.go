package openrouter

const (
	// DefaultBaseURL is the default OpenRouter API endpoint
	DefaultBaseURL = "https://openrouter.ai/api/v1"

	// DefaultModel is the default model to use
	DefaultModel = "google/gemini-flash-1.5"
)
