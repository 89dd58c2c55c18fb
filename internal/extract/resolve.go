package extract

import (
	"fmt"
	"log/slog"

	"github.com/sifriya-app/shelfscan/internal/gemini"
	"github.com/sifriya-app/shelfscan/internal/ollama"
	"github.com/sifriya-app/shelfscan/internal/openai"
	"github.com/sifriya-app/shelfscan/internal/providers"
)

// ProviderSettings carries the credentials and model names resolved from
// configuration at startup.
type ProviderSettings struct {
	Order        []string
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string
	OllamaURL    string
	OllamaModel  string
}

// ResolveProvider picks the first backend in the configured order that has
// usable credentials. The choice is made once at startup and injected; no
// call path consults the environment afterwards. Ollama requires an explicit
// URL so a stray local daemon never silently shadows a misconfigured key.
func ResolveProvider(settings ProviderSettings) (providers.Provider, string, error) {
	for _, name := range settings.Order {
		switch name {
		case "gemini":
			if settings.GeminiAPIKey != "" {
				slog.Info("Using generative backend", "provider", "gemini", "model", settings.GeminiModel)
				return gemini.New(settings.GeminiAPIKey), settings.GeminiModel, nil
			}
		case "openai":
			if settings.OpenAIAPIKey != "" {
				slog.Info("Using generative backend", "provider", "openai", "model", settings.OpenAIModel)
				return openai.New(settings.OpenAIAPIKey), settings.OpenAIModel, nil
			}
		case "ollama":
			if settings.OllamaURL != "" {
				slog.Info("Using generative backend", "provider", "ollama", "model", settings.OllamaModel)
				return ollama.New(settings.OllamaURL), settings.OllamaModel, nil
			}
		default:
			return nil, "", fmt.Errorf("unsupported provider: %s", name)
		}
	}
	return nil, "", fmt.Errorf("no generative backend configured: set GEMINI_API_KEY, OPENAI_API_KEY, or OLLAMA_URL")
}
