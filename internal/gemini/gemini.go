package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/sifriya-app/shelfscan/internal/providers"
	"google.golang.org/api/option"
)

// Gemini is a provider for Google Gemini. The API key is injected once at
// startup rather than read from the environment on every call.
type Gemini struct {
	apiKey string
}

// New returns a new Gemini provider
func New(apiKey string) *Gemini {
	return &Gemini{apiKey: apiKey}
}

var _ providers.Provider = (*Gemini)(nil)

func (g *Gemini) Name() string {
	return "gemini"
}

// Generate runs the prompt, with any attached images, through Gemini.
func (g *Gemini) Generate(ctx context.Context, config providers.Config) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("gemini API key not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create new gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(config.Model)
	model.SetTemperature(float32(config.Temperature))
	if config.JSONOnly {
		model.ResponseMIMEType = "application/json"
	}

	parts := make([]genai.Part, 0, len(config.Images)+1)
	for _, img := range config.Images {
		parts = append(parts, genai.ImageData(imageFormat(img), img))
	}
	parts = append(parts, genai.Text(config.Prompt))

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned from Gemini")
	}

	if txt, ok := candidate.Content.Parts[0].(genai.Text); ok {
		return string(txt), nil
	}

	return "", fmt.Errorf("unexpected response format from Gemini")
}

// imageFormat sniffs the payload for the format label the SDK wants
// ("jpeg", "png", ...).
func imageFormat(data []byte) string {
	mime := http.DetectContentType(data)
	return strings.TrimPrefix(mime, "image/")
}
