package cmd

import (
	"fmt"
	"log/slog"

	"github.com/sifriya-app/shelfscan/internal/booksearch"
	"github.com/sifriya-app/shelfscan/internal/catalog"
	"github.com/sifriya-app/shelfscan/internal/config"
	"github.com/sifriya-app/shelfscan/internal/detection"
	"github.com/sifriya-app/shelfscan/internal/extract"
	"github.com/sifriya-app/shelfscan/internal/ocr"
)

// buildDetector wires the full detection pipeline from configuration.
// Credential problems surface here, at startup, not on the first request.
func buildDetector(cfg *config.Config) (*detection.Service, error) {
	if cfg.OCR.APIKey == "" {
		return nil, fmt.Errorf("OCR is not configured: set GOOGLE_VISION_API_KEY")
	}

	visionClient := ocr.NewVisionClient(cfg.OCR.APIKey)
	if len(cfg.OCR.LanguageHints) > 0 {
		visionClient.LanguageHints = cfg.OCR.LanguageHints
	}

	provider, model, err := extract.ResolveProvider(extract.ProviderSettings{
		Order:        cfg.Inference.Order,
		GeminiAPIKey: cfg.Inference.GeminiAPIKey,
		GeminiModel:  cfg.Inference.GeminiModel,
		OpenAIAPIKey: cfg.Inference.OpenAIAPIKey,
		OpenAIModel:  cfg.Inference.OpenAIModel,
		OllamaURL:    cfg.Inference.OllamaURL,
		OllamaModel:  cfg.Inference.OllamaModel,
	})
	if err != nil {
		return nil, err
	}
	extractor := extract.NewService(provider, model)

	return detection.NewService(visionClient, extractor, buildAggregator(cfg)), nil
}

// buildAggregator assembles the metadata provider table from configuration.
func buildAggregator(cfg *config.Config) *booksearch.Aggregator {
	var table []booksearch.Provider
	for name, pc := range cfg.Search {
		p := booksearch.Provider{Name: name, Priority: pc.Priority, Enabled: pc.Enabled}

		switch name {
		case "simania":
			client := booksearch.NewSimania()
			if pc.BaseURL != "" {
				client.BaseURL = pc.BaseURL
			}
			p.Search = client.Search
		case "google_books":
			client := booksearch.NewGoogleBooks(pc.APIKey)
			if pc.BaseURL != "" {
				client.BaseURL = pc.BaseURL
			}
			p.Search = client.Search
		case "open_library":
			client := booksearch.NewOpenLibrary()
			if pc.BaseURL != "" {
				client.BaseURL = pc.BaseURL
			}
			p.Search = client.Search
		default:
			slog.Warn("Unknown search provider in config", "provider", name)
			continue
		}

		table = append(table, p)
	}

	return booksearch.NewAggregator(table...)
}

// buildCatalog picks the catalog store backend from configuration.
func buildCatalog(cfg *config.Config) (*catalog.Service, error) {
	switch cfg.Catalog.Backend {
	case "", "memory":
		return catalog.NewService(catalog.NewMemStore()), nil
	case "rest":
		if cfg.Catalog.BaseURL == "" {
			return nil, fmt.Errorf("catalog backend %q requires catalog.base_url", cfg.Catalog.Backend)
		}
		return catalog.NewService(catalog.NewRESTStore(cfg.Catalog.BaseURL, cfg.Catalog.APIKey)), nil
	default:
		return nil, fmt.Errorf("unsupported catalog backend: %s", cfg.Catalog.Backend)
	}
}
