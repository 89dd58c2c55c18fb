// Package extract turns a shelf photo plus its OCR regions into validated
// book candidates via a generative vision model.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/sifriya-app/shelfscan/internal/models"
	"github.com/sifriya-app/shelfscan/internal/ocr"
	"github.com/sifriya-app/shelfscan/internal/providers"
)

const (
	extractMaxAttempts = 3
	extractRetryDelay  = 2 * time.Second

	// Low temperature for consistent, factual output.
	defaultTemperature = 0.1
)

// Service drives candidate extraction through an injected generative backend.
type Service struct {
	provider    providers.Provider
	Model       string
	Temperature float64
	RetryDelay  time.Duration
}

func NewService(provider providers.Provider, model string) *Service {
	return &Service{
		provider:    provider,
		Model:       model,
		Temperature: defaultTemperature,
		RetryDelay:  extractRetryDelay,
	}
}

// Candidates sends the image and the clustered OCR summary to the model and
// returns the validated candidates. Transient backend failures are retried;
// a response that cannot be parsed is terminal. An empty slice is a valid
// outcome for a shelf with no recognizable books.
func (s *Service) Candidates(ctx context.Context, image []byte, groups [][]ocr.Block) ([]models.DetectedBook, error) {
	prompt := buildDetectionPrompt(formatGroups(groups))

	var response string
	err := retry.Do(
		func() error {
			out, err := s.provider.Generate(ctx, providers.Config{
				Model:       s.Model,
				Temperature: s.Temperature,
				Prompt:      prompt,
				Images:      [][]byte{image},
				JSONOnly:    true,
			})
			if err != nil {
				return err
			}
			response = out
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(extractMaxAttempts),
		retry.Delay(s.RetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(providers.IsTransient),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("generative extraction failed: %w", err)
	}

	raws, err := parseCandidates(response)
	if err != nil {
		return nil, err
	}

	books := make([]models.DetectedBook, 0, len(raws))
	for _, raw := range raws {
		book, ok := toDetectedBook(raw)
		if !ok {
			slog.Warn("Dropping candidate without a usable title", "title", raw.Title)
			continue
		}
		books = append(books, book)
	}

	slog.Info("Extracted book candidates",
		"provider", s.provider.Name(),
		"model", s.Model,
		"raw", len(raws),
		"valid", len(books))
	return books, nil
}
