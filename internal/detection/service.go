// Package detection runs one shelf photo through the full pipeline: OCR,
// region clustering, generative candidate extraction, and metadata
// enrichment.
package detection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sifriya-app/shelfscan/internal/enrich"
	"github.com/sifriya-app/shelfscan/internal/extract"
	"github.com/sifriya-app/shelfscan/internal/models"
	"github.com/sifriya-app/shelfscan/internal/ocr"
	"github.com/sifriya-app/shelfscan/internal/providers"
)

// Job-level failure codes reported to the caller.
const (
	CodeOCRFailed        = "ocr_failed"
	CodeNoTextFound      = "no_text_found"
	CodeExtractionFailed = "extraction_failed"
)

// Error is a detection job failure. Retryable tells the caller whether the
// same image is worth resubmitting: true for transient backend trouble, false
// when the image itself cannot be processed.
type Error struct {
	Code      string
	Retryable bool
	Err       error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Code
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Result is a completed detection.
type Result struct {
	Books []models.EnrichedBook `json:"books"`
	Count int                   `json:"count"`
}

// Extractor produces validated book candidates from an image and its
// clustered OCR regions.
type Extractor interface {
	Candidates(ctx context.Context, image []byte, groups [][]ocr.Block) ([]models.DetectedBook, error)
}

var _ Extractor = (*extract.Service)(nil)

// Service wires the pipeline stages together. OCR and extraction run
// sequentially (extraction needs the OCR regions); enrichment fans out per
// candidate.
type Service struct {
	ocrClient ocr.Client
	extractor Extractor
	searcher  enrich.Searcher

	// ClusterGap is the vertical proximity threshold for region grouping.
	ClusterGap float64
}

func NewService(ocrClient ocr.Client, extractor Extractor, searcher enrich.Searcher) *Service {
	return &Service{
		ocrClient:  ocrClient,
		extractor:  extractor,
		searcher:   searcher,
		ClusterGap: ocr.DefaultClusterGap,
	}
}

// Detect processes one image and returns the enriched books found on it.
// Failures carry a job-level code and a retryable flag; an empty shelf is a
// successful result with zero books.
func (s *Service) Detect(ctx context.Context, image []byte) (*Result, error) {
	extraction, err := s.ocrClient.ExtractText(ctx, image)
	if err != nil {
		return nil, &Error{Code: CodeOCRFailed, Retryable: ocr.IsTransient(err), Err: err}
	}
	if len(extraction.Blocks) == 0 && strings.TrimSpace(extraction.FullText) == "" {
		return nil, &Error{Code: CodeNoTextFound, Err: errors.New("no readable text in the image")}
	}

	groups := ocr.GroupBlocks(extraction.Blocks, s.ClusterGap)
	slog.Info("Clustered OCR fragments", "fragments", len(extraction.Blocks), "regions", len(groups))

	candidates, err := s.extractor.Candidates(ctx, image, groups)
	if err != nil {
		return nil, &Error{Code: CodeExtractionFailed, Retryable: providers.IsTransient(err), Err: err}
	}

	books := enrich.EnrichAll(ctx, s.searcher, candidates)

	slog.Info("Detection complete", "candidates", len(candidates), "books", len(books))
	return &Result{Books: books, Count: len(books)}, nil
}
