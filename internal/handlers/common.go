// Package handlers implements the HTTP surface: shelf photo detection, scan
// review and bulk catalog ingestion.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/sifriya-app/shelfscan/internal/catalog"
	"github.com/sifriya-app/shelfscan/internal/detection"
	"github.com/sifriya-app/shelfscan/internal/models"
	"github.com/sifriya-app/shelfscan/internal/storage"
)

// Detector runs one image through the detection pipeline.
type Detector interface {
	Detect(ctx context.Context, image []byte) (*detection.Result, error)
}

// Ingestor persists a confirmed batch for a family.
type Ingestor interface {
	IngestBatch(ctx context.Context, familyID string, books []models.EnrichedBook) (*catalog.Report, error)
}

type Handler struct {
	detector Detector
	ingestor Ingestor
	scans    *storage.ScanStore

	// DetectTimeout is the wall-clock ceiling for one detection job.
	DetectTimeout time.Duration

	httpClient *http.Client
}

func New(detector Detector, ingestor Ingestor) *Handler {
	return &Handler{
		detector:      detector,
		ingestor:      ingestor,
		scans:         storage.New(),
		DetectTimeout: 10 * time.Minute,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(map[string]any{"success": false, "error": message}); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

// Scan helpers
func (h *Handler) getScanOrError(w http.ResponseWriter, scanID string) (*models.Scan, bool) {
	scan, exists := h.scans.Get(scanID)
	if !exists {
		h.writeError(w, "Scan not found", http.StatusNotFound)
		return nil, false
	}
	return scan, true
}

// writeDetectionError reports a failed detection job with its machine-readable
// code and the retry hint.
func (h *Handler) writeDetectionError(w http.ResponseWriter, detErr *detection.Error) {
	status := http.StatusBadGateway
	if detErr.Retryable {
		status = http.StatusServiceUnavailable
	} else if detErr.Code == detection.CodeNoTextFound {
		status = http.StatusUnprocessableEntity
	}

	slog.Error("Detection failed", "code", detErr.Code, "retryable", detErr.Retryable, "err", detErr.Err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	payload := map[string]any{
		"success":   false,
		"error":     detErr.Error(),
		"code":      detErr.Code,
		"retryable": detErr.Retryable,
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}
