package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sifriya-app/shelfscan/internal/detection"
	"github.com/sifriya-app/shelfscan/internal/models"
)

// Limit file size to 10MB
const maxImageBytes = 10 * 1024 * 1024

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type detectResponse struct {
	Success bool                  `json:"success"`
	ScanID  string                `json:"scanId"`
	Books   []models.EnrichedBook `json:"books"`
	Count   int                   `json:"count"`
}

// HandleDetect accepts a shelf photo, either as a multipart file or as a JSON
// body with an image_url to fetch, and returns the detected books.
func (h *Handler) HandleDetect(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	image, err := h.readImage(r)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(image) >= maxImageBytes {
		h.writeError(w, "File too large (max 10MB)", http.StatusBadRequest)
		return
	}
	imageType := http.DetectContentType(image)
	if !allowedImageTypes[imageType] {
		h.writeError(w, "Unsupported image type: "+imageType, http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.DetectTimeout)
	defer cancel()

	slog.Info("Detection request received", "bytes", len(image), "type", imageType)

	result, err := h.detector.Detect(ctx, image)
	if err != nil {
		var detErr *detection.Error
		if errors.As(err, &detErr) {
			h.writeDetectionError(w, detErr)
			return
		}
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	scan := h.saveScan(image, imageType, result)
	h.writeJSON(w, detectResponse{Success: true, ScanID: scan.ID, Books: result.Books, Count: result.Count})
}

// saveScan records a completed detection so the family can review and edit
// the books through the scans API before confirming them.
func (h *Handler) saveScan(data []byte, imageType string, result *detection.Result) *models.Scan {
	width, height := imageDimensions(data)
	scan := &models.Scan{
		ID:          uuid.NewString(),
		Books:       result.Books,
		Count:       result.Count,
		ImageType:   imageType,
		ImageWidth:  width,
		ImageHeight: height,
		CreatedAt:   time.Now(),
	}
	h.scans.Set(scan.ID, scan)
	return scan
}

// imageDimensions decodes only the header. Formats the stdlib cannot decode
// (webp) yield zero dimensions rather than an error.
func imageDimensions(data []byte) (int, int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		slog.Warn("Failed to read image dimensions", "err", err)
		return 0, 0
	}
	return cfg.Width, cfg.Height
}

// readImage pulls the image bytes out of the request: a JSON body carries an
// image_url to download, anything else is treated as a multipart upload.
func (h *Handler) readImage(r *http.Request) ([]byte, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		var request struct {
			ImageURL string `json:"image_url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		if request.ImageURL == "" {
			return nil, fmt.Errorf("image_url is required")
		}
		return h.downloadImage(r.Context(), request.ImageURL)
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		file, _, err = r.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read file contents: %w", err)
	}
	return data, nil
}

func (h *Handler) downloadImage(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid image_url: %w", err)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	slog.Info("Image downloaded", "url", imageURL, "bytes", len(data))
	return data, nil
}
