// Package ocr extracts positional text fragments from shelf photos and
// groups them into physical text regions.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
)

// Block orientations as reported with each fragment.
const (
	OrientationHorizontal = "horizontal"
	OrientationVertical   = "vertical"
)

// Position locates a text fragment on the source image, in pixels.
type Position struct {
	CenterX float64 `json:"centerX"`
	CenterY float64 `json:"centerY"`
	Top     float64 `json:"top"`
	Left    float64 `json:"left"`
}

// Block is a single recognized text fragment.
type Block struct {
	Text        string   `json:"text"`
	Confidence  float64  `json:"confidence"`
	Position    Position `json:"position"`
	Orientation string   `json:"orientation"`
}

// Extraction is the full OCR result for one image. Blocks are ordered
// top-to-bottom, left-to-right within a 20px row band.
type Extraction struct {
	FullText string  `json:"fullText"`
	Blocks   []Block `json:"blocks"`
}

// Client is the OCR backend abstraction.
type Client interface {
	ExtractText(ctx context.Context, image []byte) (*Extraction, error)
}

// APIError is a non-200 response from the OCR backend.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("OCR API returned status %d: %s", e.StatusCode, e.Body)
}

// IsTransient reports whether err is worth retrying: rate limits, server-side
// errors, and transport failures. Auth failures and malformed responses are
// permanent.
func IsTransient(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	// DNS and connection failures surface as *url.Error from the client.
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
