// Package providers defines the generative backend abstraction shared by the
// Gemini, OpenAI, and Ollama clients.
package providers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"google.golang.org/api/googleapi"
)

// Config represents a single generation request.
type Config struct {
	Model       string
	Temperature float64
	Prompt      string
	// Images are raw JPEG/PNG payloads attached ahead of the prompt.
	Images [][]byte
	// JSONOnly asks the backend to emit bare JSON with no prose around it.
	JSONOnly bool
}

// Provider is a generative backend with vision support.
type Provider interface {
	Name() string
	Generate(ctx context.Context, config Config) (string, error)
}

// APIError is a non-200 response from a generative backend.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("received non-200 status code: %d - %s", e.StatusCode, e.Body)
}

// IsTransient reports whether err is worth retrying: rate limits, server-side
// errors, and transport failures. Auth errors and malformed responses are
// permanent.
func IsTransient(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}

	// The Gemini SDK surfaces HTTP failures as googleapi errors.
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code == http.StatusTooManyRequests || gErr.Code >= 500
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
