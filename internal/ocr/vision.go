package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	ocrMaxAttempts = 3
	ocrRetryDelay  = 2 * time.Second

	// Fragments whose tops are within this many pixels are treated as one
	// visual row when ordering.
	rowBandPx = 20
)

// VisionClient runs text detection through the Google Cloud Vision REST API.
type VisionClient struct {
	BaseURL       string
	APIKey        string
	LanguageHints []string
	RetryDelay    time.Duration
	httpClient    *http.Client
}

func NewVisionClient(apiKey string) *VisionClient {
	return &VisionClient{
		BaseURL:       "https://vision.googleapis.com",
		APIKey:        apiKey,
		LanguageHints: []string{"he", "en"},
		RetryDelay:    ocrRetryDelay,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

var _ Client = (*VisionClient)(nil)

type annotateResponse struct {
	Responses []struct {
		TextAnnotations []struct {
			Description  string  `json:"description"`
			Score        float64 `json:"score"`
			Confidence   float64 `json:"confidence"`
			BoundingPoly struct {
				Vertices []struct {
					X float64 `json:"x"`
					Y float64 `json:"y"`
				} `json:"vertices"`
			} `json:"boundingPoly"`
		} `json:"textAnnotations"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	} `json:"responses"`
}

// ExtractText runs text detection with a bounded retry on transient failures.
func (c *VisionClient) ExtractText(ctx context.Context, image []byte) (*Extraction, error) {
	var extraction *Extraction

	err := retry.Do(
		func() error {
			result, err := c.annotate(ctx, image)
			if err != nil {
				return err
			}
			extraction = result
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(ocrMaxAttempts),
		retry.Delay(c.RetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(IsTransient),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}

	slog.Info("Extracted OCR text", "fragments", len(extraction.Blocks), "length", len(extraction.FullText))
	return extraction, nil
}

func (c *VisionClient) annotate(ctx context.Context, image []byte) (*Extraction, error) {
	requestBody := map[string]any{
		"requests": []map[string]any{
			{
				"image": map[string]string{
					"content": base64.StdEncoding.EncodeToString(image),
				},
				"features": []map[string]any{
					{"type": "TEXT_DETECTION"},
				},
				"imageContext": map[string]any{
					"languageHints": c.LanguageHints,
				},
			},
		},
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal OCR request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/images:annotate?key="+c.APIKey, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create OCR request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call vision API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var payload annotateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode vision response: %w", err)
	}

	if len(payload.Responses) == 0 {
		return &Extraction{}, nil
	}

	annotated := payload.Responses[0]
	if annotated.Error != nil {
		return nil, visionError(annotated.Error.Code, annotated.Error.Message)
	}

	if len(annotated.TextAnnotations) == 0 {
		return &Extraction{}, nil
	}

	extraction := &Extraction{
		FullText: annotated.TextAnnotations[0].Description,
		Blocks:   make([]Block, 0, len(annotated.TextAnnotations)-1),
	}

	for _, ann := range annotated.TextAnnotations[1:] {
		if ann.Description == "" {
			continue
		}

		minX, minY := math.MaxFloat64, math.MaxFloat64
		maxX, maxY := 0.0, 0.0
		for _, v := range ann.BoundingPoly.Vertices {
			minX = math.Min(minX, v.X)
			minY = math.Min(minY, v.Y)
			maxX = math.Max(maxX, v.X)
			maxY = math.Max(maxY, v.Y)
		}
		if len(ann.BoundingPoly.Vertices) == 0 {
			minX, minY = 0, 0
		}

		width := maxX - minX
		height := maxY - minY
		orientation := OrientationHorizontal
		if height > width {
			orientation = OrientationVertical
		}

		confidence := ann.Score
		if confidence == 0 {
			confidence = ann.Confidence
		}
		if confidence == 0 {
			confidence = 1
		}

		extraction.Blocks = append(extraction.Blocks, Block{
			Text:       ann.Description,
			Confidence: confidence,
			Position: Position{
				CenterX: (minX + maxX) / 2,
				CenterY: (minY + maxY) / 2,
				Top:     minY,
				Left:    minX,
			},
			Orientation: orientation,
		})
	}

	sortBlocks(extraction.Blocks)
	return extraction, nil
}

// sortBlocks orders fragments top-to-bottom, then left-to-right within a row
// band, so downstream summaries read like the shelf does.
func sortBlocks(blocks []Block) {
	sort.SliceStable(blocks, func(i, j int) bool {
		a, b := blocks[i].Position, blocks[j].Position
		if math.Abs(a.Top-b.Top) > rowBandPx {
			return a.Top < b.Top
		}
		return a.Left < b.Left
	})
}

// visionError maps an error embedded in a 200 annotate response onto the
// transient/permanent split. UNAVAILABLE, RESOURCE_EXHAUSTED and
// DEADLINE_EXCEEDED come back as retryable statuses.
func visionError(code int, message string) error {
	switch code {
	case 4, 8, 14:
		return &APIError{StatusCode: http.StatusServiceUnavailable, Body: message}
	default:
		return &APIError{StatusCode: http.StatusForbidden, Body: message}
	}
}
