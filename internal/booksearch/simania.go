package booksearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sifriya-app/shelfscan/internal/models"
)

// SourceSimania identifies results from the Hebrew-language Simania catalog.
const SourceSimania = "simania"

const simaniaConfidence = 80

// Simania queries the Simania search endpoint. Hebrew titles resolve far
// better here than on the international providers.
type Simania struct {
	BaseURL    string
	httpClient *http.Client
}

func NewSimania() *Simania {
	return &Simania{
		BaseURL: "https://simania.co.il",
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type simaniaResponse struct {
	Books []struct {
		Title       string   `json:"title"`
		Author      string   `json:"author"`
		ISBN        string   `json:"isbn"`
		Cover       string   `json:"cover"`
		Description string   `json:"description"`
		Series      string   `json:"series"`
		Year        string   `json:"year"`
		Publisher   string   `json:"publisher"`
		Pages       int      `json:"pages"`
		Categories  []string `json:"categories"`
	} `json:"books"`
}

// Search queries the catalog and maps each record to a SearchResult.
func (s *Simania) Search(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/api/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Simania request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query Simania: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("simania returned status %d", resp.StatusCode)
	}

	var payload simaniaResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode Simania response: %w", err)
	}

	results := make([]models.SearchResult, 0, len(payload.Books))
	for _, book := range payload.Books {
		if book.Title == "" {
			continue
		}

		result := models.SearchResult{
			Title:         book.Title,
			Author:        book.Author,
			ISBN:          book.ISBN,
			Description:   book.Description,
			Categories:    book.Categories,
			PublishedDate: book.Year,
			Publisher:     book.Publisher,
			Pages:         book.Pages,
			Language:      "he",
			CoverImageURL: s.resolveCoverURL(book.Cover),
			Source:        SourceSimania,
			Confidence:    simaniaConfidence,
		}

		// The series field often carries the "<series>, חלק N" convention;
		// some records put it in the title instead.
		series, number := extractSeries(book.Series, book.Title)
		if series == "" && book.Series != "" {
			series = strings.TrimSpace(book.Series)
		}
		result.Series = series
		result.SeriesNumber = number

		results = append(results, result)
	}

	return results, nil
}

// resolveCoverURL turns the catalog's relative image paths into absolute
// https URLs.
func (s *Simania) resolveCoverURL(cover string) string {
	cover = strings.TrimSpace(cover)
	if cover == "" {
		return ""
	}
	if strings.HasPrefix(cover, "http://") {
		return strings.Replace(cover, "http://", "https://", 1)
	}
	if strings.HasPrefix(cover, "https://") {
		return cover
	}
	if strings.HasPrefix(cover, "/") {
		return s.BaseURL + cover
	}
	return s.BaseURL + "/" + cover
}
