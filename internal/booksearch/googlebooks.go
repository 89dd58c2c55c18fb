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

// SourceGoogleBooks identifies results from the Google Books volumes API.
const SourceGoogleBooks = "google_books"

const googleBooksConfidence = 85

// GoogleBooks queries the Google Books volumes API. The API key is optional;
// unauthenticated requests get a lower quota.
type GoogleBooks struct {
	BaseURL    string
	APIKey     string
	httpClient *http.Client
}

func NewGoogleBooks(apiKey string) *GoogleBooks {
	return &GoogleBooks{
		BaseURL: "https://www.googleapis.com/books/v1",
		APIKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type googleBooksResponse struct {
	Items []struct {
		ID         string `json:"id"`
		VolumeInfo struct {
			Title               string            `json:"title"`
			Subtitle            string            `json:"subtitle"`
			Authors             []string          `json:"authors"`
			Publisher           string            `json:"publisher"`
			Description         string            `json:"description"`
			Categories          []string          `json:"categories"`
			PublishedDate       string            `json:"publishedDate"`
			PageCount           int               `json:"pageCount"`
			Language            string            `json:"language"`
			ImageLinks          map[string]string `json:"imageLinks"`
			IndustryIdentifiers []struct {
				Type       string `json:"type"`
				Identifier string `json:"identifier"`
			} `json:"industryIdentifiers"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// Search queries the volumes endpoint and maps each item to a SearchResult.
func (g *GoogleBooks) Search(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("printType", "books")
	if g.APIKey != "" {
		params.Set("key", g.APIKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"/volumes?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Books request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query Google Books API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google Books API returned status %d", resp.StatusCode)
	}

	var payload googleBooksResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode Google Books response: %w", err)
	}

	results := make([]models.SearchResult, 0, len(payload.Items))
	for _, item := range payload.Items {
		info := item.VolumeInfo
		if info.Title == "" {
			continue
		}

		result := models.SearchResult{
			Title:         info.Title,
			Description:   info.Description,
			Categories:    info.Categories,
			PublishedDate: info.PublishedDate,
			Publisher:     info.Publisher,
			Pages:         info.PageCount,
			Language:      info.Language,
			Source:        SourceGoogleBooks,
			Confidence:    googleBooksConfidence,
		}
		if len(info.Authors) > 0 {
			result.Author = strings.Join(info.Authors, ", ")
		}
		for _, id := range info.IndustryIdentifiers {
			if id.Type == "ISBN_13" {
				result.ISBN = id.Identifier
				break
			}
			if id.Type == "ISBN_10" && result.ISBN == "" {
				result.ISBN = id.Identifier
			}
		}
		result.CoverImageURL = googleCoverURL(info.ImageLinks)
		result.Series, result.SeriesNumber = extractSeries(info.Subtitle, info.Title, info.Description)

		results = append(results, result)
	}

	return results, nil
}

// googleCoverURL picks the largest available cover image and cleans the URL:
// https upgrade plus dropping the page-curl decoration.
func googleCoverURL(links map[string]string) string {
	for _, size := range []string{"extraLarge", "large", "medium", "small", "thumbnail", "smallThumbnail"} {
		u, ok := links[size]
		if !ok || u == "" {
			continue
		}
		u = strings.Replace(u, "http://", "https://", 1)
		u = strings.ReplaceAll(u, "&edge=curl", "")
		return u
	}
	return ""
}
