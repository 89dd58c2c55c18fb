package booksearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sifriya-app/shelfscan/internal/models"
)

// SourceOpenLibrary identifies results from the Open Library search API.
const SourceOpenLibrary = "open_library"

const openLibraryConfidence = 70

// OpenLibrary queries the Open Library search API. Coverage of Hebrew titles
// is thin, so it sits last in the default provider order.
type OpenLibrary struct {
	BaseURL    string
	CoversURL  string
	httpClient *http.Client
}

func NewOpenLibrary() *OpenLibrary {
	return &OpenLibrary{
		BaseURL:   "https://openlibrary.org",
		CoversURL: "https://covers.openlibrary.org",
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type openLibraryResponse struct {
	Docs []struct {
		Title            string   `json:"title"`
		AuthorName       []string `json:"author_name"`
		ISBN             []string `json:"isbn"`
		CoverI           int      `json:"cover_i"`
		FirstPublishYear int      `json:"first_publish_year"`
		Publisher        []string `json:"publisher"`
		PagesMedian      int      `json:"number_of_pages_median"`
		Language         []string `json:"language"`
		Subject          []string `json:"subject"`
	} `json:"docs"`
}

// Search queries search.json and maps each doc to a SearchResult.
func (o *OpenLibrary) Search(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(maxResults))
	params.Set("fields", "title,author_name,isbn,cover_i,first_publish_year,publisher,number_of_pages_median,language,subject")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.BaseURL+"/search.json?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Open Library request: %w", err)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query Open Library: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("open Library API returned status %d", resp.StatusCode)
	}

	var payload openLibraryResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode Open Library response: %w", err)
	}

	results := make([]models.SearchResult, 0, len(payload.Docs))
	for _, doc := range payload.Docs {
		if doc.Title == "" {
			continue
		}

		result := models.SearchResult{
			Title:      doc.Title,
			Source:     SourceOpenLibrary,
			Confidence: openLibraryConfidence,
		}
		if len(doc.AuthorName) > 0 {
			result.Author = doc.AuthorName[0]
		}
		result.ISBN = pickISBN(doc.ISBN)
		if doc.CoverI > 0 {
			result.CoverImageURL = fmt.Sprintf("%s/b/id/%d-L.jpg", o.CoversURL, doc.CoverI)
		}
		if doc.FirstPublishYear > 0 {
			result.PublishedDate = strconv.Itoa(doc.FirstPublishYear)
		}
		if len(doc.Publisher) > 0 {
			result.Publisher = doc.Publisher[0]
		}
		result.Pages = doc.PagesMedian
		if len(doc.Language) > 0 {
			result.Language = doc.Language[0]
		}
		if len(doc.Subject) > 0 {
			n := min(len(doc.Subject), 5)
			result.Categories = doc.Subject[:n]
		}
		result.Series, result.SeriesNumber = extractSeries(doc.Title)

		results = append(results, result)
	}

	return results, nil
}

// pickISBN prefers an ISBN-13 over an ISBN-10.
func pickISBN(isbns []string) string {
	for _, isbn := range isbns {
		if len(isbn) == 13 {
			return isbn
		}
	}
	if len(isbns) > 0 {
		return isbns[0]
	}
	return ""
}
