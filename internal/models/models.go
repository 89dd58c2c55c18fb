package models

import "time"

// Confidence is the enrichment tier attached to every detected book.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// DetectedBook is a validated candidate produced by the vision model from a
// shelf photo. Only Title is guaranteed non-empty.
type DetectedBook struct {
	Title        string `json:"title"`
	Author       string `json:"author,omitempty"`
	Series       string `json:"series,omitempty"`
	SeriesNumber *int   `json:"series_number"`
	Genre        string `json:"genre,omitempty"`
	AgeRange     string `json:"age_range,omitempty"`
}

// SearchResult is a normalized bibliographic record returned by a metadata
// provider. Confidence is the provider's static prior, not a match score.
type SearchResult struct {
	Title         string   `json:"title"`
	Author        string   `json:"author,omitempty"`
	ISBN          string   `json:"isbn,omitempty"`
	CoverImageURL string   `json:"coverImageUrl,omitempty"`
	Description   string   `json:"description,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	PublishedDate string   `json:"publishedDate,omitempty"`
	Publisher     string   `json:"publisher,omitempty"`
	Pages         int      `json:"pages,omitempty"`
	Language      string   `json:"language,omitempty"`
	Series        string   `json:"series,omitempty"`
	SeriesNumber  *int     `json:"series_number,omitempty"`
	Source        string   `json:"source"`
	Confidence    int      `json:"confidence"`
}

// EnrichedBook is a detected candidate merged with its best provider match.
// It is both the detect response item and the bulk-ingest request item.
type EnrichedBook struct {
	Title           string     `json:"title"`
	Author          string     `json:"author,omitempty"`
	Series          string     `json:"series,omitempty"`
	SeriesNumber    *int       `json:"series_number"`
	Genre           string     `json:"genre,omitempty"`
	AgeRange        string     `json:"age_range,omitempty"`
	ISBN            string     `json:"isbn,omitempty"`
	CoverImageURL   string     `json:"coverImageUrl,omitempty"`
	Description     string     `json:"description,omitempty"`
	Categories      []string   `json:"categories,omitempty"`
	PublishedDate   string     `json:"publishedDate,omitempty"`
	Publisher       string     `json:"publisher,omitempty"`
	Pages           int        `json:"pages,omitempty"`
	Language        string     `json:"language,omitempty"`
	Confidence      Confidence `json:"confidence"`
	ConfidenceScore int        `json:"confidenceScore"`
	Source          string     `json:"source,omitempty"`
}

// Scan is one processed shelf photo held for review. The detected books stay
// editable through the scans API until the family confirms them into the
// catalog.
type Scan struct {
	ID          string         `json:"id"`
	Books       []EnrichedBook `json:"books"`
	Count       int            `json:"count"`
	ImageType   string         `json:"image_type"`
	ImageWidth  int            `json:"image_width"`
	ImageHeight int            `json:"image_height"`
	CreatedAt   time.Time      `json:"created_at"`
}
