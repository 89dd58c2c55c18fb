// Package dataset loads labeled match cases used to tune the match scorer
// and its confidence thresholds offline.
package dataset

import "github.com/sifriya-app/shelfscan/internal/models"

// MatchCase is one labeled scoring case: a detected book as the vision model
// produced it, the candidate records a metadata provider returned for it, and
// the tier a human labeler says the best match deserves.
type MatchCase struct {
	ID string `json:"id" parquet:"id"`

	// Detected book fields, straight from extraction. A zero series number
	// means the spine carried none.
	DetectedTitle        string `json:"detected_title" parquet:"detected_title"`
	DetectedAuthor       string `json:"detected_author" parquet:"detected_author"`
	DetectedSeries       string `json:"detected_series" parquet:"detected_series"`
	DetectedSeriesNumber int    `json:"detected_series_number" parquet:"detected_series_number"`

	Candidates []CandidateRecord `json:"candidates" parquet:"candidates,list"`

	// WantTier is the labeled outcome: high, medium or low.
	WantTier string `json:"want_tier" parquet:"want_tier"`
	// WantISBN names the candidate that should win, empty when the tier
	// alone is being checked.
	WantISBN string `json:"want_isbn" parquet:"want_isbn"`
}

// CandidateRecord is a provider search result captured into the dataset.
type CandidateRecord struct {
	Title        string `json:"title" parquet:"title"`
	Author       string `json:"author" parquet:"author"`
	Series       string `json:"series" parquet:"series"`
	SeriesNumber int    `json:"series_number" parquet:"series_number"`
	ISBN         string `json:"isbn" parquet:"isbn"`
	CoverURL     string `json:"cover_url" parquet:"cover_url"`
	Description  string `json:"description" parquet:"description"`
	Source       string `json:"source" parquet:"source"`
}

// DetectedBook converts the captured detection fields back into the runtime
// shape the scorer consumes.
func (c *MatchCase) DetectedBook() models.DetectedBook {
	book := models.DetectedBook{
		Title:  c.DetectedTitle,
		Author: c.DetectedAuthor,
		Series: c.DetectedSeries,
	}
	if c.DetectedSeriesNumber > 0 {
		n := c.DetectedSeriesNumber
		book.SeriesNumber = &n
	}
	return book
}

// SearchResults converts the captured candidates into provider results.
func (c *MatchCase) SearchResults() []models.SearchResult {
	results := make([]models.SearchResult, 0, len(c.Candidates))
	for _, cand := range c.Candidates {
		result := models.SearchResult{
			Title:         cand.Title,
			Author:        cand.Author,
			Series:        cand.Series,
			ISBN:          cand.ISBN,
			CoverImageURL: cand.CoverURL,
			Description:   cand.Description,
			Source:        cand.Source,
		}
		if cand.SeriesNumber > 0 {
			n := cand.SeriesNumber
			result.SeriesNumber = &n
		}
		results = append(results, result)
	}
	return results
}
