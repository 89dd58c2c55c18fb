package enrich

import (
	"github.com/sifriya-app/shelfscan/internal/models"
)

// Match score thresholds for the confidence tiers.
const (
	MediumThreshold = 40
	HighThreshold   = 70
)

// The additive match score can exceed 100 when every bonus lands.
const maxConfidenceScore = 100

// Merge combines a detected candidate with its best provider match into one
// enriched book. Below MediumThreshold (or with no match at all) the candidate
// passes through as detected, labeled low. At HighThreshold and above the
// provider record is trusted to override. In between, provider data only fills
// gaps: a medium-confidence match is close enough to supplement but too risky
// to overwrite a correctly read title or author.
func Merge(book models.DetectedBook, match *models.SearchResult, score int) models.EnrichedBook {
	enriched := models.EnrichedBook{
		Title:        book.Title,
		Author:       book.Author,
		Series:       book.Series,
		SeriesNumber: book.SeriesNumber,
		Genre:        book.Genre,
		AgeRange:     book.AgeRange,
		Confidence:   models.ConfidenceLow,
	}

	if match == nil {
		return enriched
	}

	enriched.ConfidenceScore = min(score, maxConfidenceScore)
	if score < MediumThreshold {
		return enriched
	}

	enriched.Source = match.Source
	enriched.ISBN = match.ISBN
	enriched.CoverImageURL = match.CoverImageURL
	enriched.Description = match.Description
	enriched.Categories = match.Categories
	enriched.PublishedDate = match.PublishedDate
	enriched.Publisher = match.Publisher
	enriched.Pages = match.Pages
	enriched.Language = match.Language

	if score >= HighThreshold {
		enriched.Confidence = models.ConfidenceHigh
		if match.Title != "" {
			enriched.Title = match.Title
		}
		if match.Author != "" {
			enriched.Author = match.Author
		}
		if match.Series != "" {
			enriched.Series = match.Series
		}
		if match.SeriesNumber != nil {
			enriched.SeriesNumber = match.SeriesNumber
		}
		return enriched
	}

	enriched.Confidence = models.ConfidenceMedium
	if enriched.Series == "" {
		enriched.Series = match.Series
	}
	if enriched.SeriesNumber == nil {
		enriched.SeriesNumber = match.SeriesNumber
	}
	return enriched
}
