package booksearch

import (
	"strings"
	"unicode/utf8"

	"github.com/sifriya-app/shelfscan/internal/models"
)

// BestMatch scores every result against the detected book and returns the
// highest scorer with its score. Ties keep the earliest result. Returns nil
// when results is empty.
func BestMatch(book models.DetectedBook, results []models.SearchResult) (*models.SearchResult, int) {
	var best *models.SearchResult
	bestScore := 0

	for i := range results {
		score := matchScore(book, results[i])
		if best == nil || score > bestScore {
			best = &results[i]
			bestScore = score
		}
	}

	return best, bestScore
}

// Score rates one provider result against the detected book. Exposed for the
// eval tooling; the live pipeline goes through BestMatch.
func Score(book models.DetectedBook, result models.SearchResult) int {
	return matchScore(book, result)
}

// matchScore rates how well a provider result matches the detected book.
// The weights are tuned against labeled shelf photos; the eval harness under
// internal/eval is how they get re-tuned, not ad-hoc edits here.
func matchScore(book models.DetectedBook, result models.SearchResult) int {
	score := 0

	bookTitle := normalizeText(book.Title)
	resultTitle := normalizeText(result.Title)

	switch {
	case bookTitle != "" && bookTitle == resultTitle:
		score += 60
	case bookTitle != "" && resultTitle != "" &&
		(strings.Contains(bookTitle, resultTitle) || strings.Contains(resultTitle, bookTitle)):
		score += 50
	default:
		titleSim := similarity(book.Title, result.Title)
		switch {
		case titleSim > 0.8:
			score += 45
		case titleSim > 0.6:
			score += 30
		case titleSim > 0.4:
			score += 15
		}
	}

	if book.Author != "" && result.Author != "" {
		authorSim := authorSimilarity(book.Author, result.Author)
		switch {
		case authorSim > 0.9:
			score += 30
		case authorSim > 0.7:
			score += 25
		case authorSim > 0.5:
			score += 15
		case authorSim > 0.3:
			score += 5
		}
	}

	// Completeness bonuses: richer records make better catalog entries.
	if result.ISBN != "" {
		score += 10
	}
	if result.CoverImageURL != "" {
		score += 5
	}
	if utf8.RuneCountInString(result.Description) > 100 {
		score += 5
	}

	return score
}
