package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/sifriya-app/shelfscan/internal/models"
)

// rawCandidate is one entry of the model's JSON array before validation.
// series_number arrives as a number, a string, or garbage, so it stays loose
// until normalizeSeriesNumber has a look.
type rawCandidate struct {
	Title        string `json:"title"`
	Author       string `json:"author"`
	Series       string `json:"series"`
	SeriesNumber any    `json:"series_number"`
	Genre        string `json:"genre"`
	AgeRange     string `json:"age_range"`
}

// parseCandidates recovers the book array from a model response. Models that
// were told "JSON array only" still wrap output in markdown fences, nest it
// under a "books" key, or pad it with prose, so parsing degrades gracefully:
// direct array, fence-stripped array, wrapper object, first bracketed slice.
func parseCandidates(response string) ([]rawCandidate, error) {
	cleaned := strings.TrimSpace(response)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var list []rawCandidate
	if err := json.Unmarshal([]byte(cleaned), &list); err == nil {
		return list, nil
	}

	var wrapper struct {
		Books []rawCandidate `json:"books"`
	}
	if err := json.Unmarshal([]byte(cleaned), &wrapper); err == nil && wrapper.Books != nil {
		return wrapper.Books, nil
	}

	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start != -1 && end > start {
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), &list); err == nil {
			return list, nil
		}
	}

	return nil, fmt.Errorf("model response contains no parsable book array")
}

// toDetectedBook validates and normalizes one raw candidate. A candidate
// without at least two meaningful title characters is noise and gets dropped.
func toDetectedBook(raw rawCandidate) (models.DetectedBook, bool) {
	title := strings.TrimSpace(raw.Title)
	if meaningfulRunes(title) < 2 {
		return models.DetectedBook{}, false
	}

	book := models.DetectedBook{
		Title:        title,
		Author:       strings.TrimSpace(raw.Author),
		Series:       strings.TrimSpace(raw.Series),
		SeriesNumber: normalizeSeriesNumber(raw.SeriesNumber),
	}

	// Off-vocabulary values are cleared rather than failing the candidate.
	if genre := strings.TrimSpace(raw.Genre); models.IsGenre(genre) {
		book.Genre = genre
	}
	if age := strings.TrimSpace(raw.AgeRange); models.IsAgeRange(age) {
		book.AgeRange = age
	}

	return book, true
}

func meaningfulRunes(s string) int {
	count := 0
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			count++
		}
	}
	return count
}

var reDigits = regexp.MustCompile(`\d+`)

// normalizeSeriesNumber coerces whatever the model produced into an integer:
// numbers pass through, strings give up their first digit run
// ("1 (כרך ראשון)" becomes 1), anything else is null.
func normalizeSeriesNumber(v any) *int {
	switch n := v.(type) {
	case float64:
		i := int(n)
		return &i
	case string:
		if m := reDigits.FindString(n); m != "" {
			if i, err := strconv.Atoi(m); err == nil {
				return &i
			}
		}
	}
	return nil
}
