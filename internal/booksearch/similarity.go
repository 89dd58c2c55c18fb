package booksearch

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// normalizeText prepares a string for comparison: lowercase, niqqud and other
// combining marks stripped, punctuation removed, whitespace collapsed.
func normalizeText(text string) string {
	text = strings.ToLower(text)
	text = stripMarks(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// stripMarks removes combining marks (Hebrew niqqud, Latin accents) by
// decomposing, dropping the mark runes, and recomposing.
func stripMarks(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}

// similarity scores two strings in [0,1] as (maxLen - levenshtein) / maxLen
// over their normalized forms.
func similarity(a, b string) float64 {
	na := normalizeText(a)
	nb := normalizeText(b)

	if na == "" && nb == "" {
		return 1.0
	}
	if na == "" || nb == "" {
		return 0.0
	}
	if na == nb {
		return 1.0
	}

	distance := levenshteinDistance(na, nb)
	maxLen := max(len([]rune(na)), len([]rune(nb)))
	return float64(maxLen-distance) / float64(maxLen)
}

// authorSimilarity compares author names with surname-aware heuristics. Names
// routinely differ by initials, ordering, or transliteration, so plain edit
// distance underscores real matches.
func authorSimilarity(a, b string) float64 {
	na := normalizeText(a)
	nb := normalizeText(b)

	if na == "" || nb == "" {
		return 0.0
	}
	if na == nb {
		return 1.0
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return 0.85
	}

	tokensA := strings.Fields(na)
	tokensB := strings.Fields(nb)

	// Surname comparison: last token of each name.
	lastA := tokensA[len(tokensA)-1]
	lastB := tokensB[len(tokensB)-1]
	if lastA == lastB {
		return 0.9
	}
	if similarity(lastA, lastB) > 0.8 {
		return 0.8
	}

	// Count name parts shared between the two, ignoring initials.
	shared := 0
	for _, ta := range tokensA {
		if len([]rune(ta)) <= 1 {
			continue
		}
		for _, tb := range tokensB {
			if len([]rune(tb)) <= 1 {
				continue
			}
			if similarity(ta, tb) > 0.85 {
				shared++
				break
			}
		}
	}
	if shared > 0 {
		return 0.6 + 0.15*float64(shared)
	}

	return similarity(na, nb)
}

// levenshteinDistance calculates edit distance over runes so Hebrew text is
// measured per letter, not per byte.
func levenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}

	r1 := []rune(s1)
	r2 := []rune(s2)

	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	rows := len(r1) + 1
	cols := len(r2) + 1
	matrix := make([][]int, rows)
	for i := range matrix {
		matrix[i] = make([]int, cols)
	}

	for i := 0; i < rows; i++ {
		matrix[i][0] = i
	}
	for j := 0; j < cols; j++ {
		matrix[0][j] = j
	}

	for i := 1; i < rows; i++ {
		for j := 1; j < cols; j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}

			deletion := matrix[i-1][j] + 1
			insertion := matrix[i][j-1] + 1
			substitution := matrix[i-1][j-1] + cost

			matrix[i][j] = min(deletion, min(insertion, substitution))
		}
	}

	return matrix[rows-1][cols-1]
}
