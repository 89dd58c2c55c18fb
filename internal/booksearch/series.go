package booksearch

import (
	"regexp"
	"strconv"
	"strings"
)

// Series markers found in provider title/subtitle/description fields. The
// Hebrew pattern is the "<series>, חלק N" convention Hebrew publishers use.
var (
	reSeriesHebrew = regexp.MustCompile(`^(.+?),\s*חלק\s*(\d+)`)
	reSeriesBookOf = regexp.MustCompile(`(?i)\bbook\s+(\d+)\s+of\s+(?:the\s+)?([^.,;\n]+)`)
	reSeriesHash   = regexp.MustCompile(`^(.+?)\s*#\s*(\d+)\s*$`)
)

// extractSeries scans semi-structured text fields for a series name and
// number. Fields are tried in order, first hit wins.
func extractSeries(fields ...string) (string, *int) {
	for _, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		if m := reSeriesHebrew.FindStringSubmatch(field); m != nil {
			return strings.TrimSpace(m[1]), atoiPtr(m[2])
		}
		if m := reSeriesBookOf.FindStringSubmatch(field); m != nil {
			name := strings.TrimSpace(m[2])
			name = strings.TrimSuffix(name, " series")
			name = strings.TrimSuffix(name, " Series")
			return strings.TrimSpace(name), atoiPtr(m[1])
		}
		if m := reSeriesHash.FindStringSubmatch(field); m != nil {
			return strings.TrimSpace(m[1]), atoiPtr(m[2])
		}
	}
	return "", nil
}

func atoiPtr(s string) *int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}
