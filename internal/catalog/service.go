package catalog

import (
	"context"
	"strings"

	"github.com/sifriya-app/shelfscan/internal/models"
)

// Service wraps a Store with deduplication and bulk ingestion.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Resolve finds the existing catalog entry for a proposed book, or returns
// nil when a new entry should be created. Lookup order:
//
//  1. ISBN, only when it is long enough to be trustworthy. Scanned spines
//     produce truncated artifacts like "978" that must never act as keys.
//  2. With a series: title, author, and series must all match, and the series
//     numbers must be both absent or equal. Neighboring volumes of one series
//     share everything but the number and must not collapse together.
//  3. Without a series: title and author must match and the stored entry must
//     have no series either.
func (s *Service) Resolve(ctx context.Context, book models.EnrichedBook) (*Entry, error) {
	if isbn := normalizeISBN(book.ISBN); usableISBN(isbn) {
		entry, err := s.store.FindByISBN(ctx, isbn)
		if err != nil {
			return nil, err
		}
		if entry != nil {
			return entry, nil
		}
	}

	candidates, err := s.store.FindByTitleAuthor(ctx, book.Title, book.Author)
	if err != nil {
		return nil, err
	}

	if book.Series != "" {
		for i := range candidates {
			entry := &candidates[i]
			if strings.EqualFold(entry.Series, book.Series) && sameSeriesNumber(entry.SeriesNumber, book.SeriesNumber) {
				return entry, nil
			}
		}
		return nil, nil
	}

	for i := range candidates {
		if candidates[i].Series == "" {
			return &candidates[i], nil
		}
	}
	return nil, nil
}

// normalizeISBN strips separators and maps the "no ISBN" placeholders the
// scanning pipeline produces to an empty string.
func normalizeISBN(isbn string) string {
	cleaned := strings.TrimSpace(isbn)
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if cleaned == "0" {
		return ""
	}
	return cleaned
}

// usableISBN reports whether an ISBN is a valid lookup key. Anything shorter
// than ISBN-10 is an OCR artifact, not an identifier.
func usableISBN(isbn string) bool {
	return isbn != "" && isbn != "0" && len(isbn) >= 10
}

func sameSeriesNumber(a, b *int) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
