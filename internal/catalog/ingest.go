package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sifriya-app/shelfscan/internal/models"
)

// MaxBatchSize caps one bulk ingestion request. Larger batches are rejected
// wholesale before any item is touched.
const MaxBatchSize = 50

var ErrBatchTooLarge = errors.New("batch exceeds the maximum size")

// Report aggregates per-item outcomes of one bulk ingestion. Slices are
// always non-nil so they render as empty JSON arrays.
type Report struct {
	Added        []Entry       `json:"added"`
	SkippedBooks []SkippedBook `json:"skippedBooks"`
	Failed       []ItemFailure `json:"failed"`
}

// SkippedBook is an item the family already owns.
type SkippedBook struct {
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// ItemFailure is one item that could not be ingested. It never aborts its
// siblings.
type ItemFailure struct {
	Title string `json:"title"`
	Error string `json:"error"`
}

// IngestBatch inserts the confirmed books into the catalog and links them to
// the acting family. Items are processed independently: a bad item is
// recorded as failed, a book the family already owns is recorded as skipped
// with reason "already_owned", and an entry another family already created is
// reused rather than duplicated.
func (s *Service) IngestBatch(ctx context.Context, familyID string, books []models.EnrichedBook) (*Report, error) {
	if len(books) > MaxBatchSize {
		return nil, fmt.Errorf("%w: %d books, limit is %d", ErrBatchTooLarge, len(books), MaxBatchSize)
	}

	report := &Report{
		Added:        []Entry{},
		SkippedBooks: []SkippedBook{},
		Failed:       []ItemFailure{},
	}

	for _, book := range books {
		book.Title = strings.TrimSpace(book.Title)
		if book.Title == "" {
			report.Failed = append(report.Failed, ItemFailure{Title: book.Title, Error: "title is required"})
			continue
		}
		book.ISBN = normalizeISBN(book.ISBN)

		existing, err := s.Resolve(ctx, book)
		if err != nil {
			report.Failed = append(report.Failed, ItemFailure{Title: book.Title, Error: err.Error()})
			continue
		}
		if existing != nil {
			s.adopt(ctx, familyID, existing, book.Title, report)
			continue
		}

		created, err := s.store.Insert(ctx, entryFromBook(book))
		if err != nil {
			if errors.Is(err, ErrDuplicate) {
				// A concurrent submission landed the same key first; the
				// unique violation means "duplicate found", so adopt it.
				if entry, rerr := s.Resolve(ctx, book); rerr == nil && entry != nil {
					s.adopt(ctx, familyID, entry, book.Title, report)
					continue
				}
			}
			report.Failed = append(report.Failed, ItemFailure{Title: book.Title, Error: err.Error()})
			continue
		}

		if err := s.store.LinkOwnership(ctx, familyID, created.ID); err != nil {
			report.Failed = append(report.Failed, ItemFailure{Title: book.Title, Error: err.Error()})
			continue
		}
		report.Added = append(report.Added, *created)
	}

	slog.Info("Bulk ingestion finished",
		"family", familyID,
		"added", len(report.Added),
		"skipped", len(report.SkippedBooks),
		"failed", len(report.Failed))
	return report, nil
}

// adopt links an existing entry to the family, or records it as skipped when
// the family already owns it.
func (s *Service) adopt(ctx context.Context, familyID string, entry *Entry, title string, report *Report) {
	owned, err := s.store.Owns(ctx, familyID, entry.ID)
	if err != nil {
		report.Failed = append(report.Failed, ItemFailure{Title: title, Error: err.Error()})
		return
	}
	if owned {
		report.SkippedBooks = append(report.SkippedBooks, SkippedBook{Title: title, Reason: "already_owned"})
		return
	}
	if err := s.store.LinkOwnership(ctx, familyID, entry.ID); err != nil {
		report.Failed = append(report.Failed, ItemFailure{Title: title, Error: err.Error()})
		return
	}
	report.Added = append(report.Added, *entry)
}

func entryFromBook(book models.EnrichedBook) Entry {
	return Entry{
		Title:         book.Title,
		Author:        book.Author,
		ISBN:          book.ISBN,
		Series:        book.Series,
		SeriesNumber:  book.SeriesNumber,
		Genre:         book.Genre,
		AgeRange:      book.AgeRange,
		CoverImageURL: book.CoverImageURL,
		Description:   book.Description,
		PublishedDate: book.PublishedDate,
		Publisher:     book.Publisher,
		Pages:         book.Pages,
		Language:      book.Language,
		Source:        book.Source,
	}
}
