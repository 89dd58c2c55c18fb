// Package catalog persists deduplicated book entries and the per-family
// ownership links that reference them.
package catalog

import (
	"context"
	"errors"
)

// ErrDuplicate is returned by Store.Insert when the entry's identity key is
// already taken. Concurrent submissions of the same book race on
// check-then-insert, so the unique violation is handled as "duplicate found"
// rather than as a failure.
var ErrDuplicate = errors.New("catalog entry already exists")

// Entry is one deduplicated catalog record. The identity key is the ISBN, or
// the (title, author, series, series_number) tuple when no trustworthy ISBN
// exists. Entries are shared between families and never mutated after
// creation.
type Entry struct {
	ID            string `json:"id,omitempty"`
	Title         string `json:"title"`
	Author        string `json:"author,omitempty"`
	ISBN          string `json:"isbn,omitempty"`
	Series        string `json:"series,omitempty"`
	SeriesNumber  *int   `json:"series_number,omitempty"`
	Genre         string `json:"genre,omitempty"`
	AgeRange      string `json:"age_range,omitempty"`
	CoverImageURL string `json:"cover_image_url,omitempty"`
	Description   string `json:"description,omitempty"`
	PublishedDate string `json:"published_date,omitempty"`
	Publisher     string `json:"publisher,omitempty"`
	Pages         int    `json:"pages,omitempty"`
	Language      string `json:"language,omitempty"`
	Source        string `json:"source,omitempty"`
}

// Store is the catalog persistence contract. Lookups return nil (not an
// error) when nothing matches. Title and author matching is case-insensitive
// and exact.
type Store interface {
	FindByISBN(ctx context.Context, isbn string) (*Entry, error)
	FindByTitleAuthor(ctx context.Context, title, author string) ([]Entry, error)
	Insert(ctx context.Context, entry Entry) (*Entry, error)
	Owns(ctx context.Context, familyID, entryID string) (bool, error)
	LinkOwnership(ctx context.Context, familyID, entryID string) error
}
