// Package booksearch aggregates bibliographic metadata providers behind a
// single search interface and picks the best match for a detected book.
package booksearch

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/sifriya-app/shelfscan/internal/models"
)

// SourceAuto queries providers in priority order and returns the first
// non-empty result set.
const SourceAuto = "auto"

const defaultMaxResults = 5

// SearchFunc is implemented by every metadata provider client.
type SearchFunc func(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error)

// Provider is one entry in the aggregator's lookup table.
type Provider struct {
	Name     string
	Priority int
	Enabled  bool
	Search   SearchFunc
}

// Aggregator fans a query out to configured providers. Provider errors are
// logged and swallowed: a broken provider degrades results, never the request.
type Aggregator struct {
	providers []Provider
}

// NewAggregator builds an aggregator from the configured provider table,
// ordered by ascending priority.
func NewAggregator(providers ...Provider) *Aggregator {
	table := make([]Provider, len(providers))
	copy(table, providers)
	sort.SliceStable(table, func(i, j int) bool {
		return table[i].Priority < table[j].Priority
	})
	return &Aggregator{providers: table}
}

// Search queries a named provider, or all enabled providers in priority order
// when source is "auto". An unknown or disabled source yields no results.
func (a *Aggregator) Search(ctx context.Context, query, source string, maxResults int) []models.SearchResult {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	if source == "" || source == SourceAuto {
		for _, p := range a.providers {
			if !p.Enabled {
				continue
			}
			if results := a.searchProvider(ctx, p, query, maxResults); len(results) > 0 {
				return results
			}
		}
		return nil
	}

	for _, p := range a.providers {
		if p.Name != source {
			continue
		}
		if !p.Enabled {
			slog.Warn("Metadata provider is disabled", "provider", source)
			return nil
		}
		return a.searchProvider(ctx, p, query, maxResults)
	}

	slog.Warn("Unknown metadata provider", "provider", source)
	return nil
}

func (a *Aggregator) searchProvider(ctx context.Context, p Provider, query string, maxResults int) []models.SearchResult {
	results, err := p.Search(ctx, query, maxResults)
	if err != nil {
		slog.Warn("Metadata provider search failed", "provider", p.Name, "query", query, "error", err)
		return nil
	}
	return results
}

// SearchBookDetails runs the two-step lookup for a detected book: title plus
// author first, then title alone, and returns the best match with its score.
// Returns nil when no provider had anything.
func (a *Aggregator) SearchBookDetails(ctx context.Context, book models.DetectedBook) (*models.SearchResult, int) {
	query := strings.TrimSpace(book.Title)
	if query == "" {
		return nil, 0
	}
	if book.Author != "" {
		query = query + " " + book.Author
	}

	results := a.Search(ctx, query, SourceAuto, defaultMaxResults)
	if len(results) == 0 && book.Author != "" {
		results = a.Search(ctx, strings.TrimSpace(book.Title), SourceAuto, defaultMaxResults)
	}
	if len(results) == 0 {
		return nil, 0
	}

	return BestMatch(book, results)
}
