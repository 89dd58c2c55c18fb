// Package enrich merges detected book candidates with provider metadata and
// derives the confidence tier shown to the user.
package enrich

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/sifriya-app/shelfscan/internal/models"
)

// searchConcurrency bounds the number of provider lookups in flight for one
// detection job.
const searchConcurrency = 4

// Searcher runs the two-step metadata lookup for one candidate.
type Searcher interface {
	SearchBookDetails(ctx context.Context, book models.DetectedBook) (*models.SearchResult, int)
}

// EnrichAll looks up every candidate concurrently and merges the results
// positionally. Candidates are independent: one lookup coming back empty or
// canceled degrades that candidate to low confidence and nothing else.
func EnrichAll(ctx context.Context, searcher Searcher, candidates []models.DetectedBook) []models.EnrichedBook {
	enriched := make([]models.EnrichedBook, len(candidates))

	var wg sync.WaitGroup
	sem := semaphore.NewWeighted(searchConcurrency)

	for i, candidate := range candidates {
		wg.Add(1)
		go func(idx int, book models.DetectedBook) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				enriched[idx] = Merge(book, nil, 0)
				return
			}
			defer sem.Release(1)

			match, score := searcher.SearchBookDetails(ctx, book)
			enriched[idx] = Merge(book, match, score)
		}(i, candidate)
	}
	wg.Wait()

	return enriched
}
