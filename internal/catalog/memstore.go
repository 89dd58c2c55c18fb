package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemStore is an in-memory Store used by tests and single-process setups. It
// enforces the same identity-key uniqueness a database constraint would.
type MemStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
	owners  map[string]map[string]bool
}

var _ Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{
		entries: make(map[string]Entry),
		owners:  make(map[string]map[string]bool),
	}
}

func (m *MemStore) FindByISBN(_ context.Context, isbn string) (*Entry, error) {
	if isbn == "" {
		return nil, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, entry := range m.entries {
		if entry.ISBN == isbn {
			found := entry
			return &found, nil
		}
	}
	return nil, nil
}

func (m *MemStore) FindByTitleAuthor(_ context.Context, title, author string) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matches []Entry
	for _, entry := range m.entries {
		if strings.EqualFold(entry.Title, title) && strings.EqualFold(entry.Author, author) {
			matches = append(matches, entry)
		}
	}
	return matches, nil
}

func (m *MemStore) Insert(_ context.Context, entry Entry) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.entries {
		if sameIdentityKey(existing, entry) {
			return nil, ErrDuplicate
		}
	}

	entry.ID = uuid.NewString()
	m.entries[entry.ID] = entry
	stored := entry
	return &stored, nil
}

func (m *MemStore) Owns(_ context.Context, familyID, entryID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.owners[familyID][entryID], nil
}

func (m *MemStore) LinkOwnership(_ context.Context, familyID, entryID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.owners[familyID] == nil {
		m.owners[familyID] = make(map[string]bool)
	}
	m.owners[familyID][entryID] = true
	return nil
}

// Len reports the number of catalog entries.
func (m *MemStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func sameIdentityKey(a, b Entry) bool {
	if a.ISBN != "" && a.ISBN == b.ISBN {
		return true
	}
	return strings.EqualFold(a.Title, b.Title) &&
		strings.EqualFold(a.Author, b.Author) &&
		strings.EqualFold(a.Series, b.Series) &&
		sameSeriesNumber(a.SeriesNumber, b.SeriesNumber)
}
