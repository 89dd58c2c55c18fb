// Package storage holds processed scans in memory while a family reviews
// them. Records are ephemeral: a restart drops anything not yet confirmed
// into the catalog.
package storage

import (
	"sync"

	"github.com/sifriya-app/shelfscan/internal/models"
)

type ScanStore struct {
	scans map[string]*models.Scan
	mu    sync.RWMutex
}

func New() *ScanStore {
	return &ScanStore{
		scans: make(map[string]*models.Scan),
	}
}

func (s *ScanStore) Get(scanID string) (*models.Scan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	scan, exists := s.scans[scanID]
	return scan, exists
}

func (s *ScanStore) Set(scanID string, scan *models.Scan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scans[scanID] = scan
}

func (s *ScanStore) GetAll() map[string]*models.Scan {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]*models.Scan, len(s.scans))
	for k, v := range s.scans {
		result[k] = v
	}
	return result
}

func (s *ScanStore) Delete(scanID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.scans, scanID)
}
