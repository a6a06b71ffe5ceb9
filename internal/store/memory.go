package store

import (
	"context"
	"sort"
	"sync"

	"business-dedup/internal/models"
)

// MemoryStore is an in-process RecordStore for tests and for callers that
// deduplicate transient batches without a backing database.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]models.BusinessRecord
}

var _ RecordStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]models.BusinessRecord)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.BusinessRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := rec.Clone()
	return &out, nil
}

// List returns all records sorted by id so index priming is deterministic.
func (s *MemoryStore) List(_ context.Context) ([]models.BusinessRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.BusinessRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) Put(rec models.BusinessRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec.Clone()
}

func (s *MemoryStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
