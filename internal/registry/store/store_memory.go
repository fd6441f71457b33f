package store

import (
	"context"
	"sync"

	"onboard/internal/registry/models"
	"onboard/pkg/platform/sentinel"
)

// InMemory serves registry records from a map. Used for local runs and tests;
// production reads the Postgres mirror of the registry.
type InMemory struct {
	mu      sync.RWMutex
	records map[string]models.Record
}

// NewInMemory creates an empty in-memory registry.
func NewInMemory() *InMemory {
	return &InMemory{records: make(map[string]models.Record)}
}

// Put loads or replaces a record. The registry is read-only to the
// registration workflow; Put exists for seeding.
func (s *InMemory) Put(record models.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.Code] = record
}

// FindByCode returns a copy of the record for code or sentinel.ErrNotFound.
func (s *InMemory) FindByCode(_ context.Context, code string) (*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[code]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &record, nil
}
