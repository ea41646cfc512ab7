package store

import (
	"context"
	"sync"
)

type pairKey struct{ name, symbol string }

// MemoryStore keeps records in a map guarded by a mutex.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[pairKey]Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[pairKey]Record)}
}

// Save stores a copy of rec, keeping the creation time of an existing record.
func (s *MemoryStore) Save(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := pairKey{rec.Name, rec.Symbol}
	cp := *rec
	cp.PNG = append([]byte(nil), rec.PNG...)
	if prev, ok := s.records[k]; ok {
		cp.ID = prev.ID
		cp.CreatedAt = prev.CreatedAt
	}
	s.records[k] = cp
	return nil
}

// Get returns a copy of the stored record.
func (s *MemoryStore) Get(_ context.Context, name, symbol string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[pairKey{name, symbol}]
	if !ok {
		return nil, notFound(name, symbol)
	}
	rec.PNG = append([]byte(nil), rec.PNG...)
	return &rec, nil
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Close does nothing.
func (s *MemoryStore) Close(context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
