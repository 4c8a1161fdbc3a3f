package routecache

import (
	"context"
	"sync"
)

// Store persists a single route table.
type Store interface {
	// Load returns the saved table or ErrNotFound.
	Load(ctx context.Context) (*Table, error)

	// Save replaces the saved table.
	Save(ctx context.Context, t *Table) error

	// Delete removes the saved table. Deleting a missing table succeeds.
	Delete(ctx context.Context) error
}

// MemoryStore keeps the encoded table in memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data []byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) (*Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil {
		return nil, ErrNotFound
	}
	return Decode(s.data)
}

func (s *MemoryStore) Save(ctx context.Context, t *Table) error {
	data, err := Encode(t)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return nil
}
