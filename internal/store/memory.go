package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/prociv-leini/logbook/internal/domain"
)

// MemDocStore is an in-memory DocStore used by unit tests (and available for
// a throwaway demo run without a database). It has the same missing-key
// semantics as the Postgres implementation.
type MemDocStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemDocStore returns an empty in-memory document store.
func NewMemDocStore() *MemDocStore {
	return &MemDocStore{docs: make(map[string][]byte)}
}

// Get returns a copy of the document stored under key.
func (s *MemDocStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[key]
	if !ok {
		return nil, fmt.Errorf("store.MemDocStore.Get %q: %w", key, domain.ErrNotFound)
	}
	out := make([]byte, len(doc))
	copy(out, doc)
	return out, nil
}

// Put stores a copy of doc under key.
func (s *MemDocStore) Put(_ context.Context, key string, doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(doc))
	copy(stored, doc)
	s.docs[key] = stored
	return nil
}

// DeleteAll removes every stored document.
func (s *MemDocStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs = make(map[string][]byte)
	return nil
}

// compile-time check: MemDocStore must satisfy DocStore.
var _ DocStore = (*MemDocStore)(nil)
