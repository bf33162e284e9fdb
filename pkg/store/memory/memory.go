// Package memory provides an in-memory implementation of the store adapter.
package memory

import (
	"context"
	"sync"

	"github.com/seralba/dropvault/pkg/store"
)

// MemoryStore implements store.Store using an in-memory map.
//
// This implementation is suitable for:
//   - Tests that need full vault behavior without a durable medium
//   - Ephemeral sessions where persistence is not required
//   - Default configuration when no database path is set
//
// Thread Safety:
// All operations are protected by a single read-write mutex, making the
// store safe for concurrent access from multiple goroutines.
//
// The store copies blobs on both Save and Load so callers can never alias
// its internal state.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]byte
	closed      bool
}

// New creates an empty in-memory store, immediately ready for use.
func New() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string][]byte),
	}
}

// Open prepares the store for use. For the in-memory backing there is
// nothing to prepare; a closed store is reopened empty.
func (s *MemoryStore) Open(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.closed = false
		s.collections = make(map[string][]byte)
	}
	return nil
}

// Load retrieves a copy of the blob stored under the collection name.
func (s *MemoryStore) Load(ctx context.Context, collection string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, false, store.ErrClosed
	}

	data, ok := s.collections[collection]
	if !ok {
		return nil, false, nil
	}

	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, true, nil
}

// Save stores a copy of the blob under the collection name.
func (s *MemoryStore) Save(ctx context.Context, collection string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return store.ErrClosed
	}

	cp := make([]byte, len(data))
	copy(cp, data)
	s.collections[collection] = cp
	return nil
}

// Delete removes a collection. Missing collections are a no-op.
func (s *MemoryStore) Delete(ctx context.Context, collection string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return store.ErrClosed
	}

	delete(s.collections, collection)
	return nil
}

// Flush is a no-op for the in-memory backing.
func (s *MemoryStore) Flush(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return store.ErrClosed
	}
	return nil
}

// Close marks the store closed and releases its data.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.collections = nil
	return nil
}
