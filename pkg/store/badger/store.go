// Package badger provides a BadgerDB-backed implementation of the store
// adapter for durable persistence across sessions.
package badger

import (
	"context"
	"fmt"
	"sync"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/seralba/dropvault/pkg/store"
)

// BadgerStore implements store.Store using BadgerDB, a fast embedded
// key-value store with WAL-based crash recovery.
//
// This implementation is suitable for:
//   - Production sessions where vault state must survive restarts
//   - Deployments needing a single-file-tree durable medium with no
//     external database process
//
// Thread Safety:
// BadgerDB transactions are internally synchronized; the store only guards
// its open/closed lifecycle with a mutex.
type BadgerStore struct {
	mu     sync.RWMutex
	db     *badger.DB
	config Config
	closed bool
}

// Config contains configuration for creating a BadgerDB store.
type Config struct {
	// Path is the directory where BadgerDB will store its files.
	// BadgerDB creates multiple files in this directory (value log,
	// LSM tree, etc.). Ignored when InMemory is true.
	Path string `mapstructure:"path"`

	// InMemory runs BadgerDB entirely in memory. Useful for tests that
	// want to exercise the Badger code path without touching disk.
	InMemory bool `mapstructure:"in_memory"`

	// SyncWrites makes every write wait for the value log to hit disk.
	// Slower but safest; defaults to false (Flush forces a sync instead).
	SyncWrites bool `mapstructure:"sync_writes"`
}

// New creates a BadgerDB-backed store with the given configuration.
//
// The database is not opened until Open is called, so configuration errors
// (bad path, locked directory) surface during the explicit lifecycle step
// rather than at construction.
func New(config Config) (*BadgerStore, error) {
	if !config.InMemory && config.Path == "" {
		return nil, fmt.Errorf("badger store: path is required unless in_memory is set")
	}

	return &BadgerStore{config: config}, nil
}

// Open opens the BadgerDB database. Opening an already-open store is a no-op.
func (s *BadgerStore) Open(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil && !s.closed {
		return nil
	}

	opts := badger.DefaultOptions(s.config.Path)
	if s.config.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}

	// Collection blobs are small JSON documents; compression overhead is
	// not worth it and the default logger is too chatty for a library.
	opts = opts.WithLoggingLevel(badger.WARNING)
	opts = opts.WithCompression(options.None)
	opts = opts.WithSyncWrites(s.config.SyncWrites)

	db, err := badger.Open(opts)
	if err != nil {
		return fmt.Errorf("failed to open BadgerDB at %s: %w", s.config.Path, err)
	}

	s.db = db
	s.closed = false
	return nil
}

// Load retrieves the blob stored under the collection name.
func (s *BadgerStore) Load(ctx context.Context, collection string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.ensureOpen(); err != nil {
		return nil, false, err
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyCollection(collection))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load collection %q: %w", collection, err)
	}

	return data, true, nil
}

// Save stores the blob under the collection name.
func (s *BadgerStore) Save(ctx context.Context, collection string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.ensureOpen(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keyCollection(collection), data)
	})
	if err != nil {
		return fmt.Errorf("failed to save collection %q: %w", collection, err)
	}
	return nil
}

// Delete removes a collection. Missing collections are a no-op.
func (s *BadgerStore) Delete(ctx context.Context, collection string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.ensureOpen(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(keyCollection(collection))
	})
	if err != nil {
		return fmt.Errorf("failed to delete collection %q: %w", collection, err)
	}
	return nil
}

// Flush forces the value log to durable storage.
func (s *BadgerStore) Flush(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.ensureOpen(); err != nil {
		return err
	}

	// Sync is not supported for in-memory databases.
	if s.config.InMemory {
		return nil
	}

	if err := s.db.Sync(); err != nil {
		return fmt.Errorf("failed to sync BadgerDB: %w", err)
	}
	return nil
}

// Close closes the database and releases all resources. Idempotent.
func (s *BadgerStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.db == nil {
		s.closed = true
		return nil
	}

	s.closed = true
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close BadgerDB: %w", err)
	}
	return nil
}

// ensureOpen reports ErrClosed when the lifecycle state forbids operations.
// Callers must hold at least a read lock.
func (s *BadgerStore) ensureOpen() error {
	if s.closed || s.db == nil {
		return store.ErrClosed
	}
	return nil
}
