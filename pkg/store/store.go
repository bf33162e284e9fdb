// Package store defines the persistent store adapter: a durable key-value
// medium for the vault's typed collections, keyed by logical name.
//
// The adapter has no domain logic of its own. The vault serializes each
// collection (folders, files, shares, current-folder pointer) to a blob and
// hands it to the store; the store only persists and retrieves blobs. This
// keeps backing implementations trivial and lets tests run against an
// in-memory backing without touching any real durable medium.
package store

import (
	"context"
	"errors"
)

// Logical collection names used by the vault.
//
// Implementations must treat these as opaque keys; nothing in the store
// interprets collection contents.
const (
	// CollectionFolders holds the folder hierarchy
	CollectionFolders = "folders"

	// CollectionFiles holds the file registry
	CollectionFiles = "files"

	// CollectionShares holds the share records
	CollectionShares = "shares"

	// CollectionCurrentFolder holds the active folder pointer
	CollectionCurrentFolder = "current_folder"
)

// ErrClosed is returned by operations on a store that has been closed.
var ErrClosed = errors.New("store is closed")

// Store is a durable key-value medium for named collections.
//
// Lifecycle: Open must be called before any Load/Save; Close releases the
// backing medium and makes further operations fail with ErrClosed. Flush
// forces buffered writes to durable storage where the backing supports it.
//
// Error Contract:
// A missing collection is not an error: Load returns (nil, false, nil).
// Any backing failure surfaces as a non-nil error; the vault maps those to
// its StorageUnavailable category and keeps in-memory state authoritative.
//
// Thread Safety:
// Implementations must be safe for concurrent use by multiple goroutines.
type Store interface {
	// Open prepares the backing medium for use.
	//
	// Opening an already-open store is a no-op. Open is separate from
	// construction so configuration errors (bad path, corrupt database)
	// surface at a predictable point in the lifecycle.
	Open(ctx context.Context) error

	// Load retrieves the blob stored under the given collection name.
	//
	// Returns:
	//   - []byte: the stored blob (a copy; callers may mutate it)
	//   - bool: false if the collection has never been saved
	//   - error: backing failure or ErrClosed
	Load(ctx context.Context, collection string) ([]byte, bool, error)

	// Save stores the blob under the given collection name, replacing any
	// previous value. The store keeps its own copy; callers may reuse the
	// slice after Save returns.
	Save(ctx context.Context, collection string, data []byte) error

	// Delete removes a collection. Deleting a missing collection is a no-op.
	Delete(ctx context.Context, collection string) error

	// Flush forces buffered writes to durable storage.
	Flush(ctx context.Context) error

	// Close releases the backing medium. Close is idempotent; after the
	// first call every other operation returns ErrClosed.
	Close() error
}
