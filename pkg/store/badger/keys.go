package badger

// Database Key Namespace Design
// ==============================
//
// BadgerDB is a key-value store, so collection blobs live under a dedicated
// prefix. This design:
//   - Prevents collisions with any future data types stored alongside
//     collections (metadata, format version, migration markers)
//   - Makes the database structure self-documenting
//   - Supports range scans over all collections if ever needed
//
// Key Namespace:
//
// Data Type         Prefix   Key Format          Value
// ============================================================
// Collection Blob   "col:"   col:<name>          JSON blob written by the vault
//
// Collection names come from the store package constants (folders, files,
// shares, current_folder). The store never interprets the blob contents.

const (
	// prefixCollection is the key prefix for collection blobs
	prefixCollection = "col:"
)

// keyCollection generates the database key for a named collection.
//
// Format: "col:<name>"
// Example: "col:folders"
func keyCollection(name string) []byte {
	return []byte(prefixCollection + name)
}
