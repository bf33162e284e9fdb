package vault

import "errors"

// Error represents a domain error from vault operations.
//
// These are business logic errors (duplicate folder name, deletion of a
// non-empty folder, invalid share settings, etc.) as opposed to programming
// errors. Every mutating operation on the vault either succeeds or reports
// one of these; nothing panics past the facade.
type Error struct {
	// Code is the error category
	Code ErrorCode

	// Message is a human-readable error description
	Message string

	// Path identifies the entity related to the error (folder path, file id,
	// share id) when applicable. This helps with debugging and error reporting.
	Path string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path != "" {
		return e.Message + ": " + e.Path
	}
	return e.Message
}

// ErrorCode represents the category of a vault error.
//
// Callers branch on the code, not the message. Presentation layers translate
// codes to whatever user-facing form they need.
type ErrorCode int

const (
	// ErrValidation indicates bad user input: an empty folder name, a missing
	// share password, an empty custom expiration, missing recipient emails.
	ErrValidation ErrorCode = iota

	// ErrDuplicateName indicates a sibling folder with the same
	// case-insensitive name already exists.
	ErrDuplicateName

	// ErrNotEmpty indicates a folder cannot be deleted because it still
	// contains subfolders or files.
	ErrNotEmpty

	// ErrProtected indicates an attempt to delete the root folder.
	ErrProtected

	// ErrNotFound indicates the referenced folder, file, or share doesn't exist.
	ErrNotFound

	// ErrInvalidArgument indicates invalid parameters were provided
	// (unknown item type, negative size, and similar).
	ErrInvalidArgument

	// ErrStorageUnavailable indicates the persistence medium failed.
	// In-memory state remains authoritative for the session; the operation's
	// effect is applied but not durably saved.
	ErrStorageUnavailable
)

// CodeOf extracts the ErrorCode from an error, if it is (or wraps) a vault
// Error. The second return value reports whether a code was found.
func CodeOf(err error) (ErrorCode, bool) {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Code, true
	}
	return 0, false
}

// IsCode reports whether err carries the given vault error code.
func IsCode(err error, code ErrorCode) bool {
	got, ok := CodeOf(err)
	return ok && got == code
}
