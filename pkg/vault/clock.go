package vault

import (
	"time"

	"github.com/google/uuid"
)

// Clock supplies the current time to the vault.
//
// All timestamps (folder creation, file add-time, share creation) flow
// through this interface so tests can pin time to a fixed value instead of
// comparing against wall-clock reads.
type Clock interface {
	Now() time.Time
}

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// IDSource generates unique identifiers for folders, files, and shares.
//
// The default source produces UUID v4 strings. Tests substitute a
// deterministic sequence to get stable ids.
type IDSource func() string

// UUIDSource returns the default IDSource backed by random UUIDs.
func UUIDSource() IDSource {
	return uuid.NewString
}
