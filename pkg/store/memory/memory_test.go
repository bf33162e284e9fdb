package memory

import (
	"testing"

	"github.com/seralba/dropvault/pkg/store"
	storetesting "github.com/seralba/dropvault/pkg/store/testing"
)

// TestMemoryStore runs the complete Store test suite against the
// in-memory implementation.
func TestMemoryStore(t *testing.T) {
	suite := &storetesting.StoreTestSuite{
		NewStore: func(t *testing.T) store.Store {
			return New()
		},
	}

	suite.Run(t)
}
