// Package testing provides a conformance test suite for store.Store
// implementations. It tests the interface contract, not implementation
// details, making it reusable across backings (memory, BadgerDB, ...).
package testing

import (
	"testing"

	"github.com/seralba/dropvault/pkg/store"
)

// StoreTestSuite runs the store.Store contract tests against an
// implementation supplied by the NewStore factory.
type StoreTestSuite struct {
	// NewStore creates a fresh, unopened Store instance for each test.
	// This ensures test isolation.
	NewStore func(t *testing.T) store.Store
}

// Run executes all tests in the suite.
func (suite *StoreTestSuite) Run(test *testing.T) {
	test.Run("Lifecycle", suite.RunLifecycleTests)
	test.Run("Collections", suite.RunCollectionTests)
}
