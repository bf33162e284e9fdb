package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seralba/dropvault/pkg/store"
	storetesting "github.com/seralba/dropvault/pkg/store/testing"
)

// TestBadgerStore_InMemory runs the complete Store test suite against the
// BadgerDB implementation using Badger's in-memory mode.
func TestBadgerStore_InMemory(t *testing.T) {
	suite := &storetesting.StoreTestSuite{
		NewStore: func(t *testing.T) store.Store {
			st, err := New(Config{InMemory: true})
			require.NoError(t, err)
			return st
		},
	}

	suite.Run(t)
}

// TestBadgerStore_OnDisk runs the suite against a disk-backed database to
// exercise the real value-log path.
func TestBadgerStore_OnDisk(t *testing.T) {
	suite := &storetesting.StoreTestSuite{
		NewStore: func(t *testing.T) store.Store {
			st, err := New(Config{Path: t.TempDir()})
			require.NoError(t, err)
			return st
		},
	}

	suite.Run(t)
}

// TestBadgerStore_PersistsAcrossReopen verifies that data written before
// Close is readable after a fresh Open on the same directory.
func TestBadgerStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := New(Config{Path: dir})
	require.NoError(t, err)
	require.NoError(t, first.Open(ctx))
	require.NoError(t, first.Save(ctx, store.CollectionFolders, []byte(`["root"]`)))
	require.NoError(t, first.Close())

	second, err := New(Config{Path: dir})
	require.NoError(t, err)
	require.NoError(t, second.Open(ctx))
	defer func() { _ = second.Close() }()

	data, ok, err := second.Load(ctx, store.CollectionFolders)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte(`["root"]`), data)
}

// TestNew_RequiresPath verifies configuration validation at construction.
func TestNew_RequiresPath(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}
