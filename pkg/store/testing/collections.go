package testing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seralba/dropvault/pkg/store"
)

func (suite *StoreTestSuite) RunCollectionTests(test *testing.T) {
	test.Run("Load_Missing", suite.TestLoad_Missing)
	test.Run("SaveLoad_Roundtrip", suite.TestSaveLoad_Roundtrip)
	test.Run("Save_Overwrites", suite.TestSave_Overwrites)
	test.Run("Collections_Independent", suite.TestCollections_Independent)
	test.Run("Delete_RemovesCollection", suite.TestDelete_RemovesCollection)
	test.Run("Delete_MissingIsNoop", suite.TestDelete_MissingIsNoop)
	test.Run("Load_ReturnsCopy", suite.TestLoad_ReturnsCopy)
}

// open returns an opened store registered for cleanup.
func (suite *StoreTestSuite) open(test *testing.T) store.Store {
	st := suite.NewStore(test)
	require.NoError(test, st.Open(context.Background()))
	test.Cleanup(func() { _ = st.Close() })
	return st
}

// TestLoad_Missing verifies an empty medium reports "not found", not an error.
func (suite *StoreTestSuite) TestLoad_Missing(test *testing.T) {
	st := suite.open(test)

	data, ok, err := st.Load(context.Background(), store.CollectionShares)
	require.NoError(test, err)
	assert.False(test, ok)
	assert.Nil(test, data)
}

// TestSaveLoad_Roundtrip verifies a stored blob comes back byte-identical.
func (suite *StoreTestSuite) TestSaveLoad_Roundtrip(test *testing.T) {
	st := suite.open(test)
	ctx := context.Background()

	blob := []byte(`[{"id":"root","name":"My Files","parentId":""}]`)
	require.NoError(test, st.Save(ctx, store.CollectionFolders, blob))

	got, ok, err := st.Load(ctx, store.CollectionFolders)
	require.NoError(test, err)
	require.True(test, ok)
	assert.Equal(test, blob, got)
}

// TestSave_Overwrites verifies the latest save wins.
func (suite *StoreTestSuite) TestSave_Overwrites(test *testing.T) {
	st := suite.open(test)
	ctx := context.Background()

	require.NoError(test, st.Save(ctx, store.CollectionCurrentFolder, []byte(`"root"`)))
	require.NoError(test, st.Save(ctx, store.CollectionCurrentFolder, []byte(`"docs"`)))

	got, ok, err := st.Load(ctx, store.CollectionCurrentFolder)
	require.NoError(test, err)
	require.True(test, ok)
	assert.Equal(test, []byte(`"docs"`), got)
}

// TestCollections_Independent verifies collection names don't collide.
func (suite *StoreTestSuite) TestCollections_Independent(test *testing.T) {
	st := suite.open(test)
	ctx := context.Background()

	collections := []string{
		store.CollectionFolders,
		store.CollectionFiles,
		store.CollectionShares,
		store.CollectionCurrentFolder,
	}

	for i, name := range collections {
		require.NoError(test, st.Save(ctx, name, []byte{byte('a' + i)}))
	}

	for i, name := range collections {
		got, ok, err := st.Load(ctx, name)
		require.NoError(test, err)
		require.True(test, ok, "collection %q should exist", name)
		assert.Equal(test, []byte{byte('a' + i)}, got, "collection %q", name)
	}
}

// TestDelete_RemovesCollection verifies Delete makes Load report missing.
func (suite *StoreTestSuite) TestDelete_RemovesCollection(test *testing.T) {
	st := suite.open(test)
	ctx := context.Background()

	require.NoError(test, st.Save(ctx, store.CollectionFiles, []byte(`[]`)))
	require.NoError(test, st.Delete(ctx, store.CollectionFiles))

	_, ok, err := st.Load(ctx, store.CollectionFiles)
	require.NoError(test, err)
	assert.False(test, ok)
}

// TestDelete_MissingIsNoop verifies deleting a missing collection succeeds.
func (suite *StoreTestSuite) TestDelete_MissingIsNoop(test *testing.T) {
	st := suite.open(test)

	assert.NoError(test, st.Delete(context.Background(), "never_saved"))
}

// TestLoad_ReturnsCopy verifies mutating a loaded blob cannot corrupt the store.
func (suite *StoreTestSuite) TestLoad_ReturnsCopy(test *testing.T) {
	st := suite.open(test)
	ctx := context.Background()

	require.NoError(test, st.Save(ctx, store.CollectionFolders, []byte("original")))

	first, ok, err := st.Load(ctx, store.CollectionFolders)
	require.NoError(test, err)
	require.True(test, ok)
	for i := range first {
		first[i] = 'x'
	}

	second, ok, err := st.Load(ctx, store.CollectionFolders)
	require.NoError(test, err)
	require.True(test, ok)
	assert.Equal(test, []byte("original"), second)
}
