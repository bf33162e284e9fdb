package testing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seralba/dropvault/pkg/store"
)

func (suite *StoreTestSuite) RunLifecycleTests(test *testing.T) {
	test.Run("Open_Idempotent", suite.TestOpen_Idempotent)
	test.Run("Close_Idempotent", suite.TestClose_Idempotent)
	test.Run("OperationsAfterClose_Fail", suite.TestOperationsAfterClose_Fail)
	test.Run("Flush_Succeeds", suite.TestFlush_Succeeds)
}

// TestOpen_Idempotent verifies that opening twice is harmless.
func (suite *StoreTestSuite) TestOpen_Idempotent(test *testing.T) {
	st := suite.NewStore(test)
	ctx := context.Background()

	require.NoError(test, st.Open(ctx))
	require.NoError(test, st.Open(ctx))

	test.Cleanup(func() { _ = st.Close() })
}

// TestClose_Idempotent verifies that Close can be called multiple times.
func (suite *StoreTestSuite) TestClose_Idempotent(test *testing.T) {
	st := suite.NewStore(test)
	ctx := context.Background()

	require.NoError(test, st.Open(ctx))
	require.NoError(test, st.Close())
	require.NoError(test, st.Close())
}

// TestOperationsAfterClose_Fail verifies that a closed store rejects
// collection operations with store.ErrClosed.
func (suite *StoreTestSuite) TestOperationsAfterClose_Fail(test *testing.T) {
	st := suite.NewStore(test)
	ctx := context.Background()

	require.NoError(test, st.Open(ctx))
	require.NoError(test, st.Close())

	_, _, err := st.Load(ctx, store.CollectionFolders)
	assert.ErrorIs(test, err, store.ErrClosed)

	err = st.Save(ctx, store.CollectionFolders, []byte("{}"))
	assert.ErrorIs(test, err, store.ErrClosed)

	err = st.Delete(ctx, store.CollectionFolders)
	assert.ErrorIs(test, err, store.ErrClosed)

	err = st.Flush(ctx)
	assert.ErrorIs(test, err, store.ErrClosed)
}

// TestFlush_Succeeds verifies Flush on an open store with pending writes.
func (suite *StoreTestSuite) TestFlush_Succeeds(test *testing.T) {
	st := suite.NewStore(test)
	ctx := context.Background()

	require.NoError(test, st.Open(ctx))
	test.Cleanup(func() { _ = st.Close() })

	require.NoError(test, st.Save(ctx, store.CollectionFiles, []byte(`[]`)))
	assert.NoError(test, st.Flush(ctx))
}
