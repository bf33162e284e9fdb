package vault_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seralba/dropvault/pkg/store/memory"
	"github.com/seralba/dropvault/pkg/upload"
	"github.com/seralba/dropvault/pkg/vault"
)

func TestAddFiles_StampsEntries(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	docs, err := v.CreateFolder(ctx, "Docs", vault.RootFolderID)
	require.NoError(t, err)
	require.NoError(t, v.NavigateTo(ctx, docs.ID))

	added, err := v.AddFiles(ctx, []vault.FileEntry{
		{Name: "report.pdf", Size: 2048, Type: "application/pdf"},
		{Name: "logo.png", Size: 512, Type: "image/png"},
	})
	require.NoError(t, err)
	require.Len(t, added, 2)

	for _, f := range added {
		assert.NotEmpty(t, f.ID)
		assert.Equal(t, docs.ID, f.FolderID)
		assert.Equal(t, "My Files/Docs", f.FolderPath)
		assert.Equal(t, testTime, f.AddedAt)
		assert.False(t, f.Shared)
	}
	assert.Len(t, v.FilesIn(docs.ID), 2)
}

func TestAddFiles_EmptyBatchIsNoop(t *testing.T) {
	v := newTestVault(t)

	added, err := v.AddFiles(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, added)
	assert.Empty(t, v.Files())
}

func TestAddFiles_DuplicateNamesAllowed(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	_, err := v.AddFiles(ctx, []vault.FileEntry{{Name: "notes.txt", Size: 1, Type: "text/plain"}})
	require.NoError(t, err)
	_, err = v.AddFiles(ctx, []vault.FileEntry{{Name: "notes.txt", Size: 2, Type: "text/plain"}})
	require.NoError(t, err)

	files := v.FilesIn(vault.RootFolderID)
	require.Len(t, files, 2)
	assert.NotEqual(t, files[0].ID, files[1].ID)
}

func TestRemoveFile(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	added, err := v.AddFiles(ctx, []vault.FileEntry{{Name: "a.txt", Size: 1, Type: "text/plain"}})
	require.NoError(t, err)

	require.NoError(t, v.RemoveFile(ctx, added[0].ID))
	assert.Empty(t, v.Files())
}

func TestRemoveFile_MissingIsNoop(t *testing.T) {
	v := newTestVault(t)
	require.NoError(t, v.RemoveFile(context.Background(), "no-such-file"))
}

func TestRemoveFile_CascadesShares(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	added, err := v.AddFiles(ctx, []vault.FileEntry{{Name: "a.txt", Size: 1, Type: "text/plain"}})
	require.NoError(t, err)

	_, err = v.ShareItem(ctx, vault.ItemTypeFile, added[0].ID, vault.ShareSettings{})
	require.NoError(t, err)
	_, err = v.ShareItem(ctx, vault.ItemTypeFile, added[0].ID, vault.ShareSettings{Access: vault.AccessEdit})
	require.NoError(t, err)
	require.Len(t, v.SharesFor(added[0].ID), 2)

	require.NoError(t, v.RemoveFile(ctx, added[0].ID))
	assert.Empty(t, v.Shares())
	assert.False(t, v.IsShared(added[0].ID))
}

// Completed uploads land in the folder that is active when the run ends.
func TestUploads_CompletedBatchLandsInCurrentFolder(t *testing.T) {
	sched := &upload.ManualScheduler{}
	opts := testOptions()
	opts.Upload.Scheduler = sched

	v, err := vault.Open(context.Background(), memory.New(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = v.Close() })

	ctx := context.Background()
	docs, err := v.CreateFolder(ctx, "Docs", vault.RootFolderID)
	require.NoError(t, err)
	require.NoError(t, v.NavigateTo(ctx, docs.ID))

	count := v.EnqueueUploads([]upload.RawFile{
		{Name: "slides.key", Size: 100, Type: "application/octet-stream"},
	})
	assert.Equal(t, 1, count)

	require.NoError(t, v.StartUploads())
	for v.UploadsRunning() {
		require.True(t, sched.Fire())
	}

	assert.Empty(t, v.UploadQueue(), "the queue clears after a completed run")
	files := v.FilesIn(docs.ID)
	require.Len(t, files, 1)
	assert.Equal(t, "slides.key", files[0].Name)
	assert.Equal(t, int64(100), files[0].Size)
	assert.Equal(t, "My Files/Docs", files[0].FolderPath)
}

func TestUploads_StartOnEmptyQueueFails(t *testing.T) {
	v := newTestVault(t)
	assert.ErrorIs(t, v.StartUploads(), upload.ErrQueueEmpty)
}
