// Package vault implements the DropVault core: the hierarchical
// file/folder state manager, the sharing subsystem, and the facade that
// composes them with the upload pipeline and a persistent store adapter.
//
// The vault owns all durable state for a session. Data flows one direction
// at steady state: upload pipeline → file registry → (read by) sharing
// subsystem and presentation code. The vault emits no events; callers
// re-read state after each operation.
package vault

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/seralba/dropvault/internal/logger"
	"github.com/seralba/dropvault/pkg/store"
	"github.com/seralba/dropvault/pkg/upload"
)

// Options configures a Vault at open time. Zero values fall back to
// production defaults (system clock, UUID ids, "My Files" root).
type Options struct {
	// Clock supplies timestamps; defaults to the system clock
	Clock Clock

	// IDs generates entity ids; defaults to UUID v4 strings
	IDs IDSource

	// RootName is the display name for a freshly seeded root folder
	RootName string

	// Upload configures the upload pipeline. The OnComplete callback is
	// owned by the vault (completed uploads become file entries in the
	// currently active folder) and must be left unset.
	Upload upload.Config
}

// Vault is the facade composing the folder hierarchy manager, the file
// registry, the sharing subsystem, and the upload pipeline over one
// persistent store.
//
// Concurrency model: one mutex guards all collections. Cross-component
// effects (cascading share deletion, derived shared flags) happen inside
// a single critical section, so no observer ever sees a deleted record
// with a stale flag. Every successful mutation saves the affected
// collections; a save failure is reported as ErrStorageUnavailable while
// the in-memory state stays authoritative for the session.
type Vault struct {
	mu    sync.RWMutex
	store store.Store
	clock Clock
	newID IDSource

	folders []*Folder
	files   []*FileEntry
	shares  []*ShareRecord

	// shareRefs is the single source of truth for the derived "shared"
	// flag: item id → set of referencing share ids. The booleans on
	// Folder/FileEntry are computed from this index on every read and save.
	shareRefs map[string]map[string]struct{}

	currentFolderID string

	uploads  *upload.Pipeline
	validate *validator.Validate
}

// Open loads the four collections from the store, seeds the root folder
// when the medium is empty, and returns a ready Vault.
//
// The store must not be shared between vaults; the vault assumes exclusive
// ownership until Close.
func Open(ctx context.Context, st store.Store, opts Options) (*Vault, error) {
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if opts.IDs == nil {
		opts.IDs = UUIDSource()
	}
	if opts.RootName == "" {
		opts.RootName = DefaultRootName
	}

	if err := st.Open(ctx); err != nil {
		return nil, storageError("failed to open store", err)
	}

	v := &Vault{
		store:     st,
		clock:     opts.Clock,
		newID:     opts.IDs,
		shareRefs: make(map[string]map[string]struct{}),
		validate:  validator.New(),
	}

	if err := v.load(ctx, opts.RootName); err != nil {
		return nil, err
	}

	uploadCfg := opts.Upload
	uploadCfg.OnComplete = v.handleCompletedUploads
	if uploadCfg.NewID == nil {
		uploadCfg.NewID = opts.IDs
	}
	v.uploads = upload.NewPipeline(uploadCfg)

	return v, nil
}

// load reads all collections, seeding the root folder on an empty medium.
func (v *Vault) load(ctx context.Context, rootName string) error {
	if err := loadCollection(ctx, v.store, store.CollectionFolders, &v.folders); err != nil {
		return err
	}
	if err := loadCollection(ctx, v.store, store.CollectionFiles, &v.files); err != nil {
		return err
	}
	if err := loadCollection(ctx, v.store, store.CollectionShares, &v.shares); err != nil {
		return err
	}

	var current string
	if err := loadCollection(ctx, v.store, store.CollectionCurrentFolder, &current); err != nil {
		return err
	}
	if current == "" {
		current = RootFolderID
	}
	v.currentFolderID = current

	// Rebuild the share index from the loaded records. The derived flags
	// stored alongside folders/files are snapshots; the index rules.
	for _, rec := range v.shares {
		v.addShareRef(rec.ItemID, rec.ShareID)
	}

	if len(v.folders) == 0 {
		v.folders = append(v.folders, &Folder{
			ID:        RootFolderID,
			Name:      rootName,
			ParentID:  "",
			Path:      "/" + RootFolderID,
			CreatedAt: v.clock.Now(),
		})
		logger.Info("seeded empty vault with root folder %q", rootName)
		if err := v.persistFolders(ctx); err != nil {
			return err
		}
	}

	return nil
}

// loadCollection unmarshals one collection blob into dst, leaving dst
// untouched when the medium has no such collection.
func loadCollection[T any](ctx context.Context, st store.Store, name string, dst *T) error {
	data, ok, err := st.Load(ctx, name)
	if err != nil {
		return storageError(fmt.Sprintf("failed to load collection %q", name), err)
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return storageError(fmt.Sprintf("corrupt collection %q", name), err)
	}
	return nil
}

// Close flushes all collections and releases the store.
func (v *Vault) Close() error {
	ctx := context.Background()
	if err := v.Flush(ctx); err != nil {
		logger.Warn("flush on close failed: %v", err)
	}
	if err := v.store.Close(); err != nil {
		return storageError("failed to close store", err)
	}
	return nil
}

// Flush persists every collection and syncs the backing medium.
func (v *Vault) Flush(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.persistFolders(ctx); err != nil {
		return err
	}
	if err := v.persistFiles(ctx); err != nil {
		return err
	}
	if err := v.persistShares(ctx); err != nil {
		return err
	}
	if err := v.persistCurrentFolder(ctx); err != nil {
		return err
	}
	if err := v.store.Flush(ctx); err != nil {
		return storageError("failed to flush store", err)
	}
	return nil
}

// ============================================================================
// Read accessors
// ============================================================================

// Folders returns all folders with their derived shared flag computed
// from the share index.
func (v *Vault) Folders() []Folder {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]Folder, len(v.folders))
	for i, f := range v.folders {
		out[i] = *f
		out[i].Shared = v.isSharedLocked(f.ID)
	}
	return out
}

// FoldersIn returns the child folders of the given parent.
func (v *Vault) FoldersIn(parentID string) []Folder {
	v.mu.RLock()
	defer v.mu.RUnlock()

	var out []Folder
	for _, f := range v.folders {
		if f.ParentID == parentID {
			cp := *f
			cp.Shared = v.isSharedLocked(f.ID)
			out = append(out, cp)
		}
	}
	return out
}

// Files returns all file entries with their derived shared flag.
func (v *Vault) Files() []FileEntry {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]FileEntry, len(v.files))
	for i, f := range v.files {
		out[i] = *f
		out[i].Shared = v.isSharedLocked(f.ID)
	}
	return out
}

// Shares returns all share records.
func (v *Vault) Shares() []ShareRecord {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]ShareRecord, len(v.shares))
	for i, s := range v.shares {
		out[i] = *s
	}
	return out
}

// CurrentFolderID returns the active folder pointer.
func (v *Vault) CurrentFolderID() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.currentFolderID
}

// Breadcrumb returns the root-to-current path segments for the active
// folder. A dangling pointer yields a partial (possibly empty) breadcrumb.
func (v *Vault) Breadcrumb() []PathSegment {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.computePathLocked(v.currentFolderID)
}

// ============================================================================
// Upload pipeline facade
// ============================================================================

// EnqueueUploads adds raw files to the transient upload queue and reports
// how many were added.
func (v *Vault) EnqueueUploads(files []upload.RawFile) int {
	return v.uploads.Enqueue(files)
}

// DequeueUpload removes a queued upload. In-flight items are rejected
// silently; returns whether an item was removed.
func (v *Vault) DequeueUpload(id string) bool {
	return v.uploads.Dequeue(id)
}

// StartUploads begins the simulated upload run. Completed items land in
// the folder that is active when the run finishes.
func (v *Vault) StartUploads() error {
	return v.uploads.Start()
}

// UploadQueue returns a snapshot of the transient upload queue.
func (v *Vault) UploadQueue() []upload.Item {
	return v.uploads.Items()
}

// UploadsRunning reports whether an upload run is active.
func (v *Vault) UploadsRunning() bool {
	return v.uploads.Running()
}

// handleCompletedUploads converts a finished upload batch into file
// entries. Storage failures are logged; the entries stay in memory.
func (v *Vault) handleCompletedUploads(items []upload.Item) {
	entries := make([]FileEntry, len(items))
	for i, item := range items {
		entries[i] = FileEntry{
			Name: item.Name,
			Size: item.Size,
			Type: item.Type,
		}
	}

	if _, err := v.AddFiles(context.Background(), entries); err != nil {
		logger.Warn("failed to persist completed uploads: %v", err)
	}
}

// ============================================================================
// Shared-flag index helpers (callers must hold the mutex)
// ============================================================================

func (v *Vault) isSharedLocked(itemID string) bool {
	return len(v.shareRefs[itemID]) > 0
}

func (v *Vault) addShareRef(itemID, shareID string) {
	set, ok := v.shareRefs[itemID]
	if !ok {
		set = make(map[string]struct{})
		v.shareRefs[itemID] = set
	}
	set[shareID] = struct{}{}
}

func (v *Vault) removeShareRef(itemID, shareID string) {
	set, ok := v.shareRefs[itemID]
	if !ok {
		return
	}
	delete(set, shareID)
	if len(set) == 0 {
		delete(v.shareRefs, itemID)
	}
}

// ============================================================================
// Persistence helpers (callers must hold the mutex)
// ============================================================================

// persistFolders saves the folder collection with derived flags stamped.
func (v *Vault) persistFolders(ctx context.Context) error {
	snapshot := make([]Folder, len(v.folders))
	for i, f := range v.folders {
		snapshot[i] = *f
		snapshot[i].Shared = v.isSharedLocked(f.ID)
	}
	return saveCollection(ctx, v.store, store.CollectionFolders, snapshot)
}

// persistFiles saves the file collection with derived flags stamped.
func (v *Vault) persistFiles(ctx context.Context) error {
	snapshot := make([]FileEntry, len(v.files))
	for i, f := range v.files {
		snapshot[i] = *f
		snapshot[i].Shared = v.isSharedLocked(f.ID)
	}
	return saveCollection(ctx, v.store, store.CollectionFiles, snapshot)
}

// persistShares saves the share-record collection.
func (v *Vault) persistShares(ctx context.Context) error {
	snapshot := make([]ShareRecord, len(v.shares))
	for i, s := range v.shares {
		snapshot[i] = *s
	}
	return saveCollection(ctx, v.store, store.CollectionShares, snapshot)
}

// persistCurrentFolder saves the active folder pointer.
func (v *Vault) persistCurrentFolder(ctx context.Context) error {
	return saveCollection(ctx, v.store, store.CollectionCurrentFolder, v.currentFolderID)
}

func saveCollection[T any](ctx context.Context, st store.Store, name string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return storageError(fmt.Sprintf("failed to encode collection %q", name), err)
	}
	if err := st.Save(ctx, name, data); err != nil {
		return storageError(fmt.Sprintf("failed to save collection %q", name), err)
	}
	return nil
}

// storageError wraps a backing failure into the StorageUnavailable category.
func storageError(message string, err error) *Error {
	return &Error{
		Code:    ErrStorageUnavailable,
		Message: fmt.Sprintf("%s: %v", message, err),
	}
}
