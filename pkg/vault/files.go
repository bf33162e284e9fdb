package vault

import (
	"context"
	"strings"
)

// ============================================================================
// File registry operations
// ============================================================================

// AddFiles registers a batch of file entries in the currently active
// folder. Each entry is stamped with a fresh id (when none is set), the
// active folder id, the active folder's display path, and the current
// timestamp. Duplicate file names are permitted.
//
// Returns the stamped entries. On a storage failure the entries are still
// registered in memory and returned alongside ErrStorageUnavailable.
func (v *Vault) AddFiles(ctx context.Context, entries []FileEntry) ([]FileEntry, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	folderPath := displayPath(v.computePathLocked(v.currentFolderID))
	now := v.clock.Now()

	stamped := make([]FileEntry, len(entries))
	for i, entry := range entries {
		if entry.ID == "" {
			entry.ID = v.newID()
		}
		entry.FolderID = v.currentFolderID
		entry.FolderPath = folderPath
		entry.AddedAt = now
		entry.Shared = false

		v.files = append(v.files, &entry)
		stamped[i] = entry
	}

	if err := v.persistFiles(ctx); err != nil {
		return stamped, err
	}
	return stamped, nil
}

// RemoveFile deletes a file entry and cascades away any share records
// pointing at it. Removing an unknown id is a no-op.
func (v *Vault) RemoveFile(ctx context.Context, fileID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	idx := -1
	for i, f := range v.files {
		if f.ID == fileID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil
	}

	v.files = append(v.files[:idx], v.files[idx+1:]...)
	sharesChanged := v.removeSharesForLocked(fileID)

	if err := v.persistFiles(ctx); err != nil {
		return err
	}
	if sharesChanged {
		if err := v.persistShares(ctx); err != nil {
			return err
		}
	}
	return nil
}

// FilesIn returns the file entries registered in the given folder.
func (v *Vault) FilesIn(folderID string) []FileEntry {
	v.mu.RLock()
	defer v.mu.RUnlock()

	var out []FileEntry
	for _, f := range v.files {
		if f.FolderID == folderID {
			cp := *f
			cp.Shared = v.isSharedLocked(f.ID)
			out = append(out, cp)
		}
	}
	return out
}

func (v *Vault) findFileLocked(id string) *FileEntry {
	for _, f := range v.files {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// displayPath joins breadcrumb segment names into a display string.
func displayPath(segments []PathSegment) string {
	if len(segments) == 0 {
		return ""
	}
	names := make([]string, len(segments))
	for i, seg := range segments {
		names[i] = seg.Name
	}
	return strings.Join(names, "/")
}
