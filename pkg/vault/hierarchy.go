package vault

import (
	"context"
	"fmt"
	"strings"

	"github.com/seralba/dropvault/internal/logger"
)

// ============================================================================
// Folder hierarchy operations
// ============================================================================

// CreateFolder creates a folder under the given parent.
//
// The name is trimmed before use; a name that trims to empty fails
// validation. Sibling names must be unique case-insensitively. The new
// folder's path is the slash-joined chain of ancestor display names.
//
// Parameters:
//   - ctx: context for the persistence write
//   - name: display name for the new folder
//   - parentID: id of the parent folder, which must exist
//
// Returns the created folder, or an error:
//   - ErrValidation when the trimmed name is empty
//   - ErrNotFound when the parent does not exist
//   - ErrDuplicateName when a sibling already carries the name
//   - ErrStorageUnavailable when the save fails (the folder is still
//     created in memory)
func (v *Vault) CreateFolder(ctx context.Context, name string, parentID string) (*Folder, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, &Error{Code: ErrValidation, Message: "folder name must not be empty"}
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	parent := v.findFolderLocked(parentID)
	if parent == nil {
		return nil, &Error{
			Code:    ErrNotFound,
			Message: fmt.Sprintf("parent folder %q does not exist", parentID),
		}
	}

	lower := strings.ToLower(trimmed)
	for _, f := range v.folders {
		if f.ParentID == parentID && strings.ToLower(f.Name) == lower {
			return nil, &Error{
				Code:    ErrDuplicateName,
				Message: fmt.Sprintf("a folder named %q already exists here", trimmed),
				Path:    f.Path,
			}
		}
	}

	folder := &Folder{
		ID:        v.newID(),
		Name:      trimmed,
		ParentID:  parentID,
		Path:      v.displayPathLocked(parentID, trimmed),
		CreatedAt: v.clock.Now(),
	}
	v.folders = append(v.folders, folder)

	result := *folder
	if err := v.persistFolders(ctx); err != nil {
		return &result, err
	}
	return &result, nil
}

// RemoveFolder deletes an empty, non-root folder and cascades away any
// share records pointing at it.
//
// Returns an error:
//   - ErrProtected when the folder is the root
//   - ErrNotFound when no such folder exists
//   - ErrNotEmpty when the folder still contains files or subfolders
//   - ErrStorageUnavailable when a save fails (the deletion is still
//     applied in memory)
func (v *Vault) RemoveFolder(ctx context.Context, folderID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if folderID == RootFolderID {
		return &Error{Code: ErrProtected, Message: "the root folder cannot be deleted"}
	}

	idx := -1
	for i, f := range v.folders {
		if f.ID == folderID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return &Error{
			Code:    ErrNotFound,
			Message: fmt.Sprintf("folder %q does not exist", folderID),
		}
	}

	for _, f := range v.folders {
		if f.ParentID == folderID {
			return &Error{
				Code:    ErrNotEmpty,
				Message: "folder still contains subfolders",
				Path:    v.folders[idx].Path,
			}
		}
	}
	for _, f := range v.files {
		if f.FolderID == folderID {
			return &Error{
				Code:    ErrNotEmpty,
				Message: "folder still contains files",
				Path:    v.folders[idx].Path,
			}
		}
	}

	v.folders = append(v.folders[:idx], v.folders[idx+1:]...)
	sharesChanged := v.removeSharesForLocked(folderID)

	if err := v.persistFolders(ctx); err != nil {
		return err
	}
	if sharesChanged {
		if err := v.persistShares(ctx); err != nil {
			return err
		}
	}
	return nil
}

// NavigateTo moves the active folder pointer. The target is not required
// to exist; a dangling pointer simply degrades the breadcrumb until the
// next navigation.
func (v *Vault) NavigateTo(ctx context.Context, folderID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.findFolderLocked(folderID) == nil {
		logger.Debug("navigating to unknown folder %q", folderID)
	}
	v.currentFolderID = folderID
	return v.persistCurrentFolder(ctx)
}

// ComputePath returns the root-to-leaf chain of path segments for the
// given folder. A broken parent chain yields the partial path from the
// deepest reachable ancestor; an unknown folder yields an empty path.
func (v *Vault) ComputePath(folderID string) []PathSegment {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.computePathLocked(folderID)
}

// computePathLocked walks parent pointers up to the root, tolerating
// dangling links and cycles. Callers must hold the mutex.
func (v *Vault) computePathLocked(folderID string) []PathSegment {
	var chain []PathSegment
	seen := make(map[string]struct{})

	id := folderID
	for id != "" {
		if _, dup := seen[id]; dup {
			logger.Warn("cycle detected in folder chain at %q", id)
			break
		}
		seen[id] = struct{}{}

		folder := v.findFolderLocked(id)
		if folder == nil {
			break
		}
		chain = append(chain, PathSegment{ID: folder.ID, Name: folder.Name})
		id = folder.ParentID
	}

	// The chain was collected leaf-first; reverse to root-first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// displayPathLocked joins the parent's breadcrumb names with the new leaf
// name. Callers must hold the mutex.
func (v *Vault) displayPathLocked(parentID, leaf string) string {
	segments := v.computePathLocked(parentID)
	names := make([]string, 0, len(segments)+1)
	for _, seg := range segments {
		names = append(names, seg.Name)
	}
	names = append(names, leaf)
	return strings.Join(names, "/")
}

func (v *Vault) findFolderLocked(id string) *Folder {
	for _, f := range v.folders {
		if f.ID == id {
			return f
		}
	}
	return nil
}
