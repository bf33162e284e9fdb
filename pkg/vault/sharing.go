package vault

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ============================================================================
// Sharing subsystem
// ============================================================================

// ShareItem creates a share record for an existing file or folder. Shares
// accumulate: every call appends a new record, and an item may carry any
// number of them. The item's shared flag is derived from the share index
// and turns on with the first record.
//
// Parameters:
//   - ctx: context for the persistence writes
//   - itemType: whether the target is a file or a folder
//   - itemID: the target's id, which must resolve to an existing item
//   - settings: the share configuration to validate and record
//
// Returns the created record, or an error:
//   - ErrInvalidArgument when itemType is not "file" or "folder"
//   - ErrNotFound when no item of that type carries the id
//   - ErrValidation when the settings are inconsistent
//   - ErrStorageUnavailable when a save fails (the record still exists
//     in memory)
func (v *Vault) ShareItem(ctx context.Context, itemType ItemType, itemID string, settings ShareSettings) (*ShareRecord, error) {
	if itemType != ItemTypeFile && itemType != ItemTypeFolder {
		return nil, &Error{
			Code:    ErrInvalidArgument,
			Message: fmt.Sprintf("unknown item type %q", itemType),
		}
	}

	// Unset fields take the same defaults the share dialog starts from.
	if settings.Access == "" {
		settings.Access = AccessView
	}
	if settings.Expiration == "" {
		settings.Expiration = ExpireNever
	}
	if settings.Channel == "" {
		settings.Channel = ChannelLink
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.validateSettingsLocked(&settings); err != nil {
		return nil, err
	}

	var exists bool
	switch itemType {
	case ItemTypeFile:
		exists = v.findFileLocked(itemID) != nil
	case ItemTypeFolder:
		exists = v.findFolderLocked(itemID) != nil
	}
	if !exists {
		return nil, &Error{
			Code:    ErrNotFound,
			Message: fmt.Sprintf("%s %q does not exist", itemType, itemID),
		}
	}

	settings.CreatedAt = v.clock.Now()
	record := &ShareRecord{
		ShareID:  v.newID(),
		Type:     itemType,
		ItemID:   itemID,
		Settings: settings,
	}
	v.shares = append(v.shares, record)
	v.addShareRef(itemID, record.ShareID)

	result := *record
	if err := v.persistShares(ctx); err != nil {
		return &result, err
	}
	// The derived shared flag changed, so the item collection is stale.
	if err := v.persistItemCollection(ctx, itemType); err != nil {
		return &result, err
	}
	return &result, nil
}

// RemoveShare deletes a share record. Removing an unknown id is a no-op.
// When the deleted record was the item's last share, the item's derived
// shared flag turns off.
func (v *Vault) RemoveShare(ctx context.Context, shareID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	idx := -1
	for i, s := range v.shares {
		if s.ShareID == shareID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil
	}

	record := v.shares[idx]
	v.shares = append(v.shares[:idx], v.shares[idx+1:]...)
	v.removeShareRef(record.ItemID, record.ShareID)

	if err := v.persistShares(ctx); err != nil {
		return err
	}
	return v.persistItemCollection(ctx, record.Type)
}

// IsShared reports whether at least one share record references the item.
func (v *Vault) IsShared(itemID string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.isSharedLocked(itemID)
}

// SharesFor returns every share record referencing the item.
func (v *Vault) SharesFor(itemID string) []ShareRecord {
	v.mu.RLock()
	defer v.mu.RUnlock()

	var out []ShareRecord
	for _, s := range v.shares {
		if s.ItemID == itemID {
			out = append(out, *s)
		}
	}
	return out
}

// removeSharesForLocked drops every share record referencing the item,
// reporting whether anything changed. Callers must hold the mutex.
func (v *Vault) removeSharesForLocked(itemID string) bool {
	kept := v.shares[:0]
	changed := false
	for _, s := range v.shares {
		if s.ItemID == itemID {
			v.removeShareRef(s.ItemID, s.ShareID)
			changed = true
			continue
		}
		kept = append(kept, s)
	}
	v.shares = kept
	return changed
}

// persistItemCollection saves whichever collection the share target lives
// in. Callers must hold the mutex.
func (v *Vault) persistItemCollection(ctx context.Context, itemType ItemType) error {
	if itemType == ItemTypeFolder {
		return v.persistFolders(ctx)
	}
	return v.persistFiles(ctx)
}

// validateSettingsLocked checks both the declarative field rules and the
// cross-field consistency rules for a share configuration.
func (v *Vault) validateSettingsLocked(settings *ShareSettings) error {
	if err := v.validate.Struct(settings); err != nil {
		var verrs validator.ValidationErrors
		message := err.Error()
		if errors.As(err, &verrs) && len(verrs) > 0 {
			parts := make([]string, len(verrs))
			for i, fe := range verrs {
				parts[i] = fmt.Sprintf("field %q failed rule %q", fe.Field(), fe.Tag())
			}
			message = strings.Join(parts, "; ")
		}
		return &Error{Code: ErrValidation, Message: "invalid share settings: " + message}
	}

	if settings.RequirePassword && settings.Password == "" {
		return &Error{
			Code:    ErrValidation,
			Message: "a password is required when password protection is enabled",
		}
	}

	if settings.Expiration == ExpireCustom {
		if settings.CustomExpiration.IsZero() {
			return &Error{
				Code:    ErrValidation,
				Message: "a custom expiration requires an expiration date",
			}
		}
		if settings.CustomExpiration.Before(startOfDay(v.clock.Now())) {
			return &Error{
				Code:    ErrValidation,
				Message: "the custom expiration date must not be in the past",
			}
		}
	}

	if settings.Channel == ChannelEmail && len(settings.AllowedEmails) == 0 {
		return &Error{
			Code:    ErrValidation,
			Message: "email sharing requires at least one recipient",
		}
	}

	return nil
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
