package vault

import (
	"fmt"
	"math"
	"net/url"
	"time"
)

// RootFolderID is the fixed id of the distinguished root folder.
// The root always exists, is seeded on first open, and can never be deleted.
const RootFolderID = "root"

// DefaultRootName is the display name given to the root folder when the
// persistence medium is empty and the tree is seeded for the first time.
const DefaultRootName = "My Files"

// Folder is a node in the folder hierarchy.
//
// Folders form a tree rooted at RootFolderID. Every folder except the root
// has a non-empty ParentID referencing an existing folder; the hierarchy
// manager never creates a folder with a dangling parent.
type Folder struct {
	// ID is the unique, stable identifier of the folder
	ID string `json:"id"`

	// Name is the display name, non-empty, unique case-insensitively
	// among siblings
	Name string `json:"name"`

	// ParentID references the parent folder. Empty only for the root.
	ParentID string `json:"parentId"`

	// Path is the display path derived from ancestor names at creation time
	Path string `json:"path"`

	// CreatedAt is when the folder was created
	CreatedAt time.Time `json:"createdAt"`

	// Shared is derived: true iff at least one ShareRecord references the
	// folder. The live value is computed from the share index; this field
	// carries the snapshot for persistence and read accessors.
	Shared bool `json:"shared"`
}

// FileEntry is a permanent file record bound to exactly one folder.
//
// Entries are created only by the upload pipeline handing off completed
// uploads; they are deleted explicitly, which also prunes any share
// records referencing them.
type FileEntry struct {
	// ID is the unique identifier of the file entry
	ID string `json:"id"`

	// Name is the original file name
	Name string `json:"name"`

	// Size is the file size in bytes (non-negative)
	Size int64 `json:"size"`

	// Type is a MIME-like content type string (e.g. "image/png")
	Type string `json:"type"`

	// FolderID references the folder containing this entry
	FolderID string `json:"folderId"`

	// FolderPath is a display snapshot of the ancestor path at add-time
	FolderPath string `json:"folderPath"`

	// Shared is derived: true iff at least one ShareRecord references the file
	Shared bool `json:"shared"`

	// AddedAt is when the completed upload was handed to the registry
	AddedAt time.Time `json:"addedAt"`
}

// ItemType distinguishes what kind of entity a share record references.
type ItemType string

const (
	// ItemTypeFile marks a share referencing a FileEntry
	ItemTypeFile ItemType = "file"

	// ItemTypeFolder marks a share referencing a Folder
	ItemTypeFolder ItemType = "folder"
)

// AccessLevel is the capability granted by a share.
type AccessLevel string

const (
	AccessView    AccessLevel = "view"
	AccessComment AccessLevel = "comment"
	AccessEdit    AccessLevel = "edit"
	AccessAdmin   AccessLevel = "admin"
)

// Expiration selects when a share stops being valid.
type Expiration string

const (
	ExpireNever  Expiration = "never"
	Expire1Day   Expiration = "1day"
	Expire7Days  Expiration = "7days"
	Expire30Days Expiration = "30days"
	ExpireCustom Expiration = "custom"
)

// Channel is how a share is distributed to recipients.
type Channel string

const (
	// ChannelLink distributes the share as a copyable link
	ChannelLink Channel = "link"

	// ChannelEmail distributes the share by inviting specific recipients;
	// requires at least one allowed email
	ChannelEmail Channel = "email"
)

// ShareSettings describes access level, expiration, and optional
// password/email gating for one share record.
//
// Conditional requirements (enforced by ShareItem):
//   - Password must be non-empty iff RequirePassword is true
//   - CustomExpiration must be a present-or-future date iff Expiration is "custom"
//   - AllowedEmails must be non-empty iff Channel is "email"
type ShareSettings struct {
	Access           AccessLevel `json:"access"           validate:"required,oneof=view comment edit admin"`
	Expiration       Expiration  `json:"expiration"       validate:"required,oneof=never 1day 7days 30days custom"`
	CustomExpiration time.Time   `json:"customExpiration,omitzero"`
	RequirePassword  bool        `json:"requirePassword"`
	Password         string      `json:"password,omitempty"`
	Channel          Channel     `json:"channel"          validate:"omitempty,oneof=link email"`
	AllowedEmails    []string    `json:"allowedEmails,omitempty" validate:"omitempty,dive,email"`

	// CreatedAt is stamped by the sharing subsystem on success
	CreatedAt time.Time `json:"createdAt"`
}

// ShareRecord is a grant making one file or folder accessible.
//
// An item's derived "shared" flag is true iff at least one record
// references it; removing the last record flips it back to false.
type ShareRecord struct {
	// ShareID is the unique identifier of the grant
	ShareID string `json:"shareId"`

	// Type tells whether ItemID references a file or a folder
	Type ItemType `json:"type"`

	// ItemID references an existing entity of matching type
	ItemID string `json:"itemId"`

	// Settings holds the access rules for this grant
	Settings ShareSettings `json:"settings"`
}

// Link builds a distributable URL for the share under the given base,
// e.g. "https://vault.example.com". Link construction is a convenience for
// callers; distribution itself is outside the vault.
func (r *ShareRecord) Link(base string) string {
	return fmt.Sprintf("%s/shared/%s/%s?token=%s",
		base, r.Type, url.PathEscape(r.ItemID), url.QueryEscape(r.ShareID))
}

// PathSegment is one element of a breadcrumb, in root-to-leaf order.
type PathSegment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FormatSize renders a byte count in a human-readable form ("2.0 KB").
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	units := []string{"Bytes", "KB", "MB", "GB", "TB"}
	exp := int(math.Log(float64(bytes)) / math.Log(1024))
	if exp >= len(units) {
		exp = len(units) - 1
	}
	value := float64(bytes) / math.Pow(1024, float64(exp))
	if exp == 0 {
		return fmt.Sprintf("%d %s", bytes, units[0])
	}
	return fmt.Sprintf("%.1f %s", value, units[exp])
}
