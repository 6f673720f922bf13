package models

import (
	"time"

	"github.com/google/uuid"
)

// Document categories
const (
	CategoryCMCT = "SAP CMCT"
	CategoryFI   = "SAP FI"
	CategoryQM   = "SAP QM"
)

// Lifecycle states. "deleted" is terminal: the record is removed, only the
// activity trail keeps a trace of the document.
const (
	DocStateActive   = "active"
	DocStateArchived = "archived"
	DocStateDeleted  = "deleted"
)

// ValidDocTransitions maps each lifecycle state to the states reachable from
// it. A document must be archived before it can be permanently deleted.
var ValidDocTransitions = map[string][]string{
	DocStateActive:   {DocStateArchived},
	DocStateArchived: {DocStateActive, DocStateDeleted},
	DocStateDeleted:  {},
}

// IsValidTransition reports whether a lifecycle transition is allowed.
func IsValidTransition(from, to string) bool {
	next, ok := ValidDocTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

type Document struct {
	ID            uuid.UUID   `json:"id"`
	Name          string      `json:"name"`
	FileType      string      `json:"file_type"`
	SizeBytes     int64       `json:"size_bytes"`
	Category      string      `json:"category"`
	UploaderID    uuid.UUID   `json:"uploader_id"`
	UploaderName  string      `json:"uploader_name"`
	BlobKey       string      `json:"-"`
	AccessUserIDs []uuid.UUID `json:"access_user_ids"`
	Tags          []string    `json:"tags"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	ArchivedAt    *time.Time  `json:"archived_at,omitempty"`
}

func (d *Document) IsArchived() bool {
	return d.ArchivedAt != nil
}

func (d *Document) State() string {
	if d.IsArchived() {
		return DocStateArchived
	}
	return DocStateActive
}

// HasExplicitAccess reports membership in the access list. The uploader is
// implicitly covered elsewhere and may be absent here.
func (d *Document) HasExplicitAccess(userID uuid.UUID) bool {
	for _, id := range d.AccessUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func IsValidCategory(category string) bool {
	return category == CategoryCMCT || category == CategoryFI || category == CategoryQM
}
