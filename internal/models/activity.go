package models

import (
	"time"

	"github.com/google/uuid"
)

// Activity types
const (
	ActivityUpload   = "upload"
	ActivityView     = "view"
	ActivityDownload = "download"
	ActivityArchive  = "archive"
	ActivityRestore  = "restore"
	ActivityDelete   = "delete"
	ActivityShare    = "share"
)

// Activity is an append-only audit record of one user action on one document.
// DocumentName and UserName are point-in-time snapshots so the entry stays
// readable after the document (or the user's name) is gone.
type Activity struct {
	ID           uuid.UUID `json:"id"`
	Type         string    `json:"type"`
	DocumentID   uuid.UUID `json:"document_id"`
	DocumentName string    `json:"document_name"`
	UserID       uuid.UUID `json:"user_id"`
	UserName     string    `json:"user_name"`
	CreatedAt    time.Time `json:"created_at"`
}
