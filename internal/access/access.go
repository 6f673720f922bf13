// Package access holds the single authority for document permissions.
// All decisions are pure functions over the acting user and the document;
// every mutation in the lifecycle service must go through here first.
package access

import "github.com/docvault/backend/internal/models"

// Operation constants
const (
	OpView     = "view"
	OpDownload = "download"
	OpArchive  = "archive"
	OpRestore  = "restore"
	OpDelete   = "delete"
	OpShare    = "share"
)

// Can reports whether user may perform op on doc.
//
// Precedence: inactive users are denied regardless of role; admins may do
// everything; view/download need ownership or access-list membership;
// archive/restore/delete/share need ownership (membership alone is not
// enough).
func Can(user *models.User, doc *models.Document, op string) bool {
	if user == nil || doc == nil {
		return false
	}
	if !user.IsActive() {
		return false
	}
	if user.Role == models.RoleAdmin {
		return true
	}

	switch op {
	case OpView, OpDownload:
		return user.ID == doc.UploaderID || doc.HasExplicitAccess(user.ID)
	case OpArchive, OpRestore, OpDelete, OpShare:
		return user.ID == doc.UploaderID
	default:
		return false
	}
}

// CanUpload reports whether user may create new documents. Viewers cannot.
func CanUpload(user *models.User) bool {
	if user == nil || !user.IsActive() {
		return false
	}
	return user.Role == models.RoleAdmin || user.Role == models.RoleEditor
}
