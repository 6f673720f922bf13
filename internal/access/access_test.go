package access

import (
	"testing"

	"github.com/google/uuid"

	"github.com/docvault/backend/internal/models"
)

var (
	ownerID    = uuid.New()
	sharedID   = uuid.New()
	strangerID = uuid.New()
)

func user(id uuid.UUID, role, status string) *models.User {
	return &models.User{ID: id, Role: role, Status: status}
}

func doc() *models.Document {
	return &models.Document{
		ID:            uuid.New(),
		UploaderID:    ownerID,
		AccessUserIDs: []uuid.UUID{sharedID},
	}
}

func TestCan(t *testing.T) {
	allOps := []string{OpView, OpDownload, OpArchive, OpRestore, OpDelete, OpShare}
	mutatingOps := []string{OpArchive, OpRestore, OpDelete, OpShare}

	tests := []struct {
		name    string
		user    *models.User
		ops     []string
		allowed bool
	}{
		{"admin may do everything", user(strangerID, models.RoleAdmin, models.StatusActive), allOps, true},
		{"owner may do everything on own document", user(ownerID, models.RoleEditor, models.StatusActive), allOps, true},
		{"owner viewer still owns the document", user(ownerID, models.RoleViewer, models.StatusActive), allOps, true},
		{"shared user may view and download", user(sharedID, models.RoleViewer, models.StatusActive), []string{OpView, OpDownload}, true},
		{"shared user may not mutate", user(sharedID, models.RoleViewer, models.StatusActive), mutatingOps, false},
		{"shared editor may not mutate either", user(sharedID, models.RoleEditor, models.StatusActive), mutatingOps, false},
		{"stranger is denied everything", user(strangerID, models.RoleEditor, models.StatusActive), allOps, false},
		{"inactive owner is denied everything", user(ownerID, models.RoleEditor, models.StatusInactive), allOps, false},
		{"inactive admin is denied everything", user(strangerID, models.RoleAdmin, models.StatusInactive), allOps, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := doc()
			for _, op := range tt.ops {
				if got := Can(tt.user, d, op); got != tt.allowed {
					t.Errorf("Can(%s/%s, %s) = %v, want %v", tt.user.Role, tt.user.Status, op, got, tt.allowed)
				}
			}
		})
	}
}

func TestCanUnknownOperationDenied(t *testing.T) {
	admin := user(strangerID, models.RoleAdmin, models.StatusActive)
	owner := user(ownerID, models.RoleEditor, models.StatusActive)
	d := doc()

	// Admin bypass applies before the operation switch.
	if !Can(admin, d, "rename") {
		t.Error("admin bypass should cover any operation")
	}
	if Can(owner, d, "rename") {
		t.Error("unknown operation must be denied for non-admins")
	}
}

func TestCanNilInputs(t *testing.T) {
	if Can(nil, doc(), OpView) {
		t.Error("nil user must be denied")
	}
	if Can(user(ownerID, models.RoleAdmin, models.StatusActive), nil, OpView) {
		t.Error("nil document must be denied")
	}
}

func TestCanUpload(t *testing.T) {
	tests := []struct {
		name    string
		user    *models.User
		allowed bool
	}{
		{"active admin", user(uuid.New(), models.RoleAdmin, models.StatusActive), true},
		{"active editor", user(uuid.New(), models.RoleEditor, models.StatusActive), true},
		{"active viewer", user(uuid.New(), models.RoleViewer, models.StatusActive), false},
		{"inactive editor", user(uuid.New(), models.RoleEditor, models.StatusInactive), false},
		{"inactive admin", user(uuid.New(), models.RoleAdmin, models.StatusInactive), false},
		{"nil user", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanUpload(tt.user); got != tt.allowed {
				t.Errorf("CanUpload() = %v, want %v", got, tt.allowed)
			}
		})
	}
}
