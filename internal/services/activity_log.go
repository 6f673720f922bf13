package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/docvault/backend/internal/events"
	"github.com/docvault/backend/internal/models"
	"github.com/docvault/backend/internal/repositories"
)

// ActivityStore is the persistence surface of the activity log.
type ActivityStore interface {
	Insert(ctx context.Context, a *models.Activity) error
	List(ctx context.Context, f repositories.ActivityFilter) ([]models.Activity, error)
}

// ActivityLog appends audit entries and feeds the live activity stream.
// Logging is diagnostic, not transactional: Record never fails the operation
// that triggered it.
type ActivityLog struct {
	store     ActivityStore
	publisher events.Publisher
	log       *zap.Logger
}

func NewActivityLog(store ActivityStore, publisher events.Publisher, log *zap.Logger) *ActivityLog {
	return &ActivityLog{store: store, publisher: publisher, log: log}
}

// Record appends an entry for actor performing typ on doc, snapshotting the
// document and user names. Errors are logged and swallowed.
func (l *ActivityLog) Record(ctx context.Context, typ string, doc *models.Document, actor *models.User) {
	entry := &models.Activity{
		Type:         typ,
		DocumentID:   doc.ID,
		DocumentName: doc.Name,
		UserID:       actor.ID,
		UserName:     actor.Name,
	}
	if err := l.store.Insert(ctx, entry); err != nil {
		l.log.Error("failed to record activity",
			zap.String("type", typ),
			zap.String("document_id", doc.ID.String()),
			zap.Error(err))
		return
	}

	if l.publisher == nil {
		return
	}
	audience := make([]string, 0, len(doc.AccessUserIDs)+1)
	audience = append(audience, doc.UploaderID.String())
	for _, id := range doc.AccessUserIDs {
		audience = append(audience, id.String())
	}
	err := l.publisher.Publish(ctx, events.ActivityStream, events.Event{
		Type:     events.EventActivityLogged,
		Audience: audience,
		Payload: map[string]any{
			"activity_id":   entry.ID.String(),
			"activity_type": typ,
			"document_id":   doc.ID.String(),
			"document_name": doc.Name,
			"user_id":       actor.ID.String(),
			"user_name":     actor.Name,
		},
	})
	if err != nil {
		l.log.Warn("failed to publish activity event", zap.Error(err))
	}
}

// List returns activity entries newest-first. Non-admin viewers only see
// entries for documents they can currently view.
func (l *ActivityLog) List(ctx context.Context, viewer *models.User, documentID *uuid.UUID, limit, offset int) ([]models.Activity, error) {
	f := repositories.ActivityFilter{
		DocumentID: documentID,
		Limit:      limit,
		Offset:     offset,
	}
	if viewer.Role != models.RoleAdmin {
		f.ViewerID = &viewer.ID
	}
	return l.store.List(ctx, f)
}
