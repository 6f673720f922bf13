package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/docvault/backend/internal/events"
	"github.com/docvault/backend/internal/models"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (f *fakePublisher) Publish(ctx context.Context, stream string, e events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, e)
	return nil
}

func TestRecordPublishesToUploaderAndAccessList(t *testing.T) {
	store := &fakeActivityStore{}
	pub := &fakePublisher{}
	log := NewActivityLog(store, pub, zap.NewNop())

	shared := uuid.New()
	doc := &models.Document{
		ID:            uuid.New(),
		Name:          "handbook.pdf",
		UploaderID:    uuid.New(),
		AccessUserIDs: []uuid.UUID{shared},
	}
	actor := testUser(models.RoleEditor)

	log.Record(context.Background(), models.ActivityView, doc, actor)

	require.Len(t, store.entries, 1)
	require.Len(t, pub.events, 1)
	e := pub.events[0]
	assert.Equal(t, events.EventActivityLogged, e.Type)
	assert.ElementsMatch(t, []string{doc.UploaderID.String(), shared.String()}, e.Audience)
	assert.Equal(t, "handbook.pdf", e.Payload["document_name"])
	assert.Equal(t, models.ActivityView, e.Payload["activity_type"])
	assert.Equal(t, actor.ID.String(), e.Payload["user_id"])
}

func TestRecordSkipsPublishWhenInsertFails(t *testing.T) {
	store := &fakeActivityStore{insertErr: errors.New("insert failed")}
	pub := &fakePublisher{}
	log := NewActivityLog(store, pub, zap.NewNop())

	doc := &models.Document{ID: uuid.New(), Name: "a.pdf", UploaderID: uuid.New()}
	log.Record(context.Background(), models.ActivityUpload, doc, testUser(models.RoleEditor))

	assert.Empty(t, store.entries)
	assert.Empty(t, pub.events)
}

func TestRecordSurvivesPublishFailure(t *testing.T) {
	store := &fakeActivityStore{}
	pub := &fakePublisher{err: errors.New("redis down")}
	log := NewActivityLog(store, pub, zap.NewNop())

	doc := &models.Document{ID: uuid.New(), Name: "a.pdf", UploaderID: uuid.New()}
	log.Record(context.Background(), models.ActivityDownload, doc, testUser(models.RoleEditor))

	assert.Len(t, store.entries, 1)
}

func TestListScopesNonAdminViewers(t *testing.T) {
	store := &fakeActivityStore{}
	log := NewActivityLog(store, nil, zap.NewNop())
	viewer := testUser(models.RoleViewer)
	admin := testUser(models.RoleAdmin)

	_, err := log.List(context.Background(), viewer, nil, 10, 0)
	require.NoError(t, err)
	require.NotNil(t, store.lastFilter.ViewerID)
	assert.Equal(t, viewer.ID, *store.lastFilter.ViewerID)

	_, err = log.List(context.Background(), admin, nil, 10, 0)
	require.NoError(t, err)
	assert.Nil(t, store.lastFilter.ViewerID)
}
