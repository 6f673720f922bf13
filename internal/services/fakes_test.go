package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/docvault/backend/internal/models"
	"github.com/docvault/backend/internal/repositories"
)

// fakeDocStore is an in-memory DocumentStore honoring the same atomicity
// contract as the pgx repository: state transitions and access-list unions
// happen under one lock, conditional on the current state.
type fakeDocStore struct {
	mu        sync.Mutex
	docs      map[uuid.UUID]*models.Document
	createErr error
}

func newFakeDocStore() *fakeDocStore {
	return &fakeDocStore{docs: make(map[uuid.UUID]*models.Document)}
}

func cloneDoc(d *models.Document) *models.Document {
	c := *d
	c.AccessUserIDs = append([]uuid.UUID(nil), d.AccessUserIDs...)
	c.Tags = append([]string(nil), d.Tags...)
	if d.ArchivedAt != nil {
		t := *d.ArchivedAt
		c.ArchivedAt = &t
	}
	return &c
}

func (f *fakeDocStore) Create(ctx context.Context, d *models.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	f.docs[d.ID] = cloneDoc(d)
	return nil
}

func (f *fakeDocStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return cloneDoc(d), nil
}

func (f *fakeDocStore) List(ctx context.Context, filter repositories.DocumentFilter) ([]models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Document
	for _, d := range f.docs {
		if filter.Archived != (d.ArchivedAt != nil) {
			continue
		}
		if filter.ViewerID != nil {
			v := *filter.ViewerID
			if d.UploaderID != v && !d.HasExplicitAccess(v) {
				continue
			}
		}
		if filter.Category != nil && d.Category != *filter.Category {
			continue
		}
		out = append(out, *cloneDoc(d))
	}
	return out, nil
}

func (f *fakeDocStore) Archive(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[id]
	if !ok || d.ArchivedAt != nil {
		return nil, repositories.ErrNoTransition
	}
	now := time.Now()
	d.ArchivedAt = &now
	d.UpdatedAt = now
	return cloneDoc(d), nil
}

func (f *fakeDocStore) Restore(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[id]
	if !ok || d.ArchivedAt == nil {
		return nil, repositories.ErrNoTransition
	}
	d.ArchivedAt = nil
	d.UpdatedAt = time.Now()
	return cloneDoc(d), nil
}

func (f *fakeDocStore) DeleteArchived(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[id]
	if !ok || d.ArchivedAt == nil {
		return repositories.ErrNoTransition
	}
	delete(f.docs, id)
	return nil
}

func (f *fakeDocStore) GrantAccess(ctx context.Context, id uuid.UUID, userIDs []uuid.UUID) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[id]
	if !ok {
		return nil, repositories.ErrNoTransition
	}
	for _, uid := range userIDs {
		if !d.HasExplicitAccess(uid) {
			d.AccessUserIDs = append(d.AccessUserIDs, uid)
		}
	}
	d.UpdatedAt = time.Now()
	return cloneDoc(d), nil
}

// fakeActivityStore records inserted entries in order.
type fakeActivityStore struct {
	mu         sync.Mutex
	entries    []models.Activity
	insertErr  error
	lastFilter repositories.ActivityFilter
}

func (f *fakeActivityStore) Insert(ctx context.Context, a *models.Activity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	f.entries = append(f.entries, *a)
	return nil
}

func (f *fakeActivityStore) List(ctx context.Context, filter repositories.ActivityFilter) ([]models.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = filter
	var out []models.Activity
	for i := len(f.entries) - 1; i >= 0; i-- {
		a := f.entries[i]
		if filter.DocumentID != nil && a.DocumentID != *filter.DocumentID {
			continue
		}
		if filter.UserID != nil && a.UserID != *filter.UserID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeActivityStore) byType(typ string) []models.Activity {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Activity
	for _, a := range f.entries {
		if a.Type == typ {
			out = append(out, a)
		}
	}
	return out
}

// fakeUserStore backs the auth service tests.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*models.User)}
}

func (f *fakeUserStore) add(u *models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	f.users[u.ID] = u
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	c := *u
	return &c, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserStore) ListActive(ctx context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, u := range f.users {
		if u.Status == models.StatusActive {
			out = append(out, *u)
		}
	}
	return out, nil
}
