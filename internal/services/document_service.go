package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/docvault/backend/internal/access"
	"github.com/docvault/backend/internal/config"
	"github.com/docvault/backend/internal/models"
	"github.com/docvault/backend/internal/repositories"
	"github.com/docvault/backend/internal/storage"
)

// contentTypes covers the file types the system accepts.
var contentTypes = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
}

// DocumentStore is the repository surface the lifecycle service drives. The
// state-transition methods must be atomic against the current record state
// (see repositories.DocumentRepo).
type DocumentStore interface {
	Create(ctx context.Context, d *models.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	List(ctx context.Context, f repositories.DocumentFilter) ([]models.Document, error)
	Archive(ctx context.Context, id uuid.UUID) (*models.Document, error)
	Restore(ctx context.Context, id uuid.UUID) (*models.Document, error)
	DeleteArchived(ctx context.Context, id uuid.UUID) error
	GrantAccess(ctx context.Context, id uuid.UUID, userIDs []uuid.UUID) (*models.Document, error)
}

// DocumentService orchestrates the document lifecycle: every mutation runs
// the access check first and records an activity entry after.
type DocumentService struct {
	docs     DocumentStore
	blobs    storage.BlobStore
	activity *ActivityLog
	cfg      *config.Config
	log      *zap.Logger
}

func NewDocumentService(docs DocumentStore, blobs storage.BlobStore, activity *ActivityLog, cfg *config.Config, log *zap.Logger) *DocumentService {
	return &DocumentService{docs: docs, blobs: blobs, activity: activity, cfg: cfg, log: log}
}

type UploadInput struct {
	Filename      string
	Size          int64
	Category      string
	AccessUserIDs []uuid.UUID
}

// Upload stores the file bytes, creates the document record and logs an
// upload activity. A failed record create triggers a compensating blob delete
// so no orphaned object is left behind.
func (s *DocumentService) Upload(ctx context.Context, actor *models.User, r io.Reader, in UploadInput) (*models.Document, error) {
	if !access.CanUpload(actor) {
		return nil, ErrAccessDenied
	}
	if r == nil {
		return nil, fmt.Errorf("%w: missing file content", ErrValidation)
	}

	ext := strings.ToLower(filepath.Ext(in.Filename))
	contentType, ok := contentTypes[ext]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported file type %q", ErrValidation, ext)
	}
	if in.Size <= 0 || in.Size > s.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("%w: file size %d out of range", ErrValidation, in.Size)
	}
	if in.Category == "" {
		in.Category = models.CategoryCMCT
	}
	if !models.IsValidCategory(in.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, in.Category)
	}

	// Blob first, metadata second: nothing references the object until the
	// record exists, and no document lock is held across the network call.
	key := fmt.Sprintf("%s/%s%s", actor.ID, uuid.New(), ext)
	if err := s.blobs.Put(ctx, key, r, storage.PutOptions{Size: in.Size, ContentType: contentType}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	doc := &models.Document{
		Name:          in.Filename,
		FileType:      strings.TrimPrefix(ext, "."),
		SizeBytes:     in.Size,
		Category:      in.Category,
		UploaderID:    actor.ID,
		UploaderName:  actor.Name,
		BlobKey:       key,
		AccessUserIDs: dedupeWithout(in.AccessUserIDs, actor.ID),
		Tags:          []string{},
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			s.log.Error("compensating blob delete failed",
				zap.String("blob_key", key), zap.Error(delErr))
		}
		return nil, fmt.Errorf("create document record: %w", err)
	}

	s.activity.Record(ctx, models.ActivityUpload, doc, actor)
	return doc, nil
}

// Get returns a single document after a view-level access check, without
// logging an activity entry.
func (s *DocumentService) Get(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Document, error) {
	doc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.Can(actor, doc, access.OpView) {
		return nil, ErrAccessDenied
	}
	return doc, nil
}

// List returns active or archived documents visible to actor.
func (s *DocumentService) List(ctx context.Context, actor *models.User, archived bool, category *string, limit, offset int) ([]models.Document, error) {
	f := repositories.DocumentFilter{
		Archived: archived,
		Category: category,
		Limit:    limit,
		Offset:   offset,
	}
	if actor.Role != models.RoleAdmin {
		f.ViewerID = &actor.ID
	}
	return s.docs.List(ctx, f)
}

// Archive moves an active document to the archived state.
func (s *DocumentService) Archive(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Document, error) {
	doc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.Can(actor, doc, access.OpArchive) {
		return nil, ErrAccessDenied
	}
	if doc.IsArchived() {
		return nil, fmt.Errorf("%w: document already archived", ErrInvalidState)
	}

	updated, err := s.docs.Archive(ctx, id)
	if err != nil {
		// A racing archive or delete won the transition.
		if errors.Is(err, repositories.ErrNoTransition) {
			return nil, fmt.Errorf("%w: document already archived", ErrInvalidState)
		}
		return nil, err
	}

	s.activity.Record(ctx, models.ActivityArchive, updated, actor)
	return updated, nil
}

// Restore moves an archived document back to the active state.
func (s *DocumentService) Restore(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Document, error) {
	doc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.Can(actor, doc, access.OpRestore) {
		return nil, ErrAccessDenied
	}
	if !doc.IsArchived() {
		return nil, fmt.Errorf("%w: document is not archived", ErrInvalidState)
	}

	updated, err := s.docs.Restore(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNoTransition) {
			return nil, fmt.Errorf("%w: document is not archived", ErrInvalidState)
		}
		return nil, err
	}

	s.activity.Record(ctx, models.ActivityRestore, updated, actor)
	return updated, nil
}

// Delete permanently removes an archived document: blob first (best-effort),
// then the record. The activity entry keeps the name captured before
// deletion.
func (s *DocumentService) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	doc, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !access.Can(actor, doc, access.OpDelete) {
		return ErrAccessDenied
	}
	if !doc.IsArchived() {
		return fmt.Errorf("%w: document must be archived before deletion", ErrInvalidState)
	}

	// Blob deletion failures must not make the document undeletable.
	if err := s.blobs.Delete(ctx, doc.BlobKey); err != nil {
		s.log.Warn("blob delete failed, removing record anyway",
			zap.String("blob_key", doc.BlobKey), zap.Error(err))
	}

	if err := s.docs.DeleteArchived(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNoTransition) {
			return fmt.Errorf("%w: document must be archived before deletion", ErrInvalidState)
		}
		return err
	}

	s.activity.Record(ctx, models.ActivityDelete, doc, actor)
	return nil
}

// Share grants the given users read access. The union is idempotent and one
// activity entry is logged per call, not per user.
func (s *DocumentService) Share(ctx context.Context, actor *models.User, id uuid.UUID, userIDs []uuid.UUID) (*models.Document, error) {
	doc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.Can(actor, doc, access.OpShare) {
		return nil, ErrAccessDenied
	}

	grant := dedupeWithout(userIDs, doc.UploaderID)
	if len(grant) == 0 {
		return nil, fmt.Errorf("%w: no users to share with", ErrValidation)
	}

	updated, err := s.docs.GrantAccess(ctx, id, grant)
	if err != nil {
		if errors.Is(err, repositories.ErrNoTransition) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.activity.Record(ctx, models.ActivityShare, updated, actor)
	return updated, nil
}

// View returns a time-bounded URL for inline viewing and logs a view entry.
func (s *DocumentService) View(ctx context.Context, actor *models.User, id uuid.UUID) (string, error) {
	return s.issueURL(ctx, actor, id, access.OpView, models.ActivityView)
}

// Download returns a time-bounded URL for download and logs a download entry.
func (s *DocumentService) Download(ctx context.Context, actor *models.User, id uuid.UUID) (string, error) {
	return s.issueURL(ctx, actor, id, access.OpDownload, models.ActivityDownload)
}

func (s *DocumentService) issueURL(ctx context.Context, actor *models.User, id uuid.UUID, op, activityType string) (string, error) {
	doc, err := s.load(ctx, id)
	if err != nil {
		return "", err
	}
	if !access.Can(actor, doc, op) {
		return "", ErrAccessDenied
	}

	url, err := s.blobs.PresignGet(ctx, doc.BlobKey, s.cfg.PresignExpiry)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}

	// Logged on success whether or not the handle is ever used.
	s.activity.Record(ctx, activityType, doc, actor)
	return url, nil
}

func (s *DocumentService) load(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// dedupeWithout copies ids, dropping duplicates and the excluded id. The
// uploader never appears in its own access list.
func dedupeWithout(ids []uuid.UUID, exclude uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == exclude || id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
