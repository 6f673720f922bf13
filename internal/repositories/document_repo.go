package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docvault/backend/internal/models"
)

// ErrNoTransition is returned by the conditional state updates when the row
// exists but is not in the required state, or does not exist at all. Callers
// disambiguate with a follow-up GetByID.
var ErrNoTransition = fmt.Errorf("document not in required state")

type DocumentRepo struct {
	pool *pgxpool.Pool
}

func NewDocumentRepo(pool *pgxpool.Pool) *DocumentRepo {
	return &DocumentRepo{pool: pool}
}

const documentColumns = `id, name, file_type, size_bytes, category, uploader_id, uploader_name,
	blob_key, access_user_ids, tags, created_at, updated_at, archived_at`

func scanDocument(row interface{ Scan(...any) error }) (*models.Document, error) {
	var d models.Document
	err := row.Scan(&d.ID, &d.Name, &d.FileType, &d.SizeBytes, &d.Category, &d.UploaderID,
		&d.UploaderName, &d.BlobKey, &d.AccessUserIDs, &d.Tags, &d.CreatedAt, &d.UpdatedAt, &d.ArchivedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DocumentRepo) Create(ctx context.Context, d *models.Document) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO documents (name, file_type, size_bytes, category, uploader_id, uploader_name, blob_key, access_user_ids, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, d.Name, d.FileType, d.SizeBytes, d.Category, d.UploaderID, d.UploaderName, d.BlobKey, d.AccessUserIDs, d.Tags,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

func (r *DocumentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	return scanDocument(r.pool.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id))
}

type DocumentFilter struct {
	// ViewerID restricts results to documents the viewer uploaded or is
	// listed on. Nil means no restriction (admin).
	ViewerID *uuid.UUID
	Archived bool
	Category *string
	Limit    int
	Offset   int
}

func (r *DocumentRepo) List(ctx context.Context, f DocumentFilter) ([]models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents`
	args := []any{}
	argIdx := 1

	where := []string{}
	if f.Archived {
		where = append(where, "archived_at IS NOT NULL")
	} else {
		where = append(where, "archived_at IS NULL")
	}
	if f.ViewerID != nil {
		where = append(where, fmt.Sprintf("(uploader_id = $%d OR $%d = ANY(access_user_ids))", argIdx, argIdx))
		args = append(args, *f.ViewerID)
		argIdx++
	}
	if f.Category != nil {
		where = append(where, fmt.Sprintf("category = $%d", argIdx))
		args = append(args, *f.Category)
		argIdx++
	}

	query += " WHERE "
	for i, w := range where {
		if i > 0 {
			query += " AND "
		}
		query += w
	}

	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if f.Archived {
		query += fmt.Sprintf(" ORDER BY archived_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	} else {
		query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	}
	args = append(args, limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *d)
	}
	return docs, rows.Err()
}

// Archive flips an active document to archived. The state predicate rides in
// the WHERE clause so two racing archive calls cannot both succeed.
func (r *DocumentRepo) Archive(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	doc, err := scanDocument(r.pool.QueryRow(ctx, `
		UPDATE documents SET archived_at = now(), updated_at = now()
		WHERE id = $1 AND archived_at IS NULL
		RETURNING `+documentColumns, id))
	if err == pgx.ErrNoRows {
		return nil, ErrNoTransition
	}
	return doc, err
}

// Restore flips an archived document back to active.
func (r *DocumentRepo) Restore(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	doc, err := scanDocument(r.pool.QueryRow(ctx, `
		UPDATE documents SET archived_at = NULL, updated_at = now()
		WHERE id = $1 AND archived_at IS NOT NULL
		RETURNING `+documentColumns, id))
	if err == pgx.ErrNoRows {
		return nil, ErrNoTransition
	}
	return doc, err
}

// DeleteArchived removes an archived document record. Active documents are
// refused at the SQL level; the caller must archive first.
func (r *DocumentRepo) DeleteArchived(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1 AND archived_at IS NOT NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoTransition
	}
	return nil
}

// GrantAccess unions userIDs into the access list in a single statement, so
// concurrent share calls cannot lose each other's additions and re-adding an
// existing id is a no-op.
func (r *DocumentRepo) GrantAccess(ctx context.Context, id uuid.UUID, userIDs []uuid.UUID) (*models.Document, error) {
	doc, err := scanDocument(r.pool.QueryRow(ctx, `
		UPDATE documents
		SET access_user_ids = ARRAY(SELECT DISTINCT unnest(access_user_ids || $2::uuid[]) ORDER BY 1),
		    updated_at = now()
		WHERE id = $1
		RETURNING `+documentColumns, id, userIDs))
	if err == pgx.ErrNoRows {
		return nil, ErrNoTransition
	}
	return doc, err
}
