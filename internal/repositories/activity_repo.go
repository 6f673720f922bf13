package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docvault/backend/internal/models"
)

type ActivityRepo struct {
	pool *pgxpool.Pool
}

func NewActivityRepo(pool *pgxpool.Pool) *ActivityRepo {
	return &ActivityRepo{pool: pool}
}

func (r *ActivityRepo) Insert(ctx context.Context, a *models.Activity) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO activities (type, document_id, document_name, user_id, user_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, a.Type, a.DocumentID, a.DocumentName, a.UserID, a.UserName).Scan(&a.ID, &a.CreatedAt)
}

type ActivityFilter struct {
	// ViewerID restricts results to activities on documents the viewer can
	// currently see. Nil means no restriction (admin). Entries for deleted
	// documents drop out of restricted views because the join target is gone.
	ViewerID   *uuid.UUID
	DocumentID *uuid.UUID
	UserID     *uuid.UUID
	Limit      int
	Offset     int
}

func (r *ActivityRepo) List(ctx context.Context, f ActivityFilter) ([]models.Activity, error) {
	query := `
		SELECT a.id, a.type, a.document_id, a.document_name, a.user_id, a.user_name, a.created_at
		FROM activities a
	`
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.ViewerID != nil {
		query += ` JOIN documents d ON d.id = a.document_id `
		where = append(where, fmt.Sprintf("(d.uploader_id = $%d OR $%d = ANY(d.access_user_ids))", argIdx, argIdx))
		args = append(args, *f.ViewerID)
		argIdx++
	}
	if f.DocumentID != nil {
		where = append(where, fmt.Sprintf("a.document_id = $%d", argIdx))
		args = append(args, *f.DocumentID)
		argIdx++
	}
	if f.UserID != nil {
		where = append(where, fmt.Sprintf("a.user_id = $%d", argIdx))
		args = append(args, *f.UserID)
		argIdx++
	}

	if len(where) > 0 {
		query += " WHERE "
		for i, w := range where {
			if i > 0 {
				query += " AND "
			}
			query += w
		}
	}

	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query += fmt.Sprintf(" ORDER BY a.created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.ID, &a.Type, &a.DocumentID, &a.DocumentName, &a.UserID, &a.UserName, &a.CreatedAt); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}
