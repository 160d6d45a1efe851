package recordings

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/choirhub/internal/dbx"
	"github.com/dmitrijs2005/choirhub/internal/server/models"
)

const columns = `id, title, description, file_name, storage_key, content_type, file_size, duration_seconds,
	is_public, COALESCE(uploaded_by::text, ''), upload_status, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecording(s scanner) (*models.Recording, error) {
	r := &models.Recording{}
	err := s.Scan(&r.ID, &r.Title, &r.Description, &r.FileName, &r.StorageKey, &r.ContentType, &r.FileSize,
		&r.DurationSeconds, &r.IsPublic, &r.UploadedBy, &r.UploadStatus, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (p *PostgresRepository) Create(ctx context.Context, r *models.Recording) (*models.Recording, error) {
	query :=
		`INSERT INTO recordings (title, description, file_name, storage_key, content_type, file_size,
		                         duration_seconds, is_public, uploaded_by, upload_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at`

	err := p.db.QueryRowContext(ctx, query,
		r.Title, r.Description, r.FileName, r.StorageKey, r.ContentType, r.FileSize,
		r.DurationSeconds, r.IsPublic, r.UploadedBy, r.UploadStatus).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return r, nil
}

func (p *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Recording, error) {
	r, err := scanRecording(p.db.QueryRowContext(ctx, `SELECT `+columns+` FROM recordings WHERE id = $1`, id))
	if err != nil {
		return nil, dbx.Wrap(err)
	}
	return r, nil
}

func (p *PostgresRepository) List(ctx context.Context) ([]*models.Recording, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT `+columns+` FROM recordings ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.Recording
	for rows.Next() {
		r, err := scanRecording(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

// Update writes the editable metadata; file fields are immutable.
func (p *PostgresRepository) Update(ctx context.Context, r *models.Recording) (*models.Recording, error) {
	query :=
		`UPDATE recordings SET title = $1, description = $2, duration_seconds = $3, is_public = $4
		 WHERE id = $5
		 RETURNING ` + columns

	out, err := scanRecording(p.db.QueryRowContext(ctx, query,
		r.Title, r.Description, r.DurationSeconds, r.IsPublic, r.ID))
	if err != nil {
		return nil, dbx.Wrap(err)
	}
	return out, nil
}

func (p *PostgresRepository) MarkCompleted(ctx context.Context, id string) (*models.Recording, error) {
	query := `UPDATE recordings SET upload_status = $1 WHERE id = $2 RETURNING ` + columns

	out, err := scanRecording(p.db.QueryRowContext(ctx, query, models.UploadCompleted, id))
	if err != nil {
		return nil, dbx.Wrap(err)
	}
	return out, nil
}

func (p *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM recordings WHERE id = $1`, id)
	if err != nil {
		return dbx.Wrap(err)
	}
	return dbx.ExpectOne(res)
}
