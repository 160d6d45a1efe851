package sheetmusic

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/choirhub/internal/dbx"
	"github.com/dmitrijs2005/choirhub/internal/server/models"
)

const columns = `id, title, composer, description, voice_part, file_name, storage_key, content_type, file_size,
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

func scanSheet(s scanner) (*models.SheetMusic, error) {
	m := &models.SheetMusic{}
	err := s.Scan(&m.ID, &m.Title, &m.Composer, &m.Description, &m.VoicePart, &m.FileName, &m.StorageKey,
		&m.ContentType, &m.FileSize, &m.IsPublic, &m.UploadedBy, &m.UploadStatus, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (p *PostgresRepository) Create(ctx context.Context, s *models.SheetMusic) (*models.SheetMusic, error) {
	query :=
		`INSERT INTO sheet_music (title, composer, description, voice_part, file_name, storage_key,
		                          content_type, file_size, is_public, uploaded_by, upload_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at`

	err := p.db.QueryRowContext(ctx, query,
		s.Title, s.Composer, s.Description, s.VoicePart, s.FileName, s.StorageKey,
		s.ContentType, s.FileSize, s.IsPublic, s.UploadedBy, s.UploadStatus).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (p *PostgresRepository) GetByID(ctx context.Context, id string) (*models.SheetMusic, error) {
	s, err := scanSheet(p.db.QueryRowContext(ctx, `SELECT `+columns+` FROM sheet_music WHERE id = $1`, id))
	if err != nil {
		return nil, dbx.Wrap(err)
	}
	return s, nil
}

func (p *PostgresRepository) List(ctx context.Context) ([]*models.SheetMusic, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT `+columns+` FROM sheet_music ORDER BY title ASC`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.SheetMusic
	for rows.Next() {
		s, err := scanSheet(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (p *PostgresRepository) Update(ctx context.Context, s *models.SheetMusic) (*models.SheetMusic, error) {
	query :=
		`UPDATE sheet_music SET title = $1, composer = $2, description = $3, voice_part = $4, is_public = $5
		 WHERE id = $6
		 RETURNING ` + columns

	out, err := scanSheet(p.db.QueryRowContext(ctx, query,
		s.Title, s.Composer, s.Description, s.VoicePart, s.IsPublic, s.ID))
	if err != nil {
		return nil, dbx.Wrap(err)
	}
	return out, nil
}

func (p *PostgresRepository) MarkCompleted(ctx context.Context, id string) (*models.SheetMusic, error) {
	query := `UPDATE sheet_music SET upload_status = $1 WHERE id = $2 RETURNING ` + columns

	out, err := scanSheet(p.db.QueryRowContext(ctx, query, models.UploadCompleted, id))
	if err != nil {
		return nil, dbx.Wrap(err)
	}
	return out, nil
}

func (p *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM sheet_music WHERE id = $1`, id)
	if err != nil {
		return dbx.Wrap(err)
	}
	return dbx.ExpectOne(res)
}
