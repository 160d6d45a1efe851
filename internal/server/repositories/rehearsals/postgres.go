package rehearsals

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/choirhub/internal/dbx"
	"github.com/dmitrijs2005/choirhub/internal/server/models"
)

const columns = `id, title, description, date, location, duration_minutes, COALESCE(created_by::text, ''), created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRehearsal(s scanner) (*models.Rehearsal, error) {
	r := &models.Rehearsal{}
	if err := s.Scan(&r.ID, &r.Title, &r.Description, &r.Date, &r.Location, &r.DurationMinutes, &r.CreatedBy, &r.CreatedAt); err != nil {
		return nil, err
	}
	return r, nil
}

func (p *PostgresRepository) Create(ctx context.Context, r *models.Rehearsal) (*models.Rehearsal, error) {
	query :=
		`INSERT INTO rehearsals (title, description, date, location, duration_minutes, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`

	err := p.db.QueryRowContext(ctx, query,
		r.Title, r.Description, r.Date, r.Location, r.DurationMinutes, r.CreatedBy).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return r, nil
}

func (p *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Rehearsal, error) {
	query := `SELECT ` + columns + ` FROM rehearsals WHERE id = $1`

	r, err := scanRehearsal(p.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, dbx.Wrap(err)
	}
	return r, nil
}

func (p *PostgresRepository) List(ctx context.Context) ([]*models.Rehearsal, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT `+columns+` FROM rehearsals ORDER BY date ASC`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.Rehearsal
	for rows.Next() {
		r, err := scanRehearsal(rows)
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

func (p *PostgresRepository) Update(ctx context.Context, r *models.Rehearsal) (*models.Rehearsal, error) {
	query :=
		`UPDATE rehearsals SET title = $1, description = $2, date = $3, location = $4, duration_minutes = $5
		 WHERE id = $6
		 RETURNING ` + columns

	out, err := scanRehearsal(p.db.QueryRowContext(ctx, query,
		r.Title, r.Description, r.Date, r.Location, r.DurationMinutes, r.ID))
	if err != nil {
		return nil, dbx.Wrap(err)
	}
	return out, nil
}

func (p *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM rehearsals WHERE id = $1`, id)
	if err != nil {
		return dbx.Wrap(err)
	}
	return dbx.ExpectOne(res)
}
