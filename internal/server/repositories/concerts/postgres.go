package concerts

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/choirhub/internal/dbx"
	"github.com/dmitrijs2005/choirhub/internal/server/models"
)

const columns = `id, title, description, date, location, is_public, COALESCE(created_by::text, ''), created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanConcert(s scanner) (*models.Concert, error) {
	c := &models.Concert{}
	if err := s.Scan(&c.ID, &c.Title, &c.Description, &c.Date, &c.Location, &c.IsPublic, &c.CreatedBy, &c.CreatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Concert) (*models.Concert, error) {
	query :=
		`INSERT INTO concerts (title, description, date, location, is_public, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		c.Title, c.Description, c.Date, c.Location, c.IsPublic, c.CreatedBy).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Concert, error) {
	query := `SELECT ` + columns + ` FROM concerts WHERE id = $1`

	c, err := scanConcert(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, dbx.Wrap(err)
	}
	return c, nil
}

func (r *PostgresRepository) List(ctx context.Context, publicOnly bool) ([]*models.Concert, error) {
	query := `SELECT ` + columns + ` FROM concerts WHERE is_public OR NOT $1 ORDER BY date ASC`

	rows, err := r.db.QueryContext(ctx, query, publicOnly)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.Concert
	for rows.Next() {
		c, err := scanConcert(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Update(ctx context.Context, c *models.Concert) (*models.Concert, error) {
	query :=
		`UPDATE concerts SET title = $1, description = $2, date = $3, location = $4, is_public = $5
		 WHERE id = $6
		 RETURNING ` + columns

	out, err := scanConcert(r.db.QueryRowContext(ctx, query,
		c.Title, c.Description, c.Date, c.Location, c.IsPublic, c.ID))
	if err != nil {
		return nil, dbx.Wrap(err)
	}
	return out, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM concerts WHERE id = $1`, id)
	if err != nil {
		return dbx.Wrap(err)
	}
	return dbx.ExpectOne(res)
}
