package accounts

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/choirhub/internal/common"
	"github.com/dmitrijs2005/choirhub/internal/dbx"
	"github.com/dmitrijs2005/choirhub/internal/server/models"
)

const columns = `id, username, email, password_hash, first_name, last_name, voice_part, phone, role, is_approved, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(s scanner) (*models.Account, error) {
	a := &models.Account{}
	err := s.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.FirstName, &a.LastName,
		&a.VoicePart, &a.Phone, &a.Role, &a.Approved, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// mapErr is dbx.Wrap plus the uniqueness violation on username/email.
func mapErr(err error) error {
	if dbx.IsUniqueViolation(err) {
		return common.ErrDuplicateIdentity
	}
	return dbx.Wrap(err)
}

func (r *PostgresRepository) Create(ctx context.Context, acc *models.Account) (*models.Account, error) {
	query :=
		`INSERT INTO accounts (username, email, password_hash, first_name, last_name, voice_part, phone, role, is_approved)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		acc.Username, acc.Email, acc.PasswordHash, acc.FirstName, acc.LastName,
		acc.VoicePart, acc.Phone, acc.Role, acc.Approved).Scan(&acc.ID, &acc.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}

	return acc, nil
}

func (r *PostgresRepository) getBy(ctx context.Context, column, value string) (*models.Account, error) {
	query := `SELECT ` + columns + ` FROM accounts WHERE ` + column + ` = $1`

	acc, err := scanAccount(r.db.QueryRowContext(ctx, query, value))
	if err != nil {
		return nil, dbx.Wrap(err)
	}
	return acc, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return r.getBy(ctx, "id", id)
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	return r.getBy(ctx, "username", username)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.getBy(ctx, "email", email)
}

// Update applies the non-nil fields of patch. An empty patch just re-reads the row.
func (r *PostgresRepository) Update(ctx context.Context, id string, patch *models.AccountPatch) (*models.Account, error) {
	var (
		sets []string
		args []any
	)
	add := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.FirstName != nil {
		add("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		add("last_name", *patch.LastName)
	}
	if patch.VoicePart != nil {
		add("voice_part", *patch.VoicePart)
	}
	if patch.Phone != nil {
		add("phone", *patch.Phone)
	}
	if patch.Role != nil {
		add("role", *patch.Role)
	}
	if patch.Approved != nil {
		add("is_approved", *patch.Approved)
	}
	if patch.PasswordHash != nil {
		add("password_hash", *patch.PasswordHash)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE accounts SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), columns)

	acc, err := scanAccount(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, mapErr(err)
	}
	return acc, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return dbx.Wrap(err)
	}
	return dbx.ExpectOne(res)
}

func (r *PostgresRepository) Approve(ctx context.Context, id string) (*models.Account, error) {
	query := `UPDATE accounts SET is_approved = TRUE WHERE id = $1 RETURNING ` + columns

	acc, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, dbx.Wrap(err)
	}
	return acc, nil
}

// RejectPending is a single conditional delete, so two racing admins cannot
// both succeed and an approved member is never removed.
func (r *PostgresRepository) RejectPending(ctx context.Context, id string) error {
	query :=
		`DELETE FROM accounts
		 WHERE id = $1 AND is_approved = FALSE AND role <> 'admin'`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return dbx.Wrap(err)
	}
	return dbx.ExpectOne(res)
}

func (r *PostgresRepository) ListPending(ctx context.Context) ([]*models.Account, error) {
	query := `SELECT ` + columns + ` FROM accounts
		 WHERE is_approved = FALSE AND role <> 'admin'
		 ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Account, error) {
	query := `SELECT ` + columns + ` FROM accounts ORDER BY last_name, first_name`
	return r.list(ctx, query)
}

func (r *PostgresRepository) list(ctx context.Context, query string) ([]*models.Account, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
