package client

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/choirhub/internal/client/migrations"
	"github.com/dmitrijs2005/choirhub/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// StateFileName is the SQLite file kept inside the client state directory.
const StateFileName = "state.db"

// RunMigrations applies the embedded client migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if needed) the SQLite database at dsn and
// brings its schema up to date.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OpenState creates stateDir with owner-only permissions and opens the
// state database inside it.
func OpenState(ctx context.Context, stateDir string) (*sql.DB, error) {
	dir, err := filex.EnsureDir(stateDir)
	if err != nil {
		return nil, fmt.Errorf("state dir: %w", err)
	}
	return InitDatabase(ctx, filepath.Join(dir, StateFileName))
}
