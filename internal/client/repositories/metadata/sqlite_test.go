package metadata

import (
	"context"
	"database/sql"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/choirhub/internal/client/migrations"
	"github.com/dmitrijs2005/choirhub/internal/dbx"

	_ "modernc.org/sqlite"
)

// setupDB opens an in-memory database migrated with the client schema.
func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.Migrations)
	t.Cleanup(func() { goose.SetBaseFS(nil) })
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.UpContext(context.Background(), db, "."))
	return db
}

func TestPutGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	_, ok, err := r.Get(ctx, "session.token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.Put(ctx, "session.token", "abc"))
	require.NoError(t, r.Put(ctx, "session.token", "def"))

	v, ok, err := r.Get(ctx, "session.token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "def", v)
}

func TestDelete_SeveralKeys(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, r.Put(ctx, k, k+"-value"))
	}
	require.NoError(t, r.Delete(ctx, "a", "c", "missing"))
	require.NoError(t, r.Delete(ctx))

	_, ok, err := r.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok, err := r.Get(ctx, "b")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "b-value", v)
}

func TestPut_RolledBackWithTx(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		require.NoError(t, NewSQLiteRepository(tx).Put(ctx, "k", "v"))
		return sql.ErrTxDone
	})
	require.ErrorIs(t, err, sql.ErrTxDone)

	_, ok, err := NewSQLiteRepository(db).Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClosedDB_ErrorsWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, _, err := r.Get(ctx, "k")
	assert.ErrorContains(t, err, "db error: read k")
	assert.ErrorContains(t, r.Put(ctx, "k", "v"), "db error: write k")
	assert.ErrorContains(t, r.Delete(ctx, "k", "j"), "db error: delete k,j")
}
