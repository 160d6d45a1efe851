package server

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/choirhub/internal/common"
	"github.com/dmitrijs2005/choirhub/internal/dbx"
	"github.com/dmitrijs2005/choirhub/internal/server/config"
	"github.com/dmitrijs2005/choirhub/internal/server/models"
	"github.com/dmitrijs2005/choirhub/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/choirhub/internal/server/repositories/concerts"
	"github.com/dmitrijs2005/choirhub/internal/server/repositories/recordings"
	"github.com/dmitrijs2005/choirhub/internal/server/repositories/rehearsals"
	"github.com/dmitrijs2005/choirhub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/choirhub/internal/server/repositories/sheetmusic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedRepo only implements what the admin bootstrap needs.
type seedRepo struct {
	accounts.Repository
	created []*models.Account
}

func (r *seedRepo) GetByUsername(context.Context, string) (*models.Account, error) {
	return nil, common.ErrorNotFound
}

func (r *seedRepo) GetByEmail(context.Context, string) (*models.Account, error) {
	return nil, common.ErrorNotFound
}

func (r *seedRepo) Create(_ context.Context, acc *models.Account) (*models.Account, error) {
	r.created = append(r.created, acc)
	c := *acc
	c.ID = "admin-1"
	return &c, nil
}

type stubManager struct {
	migrateErr error
	migrated   bool
	accounts   *seedRepo
}

func (m *stubManager) RunMigrations(context.Context, *sql.DB) error {
	m.migrated = true
	return m.migrateErr
}
func (m *stubManager) Accounts(dbx.DBTX) accounts.Repository     { return m.accounts }
func (m *stubManager) Concerts(dbx.DBTX) concerts.Repository     { return nil }
func (m *stubManager) Rehearsals(dbx.DBTX) rehearsals.Repository { return nil }
func (m *stubManager) Recordings(dbx.DBTX) recordings.Repository { return nil }
func (m *stubManager) SheetMusic(dbx.DBTX) sheetmusic.Repository { return nil }

func testAppConfig() *config.Config {
	var c config.Config
	c.LoadDefaults()
	c.EndpointAddrHTTP = "127.0.0.1:0"
	c.EndpointAddrGRPC = "127.0.0.1:0"
	c.LogLevel = "error"
	c.AdminPassword = "changeme"
	return &c
}

func stubSeams(t *testing.T, db *sql.DB, openErr error, m *stubManager) {
	t.Helper()
	origOpen, origManager := openDB, newRepoManager
	openDB = func(context.Context, string) (*sql.DB, error) { return db, openErr }
	newRepoManager = func() repomanager.RepositoryManager { return m }
	t.Cleanup(func() { openDB, newRepoManager = origOpen, origManager })
}

func TestNewApp_SeedsAdminAndRuns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	m := &stubManager{accounts: &seedRepo{}}
	stubSeams(t, db, nil, m)

	app, err := NewApp(context.Background(), testAppConfig())
	require.NoError(t, err)
	assert.True(t, m.migrated)
	require.Len(t, m.accounts.created, 1)
	assert.Equal(t, models.RoleAdmin, m.accounts.created[0].Role)
	assert.True(t, m.accounts.created[0].Approved)
	assert.NotEqual(t, "changeme", m.accounts.created[0].PasswordHash)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop after cancel")
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewApp_Errors(t *testing.T) {
	t.Run("open", func(t *testing.T) {
		stubSeams(t, nil, errors.New("dial tcp: refused"), &stubManager{})
		_, err := NewApp(context.Background(), testAppConfig())
		assert.ErrorContains(t, err, "db init error")
	})

	t.Run("migrations", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		mock.ExpectClose()

		stubSeams(t, db, nil, &stubManager{migrateErr: errors.New("bad sql"), accounts: &seedRepo{}})
		_, err = NewApp(context.Background(), testAppConfig())
		assert.ErrorContains(t, err, "migrations error")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("bootstrap", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		mock.ExpectClose()

		cfg := testAppConfig()
		cfg.AdminEmail = "not-an-email"
		stubSeams(t, db, nil, &stubManager{accounts: &seedRepo{}})
		_, err = NewApp(context.Background(), cfg)
		assert.ErrorIs(t, err, common.ErrValidation)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
