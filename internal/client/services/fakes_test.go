package services

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/choirhub/internal/client/client"
	"github.com/dmitrijs2005/choirhub/internal/server/models"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// fakeClient implements client.Client for service tests.
type fakeClient struct {
	token string

	PingErr error

	RegisterRet  *models.PublicAccount
	RegisterErr  error
	LastRegister client.RegisterRequest

	LoginRet      *client.Session
	LoginErr      error
	LastLoginUser string
	LastLoginPass string

	MeRet *models.PublicAccount
	MeErr error

	PasswordErr  error
	LastPassword [2]string

	MembersRet []models.PublicAccount
	PendingRet []models.PublicAccount
	MemberErr  error
	Calls      []string
	LastRole   models.Role

	CreateRet   *models.RecordingUpload
	CreateErr   error
	LastCreate  models.RecordingInput
	CompleteErr error
	Completed   []string
}

func (f *fakeClient) SetToken(token string)          { f.token = token }
func (f *fakeClient) Ping(ctx context.Context) error { return f.PingErr }

func (f *fakeClient) Register(ctx context.Context, req client.RegisterRequest) (*models.PublicAccount, error) {
	f.LastRegister = req
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeClient) Login(ctx context.Context, username, password string) (*client.Session, error) {
	f.LastLoginUser, f.LastLoginPass = username, password
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) Me(ctx context.Context) (*models.PublicAccount, error) { return f.MeRet, f.MeErr }

func (f *fakeClient) ChangePassword(ctx context.Context, current, next string) error {
	f.LastPassword = [2]string{current, next}
	return f.PasswordErr
}

func (f *fakeClient) ListMembers(ctx context.Context) ([]models.PublicAccount, error) {
	f.Calls = append(f.Calls, "list")
	return f.MembersRet, f.MemberErr
}

func (f *fakeClient) ListPending(ctx context.Context) ([]models.PublicAccount, error) {
	f.Calls = append(f.Calls, "pending")
	return f.PendingRet, f.MemberErr
}

func (f *fakeClient) Approve(ctx context.Context, id string) (*models.PublicAccount, error) {
	f.Calls = append(f.Calls, "approve "+id)
	return &models.PublicAccount{ID: id, IsApproved: true}, f.MemberErr
}

func (f *fakeClient) Reject(ctx context.Context, id string) error {
	f.Calls = append(f.Calls, "reject "+id)
	return f.MemberErr
}

func (f *fakeClient) ChangeRole(ctx context.Context, id string, role models.Role) (*models.PublicAccount, error) {
	f.Calls = append(f.Calls, "role "+id)
	f.LastRole = role
	return &models.PublicAccount{ID: id, Role: role}, f.MemberErr
}

func (f *fakeClient) DeleteMember(ctx context.Context, id string) error {
	f.Calls = append(f.Calls, "delete "+id)
	return f.MemberErr
}

func (f *fakeClient) CreateRecording(ctx context.Context, in models.RecordingInput) (*models.RecordingUpload, error) {
	f.LastCreate = in
	return f.CreateRet, f.CreateErr
}

func (f *fakeClient) CompleteRecording(ctx context.Context, id string) (*models.Recording, error) {
	f.Completed = append(f.Completed, id)
	if f.CompleteErr != nil {
		return nil, f.CompleteErr
	}
	return &models.Recording{ID: id, UploadStatus: models.UploadCompleted}, nil
}
