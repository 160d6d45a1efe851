package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/choirhub/internal/common"
	"github.com/dmitrijs2005/choirhub/internal/logging"
	"github.com/dmitrijs2005/choirhub/internal/server/auth"
	"github.com/dmitrijs2005/choirhub/internal/server/models"
	"github.com/dmitrijs2005/choirhub/internal/server/policy"
	"github.com/dmitrijs2005/choirhub/internal/server/services"
	"github.com/gin-gonic/gin"
)

const (
	adminToken  = "admin-token"
	memberToken = "member-token"

	adminID  = "3f2504e0-4f89-11d3-9a0c-0305e82c3301"
	memberID = "9b2d7f4e-1c3a-4e5b-8f6d-2a1b3c4d5e6f"
	otherID  = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	itemID   = "16fd2706-8baf-433b-82eb-8c7fada847da"
)

var tokens = map[string]*auth.Identity{
	adminToken:  {AccountID: adminID, Username: "norbert", Role: models.RoleAdmin},
	memberToken: {AccountID: memberID, Username: "amelia", Role: models.RoleMember},
}

// fakeAccounts answers from canned data and records the last call.
type fakeAccounts struct {
	err      error
	lastCall string
	lastID   policy.Identity
	lastArg  string
	lastReg  models.Registration
}

func (f *fakeAccounts) record(call string, id policy.Identity, arg string) {
	f.lastCall, f.lastID, f.lastArg = call, id, arg
}

func (f *fakeAccounts) VerifyToken(token string) (*auth.Identity, error) {
	id, ok := tokens[token]
	if !ok {
		return nil, common.ErrInvalidToken
	}
	return id, nil
}

func (f *fakeAccounts) Register(_ context.Context, reg models.Registration) (*models.PublicAccount, error) {
	f.lastReg = reg
	if f.err != nil {
		return nil, f.err
	}
	return &models.PublicAccount{ID: "new-1", Username: reg.Username, Role: models.RoleMember}, nil
}

func (f *fakeAccounts) Login(_ context.Context, username, _ string) (*services.Session, error) {
	f.record("Login", policy.Identity{}, username)
	if f.err != nil {
		return nil, f.err
	}
	return &services.Session{
		Token:     memberToken,
		ExpiresAt: time.Now().Add(time.Hour),
		Account:   &models.PublicAccount{ID: memberID, Username: username, IsApproved: true},
	}, nil
}

func (f *fakeAccounts) ResolveIdentity(_ context.Context, id *auth.Identity) policy.Identity {
	out := services.IdentityFrom(id)
	if out.Authenticated() {
		out.VoicePart = models.VoiceAlto
	}
	return out
}

func (f *fakeAccounts) account(call string, id policy.Identity, arg string) (*models.PublicAccount, error) {
	f.record(call, id, arg)
	if f.err != nil {
		return nil, f.err
	}
	return &models.PublicAccount{ID: arg}, nil
}

func (f *fakeAccounts) Profile(_ context.Context, id policy.Identity, accountID string) (*models.PublicAccount, error) {
	return f.account("Profile", id, accountID)
}

func (f *fakeAccounts) UpdateProfile(_ context.Context, id policy.Identity, accountID string, _ models.ProfileUpdate) (*models.PublicAccount, error) {
	return f.account("UpdateProfile", id, accountID)
}

func (f *fakeAccounts) ChangePassword(_ context.Context, id policy.Identity, _, next string) error {
	f.record("ChangePassword", id, next)
	return f.err
}

func (f *fakeAccounts) ChangeRole(_ context.Context, id policy.Identity, accountID, role string) (*models.PublicAccount, error) {
	return f.account("ChangeRole", id, accountID+":"+role)
}

func (f *fakeAccounts) Delete(_ context.Context, id policy.Identity, accountID string) error {
	f.record("Delete", id, accountID)
	if f.err != nil {
		return f.err
	}
	return policy.CanAccess(id, policy.Delete, policy.AccountResource(accountID)).Err()
}

func (f *fakeAccounts) Approve(_ context.Context, id policy.Identity, accountID string) (*models.PublicAccount, error) {
	return f.account("Approve", id, accountID)
}

func (f *fakeAccounts) Reject(_ context.Context, id policy.Identity, accountID string) error {
	f.record("Reject", id, accountID)
	return f.err
}

func (f *fakeAccounts) ListPending(_ context.Context, id policy.Identity) ([]*models.PublicAccount, error) {
	f.record("ListPending", id, "")
	return []*models.PublicAccount{}, f.err
}

func (f *fakeAccounts) ListAccounts(_ context.Context, id policy.Identity) ([]*models.PublicAccount, error) {
	f.record("ListAccounts", id, "")
	return []*models.PublicAccount{{ID: "a"}, {ID: "b"}}, f.err
}

func (f *fakeAccounts) Directory(_ context.Context, id policy.Identity) ([]*models.DirectoryEntry, error) {
	f.record("Directory", id, "")
	return []*models.DirectoryEntry{{ID: "a"}}, f.err
}

type fakeConcerts struct {
	err    error
	lastID policy.Identity
	lastIn models.ConcertInput
}

func (f *fakeConcerts) List(_ context.Context, id policy.Identity) ([]*models.Concert, error) {
	f.lastID = id
	return []*models.Concert{{ID: "c-1", Title: "Gala", IsPublic: true}}, f.err
}

func (f *fakeConcerts) Get(_ context.Context, id policy.Identity, cid string) (*models.Concert, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return &models.Concert{ID: cid}, nil
}

func (f *fakeConcerts) Create(_ context.Context, id policy.Identity, in models.ConcertInput) (*models.Concert, error) {
	f.lastID, f.lastIn = id, in
	if f.err != nil {
		return nil, f.err
	}
	return &models.Concert{ID: "c-2", CreatedBy: id.AccountID}, nil
}

func (f *fakeConcerts) Update(_ context.Context, id policy.Identity, cid string, in models.ConcertInput) (*models.Concert, error) {
	f.lastID, f.lastIn = id, in
	return &models.Concert{ID: cid}, f.err
}

func (f *fakeConcerts) Delete(_ context.Context, id policy.Identity, _ string) error {
	f.lastID = id
	return f.err
}

type fakeRehearsals struct{ err error }

func (f *fakeRehearsals) List(context.Context, policy.Identity) ([]*models.Rehearsal, error) {
	return []*models.Rehearsal{}, f.err
}
func (f *fakeRehearsals) Get(_ context.Context, _ policy.Identity, id string) (*models.Rehearsal, error) {
	return &models.Rehearsal{ID: id}, f.err
}
func (f *fakeRehearsals) Create(context.Context, policy.Identity, models.RehearsalInput) (*models.Rehearsal, error) {
	return &models.Rehearsal{ID: "r-1"}, f.err
}
func (f *fakeRehearsals) Update(_ context.Context, _ policy.Identity, id string, _ models.RehearsalInput) (*models.Rehearsal, error) {
	return &models.Rehearsal{ID: id}, f.err
}
func (f *fakeRehearsals) Delete(context.Context, policy.Identity, string) error { return f.err }

type fakeRecordings struct {
	err    error
	lastIn models.RecordingInput
}

func (f *fakeRecordings) List(context.Context, policy.Identity) ([]*models.Recording, error) {
	return []*models.Recording{}, f.err
}
func (f *fakeRecordings) Get(_ context.Context, _ policy.Identity, id string) (*models.Recording, error) {
	return &models.Recording{ID: id}, f.err
}
func (f *fakeRecordings) Create(_ context.Context, _ policy.Identity, in models.RecordingInput) (*models.RecordingUpload, error) {
	f.lastIn = in
	if f.err != nil {
		return nil, f.err
	}
	return &models.RecordingUpload{
		Recording: &models.Recording{ID: "rec-1", StorageKey: "recordings/secret-key"},
		Upload:    &models.PresignedURL{URL: "https://s3.test/put", Method: http.MethodPut},
	}, nil
}
func (f *fakeRecordings) Complete(_ context.Context, _ policy.Identity, id string) (*models.Recording, error) {
	return &models.Recording{ID: id, UploadStatus: models.UploadCompleted}, f.err
}
func (f *fakeRecordings) Download(context.Context, policy.Identity, string) (*models.PresignedURL, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.PresignedURL{URL: "https://s3.test/get", Method: http.MethodGet}, nil
}
func (f *fakeRecordings) Update(_ context.Context, _ policy.Identity, id string, _ models.RecordingInput) (*models.Recording, error) {
	return &models.Recording{ID: id}, f.err
}
func (f *fakeRecordings) Delete(context.Context, policy.Identity, string) error { return f.err }

type fakeSheetMusic struct {
	err    error
	lastID policy.Identity
}

func (f *fakeSheetMusic) List(_ context.Context, id policy.Identity) ([]*models.SheetMusic, error) {
	f.lastID = id
	return []*models.SheetMusic{}, f.err
}
func (f *fakeSheetMusic) Get(_ context.Context, id policy.Identity, sid string) (*models.SheetMusic, error) {
	f.lastID = id
	return &models.SheetMusic{ID: sid}, f.err
}
func (f *fakeSheetMusic) Create(_ context.Context, id policy.Identity, _ models.SheetMusicInput) (*models.SheetMusicUpload, error) {
	f.lastID = id
	return &models.SheetMusicUpload{SheetMusic: &models.SheetMusic{ID: "s-1"}}, f.err
}
func (f *fakeSheetMusic) Complete(_ context.Context, id policy.Identity, sid string) (*models.SheetMusic, error) {
	f.lastID = id
	return &models.SheetMusic{ID: sid}, f.err
}
func (f *fakeSheetMusic) Download(_ context.Context, id policy.Identity, _ string) (*models.PresignedURL, error) {
	f.lastID = id
	return &models.PresignedURL{URL: "https://s3.test/get"}, f.err
}
func (f *fakeSheetMusic) Update(_ context.Context, id policy.Identity, sid string, _ models.SheetMusicInput) (*models.SheetMusic, error) {
	f.lastID = id
	return &models.SheetMusic{ID: sid}, f.err
}
func (f *fakeSheetMusic) Delete(_ context.Context, id policy.Identity, _ string) error {
	f.lastID = id
	return f.err
}

type testAPI struct {
	router     *gin.Engine
	accounts   *fakeAccounts
	concerts   *fakeConcerts
	rehearsals *fakeRehearsals
	recordings *fakeRecordings
	sheets     *fakeSheetMusic
}

func newTestAPI(t *testing.T, opts RouterOptions) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	api := &testAPI{
		accounts:   &fakeAccounts{},
		concerts:   &fakeConcerts{},
		rehearsals: &fakeRehearsals{},
		recordings: &fakeRecordings{},
		sheets:     &fakeSheetMusic{},
	}
	h := NewHandler(api.accounts, api.concerts, api.rehearsals, api.recordings, api.sheets, logging.Nop{})
	api.router = NewRouter(h, logging.Nop{}, opts)
	return api
}

func (a *testAPI) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}
