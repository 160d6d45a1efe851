package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/choirhub/internal/common"
	"github.com/dmitrijs2005/choirhub/internal/dbx"
	"github.com/dmitrijs2005/choirhub/internal/server/models"
	"github.com/dmitrijs2005/choirhub/internal/server/password"
	"github.com/dmitrijs2005/choirhub/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/choirhub/internal/server/repositories/concerts"
	"github.com/dmitrijs2005/choirhub/internal/server/repositories/recordings"
	"github.com/dmitrijs2005/choirhub/internal/server/repositories/rehearsals"
	"github.com/dmitrijs2005/choirhub/internal/server/repositories/sheetmusic"
	"github.com/google/uuid"
)

var cheapParams = password.Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 16, SaltLen: 8}

// useCheapHashing swaps the argon2 parameters for fast ones for the duration of a test.
func useCheapHashing(t *testing.T) {
	t.Helper()
	origHash := hashPassword
	hashPassword = cheapParams.Hash
	t.Cleanup(func() { hashPassword = origHash })
}

// newMockDB returns a sqlmock-backed *sql.DB. Services only touch it to
// begin and finish transactions; all queries go to the fakes.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// ----- repository manager -----

type fakeRepoManager struct {
	accounts   *fakeAccounts
	concerts   *fakeConcerts
	rehearsals *fakeRehearsals
	recordings *fakeRecordings
	sheets     *fakeSheetMusic

	migrateErr error
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		accounts:   &fakeAccounts{byID: map[string]*models.Account{}},
		concerts:   &fakeConcerts{byID: map[string]*models.Concert{}},
		rehearsals: &fakeRehearsals{byID: map[string]*models.Rehearsal{}},
		recordings: &fakeRecordings{byID: map[string]*models.Recording{}},
		sheets:     &fakeSheetMusic{byID: map[string]*models.SheetMusic{}},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return m.migrateErr }
func (m *fakeRepoManager) Accounts(dbx.DBTX) accounts.Repository        { return m.accounts }
func (m *fakeRepoManager) Concerts(dbx.DBTX) concerts.Repository        { return m.concerts }
func (m *fakeRepoManager) Rehearsals(dbx.DBTX) rehearsals.Repository    { return m.rehearsals }
func (m *fakeRepoManager) Recordings(dbx.DBTX) recordings.Repository    { return m.recordings }
func (m *fakeRepoManager) SheetMusic(dbx.DBTX) sheetmusic.Repository    { return m.sheets }

// ----- accounts -----

type fakeAccounts struct {
	mu   sync.Mutex
	byID map[string]*models.Account
	// errGet, when set, is returned from every lookup.
	errGet error
}

func (f *fakeAccounts) Create(_ context.Context, acc *models.Account) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.Username == acc.Username || a.Email == acc.Email {
			return nil, common.ErrDuplicateIdentity
		}
	}
	c := *acc
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now().Add(time.Duration(len(f.byID)) * time.Millisecond)
	f.byID[c.ID] = &c
	out := c
	return &out, nil
}

func (f *fakeAccounts) find(match func(*models.Account) bool) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errGet != nil {
		return nil, f.errGet
	}
	for _, a := range f.byID {
		if match(a) {
			c := *a
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAccounts) GetByID(_ context.Context, id string) (*models.Account, error) {
	return f.find(func(a *models.Account) bool { return a.ID == id })
}

func (f *fakeAccounts) GetByUsername(_ context.Context, username string) (*models.Account, error) {
	return f.find(func(a *models.Account) bool { return a.Username == username })
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	return f.find(func(a *models.Account) bool { return a.Email == email })
}

func (f *fakeAccounts) Update(_ context.Context, id string, p *models.AccountPatch) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if p.Email != nil {
		for _, o := range f.byID {
			if o.ID != id && o.Email == *p.Email {
				return nil, common.ErrDuplicateIdentity
			}
		}
		a.Email = *p.Email
	}
	if p.FirstName != nil {
		a.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		a.LastName = *p.LastName
	}
	if p.VoicePart != nil {
		a.VoicePart = *p.VoicePart
	}
	if p.Phone != nil {
		a.Phone = *p.Phone
	}
	if p.Role != nil {
		a.Role = *p.Role
	}
	if p.Approved != nil {
		a.Approved = *p.Approved
	}
	if p.PasswordHash != nil {
		a.PasswordHash = *p.PasswordHash
	}
	c := *a
	return &c, nil
}

func (f *fakeAccounts) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeAccounts) Approve(ctx context.Context, id string) (*models.Account, error) {
	yes := true
	return f.Update(ctx, id, &models.AccountPatch{Approved: &yes})
}

func (f *fakeAccounts) RejectPending(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok || a.Approved || a.Role == models.RoleAdmin {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeAccounts) all() []*models.Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Account, 0, len(f.byID))
	for _, a := range f.byID {
		c := *a
		out = append(out, &c)
	}
	return out
}

func (f *fakeAccounts) ListPending(context.Context) ([]*models.Account, error) {
	var out []*models.Account
	for _, a := range f.all() {
		if a.IsPending() {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeAccounts) List(context.Context) ([]*models.Account, error) {
	out := f.all()
	sort.Slice(out, func(i, j int) bool { return out[i].LastName < out[j].LastName })
	return out, nil
}

// ----- collections -----

type fakeConcerts struct {
	byID map[string]*models.Concert
}

func (f *fakeConcerts) Create(_ context.Context, c *models.Concert) (*models.Concert, error) {
	n := *c
	n.ID = uuid.NewString()
	f.byID[n.ID] = &n
	out := n
	return &out, nil
}

func (f *fakeConcerts) GetByID(_ context.Context, id string) (*models.Concert, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	n := *c
	return &n, nil
}

func (f *fakeConcerts) List(_ context.Context, publicOnly bool) ([]*models.Concert, error) {
	var out []*models.Concert
	for _, c := range f.byID {
		if publicOnly && !c.IsPublic {
			continue
		}
		n := *c
		out = append(out, &n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (f *fakeConcerts) Update(_ context.Context, c *models.Concert) (*models.Concert, error) {
	if _, ok := f.byID[c.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	n := *c
	f.byID[c.ID] = &n
	return c, nil
}

func (f *fakeConcerts) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeRehearsals struct {
	byID map[string]*models.Rehearsal
}

func (f *fakeRehearsals) Create(_ context.Context, r *models.Rehearsal) (*models.Rehearsal, error) {
	n := *r
	n.ID = uuid.NewString()
	f.byID[n.ID] = &n
	out := n
	return &out, nil
}

func (f *fakeRehearsals) GetByID(_ context.Context, id string) (*models.Rehearsal, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	n := *r
	return &n, nil
}

func (f *fakeRehearsals) List(context.Context) ([]*models.Rehearsal, error) {
	var out []*models.Rehearsal
	for _, r := range f.byID {
		n := *r
		out = append(out, &n)
	}
	return out, nil
}

func (f *fakeRehearsals) Update(_ context.Context, r *models.Rehearsal) (*models.Rehearsal, error) {
	n := *r
	f.byID[r.ID] = &n
	return r, nil
}

func (f *fakeRehearsals) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeRecordings struct {
	byID map[string]*models.Recording
}

func (f *fakeRecordings) Create(_ context.Context, r *models.Recording) (*models.Recording, error) {
	n := *r
	n.ID = uuid.NewString()
	f.byID[n.ID] = &n
	out := n
	return &out, nil
}

func (f *fakeRecordings) GetByID(_ context.Context, id string) (*models.Recording, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	n := *r
	return &n, nil
}

func (f *fakeRecordings) List(context.Context) ([]*models.Recording, error) {
	var out []*models.Recording
	for _, r := range f.byID {
		n := *r
		out = append(out, &n)
	}
	return out, nil
}

func (f *fakeRecordings) Update(_ context.Context, r *models.Recording) (*models.Recording, error) {
	n := *r
	f.byID[r.ID] = &n
	return r, nil
}

func (f *fakeRecordings) MarkCompleted(_ context.Context, id string) (*models.Recording, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	r.UploadStatus = models.UploadCompleted
	n := *r
	return &n, nil
}

func (f *fakeRecordings) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeSheetMusic struct {
	byID map[string]*models.SheetMusic
}

func (f *fakeSheetMusic) Create(_ context.Context, s *models.SheetMusic) (*models.SheetMusic, error) {
	n := *s
	n.ID = uuid.NewString()
	f.byID[n.ID] = &n
	out := n
	return &out, nil
}

func (f *fakeSheetMusic) GetByID(_ context.Context, id string) (*models.SheetMusic, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	n := *s
	return &n, nil
}

func (f *fakeSheetMusic) List(context.Context) ([]*models.SheetMusic, error) {
	var out []*models.SheetMusic
	for _, s := range f.byID {
		n := *s
		out = append(out, &n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (f *fakeSheetMusic) Update(_ context.Context, s *models.SheetMusic) (*models.SheetMusic, error) {
	n := *s
	f.byID[s.ID] = &n
	return s, nil
}

func (f *fakeSheetMusic) MarkCompleted(_ context.Context, id string) (*models.SheetMusic, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	s.UploadStatus = models.UploadCompleted
	n := *s
	return &n, nil
}

func (f *fakeSheetMusic) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

// ----- object store -----

type fakeStore struct {
	putKeys   []string
	deleted   []string
	putErr    error
	deleteErr error
}

func (f *fakeStore) PresignPut(_ context.Context, key string, meta models.FileMeta) (*models.PresignedURL, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.putKeys = append(f.putKeys, key)
	return &models.PresignedURL{URL: "https://s3.test/" + key, Method: "PUT", ExpiresAt: time.Now().Add(time.Minute)}, nil
}

func (f *fakeStore) PresignGet(_ context.Context, key, fileName string) (*models.PresignedURL, error) {
	return &models.PresignedURL{URL: "https://s3.test/" + key + "?name=" + fileName, Method: "GET"}, nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return f.deleteErr
}

var errBoom = errors.New("boom")

func errorsIs(err, target error) bool { return errors.Is(err, target) }
