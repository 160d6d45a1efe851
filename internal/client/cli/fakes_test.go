package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/choirhub/internal/client/client"
	"github.com/dmitrijs2005/choirhub/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/choirhub/internal/logging"
	"github.com/dmitrijs2005/choirhub/internal/server/models"
)

var errBoom = errors.New("boom")

type fakeAuth struct {
	regReq client.RegisterRequest
	regErr error

	loginUser string
	loginPass []byte
	loginErr  error

	restoreRet *metadata.Session
	restoreErr error

	logoutCalls int
	logoutErr   error

	meRet *models.PublicAccount
	meErr error

	pwCurrent, pwNext []byte
	pwErr             error

	pingErr error
}

func (f *fakeAuth) Register(_ context.Context, req client.RegisterRequest) (*models.PublicAccount, error) {
	f.regReq = req
	if f.regErr != nil {
		return nil, f.regErr
	}
	return &models.PublicAccount{Username: req.Username}, nil
}

func (f *fakeAuth) Login(_ context.Context, user string, pass []byte) (*metadata.Session, error) {
	f.loginUser, f.loginPass = user, append([]byte(nil), pass...)
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &metadata.Session{Token: "tok", Username: user, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (f *fakeAuth) Restore(context.Context) (*metadata.Session, error) {
	return f.restoreRet, f.restoreErr
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logoutCalls++
	return f.logoutErr
}

func (f *fakeAuth) Me(context.Context) (*models.PublicAccount, error) { return f.meRet, f.meErr }

func (f *fakeAuth) ChangePassword(_ context.Context, current, next []byte) error {
	f.pwCurrent, f.pwNext = append([]byte(nil), current...), append([]byte(nil), next...)
	return f.pwErr
}

func (f *fakeAuth) Ping(context.Context) error { return f.pingErr }

type fakeMembers struct {
	calls []string
	list  []models.PublicAccount
	err   error
}

func (f *fakeMembers) List(context.Context) ([]models.PublicAccount, error) {
	f.calls = append(f.calls, "list")
	return f.list, f.err
}

func (f *fakeMembers) Pending(context.Context) ([]models.PublicAccount, error) {
	f.calls = append(f.calls, "pending")
	return f.list, f.err
}

func (f *fakeMembers) Approve(_ context.Context, id string) (*models.PublicAccount, error) {
	f.calls = append(f.calls, "approve "+id)
	return &models.PublicAccount{ID: id, Username: "u-" + id}, f.err
}

func (f *fakeMembers) Reject(_ context.Context, id string) error {
	f.calls = append(f.calls, "reject "+id)
	return f.err
}

func (f *fakeMembers) ChangeRole(_ context.Context, id, role string) (*models.PublicAccount, error) {
	f.calls = append(f.calls, "role "+id+" "+role)
	return &models.PublicAccount{ID: id, Username: "u-" + id, Role: models.Role(role)}, f.err
}

func (f *fakeMembers) Delete(_ context.Context, id string) error {
	f.calls = append(f.calls, "delete "+id)
	return f.err
}

type fakeRecordings struct {
	path, title string
	err         error
}

func (f *fakeRecordings) Upload(_ context.Context, path, title string) (*models.Recording, error) {
	f.path, f.title = path, title
	if f.err != nil {
		return nil, f.err
	}
	return &models.Recording{ID: "r1", Title: title, ContentType: "audio/mpeg", FileSize: 42}, nil
}

// newTestApp builds an App around fakes. input feeds the prompt reader.
func newTestApp(input string) (*App, *fakeAuth, *fakeMembers, *fakeRecordings, *bytes.Buffer) {
	fa, fm, fr := &fakeAuth{}, &fakeMembers{}, &fakeRecordings{}
	out := &bytes.Buffer{}
	a := &App{
		authService:      fa,
		memberService:    fm,
		recordingService: fr,
		log:              logging.Nop{},
		reader:           bufio.NewReader(strings.NewReader(input)),
		out:              out,
		mode:             ModeUnknown,
	}
	return a, fa, fm, fr, out
}

func stubPasswords(t *testing.T, current string, next string) {
	t.Helper()
	origGP, origNP := getPassword, getNewPassword
	getPassword = func(io.Writer) ([]byte, error) { return []byte(current), nil }
	getNewPassword = func(io.Writer) ([]byte, error) { return []byte(next), nil }
	t.Cleanup(func() {
		getPassword = origGP
		getNewPassword = origNP
	})
}

func silence(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, len(a))
		for i, v := range a {
			parts[i] = toString(v)
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
