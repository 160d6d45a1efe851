package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/dmitrijs2005/choirhub/internal/common"
	"github.com/dmitrijs2005/choirhub/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), "body: %s", body)
	return v
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t, RouterOptions{})
	w := api.do(http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"OK"}`, w.Body.String())
}

func TestRegister(t *testing.T) {
	api := newTestAPI(t, RouterOptions{})

	w := api.do(http.MethodPost, "/api/auth/register", "", `{
		"username":"amelia","email":"amelia@x.org","password":"secret1",
		"firstName":"Amelia","lastName":"Nowak","voicePart":"alto"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decode[RegisterResponse](t, w.Body.Bytes())
	assert.True(t, resp.RequiresApproval)
	assert.Equal(t, "amelia", resp.User.Username)
	assert.Equal(t, "alto", api.accounts.lastReg.VoicePart)
	assert.NotContains(t, w.Body.String(), "token")

	w = api.do(http.MethodPost, "/api/auth/register", "", `{"username":"amelia"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeValidation, decode[ErrorResponse](t, w.Body.Bytes()).Code)

	api.accounts.err = common.ErrDuplicateIdentity
	w = api.do(http.MethodPost, "/api/auth/register", "", `{
		"username":"amelia","email":"amelia@x.org","password":"secret1",
		"firstName":"Amelia","lastName":"Nowak"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, CodeDuplicateIdentity, decode[ErrorResponse](t, w.Body.Bytes()).Code)
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"ok", nil, http.StatusOK, ""},
		{"pending", common.ErrNotApproved, http.StatusForbidden, CodeNotApproved},
		{"bad password", common.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
		{"store down", fmt.Errorf("db error: %w", errBoom), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t, RouterOptions{})
			api.accounts.err = tt.err

			w := api.do(http.MethodPost, "/api/auth/login", "", `{"username":"amelia","password":"secret1"}`)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.code != "" {
				resp := decode[ErrorResponse](t, w.Body.Bytes())
				assert.Equal(t, tt.code, resp.Code)
				assert.NotContains(t, resp.Error, "boom")
				return
			}
			body := decode[map[string]any](t, w.Body.Bytes())
			assert.Equal(t, memberToken, body["token"])
			assert.Contains(t, body, "user")
		})
	}
}

func TestAuthentication(t *testing.T) {
	api := newTestAPI(t, RouterOptions{})

	w := api.do(http.MethodGet, "/api/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodGet, "/api/auth/me", "forged", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, CodeInvalidToken, decode[ErrorResponse](t, w.Body.Bytes()).Code)

	req := api.do(http.MethodGet, "/api/auth/me", memberToken, "")
	require.Equal(t, http.StatusOK, req.Code)
	assert.Equal(t, "Profile", api.accounts.lastCall)
	assert.Equal(t, memberID, api.accounts.lastArg)

	// an invalid token is rejected even on routes open to anonymous callers
	w = api.do(http.MethodGet, "/api/concerts", "forged", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_RejectsOtherSchemes(t *testing.T) {
	api := newTestAPI(t, RouterOptions{})

	req := newRequest(http.MethodGet, "/api/auth/me")
	req.Header.Set(common.AuthorizationHeaderName, "Basic "+memberToken)
	w := serve(api, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = newRequest(http.MethodGet, "/api/auth/me")
	req.Header.Set(common.AuthorizationHeaderName, "bearer "+memberToken)
	w = serve(api, req)
	assert.Equal(t, http.StatusOK, w.Code, "scheme is case-insensitive")
}

func TestMembers(t *testing.T) {
	api := newTestAPI(t, RouterOptions{})

	w := api.do(http.MethodGet, "/api/members", adminToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ListAccounts", api.accounts.lastCall)

	w = api.do(http.MethodGet, "/api/members", memberToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Directory", api.accounts.lastCall)

	w = api.do(http.MethodGet, "/api/members/pending", adminToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	w = api.do(http.MethodPut, "/api/members/"+otherID+"/approve", adminToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Approve", api.accounts.lastCall)
	assert.Equal(t, otherID, api.accounts.lastArg)

	w = api.do(http.MethodDelete, "/api/members/"+otherID+"/reject", adminToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Reject", api.accounts.lastCall)

	w = api.do(http.MethodPut, "/api/members/"+otherID+"/role", adminToken, `{"role":"admin"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, otherID+":admin", api.accounts.lastArg)

	w = api.do(http.MethodGet, "/api/members/"+otherID, adminToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Profile", api.accounts.lastCall)

	w = api.do(http.MethodDelete, "/api/members/"+otherID, adminToken, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, adminID, api.accounts.lastID.AccountID)

	w = api.do(http.MethodDelete, "/api/members/"+adminID, adminToken, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Access denied", decode[ErrorResponse](t, w.Body.Bytes()).Error)

	api.accounts.err = common.ErrorNotFound
	w = api.do(http.MethodDelete, "/api/members/"+otherID+"/reject", adminToken, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteMember_OwnAccountUnderAnySpelling(t *testing.T) {
	api := newTestAPI(t, RouterOptions{})

	for _, spelling := range []string{
		strings.ToUpper(adminID),
		"%7B" + adminID + "%7D",
		strings.ReplaceAll(adminID, "-", ""),
		"urn:uuid:" + adminID,
	} {
		w := api.do(http.MethodDelete, "/api/members/"+spelling, adminToken, "")
		assert.Equal(t, http.StatusForbidden, w.Code, spelling)
		assert.Equal(t, adminID, api.accounts.lastArg, spelling)
	}

	api.accounts.lastCall = ""
	w := api.do(http.MethodDelete, "/api/members/norbert", adminToken, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, api.accounts.lastCall, "malformed ids never reach the service")

	w = api.do(http.MethodGet, "/api/members/"+strings.ToUpper(memberID), memberToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, memberID, api.accounts.lastArg)
}

func TestProfileSelfService(t *testing.T) {
	api := newTestAPI(t, RouterOptions{})

	w := api.do(http.MethodGet, "/api/members/profile", memberToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, memberID, api.accounts.lastArg)

	w = api.do(http.MethodPut, "/api/members/profile", memberToken, `{"phone":"555"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "UpdateProfile", api.accounts.lastCall)
	assert.Equal(t, memberID, api.accounts.lastArg)

	w = api.do(http.MethodPut, "/api/members/profile/password", memberToken, `{"currentPassword":"a","newPassword":"secret2"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "secret2", api.accounts.lastArg)

	w = api.do(http.MethodPut, "/api/members/profile/password", memberToken, `{"newPassword":"secret2"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	api.accounts.err = common.ErrInvalidCredentials
	w = api.do(http.MethodPut, "/api/members/profile/password", memberToken, `{"currentPassword":"a","newPassword":"secret2"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestConcerts(t *testing.T) {
	api := newTestAPI(t, RouterOptions{})

	w := api.do(http.MethodGet, "/api/concerts", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, api.concerts.lastID.Authenticated())

	w = api.do(http.MethodGet, "/api/concerts/"+itemID, "", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodPost, "/api/concerts", "", `{"title":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodPost, "/api/concerts", memberToken, `{"title":"Gala","date":"2025-06-01T18:00:00Z","isPublic":false}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotNil(t, api.concerts.lastIn.IsPublic)
	assert.False(t, *api.concerts.lastIn.IsPublic)
	assert.Equal(t, 2025, api.concerts.lastIn.Date.Year())

	w = api.do(http.MethodPost, "/api/concerts", memberToken, `{"date":"yesterday"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	api.concerts.err = fmt.Errorf("%w: not_owner", common.ErrForbidden)
	w = api.do(http.MethodPut, "/api/concerts/"+itemID, memberToken, `{"title":"Mine now"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	api.concerts.err = nil
	w = api.do(http.MethodDelete, "/api/concerts/"+itemID, memberToken, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRehearsalsRequireAuth(t *testing.T) {
	api := newTestAPI(t, RouterOptions{})

	w := api.do(http.MethodGet, "/api/rehearsals", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodGet, "/api/rehearsals", memberToken, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodPost, "/api/rehearsals", memberToken, `{"title":"Tue","date":"2025-06-03T19:00:00Z"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	api.rehearsals.err = fmt.Errorf("%w: duration must be positive", common.ErrValidation)
	w = api.do(http.MethodPut, "/api/rehearsals/"+itemID, memberToken, `{"durationMinutes":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[ErrorResponse](t, w.Body.Bytes()).Error, "duration must be positive")
}

func TestRecordings(t *testing.T) {
	api := newTestAPI(t, RouterOptions{})

	w := api.do(http.MethodPost, "/api/recordings", memberToken,
		`{"title":"Ave","fileName":"ave.mp3","contentType":"audio/mpeg","fileSize":1024}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "ave.mp3", api.recordings.lastIn.FileName)
	assert.Equal(t, int64(1024), api.recordings.lastIn.FileSize)
	assert.NotContains(t, w.Body.String(), "secret-key", "storage keys stay server side")

	up := decode[models.RecordingUpload](t, w.Body.Bytes())
	assert.Equal(t, http.MethodPut, up.Upload.Method)

	w = api.do(http.MethodPost, "/api/recordings/"+itemID+"/complete", memberToken, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodGet, "/api/recordings/"+itemID+"/download", memberToken, "")
	require.Equal(t, http.StatusOK, w.Code)

	api.recordings.err = fmt.Errorf("%w: file has not been uploaded yet", common.ErrorNotFound)
	w = api.do(http.MethodGet, "/api/recordings/"+itemID+"/download", memberToken, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSheetMusicUsesStoredVoicePart(t *testing.T) {
	api := newTestAPI(t, RouterOptions{})

	w := api.do(http.MethodGet, "/api/sheet-music", memberToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.VoiceAlto, api.sheets.lastID.VoicePart)

	w = api.do(http.MethodGet, "/api/sheet-music/"+itemID+"/download", memberToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, memberID, api.sheets.lastID.AccountID)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: title is required", common.ErrValidation), http.StatusBadRequest, CodeValidation},
		{fmt.Errorf("error creating account: %w", common.ErrDuplicateIdentity), http.StatusConflict, CodeDuplicateIdentity},
		{common.ErrNotApproved, http.StatusForbidden, CodeNotApproved},
		{common.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
		{common.ErrInvalidToken, http.StatusUnauthorized, CodeInvalidToken},
		{fmt.Errorf("%w: admin_only", common.ErrForbidden), http.StatusForbidden, CodeForbidden},
		{common.ErrorNotFound, http.StatusNotFound, CodeNotFound},
		{errBoom, http.StatusInternalServerError, CodeInternal},
	}
	for _, tt := range tests {
		status, body := StatusFor(tt.err)
		if status != tt.status || body.Code != tt.code {
			t.Fatalf("StatusFor(%v) = %d %q, want %d %q", tt.err, status, body.Code, tt.status, tt.code)
		}
	}
}
