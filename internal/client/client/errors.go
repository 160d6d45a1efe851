package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/choirhub/internal/common"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrRateLimited  = errors.New("too many requests, try again later")
	ErrUnexpected   = errors.New("unexpected server response")
	ErrNotLoggedIn  = errors.New("not logged in")
	ErrTokenExpired = errors.New("session expired, log in again")
)

// apiError is the error body every failed API call carries.
type apiError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var codeErrors = map[string]error{
	common.CodeValidation:         common.ErrValidation,
	common.CodeDuplicateIdentity:  common.ErrDuplicateIdentity,
	common.CodeNotApproved:        common.ErrNotApproved,
	common.CodeInvalidCredentials: common.ErrInvalidCredentials,
	common.CodeInvalidToken:       common.ErrInvalidToken,
	common.CodeForbidden:          common.ErrForbidden,
	common.CodeNotFound:           common.ErrorNotFound,
	common.CodeRateLimited:        ErrRateLimited,
	common.CodeInternal:           common.ErrorInternal,
}

// mapError turns a failed response into a sentinel the CLI can match with
// errors.Is. The server message is kept for display.
func mapError(status int, body apiError) error {
	if target, ok := codeErrors[body.Code]; ok {
		msg := strings.TrimPrefix(body.Error, target.Error()+": ")
		if msg == "" || msg == target.Error() {
			return target
		}
		return fmt.Errorf("%w: %s", target, msg)
	}

	switch {
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %d", common.ErrorInternal, status)
	}
	return fmt.Errorf("%w: %d %s", ErrUnexpected, status, body.Error)
}
