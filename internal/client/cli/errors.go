package cli

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/choirhub/internal/client/client"
	"github.com/dmitrijs2005/choirhub/internal/common"
)

var (
	errUnknownCommand = errors.New("unknown command")
	errLoginRequired  = errors.New("please log in first")
	errUsage          = errors.New("usage")
)

func usage(synopsis string) error {
	return fmt.Errorf("%w: %s", errUsage, synopsis)
}

var friendly = []struct {
	target error
	text   string
}{
	{common.ErrNotApproved, "Your account is waiting for administrator approval."},
	{common.ErrInvalidCredentials, "Invalid username or password."},
	{client.ErrTokenExpired, "Your session has expired. Please log in again."},
	{common.ErrInvalidToken, "Your session is no longer valid. Please log in again."},
	{common.ErrForbidden, "You are not allowed to do that."},
	{common.ErrDuplicateIdentity, "That username or email is already taken."},
	{client.ErrUnavailable, "The server is unavailable. Try again later."},
	{client.ErrRateLimited, "Too many requests. Wait a few minutes and try again."},
}

// describe turns a command error into the line shown to the user.
func describe(err error) string {
	for _, f := range friendly {
		if errors.Is(err, f.target) {
			return f.text
		}
	}
	return "Error: " + err.Error()
}
