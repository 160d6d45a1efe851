package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/choirhub/internal/client/client"
	"github.com/dmitrijs2005/choirhub/internal/common"
)

// getSimpleText, getPassword and getNewPassword are indirections used to
// facilitate testing.
var (
	getSimpleText  = GetSimpleText
	getPassword    = GetPassword
	getNewPassword = GetNewPassword
)

func (a *App) prompt(label string) (string, error) {
	return getSimpleText(a.reader, label, a.out)
}

// Register collects the registration form and creates a pending account.
func (a *App) Register(ctx context.Context) error {
	var (
		req client.RegisterRequest
		err error
	)
	fields := []struct {
		label string
		dst   *string
	}{
		{"Username", &req.Username},
		{"Email", &req.Email},
		{"First name", &req.FirstName},
		{"Last name", &req.LastName},
		{"Voice part (soprano, alto, tenor, bass; empty to skip)", &req.VoicePart},
		{"Phone (empty to skip)", &req.Phone},
	}
	for _, f := range fields {
		if *f.dst, err = a.prompt(f.label); err != nil {
			return err
		}
	}

	password, err := getNewPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	req.Password = string(password)

	if _, err := a.authService.Register(ctx, req); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %s. An administrator has to approve the account before you can log in.\n", req.Username)
	return nil
}

// Login prompts for credentials and starts a session.
func (a *App) Login(ctx context.Context) error {
	username, err := a.prompt("Username")
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.authService.Login(ctx, username, password)
	if err != nil {
		return err
	}

	a.setSession(s)
	fmt.Fprintf(a.out, "Logged in as %s until %s.\n", s.Username, s.ExpiresAt.Local().Format("2006-01-02 15:04"))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	a.setSession(nil)
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// Me prints the logged-in account. An expired session logs the user out.
func (a *App) Me(ctx context.Context) error {
	acc, err := a.authService.Me(ctx)
	if err != nil {
		return a.check(ctx, err)
	}
	printAccount(a.out, acc)
	return nil
}

// Passwd changes the caller's password.
func (a *App) Passwd(ctx context.Context) error {
	fmt.Fprint(a.out, "Current password. ")
	current, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(current)

	fmt.Fprint(a.out, "New password. ")
	next, err := getNewPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(next)

	if err := a.authService.ChangePassword(ctx, current, next); err != nil {
		return a.check(ctx, err)
	}
	fmt.Fprintln(a.out, "Password changed.")
	return nil
}
