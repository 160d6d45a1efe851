package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/choirhub/internal/client/client"
	"github.com/dmitrijs2005/choirhub/internal/common"
	"github.com/dmitrijs2005/choirhub/internal/server/models"
)

func isSessionGone(err error) bool {
	return errors.Is(err, client.ErrTokenExpired) || errors.Is(err, common.ErrInvalidToken)
}

// check drops the local session when the server no longer accepts it.
func (a *App) check(ctx context.Context, err error) error {
	if isSessionGone(err) {
		a.setSession(nil)
		if lerr := a.authService.Logout(ctx); lerr != nil {
			a.log.Warn(ctx, "clearing session failed", "error", lerr)
		}
	}
	return err
}

func printAccount(w io.Writer, acc *models.PublicAccount) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\t%s\n", acc.ID)
	fmt.Fprintf(tw, "Username\t%s\n", acc.Username)
	fmt.Fprintf(tw, "Name\t%s %s\n", acc.FirstName, acc.LastName)
	fmt.Fprintf(tw, "Email\t%s\n", acc.Email)
	if acc.VoicePart != "" {
		fmt.Fprintf(tw, "Voice part\t%s\n", acc.VoicePart)
	}
	if acc.Phone != "" {
		fmt.Fprintf(tw, "Phone\t%s\n", acc.Phone)
	}
	fmt.Fprintf(tw, "Role\t%s\n", acc.Role)
	fmt.Fprintf(tw, "Approved\t%t\n", acc.IsApproved)
	_ = tw.Flush()
}

// printAccounts prints one row per account. Directory rows (as seen by
// members) have no email or role, so those columns stay blank.
func printAccounts(w io.Writer, accs []models.PublicAccount) {
	if len(accs) == 0 {
		fmt.Fprintln(w, "No members.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tNAME\tVOICE\tEMAIL\tROLE\tREGISTERED")
	for _, acc := range accs {
		registered := ""
		if !acc.CreatedAt.IsZero() {
			registered = acc.CreatedAt.Local().Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s %s\t%s\t%s\t%s\t%s\n",
			acc.ID, acc.Username, acc.FirstName, acc.LastName, acc.VoicePart, acc.Email, acc.Role, registered)
	}
	_ = tw.Flush()
}

func (a *App) Members(ctx context.Context) error {
	accs, err := a.memberService.List(ctx)
	if err != nil {
		return a.check(ctx, err)
	}
	printAccounts(a.out, accs)
	return nil
}

func (a *App) Pending(ctx context.Context) error {
	accs, err := a.memberService.Pending(ctx)
	if err != nil {
		return a.check(ctx, err)
	}
	if len(accs) == 0 {
		fmt.Fprintln(a.out, "No pending registrations.")
		return nil
	}
	printAccounts(a.out, accs)
	return nil
}

func (a *App) Approve(ctx context.Context, id string) error {
	acc, err := a.memberService.Approve(ctx, id)
	if err != nil {
		return a.check(ctx, err)
	}
	fmt.Fprintf(a.out, "Approved %s.\n", acc.Username)
	return nil
}

func (a *App) Reject(ctx context.Context, id string) error {
	if err := a.memberService.Reject(ctx, id); err != nil {
		return a.check(ctx, err)
	}
	fmt.Fprintf(a.out, "Rejected registration %s.\n", id)
	return nil
}

func (a *App) Role(ctx context.Context, id, role string) error {
	acc, err := a.memberService.ChangeRole(ctx, id, role)
	if err != nil {
		return a.check(ctx, err)
	}
	fmt.Fprintf(a.out, "%s is now %s.\n", acc.Username, acc.Role)
	return nil
}

// Delete asks for confirmation before removing an account.
func (a *App) Delete(ctx context.Context, id string) error {
	answer, err := a.prompt(fmt.Sprintf("Delete member %s? Type yes to confirm", id))
	if err != nil {
		return a.check(ctx, err)
	}
	if answer != "yes" {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}
	if err := a.memberService.Delete(ctx, id); err != nil {
		return a.check(ctx, err)
	}
	fmt.Fprintf(a.out, "Deleted member %s.\n", id)
	return nil
}
