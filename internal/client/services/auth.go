// Package services contains application services for the choirhub terminal
// client. They sit between the REPL and the API client and own the local
// session state.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/choirhub/internal/client/client"
	"github.com/dmitrijs2005/choirhub/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/choirhub/internal/common"
	"github.com/dmitrijs2005/choirhub/internal/dbx"
	"github.com/dmitrijs2005/choirhub/internal/server/models"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register: create a pending account on the server.
//   - Login: authenticate, persist the session locally and start using it.
//   - Restore: pick up a session saved by an earlier run.
//   - Logout: forget the local session.
//   - Me, ChangePassword: calls on behalf of the logged-in account.
//   - Ping: check server liveness.
type AuthService interface {
	Register(ctx context.Context, req client.RegisterRequest) (*models.PublicAccount, error)
	Login(ctx context.Context, username string, password []byte) (*metadata.Session, error)
	Restore(ctx context.Context) (*metadata.Session, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.PublicAccount, error)
	ChangePassword(ctx context.Context, current, next []byte) error
	Ping(ctx context.Context) error
}

type authService struct {
	client client.Client
	db     *sql.DB
	now    func() time.Time
}

// NewAuthService constructs an AuthService bound to the given API client and
// local state database.
func NewAuthService(c client.Client, db *sql.DB) AuthService {
	return &authService{client: c, db: db, now: time.Now}
}

func (a *authService) metadataRepo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

func (a *authService) Register(ctx context.Context, req client.RegisterRequest) (*models.PublicAccount, error) {
	return a.client.Register(ctx, req)
}

// Login authenticates against the server and saves token, username and expiry
// in one transaction before switching the client over to the new token.
func (a *authService) Login(ctx context.Context, username string, password []byte) (*metadata.Session, error) {
	sess, err := a.client.Login(ctx, username, string(password))
	if err != nil {
		return nil, err
	}

	s := metadata.Session{Token: sess.Token, Username: username, ExpiresAt: sess.ExpiresAt}
	if sess.Account != nil {
		s.Username = sess.Account.Username
	}

	err = dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.SaveSession(ctx, a.metadataRepo(tx), s)
	})
	if err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	a.client.SetToken(s.Token)
	return &s, nil
}

// Restore loads a saved session. It returns (nil, nil) when there is none and
// client.ErrTokenExpired, after clearing it, when the saved one has expired.
func (a *authService) Restore(ctx context.Context) (*metadata.Session, error) {
	s, err := metadata.LoadSession(ctx, a.metadataRepo(a.db))
	if err != nil || s == nil {
		return nil, err
	}
	if s.Expired(a.now()) {
		if err := a.Logout(ctx); err != nil {
			return nil, err
		}
		return nil, client.ErrTokenExpired
	}
	a.client.SetToken(s.Token)
	return s, nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.client.SetToken("")
	return metadata.ClearSession(ctx, a.metadataRepo(a.db))
}

// Me returns the caller's profile. A token the server no longer accepts is
// dropped locally.
func (a *authService) Me(ctx context.Context) (*models.PublicAccount, error) {
	acc, err := a.client.Me(ctx)
	if errors.Is(err, common.ErrInvalidToken) {
		if lerr := a.Logout(ctx); lerr != nil {
			return nil, errors.Join(err, lerr)
		}
		return nil, client.ErrTokenExpired
	}
	return acc, err
}

func (a *authService) ChangePassword(ctx context.Context, current, next []byte) error {
	return a.client.ChangePassword(ctx, string(current), string(next))
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
