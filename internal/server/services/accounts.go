// Package services contains server-side business logic. AccountService owns
// registration, login, the approval workflow and account administration.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/choirhub/internal/common"
	"github.com/dmitrijs2005/choirhub/internal/dbx"
	"github.com/dmitrijs2005/choirhub/internal/logging"
	"github.com/dmitrijs2005/choirhub/internal/server/auth"
	"github.com/dmitrijs2005/choirhub/internal/server/config"
	"github.com/dmitrijs2005/choirhub/internal/server/models"
	"github.com/dmitrijs2005/choirhub/internal/server/password"
	"github.com/dmitrijs2005/choirhub/internal/server/policy"
	"github.com/dmitrijs2005/choirhub/internal/server/repositories/repomanager"
)

var (
	hashPassword   = password.Hash
	verifyPassword = password.Verify
)

// Session is returned by a successful login.
type Session struct {
	Token     string                `json:"token"`
	ExpiresAt time.Time             `json:"expiresAt"`
	Account   *models.PublicAccount `json:"user"`
}

type AccountService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	jwtSecret       []byte
	sessionValidity time.Duration
	log             logging.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *AccountService {
	validity := cfg.SessionValidity
	if validity <= 0 {
		validity = auth.DefaultValidity
	}
	return &AccountService{
		db:              db,
		repomanager:     m,
		jwtSecret:       []byte(cfg.SecretKey),
		sessionValidity: validity,
		log:             log.With("module", "accounts"),
	}
}

// Register creates a pending member account. No session is issued.
func (s *AccountService) Register(ctx context.Context, reg models.Registration) (*models.PublicAccount, error) {
	reg.Normalize()
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	hash, err := hashPassword(reg.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	voice, _ := models.ParseVoicePart(reg.VoicePart)

	acc, err := s.repomanager.Accounts(s.db).Create(ctx, &models.Account{
		Username:     reg.Username,
		Email:        reg.Email,
		PasswordHash: hash,
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
		VoicePart:    voice,
		Phone:        reg.Phone,
		Role:         models.RoleMember,
		Approved:     false,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	s.log.Info(ctx, "account registered", "account_id", acc.ID, "username", acc.Username)
	return acc.Public(), nil
}

// Login checks, in order: the account exists, it is approved (admins always
// are), and the password matches. Only then is a session token issued.
func (s *AccountService) Login(ctx context.Context, username, pw string) (*Session, error) {
	acc, err := s.repomanager.Accounts(s.db).GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.burnVerify(pw)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error looking up account: %w", err)
	}

	if !acc.CanAuthenticate() {
		return nil, common.ErrNotApproved
	}

	ok, err := verifyPassword(pw, acc.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	token, exp, err := auth.GenerateToken(acc, s.jwtSecret, s.sessionValidity)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info(ctx, "login", "account_id", acc.ID, "role", acc.Role.String())
	return &Session{Token: token, ExpiresAt: exp, Account: acc.Public()}, nil
}

// burnVerify spends about the same time as a real verification so unknown
// usernames are not faster to reject.
func (s *AccountService) burnVerify(pw string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = hashPassword(string(common.GenerateRandByteArray(16)))
	})
	if s.dummyHash != "" {
		_, _ = verifyPassword(pw, s.dummyHash)
	}
}

// VerifyToken validates a bearer token. All failures are common.ErrInvalidToken.
func (s *AccountService) VerifyToken(token string) (*auth.Identity, error) {
	return auth.ParseToken(token, s.jwtSecret)
}

// ResolveIdentity adds the caller's stored voice part to the token identity.
// A lookup failure leaves the voice part empty, which only narrows access.
func (s *AccountService) ResolveIdentity(ctx context.Context, id *auth.Identity) policy.Identity {
	out := IdentityFrom(id)
	if !out.Authenticated() {
		return out
	}
	acc, err := s.repomanager.Accounts(s.db).GetByID(ctx, out.AccountID)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.log.Warn(ctx, "resolve identity", "account_id", out.AccountID, "error", err)
		}
		return out
	}
	out.VoicePart = acc.VoicePart
	return out
}

func (s *AccountService) Profile(ctx context.Context, caller policy.Identity, accountID string) (*models.PublicAccount, error) {
	accountID, err := models.ParseID(accountID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanAccess(caller, policy.Read, policy.AccountResource(accountID)).Err(); err != nil {
		return nil, err
	}
	acc, err := s.repomanager.Accounts(s.db).GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return acc.Public(), nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, caller policy.Identity, accountID string, upd models.ProfileUpdate) (*models.PublicAccount, error) {
	accountID, err := models.ParseID(accountID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanAccess(caller, policy.Update, policy.AccountResource(accountID)).Err(); err != nil {
		return nil, err
	}
	patch, err := upd.Patch()
	if err != nil {
		return nil, err
	}
	acc, err := s.repomanager.Accounts(s.db).Update(ctx, accountID, patch)
	if err != nil {
		return nil, err
	}
	return acc.Public(), nil
}

// ChangePassword replaces the caller's own password after checking the current one.
func (s *AccountService) ChangePassword(ctx context.Context, caller policy.Identity, current, next string) error {
	if err := policy.CanAccess(caller, policy.Update, policy.AccountResource(caller.AccountID)).Err(); err != nil {
		return err
	}
	if err := models.ValidatePassword(next); err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		acc, err := repo.GetByID(ctx, caller.AccountID)
		if err != nil {
			return err
		}
		ok, err := verifyPassword(current, acc.PasswordHash)
		if err != nil {
			return fmt.Errorf("verify password: %w", err)
		}
		if !ok {
			return common.ErrInvalidCredentials
		}

		hash, err := hashPassword(next)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		_, err = repo.Update(ctx, acc.ID, &models.AccountPatch{PasswordHash: &hash})
		return err
	})
}

func (s *AccountService) ChangeRole(ctx context.Context, caller policy.Identity, accountID, role string) (*models.PublicAccount, error) {
	accountID, err := models.ParseID(accountID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanAccess(caller, policy.ChangeRole, policy.AccountResource(accountID)).Err(); err != nil {
		return nil, err
	}
	r, ok := models.ParseRole(role)
	if !ok {
		return nil, fmt.Errorf("%w: role must be member or admin", common.ErrValidation)
	}
	acc, err := s.repomanager.Accounts(s.db).Update(ctx, accountID, &models.AccountPatch{Role: &r})
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "role changed", "account_id", acc.ID, "role", r.String(), "by", caller.AccountID)
	return acc.Public(), nil
}

// Delete removes any account except the caller's own.
func (s *AccountService) Delete(ctx context.Context, caller policy.Identity, accountID string) error {
	accountID, err := models.ParseID(accountID)
	if err != nil {
		return err
	}
	if err := policy.CanAccess(caller, policy.Delete, policy.AccountResource(accountID)).Err(); err != nil {
		return err
	}
	if err := s.repomanager.Accounts(s.db).Delete(ctx, accountID); err != nil {
		return err
	}
	s.log.Info(ctx, "account deleted", "account_id", accountID, "by", caller.AccountID)
	return nil
}

// Approve moves a pending account to approved. Re-approving is a harmless write.
func (s *AccountService) Approve(ctx context.Context, caller policy.Identity, accountID string) (*models.PublicAccount, error) {
	accountID, err := models.ParseID(accountID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanAccess(caller, policy.Approve, policy.AccountResource(accountID)).Err(); err != nil {
		return nil, err
	}
	acc, err := s.repomanager.Accounts(s.db).Approve(ctx, accountID)
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "account approved", "account_id", acc.ID, "by", caller.AccountID)
	return acc.Public(), nil
}

// Reject deletes a registration that is still pending. Approved accounts and
// admins yield common.ErrorNotFound and are left untouched.
func (s *AccountService) Reject(ctx context.Context, caller policy.Identity, accountID string) error {
	accountID, err := models.ParseID(accountID)
	if err != nil {
		return err
	}
	if err := policy.CanAccess(caller, policy.Approve, policy.AccountResource(accountID)).Err(); err != nil {
		return err
	}
	if err := s.repomanager.Accounts(s.db).RejectPending(ctx, accountID); err != nil {
		return err
	}
	s.log.Info(ctx, "registration rejected", "account_id", accountID, "by", caller.AccountID)
	return nil
}

// ListPending returns pending registrations, newest first.
func (s *AccountService) ListPending(ctx context.Context, caller policy.Identity) ([]*models.PublicAccount, error) {
	if err := policy.CanAccess(caller, policy.Approve, policy.AccountResource("")).Err(); err != nil {
		return nil, err
	}
	accs, err := s.repomanager.Accounts(s.db).ListPending(ctx)
	if err != nil {
		return nil, err
	}
	return publicAccounts(accs), nil
}

// ListAccounts returns the full projection of every account the caller may read.
func (s *AccountService) ListAccounts(ctx context.Context, caller policy.Identity) ([]*models.PublicAccount, error) {
	accs, err := s.repomanager.Accounts(s.db).List(ctx)
	if err != nil {
		return nil, err
	}
	visible := policy.Filter(caller, accs, func(a *models.Account) policy.Resource {
		return policy.AccountResource(a.ID)
	})
	return publicAccounts(visible), nil
}

// Directory returns the reduced projection of approved non-admin members.
func (s *AccountService) Directory(ctx context.Context, caller policy.Identity) ([]*models.DirectoryEntry, error) {
	if err := policy.CanAccess(caller, policy.Read, policy.DirectoryResource()).Err(); err != nil {
		return nil, err
	}
	accs, err := s.repomanager.Accounts(s.db).List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.DirectoryEntry, 0, len(accs))
	for _, a := range accs {
		if a.Role == models.RoleMember && a.Approved {
			out = append(out, a.DirectoryEntry())
		}
	}
	return out, nil
}

func publicAccounts(accs []*models.Account) []*models.PublicAccount {
	out := make([]*models.PublicAccount, 0, len(accs))
	for _, a := range accs {
		out = append(out, a.Public())
	}
	return out
}
