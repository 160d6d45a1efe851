package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/choirhub/internal/common"
	"github.com/dmitrijs2005/choirhub/internal/server/config"
	"github.com/dmitrijs2005/choirhub/internal/server/models"
)

// EnsureAdmin creates the configured administrator unless an account already
// holds its username or email. It reports whether an account was created.
func (s *AccountService) EnsureAdmin(ctx context.Context, cfg *config.Config) (bool, error) {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		s.log.Warn(ctx, "admin bootstrap skipped: username or password not configured")
		return false, nil
	}

	reg := models.Registration{
		Username:  cfg.AdminUsername,
		Email:     cfg.AdminEmail,
		Password:  cfg.AdminPassword,
		FirstName: cfg.AdminFirstName,
		LastName:  cfg.AdminLastName,
	}
	reg.Normalize()
	if err := reg.Validate(); err != nil {
		return false, fmt.Errorf("admin bootstrap: %w", err)
	}

	repo := s.repomanager.Accounts(s.db)

	for _, lookup := range []func() (*models.Account, error){
		func() (*models.Account, error) { return repo.GetByUsername(ctx, reg.Username) },
		func() (*models.Account, error) { return repo.GetByEmail(ctx, reg.Email) },
	} {
		_, err := lookup()
		if err == nil {
			return false, nil
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return false, fmt.Errorf("admin bootstrap: %w", err)
		}
	}

	hash, err := hashPassword(reg.Password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	acc, err := repo.Create(ctx, &models.Account{
		Username:     reg.Username,
		Email:        reg.Email,
		PasswordHash: hash,
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
		Role:         models.RoleAdmin,
		Approved:     true,
	})
	if errors.Is(err, common.ErrDuplicateIdentity) {
		// another instance won the race
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("admin bootstrap: %w", err)
	}

	s.log.Info(ctx, "admin account created", "account_id", acc.ID, "username", acc.Username)
	s.log.Warn(ctx, "change the bootstrap admin password after first login", "username", acc.Username)
	return true, nil
}
