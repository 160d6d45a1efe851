package accounts

import (
	"context"

	"github.com/dmitrijs2005/choirhub/internal/server/models"
)

// Repository stores accounts and enforces username/email uniqueness.
type Repository interface {
	Create(ctx context.Context, acc *models.Account) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	Update(ctx context.Context, id string, patch *models.AccountPatch) (*models.Account, error)
	Delete(ctx context.Context, id string) error

	// Approve sets the approval flag. Approving an approved account is a no-op write.
	Approve(ctx context.Context, id string) (*models.Account, error)
	// RejectPending deletes the account only while it is still pending.
	RejectPending(ctx context.Context, id string) error
	ListPending(ctx context.Context) ([]*models.Account, error)
	List(ctx context.Context) ([]*models.Account, error)
}
