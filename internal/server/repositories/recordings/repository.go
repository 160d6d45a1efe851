package recordings

import (
	"context"

	"github.com/dmitrijs2005/choirhub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, r *models.Recording) (*models.Recording, error)
	GetByID(ctx context.Context, id string) (*models.Recording, error)
	// List returns recordings newest first.
	List(ctx context.Context) ([]*models.Recording, error)
	Update(ctx context.Context, r *models.Recording) (*models.Recording, error)
	MarkCompleted(ctx context.Context, id string) (*models.Recording, error)
	Delete(ctx context.Context, id string) error
}
