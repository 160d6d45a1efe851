package rehearsals

import (
	"context"

	"github.com/dmitrijs2005/choirhub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, r *models.Rehearsal) (*models.Rehearsal, error)
	GetByID(ctx context.Context, id string) (*models.Rehearsal, error)
	List(ctx context.Context) ([]*models.Rehearsal, error)
	Update(ctx context.Context, r *models.Rehearsal) (*models.Rehearsal, error)
	Delete(ctx context.Context, id string) error
}
