package concerts

import (
	"context"

	"github.com/dmitrijs2005/choirhub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, c *models.Concert) (*models.Concert, error)
	GetByID(ctx context.Context, id string) (*models.Concert, error)
	// List returns concerts by date ascending. With publicOnly set, private
	// concerts are skipped in the query.
	List(ctx context.Context, publicOnly bool) ([]*models.Concert, error)
	Update(ctx context.Context, c *models.Concert) (*models.Concert, error)
	Delete(ctx context.Context, id string) error
}
