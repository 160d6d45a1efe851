package sheetmusic

import (
	"context"

	"github.com/dmitrijs2005/choirhub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, s *models.SheetMusic) (*models.SheetMusic, error)
	GetByID(ctx context.Context, id string) (*models.SheetMusic, error)
	// List returns scores ordered by title.
	List(ctx context.Context) ([]*models.SheetMusic, error)
	Update(ctx context.Context, s *models.SheetMusic) (*models.SheetMusic, error)
	MarkCompleted(ctx context.Context, id string) (*models.SheetMusic, error)
	Delete(ctx context.Context, id string) error
}
