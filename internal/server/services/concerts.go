package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/choirhub/internal/dbx"
	"github.com/dmitrijs2005/choirhub/internal/server/models"
	"github.com/dmitrijs2005/choirhub/internal/server/policy"
	"github.com/dmitrijs2005/choirhub/internal/server/repositories/repomanager"
)

type ConcertService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewConcertService(db *sql.DB, m repomanager.RepositoryManager) *ConcertService {
	return &ConcertService{db: db, repomanager: m}
}

// List returns concerts by date. Anonymous callers only get public ones.
func (s *ConcertService) List(ctx context.Context, caller policy.Identity) ([]*models.Concert, error) {
	items, err := s.repomanager.Concerts(s.db).List(ctx, !caller.Authenticated())
	if err != nil {
		return nil, err
	}
	return policy.Filter(caller, items, policy.ConcertResource), nil
}

func (s *ConcertService) Get(ctx context.Context, caller policy.Identity, id string) (*models.Concert, error) {
	id, err := models.ParseID(id)
	if err != nil {
		return nil, err
	}
	c, err := s.repomanager.Concerts(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.CanAccess(caller, policy.Read, policy.ConcertResource(c)).Err(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ConcertService) Create(ctx context.Context, caller policy.Identity, in models.ConcertInput) (*models.Concert, error) {
	if err := policy.CanAccess(caller, policy.Create, policy.NewResource(policy.KindConcert)).Err(); err != nil {
		return nil, err
	}
	c := &models.Concert{IsPublic: true, CreatedBy: caller.AccountID}
	in.Apply(c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return s.repomanager.Concerts(s.db).Create(ctx, c)
}

func (s *ConcertService) Update(ctx context.Context, caller policy.Identity, id string, in models.ConcertInput) (*models.Concert, error) {
	id, err := models.ParseID(id)
	if err != nil {
		return nil, err
	}
	var out *models.Concert
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Concerts(tx)
		c, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := policy.CanAccess(caller, policy.Update, policy.ConcertResource(c)).Err(); err != nil {
			return err
		}
		in.Apply(c)
		if err := c.Validate(); err != nil {
			return err
		}
		out, err = repo.Update(ctx, c)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ConcertService) Delete(ctx context.Context, caller policy.Identity, id string) error {
	id, err := models.ParseID(id)
	if err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Concerts(tx)
		c, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := policy.CanAccess(caller, policy.Delete, policy.ConcertResource(c)).Err(); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
}
