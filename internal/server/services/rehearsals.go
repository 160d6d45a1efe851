package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/choirhub/internal/dbx"
	"github.com/dmitrijs2005/choirhub/internal/server/models"
	"github.com/dmitrijs2005/choirhub/internal/server/policy"
	"github.com/dmitrijs2005/choirhub/internal/server/repositories/repomanager"
)

type RehearsalService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewRehearsalService(db *sql.DB, m repomanager.RepositoryManager) *RehearsalService {
	return &RehearsalService{db: db, repomanager: m}
}

func (s *RehearsalService) List(ctx context.Context, caller policy.Identity) ([]*models.Rehearsal, error) {
	if err := policy.CanAccess(caller, policy.Read, policy.CollectionResource(policy.KindRehearsal)).Err(); err != nil {
		return nil, err
	}
	items, err := s.repomanager.Rehearsals(s.db).List(ctx)
	if err != nil {
		return nil, err
	}
	return policy.Filter(caller, items, policy.RehearsalResource), nil
}

func (s *RehearsalService) Get(ctx context.Context, caller policy.Identity, id string) (*models.Rehearsal, error) {
	id, err := models.ParseID(id)
	if err != nil {
		return nil, err
	}
	r, err := s.repomanager.Rehearsals(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.CanAccess(caller, policy.Read, policy.RehearsalResource(r)).Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *RehearsalService) Create(ctx context.Context, caller policy.Identity, in models.RehearsalInput) (*models.Rehearsal, error) {
	if err := policy.CanAccess(caller, policy.Create, policy.NewResource(policy.KindRehearsal)).Err(); err != nil {
		return nil, err
	}
	r := &models.Rehearsal{DurationMinutes: models.DefaultRehearsalMinutes, CreatedBy: caller.AccountID}
	in.Apply(r)
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return s.repomanager.Rehearsals(s.db).Create(ctx, r)
}

func (s *RehearsalService) Update(ctx context.Context, caller policy.Identity, id string, in models.RehearsalInput) (*models.Rehearsal, error) {
	id, err := models.ParseID(id)
	if err != nil {
		return nil, err
	}
	var out *models.Rehearsal
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Rehearsals(tx)
		r, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := policy.CanAccess(caller, policy.Update, policy.RehearsalResource(r)).Err(); err != nil {
			return err
		}
		in.Apply(r)
		if err := r.Validate(); err != nil {
			return err
		}
		out, err = repo.Update(ctx, r)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *RehearsalService) Delete(ctx context.Context, caller policy.Identity, id string) error {
	id, err := models.ParseID(id)
	if err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Rehearsals(tx)
		r, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := policy.CanAccess(caller, policy.Delete, policy.RehearsalResource(r)).Err(); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
}
