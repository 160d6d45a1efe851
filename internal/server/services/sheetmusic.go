package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmitrijs2005/choirhub/internal/dbx"
	"github.com/dmitrijs2005/choirhub/internal/logging"
	"github.com/dmitrijs2005/choirhub/internal/server/models"
	"github.com/dmitrijs2005/choirhub/internal/server/policy"
	"github.com/dmitrijs2005/choirhub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/choirhub/internal/server/storage"
)

// SheetMusicService manages scores. Like recordings, files go straight to
// object storage and members see scores for their own voice part.
type SheetMusicService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.ObjectStore
	log         logging.Logger
}

func NewSheetMusicService(db *sql.DB, m repomanager.RepositoryManager, store storage.ObjectStore, log logging.Logger) *SheetMusicService {
	return &SheetMusicService{db: db, repomanager: m, store: store, log: log.With("module", "sheetmusic")}
}

func (s *SheetMusicService) List(ctx context.Context, caller policy.Identity) ([]*models.SheetMusic, error) {
	if err := policy.CanAccess(caller, policy.Read, policy.CollectionResource(policy.KindSheetMusic)).Err(); err != nil {
		return nil, err
	}
	items, err := s.repomanager.SheetMusic(s.db).List(ctx)
	if err != nil {
		return nil, err
	}
	return policy.Filter(caller, items, policy.SheetMusicResource), nil
}

func (s *SheetMusicService) Get(ctx context.Context, caller policy.Identity, id string) (*models.SheetMusic, error) {
	id, err := models.ParseID(id)
	if err != nil {
		return nil, err
	}
	r, err := s.repomanager.SheetMusic(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.CanAccess(caller, policy.Read, policy.SheetMusicResource(r)).Err(); err != nil {
		return nil, err
	}
	return r, nil
}

// Create stores the metadata as a pending upload and returns a presigned PUT
// URL bound to the declared content type and size.
func (s *SheetMusicService) Create(ctx context.Context, caller policy.Identity, in models.SheetMusicInput) (*models.SheetMusicUpload, error) {
	if err := policy.CanAccess(caller, policy.Create, policy.NewResource(policy.KindSheetMusic)).Err(); err != nil {
		return nil, err
	}
	if err := models.ValidateFile(in.FileMeta, models.SheetContentTypes, models.MaxSheetMusicSize); err != nil {
		return nil, err
	}

	r := &models.SheetMusic{
		FileName:     cleanFileName(in.FileName, "score"),
		StorageKey:   storage.NewKey(sheetMusicPrefix),
		ContentType:  strings.ToLower(strings.TrimSpace(in.ContentType)),
		FileSize:     in.FileSize,
		UploadedBy:   caller.AccountID,
		UploadStatus: models.UploadPending,
	}
	if err := in.Apply(r); err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	url, err := s.store.PresignPut(ctx, r.StorageKey, models.FileMeta{FileName: r.FileName, ContentType: r.ContentType, FileSize: r.FileSize})
	if err != nil {
		return nil, err
	}

	created, err := s.repomanager.SheetMusic(s.db).Create(ctx, r)
	if err != nil {
		return nil, err
	}
	return &models.SheetMusicUpload{SheetMusic: created, Upload: url}, nil
}

// Complete marks the upload as stored. Only the uploader or an admin may do it.
func (s *SheetMusicService) Complete(ctx context.Context, caller policy.Identity, id string) (*models.SheetMusic, error) {
	id, err := models.ParseID(id)
	if err != nil {
		return nil, err
	}
	var out *models.SheetMusic
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.SheetMusic(tx)
		r, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := policy.CanAccess(caller, policy.Update, policy.SheetMusicResource(r)).Err(); err != nil {
			return err
		}
		out, err = repo.MarkCompleted(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Download returns a presigned GET URL for a completed upload.
func (s *SheetMusicService) Download(ctx context.Context, caller policy.Identity, id string) (*models.PresignedURL, error) {
	r, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := uploadCompleted(r.UploadStatus); err != nil {
		return nil, err
	}
	return s.store.PresignGet(ctx, r.StorageKey, r.FileName)
}

func (s *SheetMusicService) Update(ctx context.Context, caller policy.Identity, id string, in models.SheetMusicInput) (*models.SheetMusic, error) {
	id, err := models.ParseID(id)
	if err != nil {
		return nil, err
	}
	var out *models.SheetMusic
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.SheetMusic(tx)
		r, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := policy.CanAccess(caller, policy.Update, policy.SheetMusicResource(r)).Err(); err != nil {
			return err
		}
		if err := in.Apply(r); err != nil {
			return err
		}
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

// Delete removes the record, then the stored object.
func (s *SheetMusicService) Delete(ctx context.Context, caller policy.Identity, id string) error {
	id, err := models.ParseID(id)
	if err != nil {
		return err
	}
	var key string
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.SheetMusic(tx)
		r, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := policy.CanAccess(caller, policy.Delete, policy.SheetMusicResource(r)).Err(); err != nil {
			return err
		}
		key = r.StorageKey
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	removeObject(ctx, s.store, s.log, key)
	return nil
}
