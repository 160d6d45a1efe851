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

// RecordingService manages audio recordings. Files go straight to object
// storage through presigned URLs; the service only keeps metadata.
type RecordingService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.ObjectStore
	log         logging.Logger
}

func NewRecordingService(db *sql.DB, m repomanager.RepositoryManager, store storage.ObjectStore, log logging.Logger) *RecordingService {
	return &RecordingService{db: db, repomanager: m, store: store, log: log.With("module", "recordings")}
}

func (s *RecordingService) List(ctx context.Context, caller policy.Identity) ([]*models.Recording, error) {
	if err := policy.CanAccess(caller, policy.Read, policy.CollectionResource(policy.KindRecording)).Err(); err != nil {
		return nil, err
	}
	items, err := s.repomanager.Recordings(s.db).List(ctx)
	if err != nil {
		return nil, err
	}
	return policy.Filter(caller, items, policy.RecordingResource), nil
}

func (s *RecordingService) Get(ctx context.Context, caller policy.Identity, id string) (*models.Recording, error) {
	id, err := models.ParseID(id)
	if err != nil {
		return nil, err
	}
	r, err := s.repomanager.Recordings(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.CanAccess(caller, policy.Read, policy.RecordingResource(r)).Err(); err != nil {
		return nil, err
	}
	return r, nil
}

// Create stores the metadata as a pending upload and returns a presigned PUT
// URL bound to the declared content type and size.
func (s *RecordingService) Create(ctx context.Context, caller policy.Identity, in models.RecordingInput) (*models.RecordingUpload, error) {
	if err := policy.CanAccess(caller, policy.Create, policy.NewResource(policy.KindRecording)).Err(); err != nil {
		return nil, err
	}
	if err := models.ValidateFile(in.FileMeta, models.AudioContentTypes, models.MaxRecordingSize); err != nil {
		return nil, err
	}

	r := &models.Recording{
		FileName:     cleanFileName(in.FileName, "recording"),
		StorageKey:   storage.NewKey(recordingsPrefix),
		ContentType:  strings.ToLower(strings.TrimSpace(in.ContentType)),
		FileSize:     in.FileSize,
		UploadedBy:   caller.AccountID,
		UploadStatus: models.UploadPending,
	}
	in.Apply(r)
	if err := r.Validate(); err != nil {
		return nil, err
	}

	url, err := s.store.PresignPut(ctx, r.StorageKey, models.FileMeta{FileName: r.FileName, ContentType: r.ContentType, FileSize: r.FileSize})
	if err != nil {
		return nil, err
	}

	created, err := s.repomanager.Recordings(s.db).Create(ctx, r)
	if err != nil {
		return nil, err
	}
	return &models.RecordingUpload{Recording: created, Upload: url}, nil
}

// Complete marks the upload as stored. Only the uploader or an admin may do it.
func (s *RecordingService) Complete(ctx context.Context, caller policy.Identity, id string) (*models.Recording, error) {
	id, err := models.ParseID(id)
	if err != nil {
		return nil, err
	}
	var out *models.Recording
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Recordings(tx)
		r, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := policy.CanAccess(caller, policy.Update, policy.RecordingResource(r)).Err(); err != nil {
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
func (s *RecordingService) Download(ctx context.Context, caller policy.Identity, id string) (*models.PresignedURL, error) {
	r, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := uploadCompleted(r.UploadStatus); err != nil {
		return nil, err
	}
	return s.store.PresignGet(ctx, r.StorageKey, r.FileName)
}

func (s *RecordingService) Update(ctx context.Context, caller policy.Identity, id string, in models.RecordingInput) (*models.Recording, error) {
	id, err := models.ParseID(id)
	if err != nil {
		return nil, err
	}
	var out *models.Recording
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Recordings(tx)
		r, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := policy.CanAccess(caller, policy.Update, policy.RecordingResource(r)).Err(); err != nil {
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

// Delete removes the record, then the stored object.
func (s *RecordingService) Delete(ctx context.Context, caller policy.Identity, id string) error {
	id, err := models.ParseID(id)
	if err != nil {
		return err
	}
	var key string
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Recordings(tx)
		r, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := policy.CanAccess(caller, policy.Delete, policy.RecordingResource(r)).Err(); err != nil {
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
