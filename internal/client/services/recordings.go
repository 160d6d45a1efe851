package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/choirhub/internal/client/client"
	"github.com/dmitrijs2005/choirhub/internal/common"
	"github.com/dmitrijs2005/choirhub/internal/filex"
	"github.com/dmitrijs2005/choirhub/internal/netx"
	"github.com/dmitrijs2005/choirhub/internal/server/models"
)

// uploadPresigned is a test seam for netx.UploadPresigned.
var uploadPresigned = netx.UploadPresigned

// RecordingService uploads audio recordings.
type RecordingService interface {
	Upload(ctx context.Context, path, title string) (*models.Recording, error)
}

type recordingService struct {
	client client.Client
}

func NewRecordingService(c client.Client) RecordingService {
	return &recordingService{client: c}
}

// Upload registers the recording, PUTs the file to the presigned URL and then
// marks the upload complete. A failed PUT leaves the record pending on the
// server.
func (s *recordingService) Upload(ctx context.Context, path, title string) (*models.Recording, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrValidation)
	}

	f, u, err := filex.OpenUpload(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	meta := models.FileMeta{FileName: u.Name, ContentType: u.ContentType, FileSize: u.Size}
	if err := models.ValidateFile(meta, models.AudioContentTypes, models.MaxRecordingSize); err != nil {
		return nil, err
	}

	up, err := s.client.CreateRecording(ctx, models.RecordingInput{Title: &title, FileMeta: meta})
	if err != nil {
		return nil, err
	}

	if err := uploadPresigned(ctx, up.Upload.URL, meta.ContentType, f, meta.FileSize); err != nil {
		return nil, fmt.Errorf("recording %s: %w", up.Recording.ID, err)
	}

	return s.client.CompleteRecording(ctx, up.Recording.ID)
}
