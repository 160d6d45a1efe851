package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/choirhub/internal/common"
)

type Recording struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description,omitempty"`
	FileName        string       `json:"fileName"`
	StorageKey      string       `json:"-"`
	ContentType     string       `json:"contentType"`
	FileSize        int64        `json:"fileSize"`
	DurationSeconds int          `json:"durationSeconds,omitempty"`
	IsPublic        bool         `json:"isPublic"`
	UploadedBy      string       `json:"uploadedBy"`
	UploadStatus    UploadStatus `json:"uploadStatus"`
	CreatedAt       time.Time    `json:"createdAt"`
}

// RecordingInput is used for both create and update; file fields are
// ignored on update.
type RecordingInput struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	DurationSeconds *int    `json:"durationSeconds"`
	IsPublic        *bool   `json:"isPublic"`
	FileMeta
}

func (in *RecordingInput) Apply(r *Recording) {
	if in.Title != nil {
		r.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		r.Description = *in.Description
	}
	if in.DurationSeconds != nil {
		r.DurationSeconds = *in.DurationSeconds
	}
	if in.IsPublic != nil {
		r.IsPublic = *in.IsPublic
	}
}

func (r *Recording) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("%w: title is required", common.ErrValidation)
	}
	if r.DurationSeconds < 0 {
		return fmt.Errorf("%w: duration cannot be negative", common.ErrValidation)
	}
	return nil
}

// RecordingUpload is returned on create: the stored record plus where to PUT the file.
type RecordingUpload struct {
	Recording *Recording    `json:"recording"`
	Upload    *PresignedURL `json:"upload"`
}
