package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/choirhub/internal/common"
)

type SheetMusic struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Composer     string       `json:"composer,omitempty"`
	Description  string       `json:"description,omitempty"`
	VoicePart    VoicePart    `json:"voicePart,omitempty"`
	FileName     string       `json:"fileName"`
	StorageKey   string       `json:"-"`
	ContentType  string       `json:"contentType"`
	FileSize     int64        `json:"fileSize"`
	IsPublic     bool         `json:"isPublic"`
	UploadedBy   string       `json:"uploadedBy"`
	UploadStatus UploadStatus `json:"uploadStatus"`
	CreatedAt    time.Time    `json:"createdAt"`
}

type SheetMusicInput struct {
	Title       *string `json:"title"`
	Composer    *string `json:"composer"`
	Description *string `json:"description"`
	VoicePart   *string `json:"voicePart"`
	IsPublic    *bool   `json:"isPublic"`
	FileMeta
}

// Apply copies non-nil fields onto s. The voice part is validated here since
// it arrives as free text.
func (in *SheetMusicInput) Apply(s *SheetMusic) error {
	if in.Title != nil {
		s.Title = strings.TrimSpace(*in.Title)
	}
	if in.Composer != nil {
		s.Composer = *in.Composer
	}
	if in.Description != nil {
		s.Description = *in.Description
	}
	if in.VoicePart != nil {
		v, ok := ParseVoicePart(*in.VoicePart)
		if !ok {
			return fmt.Errorf("%w: unknown voice part %q", common.ErrValidation, *in.VoicePart)
		}
		s.VoicePart = v
	}
	if in.IsPublic != nil {
		s.IsPublic = *in.IsPublic
	}
	return nil
}

func (s *SheetMusic) Validate() error {
	if s.Title == "" {
		return fmt.Errorf("%w: title is required", common.ErrValidation)
	}
	return nil
}

type SheetMusicUpload struct {
	SheetMusic *SheetMusic   `json:"sheetMusic"`
	Upload     *PresignedURL `json:"upload"`
}
