package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/choirhub/internal/common"
)

// UploadStatus tracks whether the object behind a file record has been stored.
type UploadStatus string

const (
	UploadPending   UploadStatus = "pending"
	UploadCompleted UploadStatus = "completed"
)

const (
	MaxRecordingSize  int64 = 50 << 20
	MaxSheetMusicSize int64 = 20 << 20
)

// AudioContentTypes are the accepted recording formats.
var AudioContentTypes = map[string]bool{
	"audio/mpeg":  true,
	"audio/mp3":   true,
	"audio/wav":   true,
	"audio/x-wav": true,
	"audio/mp4":   true,
	"audio/x-m4a": true,
	"audio/ogg":   true,
}

// SheetContentTypes are the accepted sheet music formats.
var SheetContentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
}

// FileMeta describes the object a client is about to upload.
type FileMeta struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	FileSize    int64  `json:"fileSize"`
}

// ValidateFile checks the declared content type and size against an allow list and limit.
func ValidateFile(meta FileMeta, allowed map[string]bool, maxSize int64) error {
	ct := strings.ToLower(strings.TrimSpace(meta.ContentType))
	if !allowed[ct] {
		return fmt.Errorf("%w: unsupported content type %q", common.ErrValidation, meta.ContentType)
	}
	if meta.FileSize <= 0 {
		return fmt.Errorf("%w: file size must be positive", common.ErrValidation)
	}
	if meta.FileSize > maxSize {
		return fmt.Errorf("%w: file exceeds %d MiB limit", common.ErrValidation, maxSize>>20)
	}
	return nil
}

// PresignedURL is a time-limited URL for direct object storage access.
type PresignedURL struct {
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expiresAt"`
}
