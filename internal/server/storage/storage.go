// Package storage hands out presigned URLs for an S3-compatible bucket and
// removes objects. File bytes never pass through the server.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/choirhub/internal/server/models"
	"github.com/google/uuid"
)

// ObjectStore is what the file-backed collections need from object storage.
type ObjectStore interface {
	PresignPut(ctx context.Context, key string, meta models.FileMeta) (*models.PresignedURL, error)
	PresignGet(ctx context.Context, key, fileName string) (*models.PresignedURL, error)
	Delete(ctx context.Context, key string) error
}

var timeNow = time.Now

// NewKey returns a fresh object key such as "recordings/2024/5/1/<uuid>".
func NewKey(prefix string) string {
	d := timeNow()
	return fmt.Sprintf("%s/%d/%d/%d/%v", prefix, d.Year(), d.Month(), d.Day(), uuid.New())
}
