package services

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/dmitrijs2005/choirhub/internal/common"
	"github.com/dmitrijs2005/choirhub/internal/logging"
	"github.com/dmitrijs2005/choirhub/internal/server/models"
	"github.com/dmitrijs2005/choirhub/internal/server/storage"
)

const (
	recordingsPrefix = "recordings"
	sheetMusicPrefix = "sheet-music"
)

// cleanFileName keeps the last path element of a client supplied name.
func cleanFileName(name, fallback string) string {
	n := path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if n == "." || n == "/" || n == "" {
		return fallback
	}
	return n
}

func uploadCompleted(status models.UploadStatus) error {
	if status != models.UploadCompleted {
		return fmt.Errorf("%w: file has not been uploaded yet", common.ErrorNotFound)
	}
	return nil
}

// removeObject deletes the stored object after its record is gone. A failure
// only leaves an orphaned object behind, so it is logged and swallowed.
func removeObject(ctx context.Context, store storage.ObjectStore, log logging.Logger, key string) {
	if key == "" {
		return
	}
	if err := store.Delete(ctx, key); err != nil {
		log.Warn(ctx, "object delete failed", "key", key, "error", err)
	}
}
