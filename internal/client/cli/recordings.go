package cli

import (
	"context"
	"fmt"
)

// UploadRecording sends a local audio file and reports the stored record.
// An empty path or title is prompted for.
func (a *App) UploadRecording(ctx context.Context, path, title string) error {
	var err error
	if path == "" {
		if path, err = a.prompt("File path"); err != nil {
			return err
		}
		if path == "" {
			return usage("upload-recording [<path> <title>]")
		}
	}
	if title == "" {
		if title, err = a.prompt("Title"); err != nil {
			return err
		}
	}

	fmt.Fprintf(a.out, "Uploading %s...\n", path)
	rec, err := a.recordingService.Upload(ctx, path, title)
	if err != nil {
		return a.check(ctx, err)
	}
	fmt.Fprintf(a.out, "Uploaded %q (%s, %d bytes) as %s.\n", rec.Title, rec.ContentType, rec.FileSize, rec.ID)
	return nil
}
