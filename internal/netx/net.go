// Package netx holds small HTTP helpers shared by the terminal client.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// httpClient is a test seam for the client used by UploadPresigned.
var httpClient = http.DefaultClient

// UploadPresigned PUTs size bytes from body to a presigned object storage URL.
// The content type must match the one the URL was signed for.
func UploadPresigned(ctx context.Context, url, contentType string, body io.Reader, size int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return err
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", contentType)

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}
	return nil
}
