// Package filex holds local file helpers for the terminal client.
package filex

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir creates dir (relative paths resolve against the working
// directory) with owner-only permissions and returns its absolute path.
func EnsureDir(dir string) (string, error) {
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dir)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}

// Upload describes a local file about to be sent to object storage.
type Upload struct {
	Name        string
	Size        int64
	ContentType string
}

var contentTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".m4a":  "audio/x-m4a",
	".ogg":  "audio/ogg",
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
}

// OpenUpload opens path for reading and describes it. The content type comes
// from the extension, falling back to sniffing the first 512 bytes. The
// caller closes the file.
func OpenUpload(path string) (*os.File, Upload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Upload{}, err
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, Upload{}, err
	}
	if fi.IsDir() {
		_ = f.Close()
		return nil, Upload{}, fmt.Errorf("%s is a directory", path)
	}

	u := Upload{Name: filepath.Base(path), Size: fi.Size()}
	u.ContentType, err = detectContentType(f, filepath.Ext(path))
	if err != nil {
		_ = f.Close()
		return nil, Upload{}, err
	}
	return f, u, nil
}

func detectContentType(f *os.File, ext string) (string, error) {
	if ct, ok := contentTypes[strings.ToLower(ext)]; ok {
		return ct, nil
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(head[:n]), nil
}
