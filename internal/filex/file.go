// Package filex covers the local file chores of the archive: reading
// attachments into data URLs and writing export files.
package filex

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/arsip/internal/models"
)

// EnsureDir creates dir (relative paths resolve against the working
// directory) and returns its absolute path.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}
	return abs, nil
}

// WriteExport writes data to name inside dir, creating dir if needed, and
// returns the full path of the written file.
func WriteExport(dir, name string, data []byte) (string, error) {
	abs, err := EnsureDir(dir)
	if err != nil {
		return "", err
	}
	path := filepath.Join(abs, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o660); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// ReadAttachment loads an image or PDF of at most models.MaxAttachmentSize
// bytes and returns it as a base64 data URL.
func ReadAttachment(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return "", err
	}
	if fi.Size() > models.MaxAttachmentSize {
		return "", models.ErrAttachmentTooLarge
	}

	// one extra byte detects files that grew after Stat
	data, err := io.ReadAll(io.LimitReader(f, models.MaxAttachmentSize+1))
	if err != nil {
		return "", err
	}
	if len(data) > models.MaxAttachmentSize {
		return "", models.ErrAttachmentTooLarge
	}

	mt := DetectMimeType(path, data)
	if !models.AllowedAttachmentType(mt) {
		return "", fmt.Errorf("%w: %s", models.ErrUnsupportedMimeType, mt)
	}
	return models.BuildDataURL(mt, data), nil
}

// DetectMimeType guesses from the extension first and the content second.
func DetectMimeType(path string, data []byte) string {
	if mt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); mt != "" {
		mt, _, _ = strings.Cut(mt, ";")
		return mt
	}
	mt, _, _ := strings.Cut(http.DetectContentType(data), ";")
	return mt
}
