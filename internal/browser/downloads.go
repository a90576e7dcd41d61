// internal/browser/downloads.go
package browser

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// NewDownloadDir creates a fresh directory under root for one session's downloads.
func NewDownloadDir(root string) (string, error) {
	dir, err := filepath.Abs(filepath.Join(root, uuid.New().String()))
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating download directory: %w", err)
	}
	return dir, nil
}

// Downloads lists the files the browser has finished saving. Partial downloads are skipped.
func (s *Session) Downloads() ([]string, error) {
	if s.downloadDir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(s.downloadDir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) == ".crdownload" {
			continue
		}
		files = append(files, filepath.Join(s.downloadDir, e.Name()))
	}
	return files, nil
}
