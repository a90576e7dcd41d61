// internal/browser/screenshot.go
package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SaveScreenshot writes a PNG of the current viewport to path, resolved against the working
// directory, creating parent directories. It returns the absolute path written.
func (s *Session) SaveScreenshot(ctx context.Context, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving screenshot path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("creating screenshot directory: %w", err)
	}

	png, err := s.driver.Screenshot(ctx)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(abs, png, 0o644); err != nil {
		return "", fmt.Errorf("writing screenshot: %w", err)
	}
	s.logger.Debug("Saved screenshot.", zap.String("path", abs))
	return abs, nil
}

// CaptureFailure saves a uniquely named screenshot into dir.
func (s *Session) CaptureFailure(ctx context.Context, dir string) (string, error) {
	return s.SaveScreenshot(ctx, filepath.Join(dir, uuid.New().String()+".png"))
}
