// internal/browser/screenshot_test.go
package browser

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/gauntlet/internal/mocks"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n")

func TestSaveScreenshot_CreatesParents(t *testing.T) {
	f := newTestFixture(t)
	f.Driver.On("Screenshot", mock.Anything).Return(pngHeader, nil).Once()
	target := filepath.Join(t.TempDir(), "tmp", "report_42", "home.png")

	path, err := f.Session.SaveScreenshot(context.Background(), target)

	require.NoError(t, err)
	assert.Equal(t, target, path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)
}

func TestSaveScreenshot_RelativeToWorkingDir(t *testing.T) {
	f := newTestFixture(t)
	f.Driver.On("Screenshot", mock.Anything).Return(pngHeader, nil).Once()
	t.Chdir(t.TempDir())

	path, err := f.Session.SaveScreenshot(context.Background(), "shots/a.png")

	require.NoError(t, err)
	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "shots", "a.png"), path)
	assert.FileExists(t, path)
}

func TestCaptureFailure_UniqueNames(t *testing.T) {
	f := newTestFixture(t)
	f.Driver.On("Screenshot", mock.Anything).Return(pngHeader, nil).Twice()
	dir := t.TempDir()

	first, err := f.Session.CaptureFailure(context.Background(), dir)
	require.NoError(t, err)
	second, err := f.Session.CaptureFailure(context.Background(), dir)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasSuffix(first, ".png"))
	assert.Equal(t, dir, filepath.Dir(first))
}

func TestDownloads(t *testing.T) {
	dir, err := NewDownloadDir(t.TempDir())
	require.NoError(t, err)
	assert.DirExists(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "invoice.pdf"), []byte("%PDF"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "partial.crdownload"), nil, 0o644))

	driver := new(mocks.MockDriver)
	driver.On("CurrentWindowHandle").Return("first").Once()
	s, err := New(context.Background(), driver, Options{DownloadDir: dir, SkipMaximize: true}, zaptest.NewLogger(t))
	require.NoError(t, err)

	files, err := s.Downloads()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "invoice.pdf")}, files)
}
