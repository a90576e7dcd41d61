// File: cmd/root_test.go
package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/gauntlet/internal/config"
	"github.com/xkilldash9x/gauntlet/internal/harness"
)

// execute runs the command tree in a scratch directory so no config.yaml is picked up.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("GAUNTLET_REPORT_COLOR", "false")
	t.Setenv("GAUNTLET_LOGGER_LEVEL", "fatal")

	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func stubOpen(t *testing.T, fn func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*harness.Case, error)) {
	t.Helper()
	orig := openCase
	openCase = fn
	t.Cleanup(func() { openCase = orig })
}

func TestRootCmd_VersionFlag(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", out)
}

func TestRunCmd_List(t *testing.T) {
	out, err := execute(t, "run", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "Contact form: submit with invalid email\n")
	assert.Contains(t, out, "Contact form: submit correct form\n")
}

func TestRunCmd_ListByTag(t *testing.T) {
	out, err := execute(t, "run", "--list", "--tag", "negative")
	require.NoError(t, err)
	assert.Equal(t, "Contact form: submit with invalid email\n", out)
}

func TestRunCmd_FailuresWriteJUnitAndExitNonZero(t *testing.T) {
	reportDir := t.TempDir()
	t.Setenv("GAUNTLET_REPORT_DIR", reportDir)

	var baseURL string
	stubOpen(t, func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*harness.Case, error) {
		baseURL = cfg.App().BaseURL
		return nil, errors.New("chrome not found")
	})

	out, err := execute(t, "run", "--base-url", "https://staging.qa-services.dev/", "--build-path", "42")
	require.ErrorIs(t, err, ErrTestsFailed)
	assert.Equal(t, "https://staging.qa-services.dev/", baseURL)
	assert.Contains(t, out, "2 examples, 2 failures")
	assert.Contains(t, out, "chrome not found")

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromFile(filepath.Join(reportDir, "report_42", JUnitFile)))
	suite := doc.SelectElement("testsuite")
	require.NotNil(t, suite)
	assert.Equal(t, "2", suite.SelectAttrValue("failures", ""))
	assert.FileExists(t, filepath.Join(reportDir, "report_42", SummaryFile))
}

func TestRunCmd_NoJUnit(t *testing.T) {
	reportDir := t.TempDir()
	t.Setenv("GAUNTLET_REPORT_DIR", reportDir)
	stubOpen(t, func(context.Context, *config.Config, *zap.Logger) (*harness.Case, error) {
		return nil, errors.New("no browser")
	})

	_, err := execute(t, "run", "--junit=false", "--tag", "negative")
	require.ErrorIs(t, err, ErrTestsFailed)
	assert.NoFileExists(t, filepath.Join(reportDir, "report_default", JUnitFile))
	assert.FileExists(t, filepath.Join(reportDir, "report_default", SummaryFile))
}

func TestRunCmd_InvalidConfig(t *testing.T) {
	stubOpen(t, func(context.Context, *config.Config, *zap.Logger) (*harness.Case, error) {
		t.Fatal("browser opened with an invalid configuration")
		return nil, nil
	})

	_, err := execute(t, "run", "--driver", "grid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load or validate config")
}

func TestRunCmd_MissingConfigFile(t *testing.T) {
	_, err := execute(t, "run", "--list", "--config", filepath.Join(os.TempDir(), "gauntlet-missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestRunCmd_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  base_url: https://from-file.example/\n"), 0o644))

	var baseURL string
	stubOpen(t, func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*harness.Case, error) {
		baseURL = cfg.App().BaseURL
		return nil, errors.New("no browser")
	})
	t.Setenv("GAUNTLET_REPORT_JUNIT", "false")

	_, err := execute(t, "run", "--tag", "negative", "--config", path)
	require.ErrorIs(t, err, ErrTestsFailed)
	assert.Equal(t, "https://from-file.example/", baseURL)
}

func TestScreenshotCmd_OpenFailure(t *testing.T) {
	stubOpen(t, func(context.Context, *config.Config, *zap.Logger) (*harness.Case, error) {
		return nil, errors.New("no browser")
	})

	_, err := execute(t, "screenshot", "https://qa-services.dev/")
	assert.EqualError(t, err, "no browser")
}

func TestScreenshotCmd_RequiresURL(t *testing.T) {
	_, err := execute(t, "screenshot")
	require.Error(t, err)
}
