// internal/harness/case.go

// Package harness owns the per-test browser lifecycle: it opens a session before a test, and
// afterwards records where a failure happened, takes a screenshot and shuts the browser down.
package harness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/gauntlet/internal/browser"
	"github.com/xkilldash9x/gauntlet/internal/config"
	"github.com/xkilldash9x/gauntlet/internal/webdriver/cdp"
)

// teardownTimeout bounds failure capture and browser shutdown once the test context is gone.
const teardownTimeout = 30 * time.Second

// Case is one test's browser session.
type Case struct {
	Session *browser.Session

	cfg    *config.Config
	logger *zap.Logger
}

// Artifacts is what Finish collected about a failed test.
type Artifacts struct {
	URL        string
	Screenshot string
}

// Open launches or attaches to a browser as configured and wraps it in a Session. A local browser
// gets its own download directory.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Case, error) {
	dc := cfg.Driver()
	opts := cdp.Options{
		Mode:             cdp.Mode(dc.Mode),
		RemoteURL:        dc.RemoteURL,
		CommandTimeout:   dc.CommandTimeout,
		Headless:         dc.Headless,
		Args:             dc.Args,
		ExecPath:         dc.ExecPath,
		DisablePDFViewer: dc.DisablePDFViewer,
	}
	if opts.Mode == cdp.ModeLocal {
		dir, err := browser.NewDownloadDir(dc.DownloadRoot)
		if err != nil {
			return nil, err
		}
		opts.DownloadDir = dir
	}

	driver, err := cdp.Open(ctx, opts, logger)
	if err != nil {
		return nil, err
	}

	wc := cfg.Wait()
	s, err := browser.New(ctx, driver, browser.Options{
		DownloadDir:  opts.DownloadDir,
		WaitTimeout:  wc.Timeout,
		PollInterval: wc.Interval,
		IdleTimeout:  wc.IdleTimeout,
		IdleProbe:    wc.IdleProbe,
	}, logger)
	if err != nil {
		if qerr := driver.Quit(ctx); qerr != nil {
			logger.Warn("Failed to quit browser after setup error.", zap.Error(qerr))
		}
		return nil, fmt.Errorf("failed to set up browser session: %w", err)
	}
	return NewCase(s, cfg, logger), nil
}

// NewCase wraps an existing session.
func NewCase(s *browser.Session, cfg *config.Config, logger *zap.Logger) *Case {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Case{Session: s, cfg: cfg, logger: logger.Named("harness").With(zap.String("session_id", s.ID()))}
}

// Config is the run configuration.
func (c *Case) Config() *config.Config { return c.cfg }

// BaseURL is the application under test.
func (c *Case) BaseURL() string { return c.cfg.App().BaseURL }

// Finish ends the test. When testErr is set it records the current URL and a screenshot first.
// Teardown failures are returned unless report.rescue_teardown_errors is on, in which case they
// are only logged.
func (c *Case) Finish(ctx context.Context, testErr error) (Artifacts, error) {
	// The test context may already be expired; teardown still needs to talk to the browser.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), teardownTimeout)
	defer cancel()

	var arts Artifacts
	var errs []error

	if testErr != nil {
		url, err := c.Session.CurrentURL(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("reading failure url: %w", err))
		}
		arts.URL = url

		shot, err := c.Session.CaptureFailure(ctx, c.cfg.Report().OutputDir())
		if err != nil {
			errs = append(errs, fmt.Errorf("capturing failure screenshot: %w", err))
		}
		arts.Screenshot = shot
	}

	if err := c.Session.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("closing browser: %w", err))
	}

	teardownErr := errors.Join(errs...)
	if teardownErr != nil && c.cfg.Report().RescueTeardownErrors {
		c.logger.Warn("Rescued teardown error.", zap.Error(teardownErr))
		return arts, nil
	}
	return arts, teardownErr
}
