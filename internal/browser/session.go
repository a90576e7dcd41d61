// internal/browser/session.go

// Package browser wraps a single webdriver.Driver with the resilience helpers acceptance tests
// lean on: staleness-tolerant lookup, bounded waits, quiescence detection, tab tracking, refresh
// loops and screenshots. A Session has exactly one caller at a time.
package browser

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/gauntlet/internal/failure"
	"github.com/xkilldash9x/gauntlet/internal/resilience"
	"github.com/xkilldash9x/gauntlet/internal/webdriver"
)

// Options tunes a Session. Zero values pick the defaults.
type Options struct {
	// DownloadDir is where the browser saves files. Only meaningful for a local browser.
	DownloadDir string
	// WaitTimeout bounds WaitUntil style helpers when the caller passes 0.
	WaitTimeout time.Duration
	// PollInterval spaces predicate evaluations.
	PollInterval time.Duration
	// IdleTimeout bounds the network idle wait after navigation.
	IdleTimeout time.Duration
	// IdleProbe is a script expression that evaluates to true once the page is quiet.
	IdleProbe string
	// SkipMaximize leaves the window geometry alone.
	SkipMaximize bool
}

// Session is one browser connection plus the state the helpers need.
type Session struct {
	id          string
	driver      webdriver.Driver
	logger      *zap.Logger
	downloadDir string

	waitTimeout  time.Duration
	pollInterval time.Duration
	idleTimeout  time.Duration
	idleProbe    string

	tabs *TabRegistry

	mu     sync.Mutex
	closed bool
}

// New wraps driver and maximizes the window to the screen size. The Session owns driver from
// here on; Close releases it.
func New(ctx context.Context, driver webdriver.Driver, opts Options, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.New().String()

	s := &Session{
		id:           id,
		driver:       driver,
		logger:       logger.Named("browser").With(zap.String("session_id", id)),
		downloadDir:  opts.DownloadDir,
		waitTimeout:  opts.WaitTimeout,
		pollInterval: opts.PollInterval,
		idleTimeout:  opts.IdleTimeout,
		idleProbe:    opts.IdleProbe,
		tabs:         &TabRegistry{},
	}
	if s.waitTimeout <= 0 {
		s.waitTimeout = resilience.DefaultTimeout
	}
	if s.pollInterval <= 0 {
		s.pollInterval = resilience.DefaultInterval
	}
	if s.idleTimeout <= 0 {
		s.idleTimeout = DefaultIdleTimeout
	}
	if s.idleProbe == "" {
		s.idleProbe = DefaultIdleProbe
	}

	// The tab the session starts on is tab 1, whatever order the driver lists handles in later.
	if h := driver.CurrentWindowHandle(); h != "" {
		s.tabs.Sync([]string{h})
	}

	if !opts.SkipMaximize {
		if err := s.Maximize(ctx); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// ID identifies the session in logs and reports.
func (s *Session) ID() string { return s.id }

// Driver exposes the underlying connection for operations the helpers do not cover.
func (s *Session) Driver() webdriver.Driver { return s.driver }

// DownloadDir is the directory the browser saves files to, or "" for a remote browser.
func (s *Session) DownloadDir() string { return s.downloadDir }

// Logger returns the session-scoped logger.
func (s *Session) Logger() *zap.Logger { return s.logger }

// Navigate loads url and then waits for the page to go quiet.
func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := s.driver.Navigate(ctx, url); err != nil {
		return err
	}
	s.WaitForNetworkIdle(ctx, s.idleTimeout)
	return nil
}

// NavigateBack goes back one history entry and then waits for the page to go quiet.
func (s *Session) NavigateBack(ctx context.Context) error {
	if err := s.driver.NavigateBack(ctx); err != nil {
		return err
	}
	s.WaitForNetworkIdle(ctx, s.idleTimeout)
	return nil
}

// Refresh reloads the current page.
func (s *Session) Refresh(ctx context.Context) error {
	return s.driver.Refresh(ctx)
}

// CurrentURL reads the current tab's URL.
func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	return s.driver.CurrentURL(ctx)
}

// Close ends the browser connection. Only the first call does anything; its error is logged
// and returned so the caller can decide whether teardown failures matter.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if err := s.driver.Quit(ctx); err != nil && !failure.Is(err, failure.KindSessionClosed) {
		s.logger.Warn("Failed to quit browser cleanly.", zap.Error(err))
		return err
	}
	s.logger.Debug("Session closed.")
	return nil
}

func (s *Session) poller(timeout time.Duration, message string) resilience.Poller {
	if timeout <= 0 {
		timeout = s.waitTimeout
	}
	return resilience.Poller{
		Timeout:  timeout,
		Interval: s.pollInterval,
		Message:  message,
		Logger:   s.logger,
	}
}
