// internal/browser/tabs.go
package browser

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/gobwas/glob"
	"go.uber.org/zap"

	"github.com/xkilldash9x/gauntlet/internal/failure"
)

// TabRegistry keeps tabs in the order they were first seen. The driver reports handles in no
// particular order, so indexes are only stable through the registry. Public indexes are 1-based.
type TabRegistry struct {
	mu      sync.Mutex
	handles []string
}

// Sync reconciles the registry with the handles that are open now and returns the ordered list.
// Closed tabs drop out; new ones are appended in the order given.
func (r *TabRegistry) Sync(open []string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.handles[:0:0]
	for _, h := range r.handles {
		if slices.Contains(open, h) {
			kept = append(kept, h)
		}
	}
	for _, h := range open {
		if !slices.Contains(kept, h) {
			kept = append(kept, h)
		}
	}
	r.handles = kept
	return slices.Clone(kept)
}

// At returns the handle at the 1-based index.
func (r *TabRegistry) At(index int) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index < 1 || index > len(r.handles) {
		return "", failure.New(failure.KindNoSuchWindow, "tab", fmt.Sprintf("no tab %d (%d open)", index, len(r.handles)))
	}
	return r.handles[index-1], nil
}

// Len is the number of known tabs.
func (r *TabRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}

// Tabs lists the open tabs in the order they were opened.
func (s *Session) Tabs(ctx context.Context) ([]string, error) {
	handles, err := s.driver.WindowHandles(ctx)
	if err != nil {
		return nil, err
	}
	return s.tabs.Sync(handles), nil
}

// SwitchToTab makes the tab at the 1-based index current.
func (s *Session) SwitchToTab(ctx context.Context, index int) error {
	if _, err := s.Tabs(ctx); err != nil {
		return err
	}
	handle, err := s.tabs.At(index)
	if err != nil {
		return err
	}
	return s.driver.SwitchToWindow(ctx, handle)
}

// WaitForTabCount waits until exactly n tabs are open.
func (s *Session) WaitForTabCount(ctx context.Context, n int, timeout time.Duration) error {
	return s.poller(timeout, fmt.Sprintf("%d open tabs", n)).Until(ctx, func(ctx context.Context) (bool, error) {
		tabs, err := s.Tabs(ctx)
		if err != nil {
			return false, err
		}
		return len(tabs) == n, nil
	})
}

// SwitchToTabMatching makes the first tab whose URL matches the glob pattern current and
// returns its 1-based index. When nothing matches the previously current tab is restored.
func (s *Session) SwitchToTabMatching(ctx context.Context, pattern string) (int, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return 0, failure.Wrap(failure.KindInvalidArgument, "switch to tab", err)
	}

	tabs, err := s.Tabs(ctx)
	if err != nil {
		return 0, err
	}
	previous := s.driver.CurrentWindowHandle()

	for i, handle := range tabs {
		if err := s.driver.SwitchToWindow(ctx, handle); err != nil {
			if failure.Is(err, failure.KindNoSuchWindow) {
				continue
			}
			return 0, err
		}
		url, err := s.driver.CurrentURL(ctx)
		if err != nil {
			return 0, err
		}
		if g.Match(url) {
			s.logger.Debug("Switched to tab.", zap.Int("index", i+1), zap.String("url", url))
			return i + 1, nil
		}
	}

	if previous != "" {
		if err := s.driver.SwitchToWindow(ctx, previous); err != nil {
			s.logger.Warn("Failed to restore the previous tab.", zap.Error(err))
		}
	}
	return 0, failure.New(failure.KindNoSuchWindow, "switch to tab", fmt.Sprintf("no tab url matches %q", pattern))
}

// CloseTab closes the current tab and switches to the first remaining one, if any.
func (s *Session) CloseTab(ctx context.Context) error {
	if err := s.driver.CloseWindow(ctx); err != nil {
		return err
	}
	tabs, err := s.Tabs(ctx)
	if err != nil {
		return err
	}
	if len(tabs) == 0 {
		return nil
	}
	return s.driver.SwitchToWindow(ctx, tabs[0])
}
