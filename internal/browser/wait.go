// internal/browser/wait.go
package browser

import (
	"context"
	"time"

	"github.com/xkilldash9x/gauntlet/internal/failure"
	"github.com/xkilldash9x/gauntlet/internal/webdriver"
)

// WaitUntil polls cond until it holds. A timeout of 0 uses the session default. Missing
// elements count as "not yet".
func (s *Session) WaitUntil(ctx context.Context, timeout time.Duration, cond func(ctx context.Context) (bool, error)) error {
	return s.poller(timeout, "condition").Until(ctx, cond)
}

// WaitUntilClick clicks el until the click lands, treating an overlapping element as "not yet".
func (s *Session) WaitUntilClick(ctx context.Context, el webdriver.Element, timeout time.Duration) error {
	p := s.poller(timeout, "click to land")
	p.Ignore = []failure.Kind{failure.KindClickIntercepted}
	return p.Until(ctx, func(ctx context.Context) (bool, error) {
		if err := el.Click(ctx); err != nil {
			return false, err
		}
		return true, nil
	})
}
