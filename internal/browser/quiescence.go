// internal/browser/quiescence.go
package browser

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/gauntlet/internal/failure"
	"github.com/xkilldash9x/gauntlet/internal/resilience"
	"github.com/xkilldash9x/gauntlet/internal/webdriver"
)

const (
	// DefaultIdleProbe treats a page without jQuery as idle. It only sees jQuery-issued
	// requests; fetch and plain XHR traffic is invisible to it.
	DefaultIdleProbe = `(typeof window.jQuery === 'undefined') || window.jQuery.active === 0`
	// DefaultIdleTimeout bounds WaitForNetworkIdle when the caller passes 0.
	DefaultIdleTimeout = 20 * time.Second

	// StateAttempts is how many times one data-state read is repeated when it comes back stale.
	StateAttempts = 3

	// DisappearIterations caps WaitForDisappearance when the caller passes 0.
	DisappearIterations = 300
	// DisappearPause is the sleep between visibility checks in WaitForDisappearance.
	DisappearPause = 10 * time.Millisecond
)

// StateReader is a component that exposes its data-state attribute.
type StateReader interface {
	DataState(ctx context.Context) (string, error)
}

// WaitForNetworkIdle polls the idle probe until it reports true. It is a soft wait: a timeout
// or probe failure is logged and reported as false, never as an error.
func (s *Session) WaitForNetworkIdle(ctx context.Context, timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = s.idleTimeout
	}
	p := s.poller(timeout, "network idle")
	// Scripts can fail while a navigation swaps the document out.
	p.Ignore = []failure.Kind{failure.KindJavaScript, failure.KindStaleElement}

	err := p.Until(ctx, func(ctx context.Context) (bool, error) {
		var idle bool
		if err := s.driver.Evaluate(ctx, s.idleProbe, &idle); err != nil {
			return false, err
		}
		return idle, nil
	})
	if err != nil {
		s.logger.Debug("Page did not go idle.", zap.Duration("timeout", timeout), zap.Error(err))
		return false
	}
	return true
}

// WaitForAttributeState waits for component's data-state to equal expected. Each read is
// retried when the component's element is re-rendered underneath it.
func (s *Session) WaitForAttributeState(ctx context.Context, component StateReader, expected string, timeout time.Duration) error {
	p := s.poller(timeout, fmt.Sprintf("data-state %q", expected))
	p.Retry = &resilience.Policy{Kind: failure.KindStaleElement, Attempts: StateAttempts, Logger: s.logger}

	return p.Until(ctx, func(ctx context.Context) (bool, error) {
		state, err := component.DataState(ctx)
		if err != nil {
			return false, err
		}
		return state == expected, nil
	})
}

// WaitForDisappearance re-resolves an element until it is hidden, detached or gone. It returns
// false without an error when maxIterations checks pass and the element is still shown.
func (s *Session) WaitForDisappearance(ctx context.Context, resolve func(ctx context.Context) (webdriver.Element, error), maxIterations int) (bool, error) {
	if maxIterations <= 0 {
		maxIterations = DisappearIterations
	}

	visible := func() (bool, error) {
		el, err := resolve(ctx)
		if gone(err) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return Found(el).IsDisplayed(ctx)
	}

	for i := 0; ; i++ {
		shown, err := visible()
		if err != nil {
			return false, err
		}
		if !shown {
			return true, nil
		}
		if i >= maxIterations {
			s.logger.Debug("Element still displayed.", zap.Int("iterations", i))
			return false, nil
		}
		if err := resilience.Pause(ctx, DisappearPause); err != nil {
			return false, err
		}
	}
}
