// internal/browser/viewport.go
package browser

import (
	"context"

	"go.uber.org/zap"

	"github.com/xkilldash9x/gauntlet/internal/failure"
	"github.com/xkilldash9x/gauntlet/internal/webdriver"
)

// Maximize moves the window to the top left corner and sizes it to the screen. Some browser
// builds refuse to resize with an internal error; that is logged and ignored.
func (s *Session) Maximize(ctx context.Context) error {
	var screen struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	}
	err := s.driver.Evaluate(ctx, `({width: screen.width, height: screen.height})`, &screen)
	if err == nil {
		err = s.driver.SetWindowRect(ctx, webdriver.Rect{X: 0, Y: 0, Width: screen.Width, Height: screen.Height})
	}
	if failure.KindOf(err) == failure.KindUnknown {
		s.logger.Warn("Unable to resize window.", zap.Error(err))
		return nil
	}
	return err
}

// ScrollIntoView aligns el with the top of the viewport.
func (s *Session) ScrollIntoView(ctx context.Context, el webdriver.Element) error {
	return el.ScrollIntoView(ctx, false)
}

// ScrollIntoViewCentered scrolls el to the vertical centre of the viewport.
func (s *Session) ScrollIntoViewCentered(ctx context.Context, el webdriver.Element) error {
	return el.ScrollIntoView(ctx, true)
}

// ScrollToTop scrolls the window to the top of the document.
func (s *Session) ScrollToTop(ctx context.Context) error {
	return s.driver.Evaluate(ctx, `window.scrollTo(0, 0)`, nil)
}

// ScrollToBottom scrolls the window to the end of the document.
func (s *Session) ScrollToBottom(ctx context.Context) error {
	return s.driver.Evaluate(ctx, `window.scrollTo(0, document.body.scrollHeight)`, nil)
}

// MouseOver moves the pointer onto el.
func (s *Session) MouseOver(ctx context.Context, el webdriver.Element) error {
	return el.MouseOver(ctx)
}
