// internal/browser/locator.go
package browser

import (
	"context"

	"go.uber.org/zap"

	"github.com/xkilldash9x/gauntlet/internal/failure"
	"github.com/xkilldash9x/gauntlet/internal/resilience"
	"github.com/xkilldash9x/gauntlet/internal/webdriver"
)

// FindAttempts is how many times Find repeats a lookup that came back stale.
const FindAttempts = 10

// Lookup is the result of a lookup that is allowed to miss. The zero value is NotFound.
type Lookup struct {
	el webdriver.Element
}

// NotFound is the Lookup for an absent element.
var NotFound = Lookup{}

// Found wraps a resolved element.
func Found(el webdriver.Element) Lookup { return Lookup{el: el} }

// Element returns the handle and whether there was one.
func (l Lookup) Element() (webdriver.Element, bool) { return l.el, l.el != nil }

// Ok reports whether the lookup found something.
func (l Lookup) Ok() bool { return l.el != nil }

// IsDisplayed is false for NotFound and for a handle that went stale since the lookup.
func (l Lookup) IsDisplayed(ctx context.Context) (bool, error) {
	if l.el == nil {
		return false, nil
	}
	shown, err := l.el.IsDisplayed(ctx)
	if gone(err) {
		return false, nil
	}
	return shown, err
}

// gone reports whether err means the element is not (or no longer) in the page.
func gone(err error) bool {
	return failure.Is(err, failure.KindNoSuchElement, failure.KindStaleElement)
}

// Find returns exactly one element, repeating the whole lookup while it comes back stale.
// A missing element is reported as KindNoSuchElement.
func (s *Session) Find(ctx context.Context, loc webdriver.Locator) (webdriver.Element, error) {
	return resilience.RetryValue(ctx, resilience.Policy{
		Kind:     failure.KindStaleElement,
		Attempts: FindAttempts,
		Logger:   s.logger,
	}, func(ctx context.Context) (webdriver.Element, error) {
		return s.driver.FindElement(ctx, loc)
	})
}

// FindSafely is Find for elements that may legitimately be absent.
func (s *Session) FindSafely(ctx context.Context, loc webdriver.Locator) (Lookup, error) {
	el, err := s.Find(ctx, loc)
	if gone(err) {
		s.logger.Debug("Element not present.", zap.Stringer("locator", loc))
		return NotFound, nil
	}
	if err != nil {
		return NotFound, err
	}
	return Found(el), nil
}

// FindAll returns every current match. The list is a snapshot; no retry is applied.
func (s *Session) FindAll(ctx context.Context, loc webdriver.Locator) ([]webdriver.Element, error) {
	return s.driver.FindElements(ctx, loc)
}

// FindByValue returns the first match whose value equals value. Matches that go stale while
// they are inspected are skipped.
func (s *Session) FindByValue(ctx context.Context, loc webdriver.Locator, value string) (Lookup, error) {
	els, err := s.FindAll(ctx, loc)
	if err != nil {
		return NotFound, err
	}
	for _, el := range els {
		v, ok, err := el.Attribute(ctx, "value")
		if gone(err) {
			continue
		}
		if err != nil {
			return NotFound, err
		}
		if ok && v == value {
			return Found(el), nil
		}
	}
	return NotFound, nil
}

// IsVisible reports whether loc matches a displayed element. Absent and stale are both false.
func (s *Session) IsVisible(ctx context.Context, loc webdriver.Locator) (bool, error) {
	el, err := s.driver.FindElement(ctx, loc)
	if gone(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return Found(el).IsDisplayed(ctx)
}
