// internal/webdriver/webdriver.go

// Package webdriver abstracts the remote automation protocol behind a small Driver/Element
// contract. Implementations must report failures as failure.Error values tagged with the
// matching failure.Kind so the resilience layer can classify them.
package webdriver

import (
	"context"
	"fmt"
)

// Strategy is the locator strategy tag.
type Strategy string

const (
	ByCSS   Strategy = "css"
	ByXPath Strategy = "xpath"
)

// Locator is an immutable strategy + pattern pair. It is not guaranteed to match exactly one
// element.
type Locator struct {
	By    Strategy
	Value string
}

// CSS builds a CSS selector locator.
func CSS(selector string) Locator { return Locator{By: ByCSS, Value: selector} }

// XPath builds an XPath locator.
func XPath(expr string) Locator { return Locator{By: ByXPath, Value: expr} }

func (l Locator) String() string { return fmt.Sprintf("%s=%s", l.By, l.Value) }

// Rect is a window geometry in screen pixels.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Driver is one live connection to a browser. It is owned by exactly one Session.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	NavigateBack(ctx context.Context) error
	Refresh(ctx context.Context) error
	CurrentURL(ctx context.Context) (string, error)

	// FindElement returns the first match or a KindNoSuchElement failure.
	FindElement(ctx context.Context, loc Locator) (Element, error)
	// FindElements returns all current matches, possibly none.
	FindElements(ctx context.Context, loc Locator) ([]Element, error)

	// Evaluate runs a script expression in the page and decodes its value into res (may be nil).
	Evaluate(ctx context.Context, script string, res any) error

	// WindowHandles lists the open tabs. Order is not guaranteed.
	WindowHandles(ctx context.Context) ([]string, error)
	CurrentWindowHandle() string
	SwitchToWindow(ctx context.Context, handle string) error
	CloseWindow(ctx context.Context) error
	SetWindowRect(ctx context.Context, r Rect) error

	Screenshot(ctx context.Context) ([]byte, error)
	Quit(ctx context.Context) error
}

// Element is an opaque handle to a live DOM node. It can go stale at any time; operations on a
// stale handle fail with KindStaleElement.
type Element interface {
	Click(ctx context.Context) error
	SendKeys(ctx context.Context, text string) error
	Clear(ctx context.Context) error
	Text(ctx context.Context) (string, error)
	// Attribute reads name, preferring the live property for value-like attributes.
	// ok is false when the attribute is absent.
	Attribute(ctx context.Context, name string) (value string, ok bool, err error)
	IsDisplayed(ctx context.Context) (bool, error)
	ScrollIntoView(ctx context.Context, centered bool) error
	MouseOver(ctx context.Context) error

	// FindElement and FindElements search the element's subtree.
	FindElement(ctx context.Context, loc Locator) (Element, error)
	FindElements(ctx context.Context, loc Locator) ([]Element, error)
}
