// internal/webdriver/cdp/element.go
package cdp

import (
	"context"
	"os"
	"path/filepath"

	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/xkilldash9x/gauntlet/internal/webdriver"
)

var _ webdriver.Element = (*element)(nil)

type element struct {
	d      *Driver
	tabCtx context.Context
	id     runtime.RemoteObjectID
	loc    webdriver.Locator
}

func (e *element) call(ctx context.Context, op, fn string, res any, args ...any) error {
	return e.d.runIn(ctx, e.tabCtx, op, chromedp.CallFunctionOn(fn, res, on(e.id), args...))
}

// Click dispatches a real mouse click at the element's centre once nothing overlaps it.
func (e *element) Click(ctx context.Context) error {
	var pt point
	if err := e.call(ctx, "click", clickPointJS, &pt); err != nil {
		return err
	}
	return e.d.runIn(ctx, e.tabCtx, "click", chromedp.MouseClickXY(pt.X, pt.Y))
}

// SendKeys types text into the element. For a file input given an existing local path the file
// is attached instead of typed.
func (e *element) SendKeys(ctx context.Context, text string) error {
	var isFile bool
	if err := e.call(ctx, "send keys", focusJS, &isFile); err != nil {
		return err
	}
	if isFile {
		if _, err := os.Stat(text); err == nil {
			return e.setFiles(ctx, text)
		}
	}
	return e.d.runIn(ctx, e.tabCtx, "send keys", chromedp.KeyEvent(text))
}

func (e *element) setFiles(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	return e.d.runIn(ctx, e.tabCtx, "upload file", chromedp.ActionFunc(func(ctx context.Context) error {
		node, err := dom.DescribeNode().WithObjectID(e.id).Do(ctx)
		if err != nil {
			return err
		}
		return dom.SetFileInputFiles([]string{abs}).WithBackendNodeID(node.BackendNodeID).Do(ctx)
	}))
}

func (e *element) Clear(ctx context.Context) error {
	return e.call(ctx, "clear", clearJS, nil)
}

func (e *element) Text(ctx context.Context) (string, error) {
	var text string
	if err := e.call(ctx, "text", textJS, &text); err != nil {
		return "", err
	}
	return text, nil
}

func (e *element) Attribute(ctx context.Context, name string) (string, bool, error) {
	var attr attribute
	if err := e.call(ctx, "attribute", attributeJS, &attr, name); err != nil {
		return "", false, err
	}
	return attr.Value, attr.OK, nil
}

func (e *element) IsDisplayed(ctx context.Context) (bool, error) {
	var shown bool
	if err := e.call(ctx, "is displayed", displayedJS, &shown); err != nil {
		return false, err
	}
	return shown, nil
}

func (e *element) ScrollIntoView(ctx context.Context, centered bool) error {
	return e.call(ctx, "scroll into view", scrollJS, nil, centered)
}

func (e *element) MouseOver(ctx context.Context) error {
	var pt point
	if err := e.call(ctx, "mouse over", centerPointJS, &pt); err != nil {
		return err
	}
	return e.d.runIn(ctx, e.tabCtx, "mouse over", input.DispatchMouseEvent(input.MouseMoved, pt.X, pt.Y))
}

func (e *element) FindElement(ctx context.Context, loc webdriver.Locator) (webdriver.Element, error) {
	var obj *runtime.RemoteObject
	if err := e.call(ctx, "find element", findOneJS, &obj, string(loc.By), loc.Value); err != nil {
		return nil, err
	}
	return e.d.element(e.tabCtx, "find element", loc, obj)
}

func (e *element) FindElements(ctx context.Context, loc webdriver.Locator) ([]webdriver.Element, error) {
	var arr *runtime.RemoteObject
	if err := e.call(ctx, "find elements", findAllJS, &arr, string(loc.By), loc.Value); err != nil {
		return nil, err
	}
	return e.d.collect(ctx, e.tabCtx, loc, arr)
}
