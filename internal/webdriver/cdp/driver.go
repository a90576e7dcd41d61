// internal/webdriver/cdp/driver.go

// Package cdp implements the webdriver contract on top of the Chrome DevTools Protocol using
// chromedp. Element handles are Runtime remote object ids; every element function checks that
// its node is still attached so staleness surfaces the way WebDriver reports it.
package cdp

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/gauntlet/internal/failure"
	"github.com/xkilldash9x/gauntlet/internal/webdriver"
)

var _ webdriver.Driver = (*Driver)(nil)

type tab struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// Driver is a single browser connection. Tabs are tracked by target id.
type Driver struct {
	logger      *zap.Logger
	allocCancel context.CancelFunc
	profileDir  string
	cmdTimeout  time.Duration

	// rootCtx owns the browser connection; closing it ends the session.
	rootCtx    context.Context
	rootCancel context.CancelFunc
	rootHandle string

	mu      sync.Mutex
	tabs    map[string]tab
	current string
	closed  bool
}

func (d *Driver) tabContext(op string) (context.Context, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, failure.New(failure.KindSessionClosed, op, "browser has been quit")
	}
	t, ok := d.tabs[d.current]
	if !ok {
		return nil, failure.New(failure.KindNoSuchWindow, op, "current tab is closed")
	}
	return t.ctx, nil
}

func (d *Driver) browserContext(op string) (context.Context, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, failure.New(failure.KindSessionClosed, op, "browser has been quit")
	}
	return d.rootCtx, nil
}

func (d *Driver) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// run executes actions against the current tab, bounded by the caller's ctx.
func (d *Driver) run(ctx context.Context, op string, actions ...chromedp.Action) error {
	tabCtx, err := d.tabContext(op)
	if err != nil {
		return err
	}
	return d.runIn(ctx, tabCtx, op, actions...)
}

// runIn executes actions against a specific tab. Elements keep the tab they were found in.
func (d *Driver) runIn(ctx, tabCtx context.Context, op string, actions ...chromedp.Action) error {
	if d.isClosed() {
		return failure.New(failure.KindSessionClosed, op, "browser has been quit")
	}
	runCtx, cancel := CombineContext(tabCtx, ctx)
	defer cancel()
	if d.cmdTimeout > 0 {
		var stop context.CancelFunc
		runCtx, stop = context.WithTimeout(runCtx, d.cmdTimeout)
		defer stop()
	}
	err := chromedp.Run(runCtx, actions...)
	if err != nil && runCtx.Err() != nil {
		// The cause names whichever deadline fired.
		err = context.Cause(runCtx)
	}
	return classify(op, err)
}

func (d *Driver) Navigate(ctx context.Context, url string) error {
	return d.run(ctx, "navigate", chromedp.Navigate(url))
}

func (d *Driver) NavigateBack(ctx context.Context) error {
	return d.run(ctx, "navigate back", chromedp.NavigateBack())
}

func (d *Driver) Refresh(ctx context.Context) error {
	return d.run(ctx, "refresh", chromedp.Reload())
}

func (d *Driver) CurrentURL(ctx context.Context) (string, error) {
	var u string
	if err := d.run(ctx, "current url", chromedp.Location(&u)); err != nil {
		return "", err
	}
	return u, nil
}

func (d *Driver) FindElement(ctx context.Context, loc webdriver.Locator) (webdriver.Element, error) {
	tabCtx, err := d.tabContext("find element")
	if err != nil {
		return nil, err
	}
	expr, err := documentCall(findOneJS, string(loc.By), loc.Value)
	if err != nil {
		return nil, err
	}
	var obj *runtime.RemoteObject
	if err := d.runIn(ctx, tabCtx, "find element", chromedp.Evaluate(expr, &obj)); err != nil {
		return nil, err
	}
	return d.element(tabCtx, "find element", loc, obj)
}

func (d *Driver) FindElements(ctx context.Context, loc webdriver.Locator) ([]webdriver.Element, error) {
	tabCtx, err := d.tabContext("find elements")
	if err != nil {
		return nil, err
	}
	expr, err := documentCall(findAllJS, string(loc.By), loc.Value)
	if err != nil {
		return nil, err
	}
	var arr *runtime.RemoteObject
	if err := d.runIn(ctx, tabCtx, "find elements", chromedp.Evaluate(expr, &arr)); err != nil {
		return nil, err
	}
	return d.collect(ctx, tabCtx, loc, arr)
}

// element turns a lookup result into a handle. A null result is a missing element.
func (d *Driver) element(tabCtx context.Context, op string, loc webdriver.Locator, obj *runtime.RemoteObject) (webdriver.Element, error) {
	if obj == nil || obj.ObjectID == "" || obj.Subtype == runtime.SubtypeNull {
		return nil, failure.New(failure.KindNoSuchElement, op, "no such element: "+loc.String())
	}
	return &element{d: d, tabCtx: tabCtx, id: obj.ObjectID, loc: loc}, nil
}

// collect unpacks a remote array of nodes into element handles.
func (d *Driver) collect(ctx, tabCtx context.Context, loc webdriver.Locator, arr *runtime.RemoteObject) ([]webdriver.Element, error) {
	if arr == nil || arr.ObjectID == "" {
		return nil, nil
	}
	var n int
	if err := d.runIn(ctx, tabCtx, "find elements", chromedp.CallFunctionOn(lengthJS, &n, on(arr.ObjectID))); err != nil {
		return nil, err
	}

	out := make([]webdriver.Element, 0, n)
	for i := 0; i < n; i++ {
		var obj *runtime.RemoteObject
		if err := d.runIn(ctx, tabCtx, "find elements", chromedp.CallFunctionOn(indexJS, &obj, on(arr.ObjectID), i)); err != nil {
			return nil, err
		}
		el, err := d.element(tabCtx, "find elements", loc, obj)
		if err != nil {
			// The node list is a snapshot; a hole means the page changed underneath us.
			return nil, failure.Wrap(failure.KindStaleElement, "find elements", err)
		}
		out = append(out, el)
	}
	return out, nil
}

func (d *Driver) Evaluate(ctx context.Context, script string, res any) error {
	return d.run(ctx, "evaluate", chromedp.Evaluate(script, res))
}

// WindowHandles returns the target ids of all page targets in the browser.
func (d *Driver) WindowHandles(ctx context.Context) ([]string, error) {
	bctx, err := d.browserContext("window handles")
	if err != nil {
		return nil, err
	}
	runCtx, cancel := CombineContext(bctx, ctx)
	defer cancel()

	infos, err := chromedp.Targets(runCtx)
	if err != nil {
		return nil, classify("window handles", err)
	}
	handles := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.Type == "page" {
			handles = append(handles, string(info.TargetID))
		}
	}
	return handles, nil
}

func (d *Driver) CurrentWindowHandle() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// SwitchToWindow makes handle the current tab, attaching to it on first use.
func (d *Driver) SwitchToWindow(ctx context.Context, handle string) error {
	bctx, err := d.browserContext("switch to window")
	if err != nil {
		return err
	}

	d.mu.Lock()
	if _, ok := d.tabs[handle]; ok {
		d.current = handle
		d.mu.Unlock()
		return nil
	}
	d.mu.Unlock()

	tabCtx, cancel := chromedp.NewContext(bctx, chromedp.WithTargetID(target.ID(handle)))
	// Attaching is a first Run on the new context and must not carry a derived deadline.
	errc := make(chan error, 1)
	go func() { errc <- chromedp.Run(tabCtx) }()
	select {
	case err = <-errc:
	case <-ctx.Done():
		cancel()
		return ctx.Err()
	}
	if err != nil {
		cancel()
		return classify("switch to window", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.tabs[handle] = tab{ctx: tabCtx, cancel: cancel}
	d.current = handle
	d.logger.Debug("Attached to tab.", zap.String("handle", handle))
	return nil
}

// CloseWindow closes the current tab. The caller must switch to another tab afterwards.
func (d *Driver) CloseWindow(ctx context.Context) error {
	if err := d.run(ctx, "close window", page.Close()); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.tabs[d.current]; ok && d.current != d.rootHandle {
		t.cancel()
	}
	delete(d.tabs, d.current)
	d.current = ""
	return nil
}

func (d *Driver) SetWindowRect(ctx context.Context, r webdriver.Rect) error {
	return d.run(ctx, "set window rect", chromedp.ActionFunc(func(ctx context.Context) error {
		windowID, _, err := browser.GetWindowForTarget().Do(ctx)
		if err != nil {
			return err
		}
		// A maximized or fullscreen window ignores bounds until it is restored.
		if err := browser.SetWindowBounds(windowID, &browser.Bounds{WindowState: browser.WindowStateNormal}).Do(ctx); err != nil {
			return err
		}
		return browser.SetWindowBounds(windowID, &browser.Bounds{
			Left:   int64(r.X),
			Top:    int64(r.Y),
			Width:  int64(r.Width),
			Height: int64(r.Height),
		}).Do(ctx)
	}))
}

func (d *Driver) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := d.run(ctx, "screenshot", chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, err
	}
	return buf, nil
}

// Quit closes the browser (or, for a remote browser, the session's tabs) and releases the
// allocator. It is safe to call more than once.
func (d *Driver) Quit(_ context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	tabs := d.tabs
	d.tabs = nil
	d.mu.Unlock()

	for handle, t := range tabs {
		if handle != d.rootHandle {
			t.cancel()
		}
	}

	err := chromedp.Cancel(d.rootCtx)
	d.rootCancel()
	if d.allocCancel != nil {
		d.allocCancel()
	}
	if d.profileDir != "" {
		if rmErr := os.RemoveAll(d.profileDir); rmErr != nil {
			d.logger.Warn("Failed to remove browser profile directory.", zap.String("dir", d.profileDir), zap.Error(rmErr))
		}
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return classify("quit", err)
	}
	d.logger.Debug("Browser session closed.")
	return nil
}

func on(id runtime.RemoteObjectID) chromedp.CallOption {
	return func(p *runtime.CallFunctionOnParams) *runtime.CallFunctionOnParams {
		return p.WithObjectID(id)
	}
}
