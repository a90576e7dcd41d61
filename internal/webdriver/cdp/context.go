// internal/webdriver/cdp/context.go
package cdp

import (
	"context"
)

// CombineContext returns a context derived from tabCtx that is also canceled when callerCtx is.
// tabCtx carries the chromedp target and its values; callerCtx carries the deadline. When the
// caller ends the run, context.Cause on the result reports the caller's reason.
func CombineContext(tabCtx, callerCtx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(tabCtx)
	stop := context.AfterFunc(callerCtx, func() {
		cancel(context.Cause(callerCtx))
	})
	return ctx, func() {
		stop()
		cancel(context.Canceled)
	}
}
