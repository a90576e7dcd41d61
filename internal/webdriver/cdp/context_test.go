// internal/webdriver/cdp/context_test.go
package cdp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCombineContext(t *testing.T) {
	type ctxKey string
	const key ctxKey = "target"

	t.Run("keeps tab values", func(t *testing.T) {
		tabCtx := context.WithValue(context.Background(), key, "tab-1")
		ctx, cancel := CombineContext(tabCtx, context.Background())
		defer cancel()

		assert.Equal(t, "tab-1", ctx.Value(key))
		assert.NoError(t, ctx.Err())
	})

	t.Run("canceled with the tab", func(t *testing.T) {
		tabCtx, closeTab := context.WithCancel(context.Background())
		ctx, cancel := CombineContext(tabCtx, context.Background())
		defer cancel()

		closeTab()
		<-ctx.Done()
		assert.ErrorIs(t, ctx.Err(), context.Canceled)
	})

	t.Run("caller deadline is the cause", func(t *testing.T) {
		callerCtx, stop := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer stop()
		ctx, cancel := CombineContext(context.Background(), callerCtx)
		defer cancel()

		select {
		case <-ctx.Done():
		case <-time.After(time.Second):
			t.Fatal("caller deadline did not propagate")
		}
		assert.ErrorIs(t, context.Cause(ctx), context.DeadlineExceeded)
	})

	t.Run("cancel leaves the tab alive", func(t *testing.T) {
		tabCtx, closeTab := context.WithCancel(context.Background())
		defer closeTab()
		ctx, cancel := CombineContext(tabCtx, context.Background())

		cancel()
		assert.ErrorIs(t, ctx.Err(), context.Canceled)
		assert.NoError(t, tabCtx.Err())
	})
}
