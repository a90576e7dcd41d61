// internal/failure/failure_test.go
package failure

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	t.Run("untagged error has no kind", func(t *testing.T) {
		assert.Equal(t, KindNone, KindOf(errors.New("boom")))
		assert.Equal(t, KindNone, KindOf(nil))
	})

	t.Run("finds kind through wrapping", func(t *testing.T) {
		err := fmt.Errorf("finding submit: %w", New(KindStaleElement, "click", "node detached"))
		assert.Equal(t, KindStaleElement, KindOf(err))
		assert.True(t, errors.Is(err, KindStaleElement))
		assert.False(t, errors.Is(err, KindNoSuchElement))
	})

	t.Run("outermost classification wins", func(t *testing.T) {
		inner := New(KindNoSuchElement, "find", "#missing")
		outer := Wrap(KindTimeout, "wait", inner)
		assert.Equal(t, KindTimeout, KindOf(outer))
		// The cause stays reachable for callers that care.
		assert.True(t, errors.Is(outer, KindNoSuchElement))
	})
}

func TestIs(t *testing.T) {
	err := New(KindClickIntercepted, "click", "")
	assert.True(t, Is(err, KindStaleElement, KindClickIntercepted))
	assert.False(t, Is(err, KindStaleElement))
	assert.False(t, Is(errors.New("plain"), KindNone))
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(KindUnknown, "op", nil))
}

func TestErrorMessage(t *testing.T) {
	err := Wrap(KindUnknown, "resize window", errors.New("chrome not reachable"))
	assert.Equal(t, "resize window: unknown error: chrome not reachable", err.Error())

	assert.Equal(t, "data refresh timed out", New(KindRefreshTimeout, "", "").Error())
	assert.True(t, IsFatal(fmt.Errorf("suite: %w", New(KindRefreshTimeout, "refresh", ""))))
	assert.False(t, IsFatal(New(KindTimeout, "wait", "")))
}
