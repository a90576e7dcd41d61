// internal/browser/wait_test.go
package browser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/gauntlet/internal/failure"
	"github.com/xkilldash9x/gauntlet/internal/mocks"
)

func TestWaitUntil(t *testing.T) {
	f := newTestFixture(t)
	calls := 0

	err := f.Session.WaitUntil(context.Background(), 0, func(context.Context) (bool, error) {
		calls++
		return calls == 3, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWaitUntil_Timeout(t *testing.T) {
	f := newTestFixture(t)

	err := f.Session.WaitUntil(context.Background(), 50*time.Millisecond, func(context.Context) (bool, error) {
		return false, nil
	})

	assert.ErrorIs(t, err, failure.KindTimeout)
}

func TestWaitUntilClick_RetriesInterceptedClicks(t *testing.T) {
	f := newTestFixture(t)
	submit := new(mocks.MockElement)
	overlay := failure.New(failure.KindClickIntercepted, "click", "other element would receive the click: div.modal-backdrop")
	submit.On("Click", mock.Anything).Return(overlay).Twice()
	submit.On("Click", mock.Anything).Return(nil).Once()

	require.NoError(t, f.Session.WaitUntilClick(context.Background(), submit, 0))
	submit.AssertNumberOfCalls(t, "Click", 3)
}

func TestWaitUntilClick_OtherFailuresAbort(t *testing.T) {
	f := newTestFixture(t)
	submit := new(mocks.MockElement)
	submit.On("Click", mock.Anything).Return(stale("click")).Once()

	err := f.Session.WaitUntilClick(context.Background(), submit, 0)

	assert.ErrorIs(t, err, failure.KindStaleElement)
	submit.AssertNumberOfCalls(t, "Click", 1)
}
