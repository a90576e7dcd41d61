// internal/browser/helpers_test.go
package browser

import (
	"context"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/gauntlet/internal/failure"
	"github.com/xkilldash9x/gauntlet/internal/mocks"
	"github.com/xkilldash9x/gauntlet/internal/webdriver"
)

const testInterval = 10 * time.Millisecond

type testFixture struct {
	Driver  *mocks.MockDriver
	Session *Session
}

// newTestFixture builds a Session over a mock driver with short waits and no window resize.
func newTestFixture(t *testing.T) *testFixture {
	t.Helper()
	driver := new(mocks.MockDriver)
	driver.On("CurrentWindowHandle").Return("first").Once()
	s, err := New(context.Background(), driver, Options{
		WaitTimeout:  time.Second,
		PollInterval: testInterval,
		IdleTimeout:  200 * time.Millisecond,
		SkipMaximize: true,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { driver.AssertExpectations(t) })
	return &testFixture{Driver: driver, Session: s}
}

// fill decodes a JSON literal into the result pointer handed to Driver.Evaluate.
func fill(literal string) func(mock.Arguments) {
	return func(args mock.Arguments) {
		if err := jsoniter.UnmarshalFromString(literal, args.Get(2)); err != nil {
			panic(err)
		}
	}
}

func stale(op string) error {
	return failure.New(failure.KindStaleElement, op, "element is not attached to the page document")
}

func missing(loc webdriver.Locator) error {
	return failure.New(failure.KindNoSuchElement, "find element", "no such element: "+loc.String())
}
