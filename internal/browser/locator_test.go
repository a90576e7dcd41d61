// internal/browser/locator_test.go
package browser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/gauntlet/internal/failure"
	"github.com/xkilldash9x/gauntlet/internal/mocks"
	"github.com/xkilldash9x/gauntlet/internal/webdriver"
)

var nameField = webdriver.CSS("[data-qa=contact-name]")

func TestFind_RetriesStaleLookups(t *testing.T) {
	f := newTestFixture(t)
	el := new(mocks.MockElement)
	f.Driver.On("FindElement", mock.Anything, nameField).Return(nil, stale("find element")).Times(FindAttempts - 1)
	f.Driver.On("FindElement", mock.Anything, nameField).Return(el, nil).Once()

	got, err := f.Session.Find(context.Background(), nameField)

	require.NoError(t, err)
	assert.Same(t, el, got)
}

func TestFind_GivesUpAfterTenStaleLookups(t *testing.T) {
	f := newTestFixture(t)
	f.Driver.On("FindElement", mock.Anything, nameField).Return(nil, stale("find element")).Times(FindAttempts)

	_, err := f.Session.Find(context.Background(), nameField)

	assert.Equal(t, failure.KindStaleElement, failure.KindOf(err))
}

func TestFind_MissingElementIsNotRetried(t *testing.T) {
	f := newTestFixture(t)
	f.Driver.On("FindElement", mock.Anything, nameField).Return(nil, missing(nameField)).Once()

	_, err := f.Session.Find(context.Background(), nameField)

	assert.ErrorIs(t, err, failure.KindNoSuchElement)
}

func TestFindSafely(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		f := newTestFixture(t)
		el := new(mocks.MockElement)
		f.Driver.On("FindElement", mock.Anything, nameField).Return(el, nil)

		l, err := f.Session.FindSafely(context.Background(), nameField)

		require.NoError(t, err)
		got, ok := l.Element()
		assert.True(t, ok)
		assert.Same(t, el, got)
	})

	t.Run("absent is NotFound", func(t *testing.T) {
		f := newTestFixture(t)
		f.Driver.On("FindElement", mock.Anything, nameField).Return(nil, missing(nameField))

		l, err := f.Session.FindSafely(context.Background(), nameField)

		require.NoError(t, err)
		assert.False(t, l.Ok())
		shown, err := l.IsDisplayed(context.Background())
		assert.NoError(t, err)
		assert.False(t, shown)
	})

	t.Run("other failures propagate", func(t *testing.T) {
		f := newTestFixture(t)
		bad := failure.New(failure.KindInvalidArgument, "find element", "'##' is not a valid selector")
		f.Driver.On("FindElement", mock.Anything, nameField).Return(nil, bad)

		_, err := f.Session.FindSafely(context.Background(), nameField)

		assert.Same(t, bad, err)
	})
}

func TestFindByValue(t *testing.T) {
	f := newTestFixture(t)
	radios := webdriver.CSS("input[name=plan]")
	basic, detached, pro := new(mocks.MockElement), new(mocks.MockElement), new(mocks.MockElement)
	basic.On("Attribute", mock.Anything, "value").Return("basic", true, nil)
	detached.On("Attribute", mock.Anything, "value").Return("", false, stale("attribute"))
	pro.On("Attribute", mock.Anything, "value").Return("pro", true, nil)
	f.Driver.On("FindElements", mock.Anything, radios).Return([]webdriver.Element{basic, detached, pro}, nil)

	l, err := f.Session.FindByValue(context.Background(), radios, "pro")
	require.NoError(t, err)
	got, ok := l.Element()
	require.True(t, ok)
	assert.Same(t, pro, got)

	l, err = f.Session.FindByValue(context.Background(), radios, "enterprise")
	require.NoError(t, err)
	assert.False(t, l.Ok())
}

func TestIsVisible(t *testing.T) {
	f := newTestFixture(t)
	shown := webdriver.CSS("#site-nav")
	hidden := webdriver.CSS(".modal")
	absent := webdriver.CSS("#toast")
	detaching := webdriver.CSS("#spinner")

	navEl, modalEl, spinnerEl := new(mocks.MockElement), new(mocks.MockElement), new(mocks.MockElement)
	navEl.On("IsDisplayed", mock.Anything).Return(true, nil)
	modalEl.On("IsDisplayed", mock.Anything).Return(false, nil)
	spinnerEl.On("IsDisplayed", mock.Anything).Return(false, stale("is displayed"))
	f.Driver.On("FindElement", mock.Anything, shown).Return(navEl, nil)
	f.Driver.On("FindElement", mock.Anything, hidden).Return(modalEl, nil)
	f.Driver.On("FindElement", mock.Anything, absent).Return(nil, missing(absent))
	f.Driver.On("FindElement", mock.Anything, detaching).Return(spinnerEl, nil)

	ctx := context.Background()
	for loc, want := range map[webdriver.Locator]bool{shown: true, hidden: false, absent: false, detaching: false} {
		got, err := f.Session.IsVisible(ctx, loc)
		require.NoError(t, err, loc.String())
		assert.Equal(t, want, got, loc.String())
	}
}
