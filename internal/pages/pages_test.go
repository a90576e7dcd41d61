// internal/pages/pages_test.go
package pages

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/gauntlet/internal/browser"
	"github.com/xkilldash9x/gauntlet/internal/mocks"
	"github.com/xkilldash9x/gauntlet/internal/webdriver"
)

func newSession(t *testing.T) (*browser.Session, *mocks.MockDriver) {
	t.Helper()
	driver := new(mocks.MockDriver)
	driver.On("CurrentWindowHandle").Return("first").Once()
	s, err := browser.New(context.Background(), driver, browser.Options{
		PollInterval: 10 * time.Millisecond,
		IdleTimeout:  100 * time.Millisecond,
		SkipMaximize: true,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	return s, driver
}

func TestContact_FillSkipsEmptyValues(t *testing.T) {
	s, driver := newSession(t)
	nameRoot, nameInput := new(mocks.MockElement), new(mocks.MockElement)
	msgRoot, msgInput := new(mocks.MockElement), new(mocks.MockElement)
	driver.On("FindElement", mock.Anything, contactName).Return(nameRoot, nil).Once()
	driver.On("FindElement", mock.Anything, contactMessage).Return(msgRoot, nil).Once()
	nameRoot.On("FindElement", mock.Anything, webdriver.CSS(".form-control")).Return(nameInput, nil)
	msgRoot.On("FindElement", mock.Anything, webdriver.CSS(".form-control")).Return(msgInput, nil)
	nameInput.On("SendKeys", mock.Anything, "Automation rspec").Return(nil).Once()
	msgInput.On("SendKeys", mock.Anything, "Automation rspec test").Return(nil).Once()

	err := NewContact(s).Fill(context.Background(), ContactForm{Name: "Automation rspec", Message: "Automation rspec test"})

	require.NoError(t, err)
	driver.AssertExpectations(t)
	nameInput.AssertExpectations(t)
	msgInput.AssertExpectations(t)
	driver.AssertNotCalled(t, "FindElement", mock.Anything, contactEmail)
}

func TestHome_GoToContact(t *testing.T) {
	s, driver := newSession(t)
	nav, link := new(mocks.MockElement), new(mocks.MockElement)
	driver.On("FindElement", mock.Anything, siteNav).Return(nav, nil)
	nav.On("FindElement", mock.Anything, contactLink).Return(link, nil)
	link.On("Click", mock.Anything).Return(nil).Once()
	driver.On("Evaluate", mock.Anything, browser.DefaultIdleProbe, mock.Anything).Return(nil)

	contact, err := NewHome(s).GoToContact(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, contact)
	link.AssertExpectations(t)
}

func TestContact_SubmitText(t *testing.T) {
	s, driver := newSession(t)
	btn := new(mocks.MockElement)
	driver.On("FindElement", mock.Anything, submitButton).Return(btn, nil)
	btn.On("Text", mock.Anything).Return("MESSAGE SENT", nil)

	text, err := NewContact(s).SubmitText(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "MESSAGE SENT", text)
}
