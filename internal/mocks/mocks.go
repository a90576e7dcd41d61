// File: internal/mocks/mocks.go
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xkilldash9x/gauntlet/internal/webdriver"
)

var (
	_ webdriver.Driver  = (*MockDriver)(nil)
	_ webdriver.Element = (*MockElement)(nil)
)

// -- Driver Mock --

// MockDriver mocks webdriver.Driver.
type MockDriver struct {
	mock.Mock
}

func (m *MockDriver) Navigate(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

func (m *MockDriver) NavigateBack(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDriver) Refresh(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDriver) CurrentURL(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockDriver) FindElement(ctx context.Context, loc webdriver.Locator) (webdriver.Element, error) {
	args := m.Called(ctx, loc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(webdriver.Element), args.Error(1)
}

func (m *MockDriver) FindElements(ctx context.Context, loc webdriver.Locator) ([]webdriver.Element, error) {
	args := m.Called(ctx, loc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]webdriver.Element), args.Error(1)
}

// Evaluate records the call. Tests fill res through mock.Call.Run.
func (m *MockDriver) Evaluate(ctx context.Context, script string, res any) error {
	args := m.Called(ctx, script, res)
	return args.Error(0)
}

func (m *MockDriver) WindowHandles(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockDriver) CurrentWindowHandle() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockDriver) SwitchToWindow(ctx context.Context, handle string) error {
	args := m.Called(ctx, handle)
	return args.Error(0)
}

func (m *MockDriver) CloseWindow(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDriver) SetWindowRect(ctx context.Context, r webdriver.Rect) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockDriver) Screenshot(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockDriver) Quit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// -- Element Mock --

// MockElement mocks webdriver.Element.
type MockElement struct {
	mock.Mock
}

func (m *MockElement) Click(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockElement) SendKeys(ctx context.Context, text string) error {
	args := m.Called(ctx, text)
	return args.Error(0)
}

func (m *MockElement) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockElement) Text(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockElement) Attribute(ctx context.Context, name string) (string, bool, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockElement) IsDisplayed(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockElement) ScrollIntoView(ctx context.Context, centered bool) error {
	args := m.Called(ctx, centered)
	return args.Error(0)
}

func (m *MockElement) MouseOver(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockElement) FindElement(ctx context.Context, loc webdriver.Locator) (webdriver.Element, error) {
	args := m.Called(ctx, loc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(webdriver.Element), args.Error(1)
}

func (m *MockElement) FindElements(ctx context.Context, loc webdriver.Locator) ([]webdriver.Element, error) {
	args := m.Called(ctx, loc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]webdriver.Element), args.Error(1)
}
