// internal/components/field.go

// Package components holds reusable page fragments. Each one wraps the element it lives in and
// resolves its children on every call, so a re-rendered form never leaves a stale handle behind.
package components

import (
	"context"
	"slices"
	"strings"

	"github.com/xkilldash9x/gauntlet/internal/webdriver"
)

// Field is a labelled form control with an inline validation message.
type Field struct {
	root       webdriver.Element
	input      webdriver.Locator
	errors     webdriver.Locator
	errorClass string
}

// NewTextBox wraps a bootstrap form group holding a .form-control.
func NewTextBox(root webdriver.Element) *Field {
	return &Field{
		root:       root,
		input:      webdriver.CSS(".form-control"),
		errors:     webdriver.CSS(".help-block li"),
		errorClass: "has-error",
	}
}

// NewTextArea wraps the legacy text area markup, which flags errors with has_error.
func NewTextArea(root webdriver.Element) *Field {
	return &Field{
		root:       root,
		input:      webdriver.CSS("input"),
		errors:     webdriver.CSS(".help-block li"),
		errorClass: "has_error",
	}
}

// Root is the element the field was built from.
func (f *Field) Root() webdriver.Element { return f.root }

// Input resolves the control itself.
func (f *Field) Input(ctx context.Context) (webdriver.Element, error) {
	return f.root.FindElement(ctx, f.input)
}

// SetText types value into the control.
func (f *Field) SetText(ctx context.Context, value string) error {
	in, err := f.Input(ctx)
	if err != nil {
		return err
	}
	return in.SendKeys(ctx, value)
}

// Text is the control's current value.
func (f *Field) Text(ctx context.Context) (string, error) {
	in, err := f.Input(ctx)
	if err != nil {
		return "", err
	}
	v, _, err := in.Attribute(ctx, "value")
	return v, err
}

func (f *Field) Clear(ctx context.Context) error {
	in, err := f.Input(ctx)
	if err != nil {
		return err
	}
	return in.Clear(ctx)
}

// HasError reports whether the field is flagged invalid.
func (f *Field) HasError(ctx context.Context) (bool, error) {
	class, _, err := f.root.Attribute(ctx, "class")
	if err != nil {
		return false, err
	}
	return slices.Contains(strings.Fields(class), f.errorClass), nil
}

// ErrorText is the first validation message. It fails with KindNoSuchElement when there is none.
func (f *Field) ErrorText(ctx context.Context) (string, error) {
	el, err := f.root.FindElement(ctx, f.errors)
	if err != nil {
		return "", err
	}
	return el.Text(ctx)
}

// DataState reads the field's data-state attribute, or "" when it has none.
func (f *Field) DataState(ctx context.Context) (string, error) {
	v, _, err := f.root.Attribute(ctx, "data-state")
	return v, err
}
