// internal/components/field_test.go
package components

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

func TestTextBox_TypesIntoFormControl(t *testing.T) {
	root, input := new(mocks.MockElement), new(mocks.MockElement)
	root.On("FindElement", mock.Anything, webdriver.CSS(".form-control")).Return(input, nil)
	input.On("SendKeys", mock.Anything, "automation@rspec.com").Return(nil).Once()
	input.On("Attribute", mock.Anything, "value").Return("automation@rspec.com", true, nil)

	ctx := context.Background()
	box := NewTextBox(root)
	require.NoError(t, box.SetText(ctx, "automation@rspec.com"))
	text, err := box.Text(ctx)

	require.NoError(t, err)
	assert.Equal(t, "automation@rspec.com", text)
	input.AssertExpectations(t)
}

func TestField_HasError(t *testing.T) {
	tests := []struct {
		name  string
		field func(webdriver.Element) *Field
		class string
		want  bool
	}{
		{"text box flagged", NewTextBox, "form-group has-error", true},
		{"text box clean", NewTextBox, "form-group", false},
		{"text box ignores lookalike class", NewTextBox, "form-group has-error-icon", false},
		{"text area flagged", NewTextArea, "field has_error", true},
		{"text area ignores dashed class", NewTextArea, "field has-error", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := new(mocks.MockElement)
			root.On("Attribute", mock.Anything, "class").Return(tt.class, true, nil)

			got, err := tt.field(root).HasError(context.Background())

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestField_ErrorText(t *testing.T) {
	root, msg := new(mocks.MockElement), new(mocks.MockElement)
	root.On("FindElement", mock.Anything, webdriver.CSS(".help-block li")).Return(msg, nil)
	msg.On("Text", mock.Anything).Return("Please enter a valid email address.", nil)

	text, err := NewTextBox(root).ErrorText(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Please enter a valid email address.", text)
}

func TestField_StaleRootPropagates(t *testing.T) {
	root := new(mocks.MockElement)
	gone := failure.New(failure.KindStaleElement, "attribute", "element is not attached to the page document")
	root.On("Attribute", mock.Anything, "data-state").Return("", false, gone)

	_, err := NewTextArea(root).DataState(context.Background())

	assert.ErrorIs(t, err, failure.KindStaleElement)
}
