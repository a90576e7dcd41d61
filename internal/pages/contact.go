// internal/pages/contact.go
package pages

import (
	"context"

	"github.com/xkilldash9x/gauntlet/internal/browser"
	"github.com/xkilldash9x/gauntlet/internal/components"
	"github.com/xkilldash9x/gauntlet/internal/webdriver"
)

var (
	contactName    = webdriver.CSS("[data-qa=contact-name]")
	contactEmail   = webdriver.CSS("[data-qa=contact-email]")
	contactMessage = webdriver.CSS("[data-qa=contact-message]")
	submitButton   = webdriver.CSS("#submit-btn")
)

// Contact is the contact form. The form is embedded in the home page, so it keeps the menu.
type Contact struct {
	Home
}

func NewContact(s *browser.Session) *Contact { return &Contact{Home{s: s}} }

func (p *Contact) field(ctx context.Context, loc webdriver.Locator) (*components.Field, error) {
	el, err := p.s.Find(ctx, loc)
	if err != nil {
		return nil, err
	}
	return components.NewTextBox(el), nil
}

func (p *Contact) Name(ctx context.Context) (*components.Field, error) {
	return p.field(ctx, contactName)
}

func (p *Contact) Email(ctx context.Context) (*components.Field, error) {
	return p.field(ctx, contactEmail)
}

func (p *Contact) Message(ctx context.Context) (*components.Field, error) {
	return p.field(ctx, contactMessage)
}

func (p *Contact) Submit(ctx context.Context) (webdriver.Element, error) {
	return p.s.Find(ctx, submitButton)
}

// ContactForm is what a visitor types into the form.
type ContactForm struct {
	Name, Email, Message string
}

// Fill types every non-empty value of form into its field.
func (p *Contact) Fill(ctx context.Context, form ContactForm) error {
	entries := []struct {
		resolve func(context.Context) (*components.Field, error)
		value   string
	}{
		{p.Name, form.Name},
		{p.Email, form.Email},
		{p.Message, form.Message},
	}
	for _, e := range entries {
		if e.value == "" {
			continue
		}
		f, err := e.resolve(ctx)
		if err != nil {
			return err
		}
		if err := f.SetText(ctx, e.value); err != nil {
			return err
		}
	}
	return nil
}

// SubmitText is the label on the submit button, which doubles as the send status.
func (p *Contact) SubmitText(ctx context.Context) (string, error) {
	btn, err := p.Submit(ctx)
	if err != nil {
		return "", err
	}
	return btn.Text(ctx)
}
