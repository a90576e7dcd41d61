// internal/scenarios/contact.go

// Package scenarios holds the acceptance tests run by the gauntlet CLI.
package scenarios

import (
	"context"
	"strings"

	"github.com/xkilldash9x/gauntlet/internal/bdd"
	"github.com/xkilldash9x/gauntlet/internal/harness"
	"github.com/xkilldash9x/gauntlet/internal/pages"
)

// SuccessLabel is what the submit button reads once the message went out.
const SuccessLabel = "MESSAGE SENT"

var (
	invalidEmailForm = pages.ContactForm{
		Name:    "Automation rspec",
		Email:   "automation",
		Message: "Automation rspec test",
	}
	validForm = pages.ContactForm{
		Name:    "Automation rspec",
		Email:   "automation@rspec.com",
		Message: "Automation rspec test",
	}
)

// Contact exercises the contact form.
func Contact() harness.Suite {
	return harness.Suite{
		Source: "internal/scenarios/contact.go",
		Group:  "Contact form:",
		Tests: []harness.Test{
			{Name: "submit with invalid email", Tags: []string{"negative", "contact"}, Run: submitInvalidEmail},
			{Name: "submit correct form", Tags: []string{"contact"}, Run: submitCorrectForm},
		},
	}
}

// All is every suite, in run order.
func All() []harness.Suite {
	return []harness.Suite{Contact()}
}

func submitInvalidEmail(ctx context.Context, c *harness.Case, sc *bdd.Scenario) {
	contact := pages.NewContact(c.Session)

	sc.Given("I navigate to the qa-services home page", func() error {
		return contact.Open(ctx, c.BaseURL())
	})
	sc.When("I fill in contact form with incorrect email", func() error {
		return contact.Fill(ctx, invalidEmailForm)
	})
	sc.And("I submit form", func() error {
		return submit(ctx, c, contact)
	})
	sc.Then("I expect to see an incorrect email error", func() error {
		return c.Session.WaitUntil(ctx, 0, func(ctx context.Context) (bool, error) {
			email, err := contact.Email(ctx)
			if err != nil {
				return false, err
			}
			return email.HasError(ctx)
		})
	})
}

func submitCorrectForm(ctx context.Context, c *harness.Case, sc *bdd.Scenario) {
	contact := pages.NewContact(c.Session)

	sc.Given("I navigate to the qa-services page", func() error {
		return contact.Open(ctx, c.BaseURL())
	})
	sc.When("I fill in contact form", func() error {
		return contact.Fill(ctx, validForm)
	})
	sc.And("I submit form", func() error {
		return submit(ctx, c, contact)
	})
	sc.Then("I expect to see success message", func() error {
		return c.Session.WaitUntil(ctx, 0, func(ctx context.Context) (bool, error) {
			text, err := contact.SubmitText(ctx)
			if err != nil {
				return false, err
			}
			return strings.Contains(text, SuccessLabel), nil
		})
	})
}

func submit(ctx context.Context, c *harness.Case, contact *pages.Contact) error {
	btn, err := contact.Submit(ctx)
	if err != nil {
		return err
	}
	return c.Session.WaitUntilClick(ctx, btn, 0)
}
