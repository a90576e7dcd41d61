// internal/pages/home.go

// Package pages models the qa-services site. Page methods look their elements up on every call;
// callers never hold handles across navigation.
package pages

import (
	"context"

	"github.com/xkilldash9x/gauntlet/internal/browser"
	"github.com/xkilldash9x/gauntlet/internal/webdriver"
)

var (
	siteNav     = webdriver.CSS("#site-nav")
	contactLink = webdriver.CSS("a[href$=contact]")
)

// Home is the landing page and the site navigation every other page shares.
type Home struct {
	s *browser.Session
}

func NewHome(s *browser.Session) *Home { return &Home{s: s} }

// Session is the browser the page drives.
func (p *Home) Session() *browser.Session { return p.s }

// Open navigates to url and waits for the page to settle.
func (p *Home) Open(ctx context.Context, url string) error {
	return p.s.Navigate(ctx, url)
}

func (p *Home) Menu(ctx context.Context) (webdriver.Element, error) {
	return p.s.Find(ctx, siteNav)
}

// ContactLink is the menu entry pointing at the contact page.
func (p *Home) ContactLink(ctx context.Context) (webdriver.Element, error) {
	menu, err := p.Menu(ctx)
	if err != nil {
		return nil, err
	}
	return menu.FindElement(ctx, contactLink)
}

// GoToContact follows the menu link and returns the contact page.
func (p *Home) GoToContact(ctx context.Context) (*Contact, error) {
	link, err := p.ContactLink(ctx)
	if err != nil {
		return nil, err
	}
	if err := p.s.WaitUntilClick(ctx, link, 0); err != nil {
		return nil, err
	}
	p.s.WaitForNetworkIdle(ctx, 0)
	return NewContact(p.s), nil
}
