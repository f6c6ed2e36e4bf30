package browser

import (
	"github.com/liuxd6825/steplog/api"
	"github.com/liuxd6825/steplog/intercept"
)

// Page is the intercepted api.Page.
type Page struct {
	*intercept.Wrapper
}

var _ api.Page = &Page{}

// Describe sets the display name and returns p.
func (p *Page) Describe(text string) *Page {
	p.Wrapper.Describe(text)
	return p
}

// Click implements api.Page.
func (p *Page) Click(selector string, opts *api.ClickOptions) error {
	return call(p.Wrapper, "Click", selector, opts)
}

// Close implements api.Page.
func (p *Page) Close() error { return call(p.Wrapper, "Close") }

// Content implements api.Page.
func (p *Page) Content() (string, error) { return call1[string](p.Wrapper, "Content") }

// Context implements api.Page.
func (p *Page) Context() api.BrowserContext {
	return must1[api.BrowserContext](p.Wrapper, "Context")
}

// Fill implements api.Page.
func (p *Page) Fill(selector string, value string) error {
	return call(p.Wrapper, "Fill", selector, value)
}

// GetByLabel implements api.Page.
func (p *Page) GetByLabel(text string) api.Locator {
	return must1[api.Locator](p.Wrapper, "GetByLabel", text)
}

// GetByRole implements api.Page.
func (p *Page) GetByRole(role string, opts *api.GetByRoleOptions) api.Locator {
	return must1[api.Locator](p.Wrapper, "GetByRole", role, opts)
}

// GetByTestID implements api.Page.
func (p *Page) GetByTestID(testID string) api.Locator {
	return must1[api.Locator](p.Wrapper, "GetByTestID", testID)
}

// GetByText implements api.Page.
func (p *Page) GetByText(text string, opts *api.GetByTextOptions) api.Locator {
	return must1[api.Locator](p.Wrapper, "GetByText", text, opts)
}

// Goto implements api.Page.
func (p *Page) Goto(url string, opts *api.NavigationOptions) error {
	return call(p.Wrapper, "Goto", url, opts)
}

// Locator implements api.Page.
func (p *Page) Locator(selector string, opts *api.LocatorOptions) api.Locator {
	return must1[api.Locator](p.Wrapper, "Locator", selector, opts)
}

// Reload implements api.Page.
func (p *Page) Reload(opts *api.NavigationOptions) error { return call(p.Wrapper, "Reload", opts) }

// Request implements api.Page.
func (p *Page) Request() api.APIRequestContext {
	return must1[api.APIRequestContext](p.Wrapper, "Request")
}

// Screenshot implements api.Page.
func (p *Page) Screenshot() ([]byte, error) { return call1[[]byte](p.Wrapper, "Screenshot") }

// Title implements api.Page.
func (p *Page) Title() (string, error) { return call1[string](p.Wrapper, "Title") }

// URL implements api.Page.
func (p *Page) URL() string { return must1[string](p.Wrapper, "URL") }

// WaitForResponse implements api.Page.
func (p *Page) WaitForResponse(urlSubstr string) api.Pending {
	return must1[api.Pending](p.Wrapper, "WaitForResponse", urlSubstr)
}
