package browser

import (
	"github.com/liuxd6825/steplog/api"
	"github.com/liuxd6825/steplog/intercept"
)

// Context is the intercepted api.BrowserContext.
type Context struct {
	*intercept.Wrapper
}

var _ api.BrowserContext = &Context{}

// Describe sets the display name and returns c.
func (c *Context) Describe(text string) *Context {
	c.Wrapper.Describe(text)
	return c
}

// AddCookies implements api.BrowserContext.
func (c *Context) AddCookies(cookies []*api.Cookie) error {
	return call(c.Wrapper, "AddCookies", cookies)
}

// Browser implements api.BrowserContext.
func (c *Context) Browser() api.Browser { return must1[api.Browser](c.Wrapper, "Browser") }

// ClearCookies implements api.BrowserContext.
func (c *Context) ClearCookies() error { return call(c.Wrapper, "ClearCookies") }

// Close implements api.BrowserContext.
func (c *Context) Close() error { return call(c.Wrapper, "Close") }

// Cookies implements api.BrowserContext.
func (c *Context) Cookies(urls ...string) ([]*api.Cookie, error) {
	return call1[[]*api.Cookie](c.Wrapper, "Cookies", urls)
}

// NewPage implements api.BrowserContext.
func (c *Context) NewPage() (api.Page, error) { return call1[api.Page](c.Wrapper, "NewPage") }

// Pages implements api.BrowserContext.
func (c *Context) Pages() []api.Page { return must1[[]api.Page](c.Wrapper, "Pages") }

// Request implements api.BrowserContext.
func (c *Context) Request() api.APIRequestContext {
	return must1[api.APIRequestContext](c.Wrapper, "Request")
}

// SetExtraHTTPHeaders implements api.BrowserContext.
func (c *Context) SetExtraHTTPHeaders(headers map[string]string) error {
	return call(c.Wrapper, "SetExtraHTTPHeaders", headers)
}

// WaitForPage implements api.BrowserContext.
func (c *Context) WaitForPage() api.Pending { return must1[api.Pending](c.Wrapper, "WaitForPage") }
