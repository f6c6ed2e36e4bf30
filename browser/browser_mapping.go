package browser

import (
	"github.com/liuxd6825/steplog/api"
	"github.com/liuxd6825/steplog/intercept"
)

// Browser is the intercepted api.Browser.
type Browser struct {
	*intercept.Wrapper
}

var _ api.Browser = &Browser{}

// Describe sets the display name and returns b.
func (b *Browser) Describe(text string) *Browser {
	b.Wrapper.Describe(text)
	return b
}

// BrowserType implements api.Browser.
func (b *Browser) BrowserType() api.BrowserType {
	return must1[api.BrowserType](b.Wrapper, "BrowserType")
}

// Close implements api.Browser.
func (b *Browser) Close() error { return call(b.Wrapper, "Close") }

// Contexts implements api.Browser.
func (b *Browser) Contexts() []api.BrowserContext {
	return must1[[]api.BrowserContext](b.Wrapper, "Contexts")
}

// IsConnected implements api.Browser.
func (b *Browser) IsConnected() bool { return must1[bool](b.Wrapper, "IsConnected") }

// NewContext implements api.Browser.
func (b *Browser) NewContext(opts *api.BrowserContextOptions) (api.BrowserContext, error) {
	return call1[api.BrowserContext](b.Wrapper, "NewContext", opts)
}

// NewPage implements api.Browser.
func (b *Browser) NewPage(opts *api.BrowserContextOptions) (api.Page, error) {
	return call1[api.Page](b.Wrapper, "NewPage", opts)
}

// Version implements api.Browser.
func (b *Browser) Version() string { return must1[string](b.Wrapper, "Version") }
