package browsertest

import (
	"context"
	"sync"

	"github.com/liuxd6825/steplog/api"
)

// Page is an in-memory api.Page.
type Page struct {
	engine  *Engine
	context *Context

	mu     sync.Mutex
	url    string
	values map[string]string
}

var _ api.Page = &Page{}

// Click implements api.Page.
func (p *Page) Click(selector string, opts *api.ClickOptions) error {
	return p.engine.record("page", "Click", selector, opts)
}

// Close implements api.Page.
func (p *Page) Close() error { return p.engine.record("page", "Close") }

// Content implements api.Page.
func (p *Page) Content() (string, error) {
	if err := p.engine.record("page", "Content"); err != nil {
		return "", err
	}
	return "<html><head><title>" + p.engine.title(p.URL()) + "</title></head></html>", nil
}

// Context implements api.Page.
func (p *Page) Context() api.BrowserContext { return p.context }

// Fill implements api.Page.
func (p *Page) Fill(selector string, value string) error {
	if err := p.engine.record("page", "Fill", selector, value); err != nil {
		return err
	}
	p.setValue(selector, value)
	return nil
}

// GetByLabel implements api.Page.
func (p *Page) GetByLabel(text string) api.Locator {
	return p.locator(GetByLabelSelector(text))
}

// GetByRole implements api.Page.
func (p *Page) GetByRole(role string, opts *api.GetByRoleOptions) api.Locator {
	return p.locator(GetByRoleSelector(role, opts))
}

// GetByTestID implements api.Page.
func (p *Page) GetByTestID(testID string) api.Locator {
	return p.locator(GetByTestIDSelector(testID))
}

// GetByText implements api.Page.
func (p *Page) GetByText(text string, opts *api.GetByTextOptions) api.Locator {
	return p.locator(GetByTextSelector(text, opts))
}

// Goto implements api.Page.
func (p *Page) Goto(url string, opts *api.NavigationOptions) error {
	if err := p.engine.record("page", "Goto", url, opts); err != nil {
		return err
	}
	p.mu.Lock()
	p.url = url
	p.mu.Unlock()
	return nil
}

// Locator implements api.Page.
func (p *Page) Locator(selector string, opts *api.LocatorOptions) api.Locator {
	_ = p.engine.record("page", "Locator", selector, opts)
	return p.locator(selector)
}

// Reload implements api.Page.
func (p *Page) Reload(opts *api.NavigationOptions) error {
	return p.engine.record("page", "Reload", opts)
}

// Request implements api.Page.
func (p *Page) Request() api.APIRequestContext { return p.context.Request() }

// Screenshot implements api.Page.
func (p *Page) Screenshot() ([]byte, error) {
	if err := p.engine.record("page", "Screenshot"); err != nil {
		return nil, err
	}
	return []byte("\x89PNG"), nil
}

// Title implements api.Page.
func (p *Page) Title() (string, error) {
	if err := p.engine.record("page", "Title"); err != nil {
		return "", err
	}
	return p.engine.title(p.URL()), nil
}

// URL implements api.Page.
func (p *Page) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

// WaitForResponse implements api.Page. The result settles with the canned
// response of urlSubstr.
func (p *Page) WaitForResponse(urlSubstr string) api.Pending {
	_ = p.engine.record("page", "WaitForResponse", urlSubstr)
	return Deferred(func(ctx context.Context) (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return api.APIResponse(p.engine.response(urlSubstr)), nil
	})
}

func (p *Page) locator(selector string) *Locator {
	return &Locator{page: p, selector: selector}
}

func (p *Page) setValue(selector, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.values == nil {
		p.values = make(map[string]string)
	}
	p.values[selector] = value
}

func (p *Page) value(selector string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.values[selector]
}
