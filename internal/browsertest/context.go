package browsertest

import (
	"context"
	"sync"

	"github.com/liuxd6825/steplog/api"
)

// Context is an in-memory api.BrowserContext.
type Context struct {
	engine  *Engine
	browser *Browser
	opts    *api.BrowserContextOptions

	mu      sync.Mutex
	cookies []*api.Cookie
	pages   []api.Page
	headers map[string]string
	opened  chan api.Page
}

var _ api.BrowserContext = &Context{}

// AddCookies implements api.BrowserContext.
func (c *Context) AddCookies(cookies []*api.Cookie) error {
	if err := c.engine.record("context", "AddCookies", cookies); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cookies = append(c.cookies, cookies...)
	return nil
}

// Browser implements api.BrowserContext.
func (c *Context) Browser() api.Browser { return c.browser }

// ClearCookies implements api.BrowserContext.
func (c *Context) ClearCookies() error {
	c.mu.Lock()
	c.cookies = nil
	c.mu.Unlock()
	return c.engine.record("context", "ClearCookies")
}

// Close implements api.BrowserContext.
func (c *Context) Close() error { return c.engine.record("context", "Close") }

// Cookies implements api.BrowserContext.
func (c *Context) Cookies(urls ...string) ([]*api.Cookie, error) {
	if err := c.engine.record("context", "Cookies", urls); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*api.Cookie, len(c.cookies))
	copy(out, c.cookies)
	return out, nil
}

// NewPage implements api.BrowserContext.
func (c *Context) NewPage() (api.Page, error) {
	if err := c.engine.record("context", "NewPage"); err != nil {
		return nil, err
	}
	p := &Page{engine: c.engine, context: c, url: "about:blank"}
	c.mu.Lock()
	c.pages = append(c.pages, p)
	opened := c.opened
	c.opened = nil
	c.mu.Unlock()
	if opened != nil {
		opened <- p
	}
	return p, nil
}

// Pages implements api.BrowserContext.
func (c *Context) Pages() []api.Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]api.Page, len(c.pages))
	copy(out, c.pages)
	return out
}

// Request implements api.BrowserContext.
func (c *Context) Request() api.APIRequestContext {
	return &Request{engine: c.engine}
}

// SetExtraHTTPHeaders implements api.BrowserContext.
func (c *Context) SetExtraHTTPHeaders(headers map[string]string) error {
	c.mu.Lock()
	c.headers = headers
	c.mu.Unlock()
	return c.engine.record("context", "SetExtraHTTPHeaders", headers)
}

// WaitForPage implements api.BrowserContext. The result settles with the next
// page opened through NewPage.
func (c *Context) WaitForPage() api.Pending {
	ch := make(chan api.Page, 1)
	c.mu.Lock()
	c.opened = ch
	c.mu.Unlock()
	_ = c.engine.record("context", "WaitForPage")
	return Deferred(func(ctx context.Context) (any, error) {
		select {
		case p := <-ch:
			return p, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
}

// Deferred is an api.Pending backed by a function.
type Deferred func(ctx context.Context) (any, error)

// Await implements api.Pending.
func (d Deferred) Await(ctx context.Context) (any, error) { return d(ctx) }

// Resolved returns a pending result that settles with v.
func Resolved(v any) api.Pending {
	return Deferred(func(context.Context) (any, error) { return v, nil })
}
