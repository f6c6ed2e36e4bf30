package chromium

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/liuxd6825/steplog/api"
)

// Ensure Context implements the api.BrowserContext interface.
var _ api.BrowserContext = &Context{}

// Context is an isolated browser context with its own cookies and pages.
type Context struct {
	browser *Browser
	rod     *rod.Browser
	opts    api.BrowserContextOptions

	mu      sync.Mutex
	pages   []*Page
	headers map[string]string
	request *Request
}

func newContext(b *Browser, rb *rod.Browser, opts *api.BrowserContextOptions) *Context {
	c := &Context{browser: b, rod: rb, headers: make(map[string]string)}
	if opts != nil {
		c.opts = *opts
		for k, v := range opts.ExtraHTTPHeaders {
			c.headers[k] = v
		}
	}
	return c
}

// AddCookies adds cookies to the context.
func (c *Context) AddCookies(cookies []*api.Cookie) error {
	params := make([]*proto.NetworkCookieParam, 0, len(cookies))
	for _, ck := range cookies {
		if ck == nil {
			continue
		}
		if ck.URL == "" && ck.Domain == "" {
			return fmt.Errorf("adding cookie %q: either url or domain must be set", ck.Name)
		}
		params = append(params, &proto.NetworkCookieParam{
			Name:     ck.Name,
			Value:    ck.Value,
			URL:      ck.URL,
			Domain:   ck.Domain,
			Path:     ck.Path,
			Secure:   ck.Secure,
			HTTPOnly: ck.HTTPOnly,
			SameSite: proto.NetworkCookieSameSite(ck.SameSite),
			Expires:  proto.TimeSinceEpoch(ck.Expires),
		})
	}
	if len(params) == 0 {
		return nil
	}
	if err := c.rod.SetCookies(params); err != nil {
		return fmt.Errorf("adding cookies: %w", err)
	}
	return nil
}

// Browser returns the browser owning c.
func (c *Context) Browser() api.Browser {
	return c.browser
}

// ClearCookies removes every cookie of the context.
func (c *Context) ClearCookies() error {
	if err := c.rod.SetCookies(nil); err != nil {
		return fmt.Errorf("clearing cookies: %w", err)
	}
	return nil
}

// Close closes every page and disposes the context.
func (c *Context) Close() error {
	c.browser.forget(c)
	return c.close()
}

func (c *Context) close() error {
	c.mu.Lock()
	c.pages = nil
	req := c.request
	c.request = nil
	c.mu.Unlock()

	if req != nil {
		_ = req.Dispose()
	}
	if err := c.rod.Close(); err != nil {
		return fmt.Errorf("closing context: %w", err)
	}
	return nil
}

// Cookies returns the cookies of the context. With urls, only cookies sent to
// at least one of them are returned.
func (c *Context) Cookies(urls ...string) ([]*api.Cookie, error) {
	raw, err := c.rod.GetCookies()
	if err != nil {
		return nil, fmt.Errorf("getting cookies: %w", err)
	}
	targets := make([]*url.URL, 0, len(urls))
	for _, u := range urls {
		parsed, err := url.Parse(u)
		if err != nil {
			return nil, fmt.Errorf("getting cookies: invalid url %q: %w", u, err)
		}
		targets = append(targets, parsed)
	}

	out := make([]*api.Cookie, 0, len(raw))
	for _, ck := range raw {
		if len(targets) > 0 && !cookieMatchesAny(ck, targets) {
			continue
		}
		out = append(out, &api.Cookie{
			Name:     ck.Name,
			Value:    ck.Value,
			Domain:   ck.Domain,
			Path:     ck.Path,
			Expires:  int64(ck.Expires),
			HTTPOnly: ck.HTTPOnly,
			Secure:   ck.Secure,
			SameSite: string(ck.SameSite),
		})
	}
	return out, nil
}

func cookieMatchesAny(ck *proto.NetworkCookie, targets []*url.URL) bool {
	for _, u := range targets {
		if cookieMatches(ck.Domain, ck.Path, ck.Secure, u) {
			return true
		}
	}
	return false
}

func cookieMatches(domain, path string, secure bool, u *url.URL) bool {
	host := u.Hostname()
	domain = strings.TrimPrefix(domain, ".")
	if host != domain && !strings.HasSuffix(host, "."+domain) {
		return false
	}
	p := u.Path
	if p == "" {
		p = "/"
	}
	if path != "" && !strings.HasPrefix(p, path) {
		return false
	}
	return !secure || u.Scheme == "https"
}

// NewPage opens a page in the context.
func (c *Context) NewPage() (api.Page, error) {
	return c.newPage()
}

func (c *Context) newPage() (*Page, error) {
	rp, err := c.rod.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("creating page: %w", err)
	}
	return c.adopt(rp)
}

// adopt applies the context options to rp and tracks it.
func (c *Context) adopt(rp *rod.Page) (*Page, error) {
	if vp := c.opts.Viewport; vp != nil {
		err := proto.EmulationSetDeviceMetricsOverride{
			Width:             vp.Width,
			Height:            vp.Height,
			DeviceScaleFactor: 1,
		}.Call(rp)
		if err != nil {
			return nil, fmt.Errorf("setting viewport: %w", err)
		}
	}
	if c.opts.UserAgent != "" || c.opts.Locale != "" {
		ua := c.opts.UserAgent
		if ua == "" {
			v, err := proto.BrowserGetVersion{}.Call(rp)
			if err != nil {
				return nil, fmt.Errorf("getting default user agent: %w", err)
			}
			ua = v.UserAgent
		}
		err := rp.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent:      ua,
			AcceptLanguage: c.opts.Locale,
		})
		if err != nil {
			return nil, fmt.Errorf("setting user agent: %w", err)
		}
	}
	if err := applyHeaders(rp, c.extraHeaders()); err != nil {
		return nil, err
	}

	p := newPage(c, rp)
	c.mu.Lock()
	c.pages = append(c.pages, p)
	c.mu.Unlock()
	return p, nil
}

func applyHeaders(rp *rod.Page, headers map[string]string) error {
	if len(headers) == 0 {
		return nil
	}
	dict := make([]string, 0, 2*len(headers))
	for k, v := range headers {
		dict = append(dict, k, v)
	}
	if _, err := rp.SetExtraHeaders(dict); err != nil {
		return fmt.Errorf("setting extra headers: %w", err)
	}
	return nil
}

// Pages returns the open pages of the context.
func (c *Context) Pages() []api.Page {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]api.Page, len(c.pages))
	for i, p := range c.pages {
		out[i] = p
	}
	return out
}

// Request returns the API request context sharing the context's base URL and
// extra headers.
func (c *Context) Request() api.APIRequestContext {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.request == nil {
		c.request = NewRequest(RequestOptions{BaseURL: c.opts.BaseURL, Headers: c.headers})
	}
	return c.request
}

// SetExtraHTTPHeaders sets headers sent with every request of every page.
func (c *Context) SetExtraHTTPHeaders(headers map[string]string) error {
	c.mu.Lock()
	c.headers = make(map[string]string, len(headers))
	for k, v := range headers {
		c.headers[k] = v
	}
	pages := append([]*Page(nil), c.pages...)
	c.mu.Unlock()

	for _, p := range pages {
		if err := applyHeaders(p.rod, headers); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) extraHeaders() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]string, len(c.headers))
	for k, v := range c.headers {
		out[k] = v
	}
	return out
}

// WaitForPage returns a Pending that settles with the next page opened in the
// context, for instance by a link with target=_blank. Listening starts
// immediately, so the action that opens the page goes after this call.
func (c *Context) WaitForPage() api.Pending {
	wctx, cancel := context.WithCancel(c.browser.ctx)
	var target proto.TargetTargetID
	wait := c.rod.Context(wctx).EachEvent(func(e *proto.TargetTargetCreated) bool {
		info := e.TargetInfo
		if info == nil || info.Type != proto.TargetTargetInfoTypePage || info.BrowserContextID != c.rod.BrowserContextID {
			return false
		}
		target = info.TargetID
		return true
	})

	return pendingFunc(func(ctx context.Context) (any, error) {
		defer cancel()
		if err := await(ctx, cancel, wait); err != nil {
			return nil, err
		}
		if target == "" {
			return nil, ErrClosed
		}
		rp, err := c.rod.PageFromTarget(target)
		if err != nil {
			return nil, fmt.Errorf("attaching to new page: %w", err)
		}
		return c.adopt(rp)
	})
}

// pendingFunc adapts a function to api.Pending.
type pendingFunc func(ctx context.Context) (any, error)

func (f pendingFunc) Await(ctx context.Context) (any, error) {
	return f(ctx)
}

// await runs wait until it returns or ctx is done. When ctx is done, stop is
// called and wait is still drained.
func await(ctx context.Context, stop context.CancelFunc, wait func()) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		wait()
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		stop()
		<-done
		return ctx.Err()
	}
}
