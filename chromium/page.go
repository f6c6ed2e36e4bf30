package chromium

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/liuxd6825/steplog/api"
)

// Ensure Page implements the api.Page interface.
var _ api.Page = &Page{}

// Page is a tab of a Context.
type Page struct {
	ctx *Context
	rod *rod.Page
	// ownsContext is set for pages created by Browser.NewPage; closing the
	// page closes the context.
	ownsContext bool
	timeout     time.Duration
}

func newPage(c *Context, rp *rod.Page) *Page {
	return &Page{ctx: c, rod: rp, timeout: DefaultTimeout}
}

// Click clicks the element matching selector.
func (p *Page) Click(selector string, opts *api.ClickOptions) error {
	return p.Locator(selector, nil).Click(opts)
}

// Close closes the page.
func (p *Page) Close() error {
	if p.ownsContext {
		return p.ctx.Close()
	}
	p.ctx.mu.Lock()
	for i, o := range p.ctx.pages {
		if o == p {
			p.ctx.pages = append(p.ctx.pages[:i], p.ctx.pages[i+1:]...)
			break
		}
	}
	p.ctx.mu.Unlock()

	if err := p.rod.Close(); err != nil {
		return fmt.Errorf("closing page: %w", err)
	}
	return nil
}

// Content returns the serialized document.
func (p *Page) Content() (string, error) {
	html, err := p.rod.HTML()
	if err != nil {
		return "", fmt.Errorf("getting content: %w", err)
	}
	return html, nil
}

// Context returns the context owning p.
func (p *Page) Context() api.BrowserContext {
	return p.ctx
}

// Fill fills the input matching selector.
func (p *Page) Fill(selector string, value string) error {
	return p.Locator(selector, nil).Fill(value)
}

// GetByLabel locates form controls by their label text.
func (p *Page) GetByLabel(text string) api.Locator {
	return newLocator(p).GetByLabel(text)
}

// GetByRole locates elements by their ARIA role and accessible name.
func (p *Page) GetByRole(role string, opts *api.GetByRoleOptions) api.Locator {
	return newLocator(p).GetByRole(role, opts)
}

// GetByTestID locates elements by their data-testid attribute.
func (p *Page) GetByTestID(testID string) api.Locator {
	return newLocator(p).GetByTestID(testID)
}

// GetByText locates elements by their text.
func (p *Page) GetByText(text string, opts *api.GetByTextOptions) api.Locator {
	return newLocator(p).GetByText(text, opts)
}

// Goto navigates to u, resolved against the context's base URL.
func (p *Page) Goto(u string, opts *api.NavigationOptions) error {
	target, err := p.resolve(u)
	if err != nil {
		return err
	}
	tp, done := p.bounded(opts)
	defer done()

	if err := tp.Navigate(target); err != nil {
		return fmt.Errorf("navigating to %s: %w", target, err)
	}
	if err := waitUntil(tp, opts); err != nil {
		return fmt.Errorf("navigating to %s: %w", target, err)
	}
	return nil
}

// Locator locates elements matching a CSS selector.
func (p *Page) Locator(selector string, opts *api.LocatorOptions) api.Locator {
	return newLocator(p).Locator(selector, opts)
}

// Reload reloads the page.
func (p *Page) Reload(opts *api.NavigationOptions) error {
	tp, done := p.bounded(opts)
	defer done()

	if err := tp.Reload(); err != nil {
		return fmt.Errorf("reloading: %w", err)
	}
	if err := waitUntil(tp, opts); err != nil {
		return fmt.Errorf("reloading: %w", err)
	}
	return nil
}

// Request returns the API request context of the page's context.
func (p *Page) Request() api.APIRequestContext {
	return p.ctx.Request()
}

// Screenshot captures the viewport as PNG.
func (p *Page) Screenshot() ([]byte, error) {
	img, err := p.rod.Screenshot(false, nil)
	if err != nil {
		return nil, fmt.Errorf("taking screenshot: %w", err)
	}
	return img, nil
}

// Title returns the document title.
func (p *Page) Title() (string, error) {
	obj, err := p.rod.Eval(`() => document.title`)
	if err != nil {
		return "", fmt.Errorf("getting title: %w", err)
	}
	return obj.Value.String(), nil
}

// URL returns the current URL, or "" when the page is gone.
func (p *Page) URL() string {
	info, err := p.rod.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

// WaitForResponse returns a Pending that settles with the first response
// whose URL contains urlSubstr. Listening starts immediately.
func (p *Page) WaitForResponse(urlSubstr string) api.Pending {
	wctx, cancel := context.WithCancel(p.ctx.browser.ctx)
	var got *proto.NetworkResponseReceived
	wait := p.rod.Context(wctx).EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Response == nil || !strings.Contains(e.Response.URL, urlSubstr) {
			return false
		}
		got = e
		return true
	})

	return pendingFunc(func(ctx context.Context) (any, error) {
		defer cancel()
		if err := await(ctx, cancel, wait); err != nil {
			return nil, err
		}
		if got == nil {
			return nil, ErrClosed
		}
		return p.networkResponse(got), nil
	})
}

func (p *Page) networkResponse(e *proto.NetworkResponseReceived) *Response {
	headers := make(map[string]string, len(e.Response.Headers))
	for k, v := range e.Response.Headers {
		headers[strings.ToLower(k)] = v.String()
	}
	id := e.RequestID
	return &Response{
		url:        e.Response.URL,
		status:     e.Response.Status,
		statusText: e.Response.StatusText,
		headers:    headers,
		load: func() ([]byte, error) {
			res, err := proto.NetworkGetResponseBody{RequestID: id}.Call(p.rod)
			if err != nil {
				return nil, fmt.Errorf("getting response body: %w", err)
			}
			return decodeBody(res.Body, res.Base64Encoded)
		},
	}
}

func (p *Page) resolve(u string) (string, error) {
	base := p.ctx.opts.BaseURL
	if base == "" {
		return u, nil
	}
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", base, err)
	}
	ref, err := url.Parse(u)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", u, err)
	}
	return b.ResolveReference(ref).String(), nil
}

// bounded returns p's rod page limited by the navigation timeout.
func (p *Page) bounded(opts *api.NavigationOptions) (*rod.Page, func()) {
	timeout := p.timeout
	if opts != nil && opts.Timeout > 0 {
		timeout = opts.Timeout
	}
	tp := p.rod.Timeout(timeout)
	return tp, func() { tp.CancelTimeout() }
}

func waitUntil(tp *rod.Page, opts *api.NavigationOptions) error {
	state := ""
	if opts != nil {
		state = opts.WaitUntil
	}
	switch state {
	case "", "load", "domcontentloaded":
		return tp.WaitLoad()
	case "networkidle":
		return tp.WaitIdle(500 * time.Millisecond)
	case "commit":
		return nil
	default:
		return fmt.Errorf("unknown waitUntil %q, expected one of load, domcontentloaded, networkidle, commit", state)
	}
}
