package chromium

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"

	"github.com/liuxd6825/steplog/api"
)

// Ensure Browser implements the api.Browser interface.
var _ api.Browser = &Browser{}

// Browser is a connected Chromium instance.
type Browser struct {
	ctx      context.Context
	bt       *BrowserType
	rod      *rod.Browser
	launcher *launcher.Launcher // nil when connected to a running browser
	logger   logrus.FieldLogger

	mu       sync.Mutex
	contexts []*Context
	closed   bool
}

func newBrowser(ctx context.Context, bt *BrowserType, rb *rod.Browser, l *launcher.Launcher) *Browser {
	return &Browser{
		ctx:      ctx,
		bt:       bt,
		rod:      rb,
		launcher: l,
		logger:   bt.logger,
	}
}

// BrowserType returns the browser type that created b.
func (b *Browser) BrowserType() api.BrowserType {
	return b.bt
}

// Close closes every context. A launched browser process is terminated and
// its profile removed; a browser b connected to keeps running.
func (b *Browser) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	contexts := b.contexts
	b.contexts = nil
	b.mu.Unlock()

	for _, c := range contexts {
		if err := c.close(); err != nil {
			b.logger.WithError(err).Debug("closing context")
		}
	}
	if b.launcher == nil {
		return nil
	}
	err := b.rod.Close()
	b.launcher.Kill()
	b.launcher.Cleanup()
	if err != nil {
		return fmt.Errorf("closing browser: %w", err)
	}
	return nil
}

// Contexts returns the open contexts.
func (b *Browser) Contexts() []api.BrowserContext {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]api.BrowserContext, len(b.contexts))
	for i, c := range b.contexts {
		out[i] = c
	}
	return out
}

// IsConnected reports whether b has not been closed.
func (b *Browser) IsConnected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.closed
}

// NewContext opens a new isolated context.
func (b *Browser) NewContext(opts *api.BrowserContextOptions) (api.BrowserContext, error) {
	return b.newContext(opts)
}

// NewPage opens a page in a new context owned by the page.
func (b *Browser) NewPage(opts *api.BrowserContextOptions) (api.Page, error) {
	c, err := b.newContext(opts)
	if err != nil {
		return nil, err
	}
	p, err := c.newPage()
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	p.ownsContext = true
	return p, nil
}

// Version returns the product name and version of the browser.
func (b *Browser) Version() string {
	v, err := proto.BrowserGetVersion{}.Call(b.rod)
	if err != nil {
		b.logger.WithError(err).Debug("getting version")
		return ""
	}
	return v.Product
}

func (b *Browser) newContext(opts *api.BrowserContextOptions) (*Context, error) {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	incognito, err := b.rod.Incognito()
	if err != nil {
		return nil, fmt.Errorf("creating browser context: %w", err)
	}
	c := newContext(b, incognito, opts)

	b.mu.Lock()
	b.contexts = append(b.contexts, c)
	b.mu.Unlock()
	b.logger.WithField("context", incognito.BrowserContextID).Debug("context created")
	return c, nil
}

func (b *Browser) forget(c *Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, o := range b.contexts {
		if o == c {
			b.contexts = append(b.contexts[:i], b.contexts[i+1:]...)
			return
		}
	}
}
