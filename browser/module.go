// Package browser provides typed, intercepted versions of the api handles.
//
// Every method of a façade is routed through intercept.Wrapper.Call under its
// own Go method name, so logging rules and extensions are keyed by those
// names ("Goto", "Click", ...). Handles returned by a façade are façades
// themselves and share the root's session.
package browser

import (
	"github.com/sirupsen/logrus"

	"github.com/liuxd6825/steplog/api"
	"github.com/liuxd6825/steplog/intercept"
)

// Options configures a root façade.
type Options struct {
	intercept.Config

	// Stepper reports intercepted calls that have a logging rule.
	Stepper intercept.Stepper
	// Logger receives debug output of intercepted calls.
	Logger logrus.FieldLogger
	// CallSite overrides where steps are attributed to.
	CallSite func() *intercept.Location
}

// NewSession returns a session that hands out the façades of this package.
func NewSession(opts Options) *intercept.Session {
	return intercept.NewSession(opts.Config,
		intercept.WithStepper(opts.Stepper),
		intercept.WithLogger(opts.Logger),
		intercept.WithCallSite(opts.CallSite),
		intercept.WithFacade(intercept.KindBrowser, func(w *intercept.Wrapper) intercept.Wrapped {
			return &Browser{Wrapper: w}
		}),
		intercept.WithFacade(intercept.KindContext, func(w *intercept.Wrapper) intercept.Wrapped {
			return &Context{Wrapper: w}
		}),
		intercept.WithFacade(intercept.KindPage, func(w *intercept.Wrapper) intercept.Wrapped {
			return &Page{Wrapper: w}
		}),
		intercept.WithFacade(intercept.KindLocator, func(w *intercept.Wrapper) intercept.Wrapped {
			return &Locator{Wrapper: w}
		}),
		intercept.WithFacade(intercept.KindRequest, func(w *intercept.Wrapper) intercept.Wrapped {
			return &Request{Wrapper: w}
		}),
	)
}

// New wraps a browser.
func New(raw api.Browser, opts Options) *Browser {
	return root[*Browser](raw, intercept.KindBrowser, opts)
}

// NewContext wraps a browser context.
func NewContext(raw api.BrowserContext, opts Options) *Context {
	return root[*Context](raw, intercept.KindContext, opts)
}

// NewPage wraps a page.
func NewPage(raw api.Page, opts Options) *Page {
	return root[*Page](raw, intercept.KindPage, opts)
}

// NewLocator wraps a locator.
func NewLocator(raw api.Locator, opts Options) *Locator {
	return root[*Locator](raw, intercept.KindLocator, opts)
}

// NewRequest wraps an API request client.
func NewRequest(raw api.APIRequestContext, opts Options) *Request {
	return root[*Request](raw, intercept.KindRequest, opts)
}

// root wraps raw in a new session. A raw value that already is a façade of
// the wanted type is returned unchanged.
func root[T intercept.Wrapped](raw any, k intercept.Kind, opts Options) T {
	if f, ok := raw.(T); ok {
		return f
	}
	w := NewSession(opts).WrapAs(raw, k)
	f, _ := w.Facade().(T)
	return f
}
