// Package browsertest is an in-memory browser engine for tests. Every call on
// its handles is recorded together with the exact argument values, so tests
// can check what reached the engine.
package browsertest

import (
	"fmt"
	"sync"

	"github.com/liuxd6825/steplog/api"
)

// Call is one recorded method call.
type Call struct {
	Receiver string
	Method   string
	Args     []any
}

func (c Call) String() string {
	return fmt.Sprintf("%s.%s%v", c.Receiver, c.Method, c.Args)
}

// Engine records the calls made on the handles it created and holds the
// state pages report back.
type Engine struct {
	mu    sync.Mutex
	calls []Call

	// Texts maps selectors to the text of the element they match.
	Texts map[string]string
	// Attributes maps selectors to element attributes.
	Attributes map[string]map[string]string
	// Counts maps selectors to the number of matched elements. Unknown
	// selectors match one element.
	Counts map[string]int
	// Hidden lists selectors of elements that are not visible.
	Hidden map[string]bool
	// Titles maps URLs to page titles.
	Titles map[string]string
	// Responses maps request URLs to canned responses. Unknown URLs answer
	// 404.
	Responses map[string]*Response
	// Errors maps "Receiver.Method" to the error that call returns.
	Errors map[string]error
}

// New returns an empty engine.
func New() *Engine {
	return &Engine{
		Texts:      make(map[string]string),
		Attributes: make(map[string]map[string]string),
		Counts:     make(map[string]int),
		Hidden:     make(map[string]bool),
		Titles:     make(map[string]string),
		Responses:  make(map[string]*Response),
		Errors:     make(map[string]error),
	}
}

// Browser returns a new browser of the named engine family.
func (e *Engine) Browser(name string) *Browser {
	return &Browser{engine: e, name: name, connected: true}
}

// Calls returns the calls recorded so far.
func (e *Engine) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Call, len(e.calls))
	copy(out, e.calls)
	return out
}

// Methods returns "Receiver.Method" for every recorded call.
func (e *Engine) Methods() []string {
	calls := e.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Receiver + "." + c.Method
	}
	return out
}

// Last returns the most recent call of method, and whether there was one.
func (e *Engine) Last(method string) (Call, bool) {
	calls := e.Calls()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Method == method {
			return calls[i], true
		}
	}
	return Call{}, false
}

// Reset forgets the recorded calls.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = nil
}

func (e *Engine) record(receiver, method string, args ...any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, Call{Receiver: receiver, Method: method, Args: args})
	return e.Errors[receiver+"."+method]
}

func (e *Engine) text(selector string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Texts[selector]
}

func (e *Engine) count(selector string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n, ok := e.Counts[selector]; ok {
		return n
	}
	return 1
}

func (e *Engine) hidden(selector string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Hidden[selector]
}

func (e *Engine) attribute(selector, name string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Attributes[selector][name]
}

func (e *Engine) title(url string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Titles[url]
}

func (e *Engine) response(url string) *Response {
	e.mu.Lock()
	defer e.mu.Unlock()
	if r, ok := e.Responses[url]; ok {
		return r
	}
	return &Response{URLValue: url, StatusCode: 404}
}

// Browser is an in-memory api.Browser.
type Browser struct {
	engine    *Engine
	name      string
	mu        sync.Mutex
	contexts  []api.BrowserContext
	connected bool
}

var _ api.Browser = &Browser{}

// BrowserType implements api.Browser.
func (b *Browser) BrowserType() api.BrowserType { return browserType(b.name) }

// Close implements api.Browser.
func (b *Browser) Close() error {
	b.mu.Lock()
	b.connected = false
	b.mu.Unlock()
	return b.engine.record("browser", "Close")
}

// Contexts implements api.Browser.
func (b *Browser) Contexts() []api.BrowserContext {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]api.BrowserContext, len(b.contexts))
	copy(out, b.contexts)
	return out
}

// IsConnected implements api.Browser.
func (b *Browser) IsConnected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.connected
}

// NewContext implements api.Browser.
func (b *Browser) NewContext(opts *api.BrowserContextOptions) (api.BrowserContext, error) {
	if err := b.engine.record("browser", "NewContext", opts); err != nil {
		return nil, err
	}
	c := &Context{engine: b.engine, browser: b, opts: opts}
	b.mu.Lock()
	b.contexts = append(b.contexts, c)
	b.mu.Unlock()
	return c, nil
}

// NewPage implements api.Browser.
func (b *Browser) NewPage(opts *api.BrowserContextOptions) (api.Page, error) {
	c, err := b.NewContext(opts)
	if err != nil {
		return nil, err
	}
	return c.NewPage()
}

// Version implements api.Browser.
func (b *Browser) Version() string { return "test/1.0" }

type browserType string

func (t browserType) Name() string { return string(t) }
