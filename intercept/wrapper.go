package intercept

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"
)

// Wrapped is implemented by *Wrapper and by every façade built around one.
type Wrapped interface {
	Interceptor() *Wrapper
}

// WrapperOf returns the wrapper behind v, or nil when v is not a wrapper.
// Nil pointers to façades yield nil instead of panicking in Interceptor.
func WrapperOf(v any) *Wrapper {
	w, ok := v.(Wrapped)
	if !ok {
		return nil
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Ptr && rv.IsNil() {
		return nil
	}
	return w.Interceptor()
}

// Wrapper stands in for exactly one raw handle. It routes every call through
// the interception procedure of Call and keeps the display name used in step
// titles.
type Wrapper struct {
	sess   *Session
	kind   Kind
	facade Wrapped

	mu sync.RWMutex
	// raw changes only when a locator description is pushed into it.
	raw any
	// origin is the raw handle's own string form at construction.
	origin    string
	name      string
	parent    string
	hasParent bool
}

var _ Wrapped = &Wrapper{}

func newWrapper(s *Session, raw any, k Kind, producer *Wrapper) *Wrapper {
	w := &Wrapper{
		sess:   s,
		kind:   k,
		raw:    raw,
		origin: fmt.Sprint(raw),
	}
	w.name = defaultName(raw, k, w.origin)
	if f, ok := s.facades[k]; ok {
		w.facade = f(w)
	}
	if k == KindLocator {
		if producer != nil && producer.kind == KindLocator {
			w.parent = producer.Name()
			w.hasParent = true
		}
		w.Describe("")
	}

	s.logger.WithFields(logrus.Fields{
		"kind": k.String(),
		"name": w.name,
	}).Debug("wrapped handle")

	return w
}

func defaultName(raw any, k Kind, origin string) string {
	switch k { //nolint:exhaustive
	case KindBrowser:
		return browserName(raw)
	case KindContext:
		return "context"
	case KindPage:
		return "page"
	case KindRequest:
		return "request"
	default:
		return origin
	}
}

// browserName is the name of the browser's engine, e.g. "chromium".
func browserName(raw any) string {
	bt := reflect.ValueOf(raw).MethodByName("BrowserType")
	if !bt.IsValid() || bt.Type().NumIn() != 0 || bt.Type().NumOut() == 0 {
		return "browser"
	}
	typ := bt.Call(nil)[0]
	if typ.Kind() == reflect.Interface || typ.Kind() == reflect.Ptr {
		if typ.IsNil() {
			return "browser"
		}
	}
	name := typ.MethodByName("Name")
	if !name.IsValid() || name.Type().NumIn() != 0 || name.Type().NumOut() == 0 ||
		name.Type().Out(0).Kind() != reflect.String {
		return "browser"
	}
	if n := name.Call(nil)[0].String(); n != "" {
		return n
	}
	return "browser"
}

// Interceptor returns w.
func (w *Wrapper) Interceptor() *Wrapper { return w }

// Facade returns the typed façade of w, or w when its kind has none.
func (w *Wrapper) Facade() Wrapped {
	if w.facade != nil {
		return w.facade
	}
	return w
}

// Session returns the session w belongs to.
func (w *Wrapper) Session() *Session { return w.sess }

// Kind returns the kind of the wrapped handle.
func (w *Wrapper) Kind() Kind { return w.kind }

// Raw returns the wrapped handle.
func (w *Wrapper) Raw() any {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.raw
}

// Name returns the current display name.
func (w *Wrapper) Name() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.name
}

// ParentName returns the display name the parent locator held when w was
// derived from it.
func (w *Wrapper) ParentName() (string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.parent, w.hasParent
}

// String returns the display name, so wrappers print as their name in step
// titles.
func (w *Wrapper) String() string { return w.Name() }

// Describe sets the display name and returns w.
//
// For locators with chaining enabled the name becomes "<parent> > <text>",
// or just the parent's name when text is empty. The composed name is also
// pushed into the raw locator when it can be described. Without a parent, and
// with chaining disabled, an empty text resets the name to the raw handle's
// own string form.
func (w *Wrapper) Describe(text string) *Wrapper {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.kind != KindLocator {
		w.name = text
		return w
	}
	if !w.sess.chain {
		w.name = text
		if text == "" {
			w.name = w.origin
		}
		return w
	}

	var name string
	switch {
	case w.hasParent && text == "":
		name = w.parent
	case w.hasParent:
		name = w.parent + " > " + text
	default:
		name = text
	}
	if name == "" {
		w.name = w.origin
		return w
	}
	w.name = name
	w.label(name)
	return w
}

// label calls Describe(name) on the raw handle, if it has one, and keeps the
// returned handle. Must be called with w.mu held.
func (w *Wrapper) label(name string) {
	m := reflect.ValueOf(w.raw).MethodByName("Describe")
	if !m.IsValid() {
		return
	}
	mt := m.Type()
	if mt.NumIn() != 1 || mt.In(0).Kind() != reflect.String || mt.NumOut() == 0 {
		return
	}
	out := m.Call([]reflect.Value{reflect.ValueOf(name).Convert(mt.In(0))})[0]
	switch out.Kind() { //nolint:exhaustive
	case reflect.Interface, reflect.Ptr:
		if out.IsNil() {
			return
		}
	}
	if out.CanInterface() {
		w.raw = out.Interface()
	}
}
