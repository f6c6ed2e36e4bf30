package browser

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liuxd6825/steplog/api"
	"github.com/liuxd6825/steplog/intercept"
	"github.com/liuxd6825/steplog/internal/browsertest"
)

// ownMappings lists api methods served by the wrapper itself instead of
// being routed through Call.
func ownMappings() map[string]bool {
	return map[string]bool{
		"locator.Describe": true,
		"locator.String":   true,
	}
}

// TestMappings tests that every method of the api interfaces is routed
// through the interceptor under its own name, so no method escapes logging
// rules and extensions.
func TestMappings(t *testing.T) {
	t.Parallel()

	type test struct {
		apiInterface any
		kind         intercept.Kind
		raw          func(e *browsertest.Engine) any
	}

	for name, tt := range map[string]test{
		"browser": {
			apiInterface: (*api.Browser)(nil),
			kind:         intercept.KindBrowser,
			raw:          func(e *browsertest.Engine) any { return e.Browser("chromium") },
		},
		"context": {
			apiInterface: (*api.BrowserContext)(nil),
			kind:         intercept.KindContext,
			raw: func(e *browsertest.Engine) any {
				c, _ := e.Browser("chromium").NewContext(nil)
				return c
			},
		},
		"page": {
			apiInterface: (*api.Page)(nil),
			kind:         intercept.KindPage,
			raw: func(e *browsertest.Engine) any {
				p, _ := e.Browser("chromium").NewPage(nil)
				return p
			},
		},
		"locator": {
			apiInterface: (*api.Locator)(nil),
			kind:         intercept.KindLocator,
			raw: func(e *browsertest.Engine) any {
				p, _ := e.Browser("chromium").NewPage(nil)
				return p.Locator("#a", nil)
			},
		},
		"request": {
			apiInterface: (*api.APIRequestContext)(nil),
			kind:         intercept.KindRequest,
			raw:          func(e *browsertest.Engine) any { return e.NewRequest() },
		},
	} {
		name, tt := name, tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var (
				typ    = reflect.TypeOf(tt.apiInterface).Elem()
				routed []string
				exts   = intercept.Extensions{}
			)
			for i := 0; i < typ.NumMethod(); i++ {
				m := typ.Method(i).Name
				exts[m] = func(w *intercept.Wrapper, args ...any) ([]any, error) {
					routed = append(routed, m)
					return nil, nil
				}
			}

			sess := NewSession(Options{Config: intercept.Config{
				Extensions: map[intercept.Kind]intercept.Extensions{tt.kind: exts},
			}})
			facade := reflect.ValueOf(sess.WrapAs(tt.raw(browsertest.New()), tt.kind).Facade())
			require.True(t, facade.Type().Implements(typ), "%s does not implement %s", facade.Type(), typ)

			own := ownMappings()
			for i := 0; i < typ.NumMethod(); i++ {
				method := typ.Method(i)
				if own[name+"."+method.Name] {
					continue
				}
				routed = nil
				m := facade.MethodByName(method.Name)
				m.Call(zeroArgs(m.Type()))
				if len(routed) != 1 || routed[0] != method.Name {
					t.Errorf("method %q routed as %v", method.Name, routed)
				}
			}
		})
	}
}

func zeroArgs(t reflect.Type) []reflect.Value {
	n := t.NumIn()
	if t.IsVariadic() {
		n--
	}
	in := make([]reflect.Value, n)
	for i := range in {
		in[i] = reflect.Zero(t.In(i))
	}
	return in
}
