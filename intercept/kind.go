package intercept

import (
	"fmt"
	"reflect"
	"strings"
)

// Kind is the structural category of a handle.
type Kind uint8

// Handle kinds. KindNone marks values that are passed through untouched.
const (
	KindNone Kind = iota
	KindBrowser
	KindContext
	KindPage
	KindLocator
	KindRequest
)

// Kinds lists every wrappable kind.
var Kinds = []Kind{KindBrowser, KindContext, KindPage, KindLocator, KindRequest} //nolint:gochecknoglobals

var kindNames = [...]string{"none", "browser", "context", "page", "locator", "request"} //nolint:gochecknoglobals

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// ParseKind returns the kind named s, case-insensitively.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(k.String(), s) {
			return k, nil
		}
	}
	return KindNone, fmt.Errorf("unknown handle kind %q, expected one of browser, context, page, locator, request", s)
}

// Classify reports which kind of handle v structurally resembles, judged by
// the names in its method set. Wrappers classify as the kind they wrap.
//
// Page and Locator share most of their methods; they are told apart by Goto,
// which a locator must not have.
func Classify(v any) Kind {
	t, ok := methodSet(v)
	if !ok {
		return KindNone
	}
	if w := WrapperOf(v); w != nil {
		return w.Kind()
	}

	var (
		isPage    = has(t, "Goto") && has(t, "Locator")
		isLocator = has(t, "Locator") && has(t, "Fill") && !has(t, "Goto")
	)
	switch {
	case has(t, "NewContext"):
		return KindBrowser
	case has(t, "AddCookies"):
		return KindContext
	case isPage:
		return KindPage
	case isLocator:
		return KindLocator
	case has(t, "Fetch"):
		return KindRequest
	default:
		return KindNone
	}
}

func methodSet(v any) (reflect.Type, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() { //nolint:exhaustive
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return nil, false
		}
	}
	t := rv.Type()
	if t.NumMethod() == 0 {
		return nil, false
	}
	return t, true
}

func has(t reflect.Type, method string) bool {
	_, ok := t.MethodByName(method)
	return ok
}

func isHandle(v reflect.Value) bool {
	if !v.IsValid() || !v.CanInterface() {
		return false
	}
	return Classify(v.Interface()) != KindNone
}
