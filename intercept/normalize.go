package intercept

import (
	"context"
	"reflect"
)

type awaiter interface {
	Await(ctx context.Context) (any, error)
}

// Normalize wraps every handle found in v: v itself, the elements of a
// slice or array, or the eventual value of a pending result. Wrappers and
// values of no known kind are returned unchanged.
func (s *Session) Normalize(v any) any {
	return s.normalize(v, nil)
}

// normalize is Normalize for the results of a call on producer. Locators
// derived from a locator remember the producer's display name as their
// parent name.
func (s *Session) normalize(v any, producer *Wrapper) any {
	if v == nil {
		return nil
	}
	switch tv := v.(type) {
	case Wrapped:
		return v
	case *pending:
		return v
	case awaiter:
		if Classify(v) == KindNone {
			return &pending{inner: tv, sess: s, producer: producer}
		}
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() { //nolint:exhaustive
	case reflect.Slice:
		if rv.IsNil() {
			return v
		}
		return s.normalizeList(rv, producer)
	case reflect.Array:
		return s.normalizeList(rv, producer)
	}

	if k := Classify(v); k != KindNone {
		return newWrapper(s, v, k, producer).Facade()
	}
	return v
}

func (s *Session) normalizeList(rv reflect.Value, producer *Wrapper) any {
	elem := rv.Type().Elem()
	if !mayHoldHandle(elem) {
		return rv.Interface()
	}

	n := rv.Len()
	values := make([]any, n)
	fits := true
	for i := 0; i < n; i++ {
		e := rv.Index(i)
		if !e.CanInterface() {
			return rv.Interface()
		}
		values[i] = s.normalize(e.Interface(), producer)
		if values[i] != nil && !reflect.TypeOf(values[i]).AssignableTo(elem) {
			fits = false
		}
	}
	if !fits {
		return values
	}

	var out reflect.Value
	if rv.Kind() == reflect.Array {
		out = reflect.New(rv.Type()).Elem()
	} else {
		out = reflect.MakeSlice(rv.Type(), n, n)
	}
	for i, v := range values {
		if v == nil {
			continue
		}
		out.Index(i).Set(reflect.ValueOf(v))
	}
	return out.Interface()
}

func mayHoldHandle(t reflect.Type) bool {
	switch t.Kind() { //nolint:exhaustive
	case reflect.Interface, reflect.Ptr, reflect.Struct, reflect.Slice, reflect.Array, reflect.Map:
		return true
	default:
		return false
	}
}

// pending normalizes the value of a pending result once it settles.
type pending struct {
	inner    awaiter
	sess     *Session
	producer *Wrapper
}

// Await waits for the original result and wraps it.
func (p *pending) Await(ctx context.Context) (any, error) {
	v, err := p.inner.Await(ctx)
	if err != nil {
		return v, err
	}
	return p.sess.normalize(v, p.producer), nil
}
