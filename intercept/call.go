package intercept

import (
	"fmt"
	"reflect"

	"github.com/sirupsen/logrus"

	"github.com/liuxd6825/steplog/errext"
)

// ownMembers are resolved on the wrapper itself and are never shadowed by
// extensions or by the raw handle.
var ownMembers = map[string]bool{ //nolint:gochecknoglobals
	"Describe": true,
	"Kind":     true,
	"Name":     true,
	"Raw":      true,
	"String":   true,
}

var errorType = reflect.TypeOf((*error)(nil)).Elem() //nolint:gochecknoglobals

// Call invokes method on the wrapped handle.
//
// The wrapper's own members come first, then the extensions configured for
// the handle's kind, then the raw handle. Arguments are unwrapped before they
// reach the raw handle; results are wrapped again when they are handles. When
// a logging rule exists for the method, the call runs inside a step titled by
// the rule from the current display name and the arguments as given.
//
// A trailing error result of the raw method is returned as the error and is
// not part of the returned values.
func (w *Wrapper) Call(method string, args ...any) ([]any, error) {
	if ownMembers[method] {
		return w.callOwn(method, args)
	}
	if ext := w.sess.extension(w.kind, method); ext != nil {
		return ext(w, args...)
	}
	fn, err := w.resolve(method)
	if err != nil {
		return nil, err
	}
	return w.invoke(method, fn, args)
}

// Get returns the member of the raw handle called name. Fields are returned
// normalized; methods and func fields are returned as a function that calls
// them through Call.
func (w *Wrapper) Get(name string) (any, error) {
	if ownMembers[name] || w.sess.extension(w.kind, name) != nil {
		return w.bound(name), nil
	}
	raw := reflect.ValueOf(w.Raw())
	if raw.IsValid() && raw.MethodByName(name).IsValid() {
		return w.bound(name), nil
	}
	f, ok := field(raw, name)
	if !ok {
		return nil, w.unknown(name)
	}
	if f.Kind() == reflect.Func {
		return w.bound(name), nil
	}
	if !f.CanInterface() {
		return nil, w.unknown(name)
	}
	return w.sess.normalize(f.Interface(), w), nil
}

func (w *Wrapper) bound(name string) func(args ...any) ([]any, error) {
	return func(args ...any) ([]any, error) {
		return w.Call(name, args...)
	}
}

func (w *Wrapper) callOwn(method string, args []any) ([]any, error) {
	switch method {
	case "Describe":
		var text string
		if len(args) > 0 {
			s, ok := args[0].(string)
			if !ok {
				return nil, fmt.Errorf("%w: Describe expects a string, got %T", ErrArgument, args[0])
			}
			text = s
		}
		return []any{w.Describe(text).Facade()}, nil
	case "Kind":
		return []any{w.kind}, nil
	case "Raw":
		return []any{w.Raw()}, nil
	default:
		return []any{w.Name()}, nil
	}
}

func (w *Wrapper) resolve(member string) (reflect.Value, error) {
	raw := reflect.ValueOf(w.Raw())
	if !raw.IsValid() {
		return reflect.Value{}, w.unknown(member)
	}
	if m := raw.MethodByName(member); m.IsValid() {
		return m, nil
	}
	f, ok := field(raw, member)
	if !ok {
		return reflect.Value{}, w.unknown(member)
	}
	if f.Kind() != reflect.Func || f.IsNil() {
		return reflect.Value{}, fmt.Errorf("%w: %s.%s", ErrNotCallable, w.kind, member)
	}
	return f, nil
}

func (w *Wrapper) unknown(member string) error {
	return errext.WithHint(
		fmt.Errorf("%w: %s has no member %q", ErrUnknownMember, w.kind, member),
		"members are Go method or field names, e.g. \"Click\" rather than \"click\"",
	)
}

func (w *Wrapper) invoke(method string, fn reflect.Value, args []any) ([]any, error) {
	in, spread, err := prepare(fn.Type(), Sanitize(args))
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", w.kind, method, err)
	}

	body := func() ([]any, error) {
		var out []reflect.Value
		if spread {
			out = fn.CallSlice(in)
		} else {
			out = fn.Call(in)
		}
		results, err := split(out)
		if err != nil {
			return nil, err
		}
		for i := range results {
			results[i] = w.sess.normalize(results[i], w)
		}
		return results, nil
	}

	rule := w.sess.rule(w.kind, method)
	logger := w.sess.logger.WithFields(logrus.Fields{
		"kind":   w.kind.String(),
		"method": method,
		"name":   w.Name(),
	})
	if rule == nil {
		logger.Debug("calling through")
		return body()
	}
	title := rule(w.Name(), args...)
	logger.WithField("step", title).Debug("calling in step")
	return w.sess.stepper.Step(title, w.sess.callSite(), body)
}

// prepare converts args to the parameter types of a function of type t.
// spread is true when the last argument already is the variadic slice.
func prepare(t reflect.Type, args []any) (in []reflect.Value, spread bool, err error) {
	n := t.NumIn()
	variadic := t.IsVariadic()
	switch {
	case !variadic && len(args) != n:
		return nil, false, fmt.Errorf("%w: want %d arguments, got %d", ErrArgument, n, len(args))
	case variadic && len(args) < n-1:
		return nil, false, fmt.Errorf("%w: want at least %d arguments, got %d", ErrArgument, n-1, len(args))
	}

	if variadic && len(args) == n {
		last := args[n-1]
		if last == nil || reflect.TypeOf(last).AssignableTo(t.In(n-1)) {
			spread = true
		}
	}

	in = make([]reflect.Value, len(args))
	for i, a := range args {
		pt := paramType(t, i, variadic, spread)
		v, err := argValue(a, pt)
		if err != nil {
			return nil, false, fmt.Errorf("argument %d: %w", i, err)
		}
		in[i] = v
	}
	return in, spread, nil
}

func paramType(t reflect.Type, i int, variadic, spread bool) reflect.Type {
	last := t.NumIn() - 1
	if variadic && i >= last && !spread {
		return t.In(last).Elem()
	}
	return t.In(i)
}

func argValue(a any, pt reflect.Type) (reflect.Value, error) {
	if a == nil {
		switch pt.Kind() { //nolint:exhaustive
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(pt), nil
		default:
			return reflect.Value{}, fmt.Errorf("%w: nil is not a %s", ErrArgument, pt)
		}
	}
	v := reflect.ValueOf(a)
	if v.Type().AssignableTo(pt) {
		return v, nil
	}
	if convertible(v.Type(), pt) {
		return v.Convert(pt), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: %T is not a %s", ErrArgument, a, pt)
}

// convertible allows numeric conversions and conversions between named and
// unnamed strings, but not int to string.
func convertible(from, to reflect.Type) bool {
	if !from.ConvertibleTo(to) {
		return false
	}
	switch {
	case isNumber(from.Kind()) && isNumber(to.Kind()):
		return true
	case from.Kind() == reflect.String && to.Kind() == reflect.String:
		return true
	default:
		return false
	}
}

func isNumber(k reflect.Kind) bool {
	return (k >= reflect.Int && k <= reflect.Uint64) || k == reflect.Float32 || k == reflect.Float64
}

// split separates a trailing error result from the other results.
func split(out []reflect.Value) ([]any, error) {
	var err error
	if n := len(out); n > 0 && out[n-1].Type().Implements(errorType) && out[n-1].Type().Kind() == reflect.Interface {
		if e := out[n-1]; !e.IsNil() {
			err, _ = e.Interface().(error)
		}
		out = out[:n-1]
	}
	results := make([]any, len(out))
	for i, v := range out {
		results[i] = v.Interface()
	}
	return results, err
}

func field(v reflect.Value, name string) (reflect.Value, bool) {
	for v.IsValid() && (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	if !v.IsValid() || v.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	sf, ok := v.Type().FieldByName(name)
	if !ok || !sf.IsExported() {
		return reflect.Value{}, false
	}
	f, err := v.FieldByIndexErr(sf.Index)
	if err != nil {
		return reflect.Value{}, false
	}
	return f, true
}
