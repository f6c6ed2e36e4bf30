package js

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/dop251/goja"
	"github.com/serenize/snaker"

	"github.com/liuxd6825/steplog/expect"
	"github.com/liuxd6825/steplog/intercept"
)

type awaiter interface {
	Await(ctx context.Context) (any, error)
}

var ownNames = []string{"Describe", "Kind", "Name", "Raw", "String"} //nolint:gochecknoglobals

// handleObject exposes an intercepted handle to scripts. Every member is
// looked up on the interceptor, so script calls take the same path as Go
// calls on the façade.
type handleObject struct {
	r *Runner
	h intercept.Wrapped
}

var _ goja.DynamicObject = &handleObject{}

func (o *handleObject) Get(key string) goja.Value {
	w := o.h.Interceptor()
	if key == "toString" {
		return o.r.rt.ToValue(func() string { return w.Name() })
	}
	name := o.goName(key)
	m, err := w.Get(name)
	if err != nil {
		return goja.Undefined()
	}
	fn, ok := m.(func(args ...any) ([]any, error))
	if !ok {
		return o.r.toValue(m)
	}
	ft := o.funcType(name)
	return o.r.rt.ToValue(func(call goja.FunctionCall) goja.Value {
		args, err := o.r.arguments(call.Arguments, ft)
		if err != nil {
			o.r.throw(fmt.Errorf("%s.%s: %w", w.Kind(), name, err))
		}
		out, err := fn(args...)
		if err != nil {
			o.r.throw(err)
		}
		return o.r.results(out)
	})
}

func (o *handleObject) Set(string, goja.Value) bool { return false }

func (o *handleObject) Has(key string) bool {
	_, ok := goName(key, o.names())
	return ok || key == "toString"
}

func (o *handleObject) Delete(string) bool { return false }

func (o *handleObject) Keys() []string {
	names := o.names()
	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = jsName(name)
	}
	return keys
}

func (o *handleObject) goName(key string) string {
	if name, ok := goName(key, o.names()); ok {
		return name
	}
	return snaker.SnakeToCamel(key)
}

// names lists the members of the wrapper and of the raw handle.
func (o *handleObject) names() []string {
	raw := o.h.Interceptor().Raw()
	t := reflect.TypeOf(raw)
	if t == nil {
		return ownNames
	}
	if names, ok := o.r.members[t]; ok {
		return names
	}
	names := append([]string(nil), ownNames...)
	for i := 0; i < t.NumMethod(); i++ {
		names = append(names, t.Method(i).Name)
	}
	st := t
	if st.Kind() == reflect.Ptr {
		st = st.Elem()
	}
	if st.Kind() == reflect.Struct {
		for i := 0; i < st.NumField(); i++ {
			if f := st.Field(i); f.IsExported() && !f.Anonymous {
				names = append(names, f.Name)
			}
		}
	}
	o.r.members[t] = names
	return names
}

// funcType returns the type of the raw method or func field called name,
// or nil when the member is not on the raw handle.
func (o *handleObject) funcType(name string) reflect.Type {
	raw := reflect.ValueOf(o.h.Interceptor().Raw())
	if !raw.IsValid() {
		return nil
	}
	if m := raw.MethodByName(name); m.IsValid() {
		return m.Type()
	}
	for raw.Kind() == reflect.Ptr || raw.Kind() == reflect.Interface {
		if raw.IsNil() {
			return nil
		}
		raw = raw.Elem()
	}
	if raw.Kind() != reflect.Struct {
		return nil
	}
	if f := raw.FieldByName(name); f.IsValid() && f.Kind() == reflect.Func {
		return f.Type()
	}
	return nil
}

// pendingObject is a result that settles later; await() blocks until it does.
type pendingObject struct {
	r *Runner
	p awaiter
}

func (o *pendingObject) Get(key string) goja.Value {
	switch key {
	case "await":
		return o.r.rt.ToValue(func() goja.Value {
			v, err := o.p.Await(o.r.ctx)
			if err != nil {
				o.r.throw(err)
			}
			return o.r.toValue(v)
		})
	case "toString":
		return o.r.rt.ToValue(func() string { return "[pending]" })
	default:
		return goja.Undefined()
	}
}

func (o *pendingObject) Set(string, goja.Value) bool { return false }
func (o *pendingObject) Has(key string) bool          { return key == "await" }
func (o *pendingObject) Delete(string) bool           { return false }
func (o *pendingObject) Keys() []string               { return []string{"await"} }

// assertionObject exposes an assertion. Any member other than not is a
// matcher.
type assertionObject struct {
	r *Runner
	a *expect.Assertion
}

func (o *assertionObject) Get(key string) goja.Value {
	switch key {
	case "not":
		return o.r.rt.NewDynamicObject(&assertionObject{r: o.r, a: o.a.Not()})
	case "toString":
		return o.r.rt.ToValue(func() string { return fmt.Sprintf("expect(%v)", o.a.Subject()) })
	}
	name := snaker.SnakeToCamel(key)
	return o.r.rt.ToValue(func(call goja.FunctionCall) goja.Value {
		args := make([]any, len(call.Arguments))
		for i, v := range call.Arguments {
			args[i] = o.r.export(v)
		}
		if err := o.a.Call(name, args...); err != nil {
			o.r.throw(err)
		}
		return goja.Undefined()
	})
}

func (o *assertionObject) Set(string, goja.Value) bool { return false }
func (o *assertionObject) Has(string) bool             { return true }
func (o *assertionObject) Delete(string) bool          { return false }
func (o *assertionObject) Keys() []string              { return []string{"not"} }

// toValue converts a Go result for the script. Handles keep their identity
// across calls.
func (r *Runner) toValue(v any) goja.Value {
	switch tv := v.(type) {
	case nil:
		return goja.Null()
	case goja.Value:
		return tv
	case intercept.Wrapped:
		if obj, ok := r.handles[tv]; ok {
			return obj
		}
		obj := r.rt.NewDynamicObject(&handleObject{r: r, h: tv})
		r.handles[tv] = obj
		return obj
	case *expect.Assertion:
		return r.rt.NewDynamicObject(&assertionObject{r: r, a: tv})
	case awaiter:
		return r.rt.NewDynamicObject(&pendingObject{r: r, p: tv})
	case []byte:
		return r.rt.ToValue(r.rt.NewArrayBuffer(tv))
	}

	rv := reflect.ValueOf(v)
	if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Type().Elem().Kind() == reflect.Interface {
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return goja.Null()
		}
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = r.toValue(rv.Index(i).Interface())
		}
		return r.rt.NewArray(items...)
	}
	return r.rt.ToValue(v)
}

func (r *Runner) results(out []any) goja.Value {
	switch len(out) {
	case 0:
		return goja.Undefined()
	case 1:
		return r.toValue(out[0])
	}
	items := make([]any, len(out))
	for i, v := range out {
		items[i] = r.toValue(v)
	}
	return r.rt.NewArray(items...)
}

// export converts a script value to Go, turning the objects of this file
// back into what they expose.
func (r *Runner) export(v goja.Value) any {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	return unwrapExported(v.Export())
}

func unwrapExported(v any) any {
	switch tv := v.(type) {
	case *handleObject:
		return tv.h
	case *pendingObject:
		return tv.p
	case *assertionObject:
		return tv.a
	case goja.ArrayBuffer:
		return tv.Bytes()
	case map[string]any:
		for k, e := range tv {
			tv[k] = unwrapExported(e)
		}
		return tv
	case []any:
		for i, e := range tv {
			tv[i] = unwrapExported(e)
		}
		return tv
	default:
		return v
	}
}

// arguments exports args and converts them to the parameters of ft. Missing
// trailing arguments are filled with zero values. Without ft the exported
// values are returned as they are.
func (r *Runner) arguments(args []goja.Value, ft reflect.Type) ([]any, error) {
	exported := make([]any, len(args))
	for i, v := range args {
		exported[i] = r.export(v)
	}
	if ft == nil {
		return exported, nil
	}

	fixed := ft.NumIn()
	if ft.IsVariadic() {
		fixed--
	}
	out := make([]any, 0, max(fixed, len(exported)))
	for i := 0; i < fixed; i++ {
		pt := ft.In(i)
		if i >= len(exported) {
			out = append(out, reflect.Zero(pt).Interface())
			continue
		}
		v, err := convert(exported[i], pt)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out = append(out, v.Interface())
	}
	if !ft.IsVariadic() {
		return append(out, exported[min(fixed, len(exported)):]...), nil
	}
	et := ft.In(fixed).Elem()
	for i := fixed; i < len(exported); i++ {
		v, err := convert(exported[i], et)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out = append(out, v.Interface())
	}
	return out, nil
}

var durationType = reflect.TypeOf(time.Duration(0)) //nolint:gochecknoglobals

// convert turns an exported script value into a value of type t. Objects
// fill structs by their script field names and numbers become durations in
// milliseconds.
func convert(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(t), nil
	}
	rv := reflect.ValueOf(v)
	if t == durationType && isNumeric(rv.Kind()) {
		ms := rv.Convert(reflect.TypeOf(float64(0))).Float()
		return reflect.ValueOf(time.Duration(ms * float64(time.Millisecond))), nil
	}
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}

	switch t.Kind() { //nolint:exhaustive
	case reflect.Ptr:
		elem, err := convert(v, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(elem)
		return p, nil
	case reflect.Struct:
		if m, ok := v.(map[string]any); ok {
			return convertStruct(m, t)
		}
	case reflect.Slice:
		if items, ok := v.([]any); ok {
			s := reflect.MakeSlice(t, len(items), len(items))
			for i, item := range items {
				e, err := convert(item, t.Elem())
				if err != nil {
					return reflect.Value{}, fmt.Errorf("[%d]: %w", i, err)
				}
				s.Index(i).Set(e)
			}
			return s, nil
		}
	case reflect.Map:
		if m, ok := v.(map[string]any); ok && t.Key().Kind() == reflect.String {
			out := reflect.MakeMapWithSize(t, len(m))
			for k, item := range m {
				e, err := convert(item, t.Elem())
				if err != nil {
					return reflect.Value{}, fmt.Errorf("%s: %w", k, err)
				}
				out.SetMapIndex(reflect.ValueOf(k).Convert(t.Key()), e)
			}
			return out, nil
		}
	case reflect.String:
		if rv.Kind() == reflect.String {
			return rv.Convert(t), nil
		}
	}
	if isNumeric(rv.Kind()) && isNumeric(t.Kind()) {
		return rv.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %T as %s", v, t)
}

func convertStruct(m map[string]any, t reflect.Type) (reflect.Value, error) {
	s := reflect.New(t).Elem()
	var mapper FieldNameMapper
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := mapper.FieldName(t, f)
		if name == "" {
			continue
		}
		item, ok := m[name]
		if !ok {
			continue
		}
		v, err := convert(item, f.Type)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%s: %w", name, err)
		}
		s.Field(i).Set(v)
	}
	return s, nil
}

func isNumeric(k reflect.Kind) bool {
	return (k >= reflect.Int && k <= reflect.Uint64) || k == reflect.Float32 || k == reflect.Float64
}
