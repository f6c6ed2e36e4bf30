package intercept

import (
	"reflect"
)

// Sanitize returns args with every wrapper replaced by its raw handle.
//
// Wrappers are searched through interfaces, pointers, structs (exported
// fields), slices, arrays and maps. An argument whose graph holds no wrapper
// is returned as is. Otherwise its graph is copied, so the caller's values are
// never modified; shared and cyclic references map to a single copy.
// Raw handles are never descended into.
func Sanitize(args []any) []any {
	if len(args) == 0 {
		return args
	}
	s := &sanitizer{copies: make(map[visit]reflect.Value)}
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = s.arg(a)
	}
	return out
}

type visit struct {
	ptr uintptr
	typ reflect.Type
	len int
}

type sanitizer struct {
	copies map[visit]reflect.Value
}

func (s *sanitizer) arg(a any) any {
	if a == nil {
		return nil
	}
	if w, ok := unwrapValue(reflect.ValueOf(a)); ok {
		return w.Raw()
	}
	v := reflect.ValueOf(a)
	if !contains(v, make(map[visit]bool)) {
		return a
	}
	c := s.copy(v)
	if !c.IsValid() || !c.CanInterface() {
		return a
	}
	return c.Interface()
}

// unwrapValue returns the wrapper held by v, if any.
func unwrapValue(v reflect.Value) (*Wrapper, bool) {
	for v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}
	if !v.IsValid() || !v.CanInterface() {
		return nil, false
	}
	if v.Kind() == reflect.Ptr && v.IsNil() {
		return nil, false
	}
	iw := WrapperOf(v.Interface())
	return iw, iw != nil
}

// contains reports whether a wrapper is reachable from v.
func contains(v reflect.Value, seen map[visit]bool) bool {
	if !v.IsValid() {
		return false
	}
	if _, ok := unwrapValue(v); ok {
		return true
	}
	if isHandle(v) {
		return false
	}

	switch v.Kind() { //nolint:exhaustive
	case reflect.Interface:
		return !v.IsNil() && contains(v.Elem(), seen)
	case reflect.Ptr:
		if v.IsNil() {
			return false
		}
		key := visit{ptr: v.Pointer(), typ: v.Type()}
		if seen[key] {
			return false
		}
		seen[key] = true
		return contains(v.Elem(), seen)
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if v.Type().Field(i).IsExported() && contains(v.Field(i), seen) {
				return true
			}
		}
	case reflect.Slice:
		if v.IsNil() {
			return false
		}
		key := visit{ptr: v.Pointer(), typ: v.Type(), len: v.Len()}
		if seen[key] {
			return false
		}
		seen[key] = true
		fallthrough
	case reflect.Array:
		if !mayHoldHandle(v.Type().Elem()) {
			return false
		}
		for i := 0; i < v.Len(); i++ {
			if contains(v.Index(i), seen) {
				return true
			}
		}
	case reflect.Map:
		if v.IsNil() {
			return false
		}
		key := visit{ptr: v.Pointer(), typ: v.Type()}
		if seen[key] {
			return false
		}
		seen[key] = true
		iter := v.MapRange()
		for iter.Next() {
			if contains(iter.Value(), seen) {
				return true
			}
		}
	}
	return false
}

// copy returns a copy of v's graph with wrappers replaced by raw handles.
// The result may have a different type than v only where a wrapper was
// replaced; fit decides whether it can take v's place.
func (s *sanitizer) copy(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}
	if w, ok := unwrapValue(v); ok {
		raw := reflect.ValueOf(w.Raw())
		if !raw.IsValid() {
			return reflect.Zero(v.Type())
		}
		return raw
	}
	if isHandle(v) {
		return v
	}

	switch v.Kind() { //nolint:exhaustive
	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(fit(s.copy(v.Elem()), v.Elem()))
		return out
	case reflect.Ptr:
		if v.IsNil() {
			return v
		}
		key := visit{ptr: v.Pointer(), typ: v.Type()}
		if c, ok := s.copies[key]; ok {
			return c
		}
		out := reflect.New(v.Type().Elem())
		s.copies[key] = out
		out.Elem().Set(fit(s.copy(v.Elem()), v.Elem()))
		return out
	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		for i := 0; i < v.NumField(); i++ {
			if !v.Type().Field(i).IsExported() {
				continue
			}
			f := v.Field(i)
			out.Field(i).Set(fit(s.copy(f), f))
		}
		return out
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		key := visit{ptr: v.Pointer(), typ: v.Type(), len: v.Len()}
		if c, ok := s.copies[key]; ok {
			return c
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		s.copies[key] = out
		for i := 0; i < v.Len(); i++ {
			e := v.Index(i)
			out.Index(i).Set(fit(s.copy(e), e))
		}
		return out
	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			e := v.Index(i)
			out.Index(i).Set(fit(s.copy(e), e))
		}
		return out
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		key := visit{ptr: v.Pointer(), typ: v.Type()}
		if c, ok := s.copies[key]; ok {
			return c
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		s.copies[key] = out
		iter := v.MapRange()
		for iter.Next() {
			val := iter.Value()
			out.SetMapIndex(iter.Key(), fit(s.copy(val), val))
		}
		return out
	}
	return v
}

// fit returns c when it can be stored where orig was, else orig.
func fit(c, orig reflect.Value) reflect.Value {
	if c.IsValid() && c.Type().AssignableTo(orig.Type()) {
		return c
	}
	return orig
}
