package browser

import (
	"context"
	"errors"
	"strings"

	"github.com/liuxd6825/steplog/intercept"
)

// CallError carries an error out of a façade method that has no error result.
// Façades panic with it; the script runner recovers it and throws the
// wrapped error into the script.
type CallError struct {
	Method string
	Err    error
}

func (e *CallError) Unwrap() error { return e.Err }

func (e *CallError) Error() string {
	switch {
	default:
		return e.Method + ": " + e.Err.Error()
	case e.Err == nil:
		return e.Method
	case errors.Is(e.Err, context.DeadlineExceeded):
		return e.Method + ": " + strings.ReplaceAll(e.Err.Error(), context.DeadlineExceeded.Error(), "timed out")
	case errors.Is(e.Err, context.Canceled):
		return e.Method + ": canceled"
	}
}

// call invokes method and discards its results.
func call(w *intercept.Wrapper, method string, args ...any) error {
	_, err := w.Call(method, args...)
	return err //nolint:wrapcheck
}

// call1 invokes method and returns its first result as a T.
func call1[T any](w *intercept.Wrapper, method string, args ...any) (T, error) {
	var zero T
	out, err := w.Call(method, args...)
	if err != nil {
		return zero, err //nolint:wrapcheck
	}
	return first[T](out), nil
}

// must1 is call1 for methods that do not return an error.
func must1[T any](w *intercept.Wrapper, method string, args ...any) T {
	v, err := call1[T](w, method, args...)
	if err != nil {
		panic(&CallError{Method: w.Kind().String() + "." + method, Err: err})
	}
	return v
}

func first[T any](out []any) T {
	var zero T
	if len(out) == 0 || out[0] == nil {
		return zero
	}
	v, ok := out[0].(T)
	if !ok {
		return zero
	}
	return v
}
