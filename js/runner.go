// Package js runs step scripts with goja. Intercepted handles set on the
// runner are exposed with their methods under script names, so
// page.getByRole("button").click() goes through the same interception as
// the Go call.
package js

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/dop251/goja"
	"github.com/sirupsen/logrus"

	"github.com/liuxd6825/steplog/browser"
	"github.com/liuxd6825/steplog/errext"
	"github.com/liuxd6825/steplog/errext/exitcodes"
	"github.com/liuxd6825/steplog/expect"
	"github.com/liuxd6825/steplog/intercept"
)

// Options configures a Runner.
type Options struct {
	// Logger receives console output.
	Logger logrus.FieldLogger
	// Stepper runs the steps opened with step(title, fn).
	Stepper intercept.Stepper
	// Context interrupts a running script when it is done.
	Context context.Context
}

// Runner owns one goja runtime.
type Runner struct {
	rt      *goja.Runtime
	ctx     context.Context
	logger  logrus.FieldLogger
	stepper intercept.Stepper

	handles map[intercept.Wrapped]*goja.Object
	members map[reflect.Type][]string
	// thrown maps the script errors made from Go errors back to them.
	thrown map[*goja.Object]error
}

// NewRunner returns a runner with the console and step globals set.
func NewRunner(opts Options) *Runner {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Stepper == nil {
		opts.Stepper = intercept.Direct
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	r := &Runner{
		rt:      goja.New(),
		ctx:     opts.Context,
		logger:  opts.Logger,
		stepper: opts.Stepper,
		handles: make(map[intercept.Wrapped]*goja.Object),
		members: make(map[reflect.Type][]string),
		thrown:  make(map[*goja.Object]error),
	}
	r.rt.SetFieldNameMapper(FieldNameMapper{})
	mustSet(r.rt, "console", newConsole(opts.Logger))
	mustSet(r.rt, "step", r.step)
	return r
}

func mustSet(rt *goja.Runtime, name string, v any) {
	if err := rt.Set(name, v); err != nil {
		panic(err)
	}
}

// Runtime returns the underlying runtime.
func (r *Runner) Runtime() *goja.Runtime { return r.rt }

// Set makes v a global of the script. Intercepted handles become script
// objects whose members are the handle's methods.
func (r *Runner) Set(name string, v any) error {
	return r.rt.Set(name, r.toValue(v)) //nolint:wrapcheck
}

// SetExpect installs e as the expect global.
func (r *Runner) SetExpect(e *expect.Expect) {
	mustSet(r.rt, "expect", func(call goja.FunctionCall) goja.Value {
		return r.toValue(e.That(r.export(call.Argument(0))))
	})
}

// CallSite returns the innermost script position of the running script,
// or nil when no script is running.
func (r *Runner) CallSite() *intercept.Location {
	for _, f := range r.rt.CaptureCallStack(0, nil) {
		if f.SrcName() == "<native>" {
			continue
		}
		return &intercept.Location{
			File:     f.SrcName(),
			Line:     f.Position().Line,
			Function: f.FuncName(),
		}
	}
	return nil
}

// RunScript runs src as the script called name.
//
// Uncaught script errors carry the exit code of the Go error they were made
// from, or ScriptException. An interrupted script returns GenericTimeout when
// the context's deadline passed and ExternalAbort otherwise.
func (r *Runner) RunScript(name, src string) (err error) {
	stop := context.AfterFunc(r.ctx, func() {
		r.rt.Interrupt(context.Cause(r.ctx))
	})
	defer stop()
	defer func() {
		if rec := recover(); rec != nil {
			ce, ok := rec.(*browser.CallError)
			if !ok {
				panic(rec)
			}
			err = errext.WithExitCodeIfNone(ce, exitcodes.ScriptException)
		}
	}()

	_, err = r.rt.RunScript(name, src)
	return r.scriptError(name, err)
}

func (r *Runner) scriptError(name string, err error) error {
	if err == nil {
		return nil
	}
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		cause, _ := interrupted.Value().(error)
		if cause == nil {
			cause = context.Canceled
		}
		err = fmt.Errorf("%s was interrupted: %w", name, cause)
		if errors.Is(cause, context.DeadlineExceeded) {
			return errext.WithExitCodeIfNone(err, exitcodes.GenericTimeout)
		}
		return errext.WithExitCodeIfNone(err, exitcodes.ExternalAbort)
	}
	var exc *goja.Exception
	if errors.As(err, &exc) {
		return errext.WithExitCodeIfNone(&scriptException{exc: exc, cause: r.cause(exc)}, exitcodes.ScriptException)
	}
	return errext.WithExitCodeIfNone(
		errext.WithHint(err, "the script could not be compiled"),
		exitcodes.ScriptException,
	)
}

// step runs fn as a step titled by its first argument and returns what fn
// returns. Errors thrown by fn are thrown again after the step is closed.
func (r *Runner) step(call goja.FunctionCall) goja.Value {
	title := call.Argument(0).String()
	fn, ok := goja.AssertFunction(call.Argument(1))
	if !ok {
		panic(r.rt.NewTypeError("step(title, fn): fn is not a function"))
	}
	var result goja.Value
	_, err := r.stepper.Step(title, r.CallSite(), func() ([]any, error) {
		v, err := fn(goja.Undefined())
		result = v
		return nil, err
	})
	if err != nil {
		r.rethrow(err)
	}
	if result == nil {
		return goja.Undefined()
	}
	return result
}

// throw raises err in the script.
func (r *Runner) throw(err error) {
	obj := r.rt.NewGoError(err)
	r.thrown[obj] = err
	panic(obj)
}

func (r *Runner) rethrow(err error) {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		r.rt.Interrupt(interrupted.Value())
		r.throw(err)
	}
	var exc *goja.Exception
	if errors.As(err, &exc) {
		panic(exc)
	}
	r.throw(err)
}

func (r *Runner) cause(exc *goja.Exception) error {
	obj, ok := exc.Value().(*goja.Object)
	if !ok {
		return nil
	}
	return r.thrown[obj]
}

// scriptException is an uncaught script error.
type scriptException struct {
	exc   *goja.Exception
	cause error
}

var _ errext.Exception = &scriptException{}

func (e *scriptException) Error() string { return e.exc.Error() }

// StackTrace returns the message followed by the script stack.
func (e *scriptException) StackTrace() string { return e.exc.String() }

func (e *scriptException) Unwrap() error { return e.cause }
