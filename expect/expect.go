// Package expect wraps an assertion-matcher factory so that matcher calls can
// be reported as steps, the same way intercept reports calls on handles.
package expect

import (
	"github.com/sirupsen/logrus"

	"github.com/liuxd6825/steplog/intercept"
	"github.com/liuxd6825/steplog/log"
)

// Factory returns the matcher object for subject. Matchers are the exported
// methods of that object; its negation is reached through a Not method or
// field.
type Factory func(subject any) any

// LogFunc builds a step title for a matcher call from the subject as the
// caller passed it, whether the assertion is negated and the arguments.
type LogFunc func(subject any, negated bool, args ...any) string

// Logs maps matcher names to step title builders.
type Logs map[string]LogFunc

// CustomMatcher is a matcher added through Extend. It receives the unwrapped
// subject and is responsible for honoring negated.
type CustomMatcher func(subject any, negated bool, args ...any) error

// Options configures an Expect.
type Options struct {
	Logs     Logs
	Stepper  intercept.Stepper
	CallSite func() *intercept.Location
	Logger   logrus.FieldLogger
}

// Expect creates assertions. It is immutable; Extend returns a copy.
type Expect struct {
	factory  Factory
	logs     Logs
	custom   map[string]CustomMatcher
	stepper  intercept.Stepper
	callSite func() *intercept.Location
	sess     *intercept.Session
}

// New returns an Expect using factory for its matchers.
func New(factory Factory, opts Options) *Expect {
	e := &Expect{
		factory:  factory,
		logs:     make(Logs, len(opts.Logs)),
		custom:   make(map[string]CustomMatcher),
		stepper:  opts.Stepper,
		callSite: opts.CallSite,
	}
	for name, fn := range opts.Logs {
		if fn != nil {
			e.logs[name] = fn
		}
	}
	if e.stepper == nil {
		e.stepper = intercept.Direct
	}
	if e.callSite == nil {
		e.callSite = intercept.CallerLocation
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNullLogger()
	}
	e.sess = intercept.NewSession(intercept.Config{}, intercept.WithLogger(logger))
	return e
}

// Extend returns a copy of e that also knows matchers. Custom matchers take
// precedence over the factory's matchers of the same name.
func (e *Expect) Extend(matchers map[string]CustomMatcher) *Expect {
	cp := *e
	cp.custom = make(map[string]CustomMatcher, len(e.custom)+len(matchers))
	for name, m := range e.custom {
		cp.custom[name] = m
	}
	for name, m := range matchers {
		if m != nil {
			cp.custom[name] = m
		}
	}
	return &cp
}

// That starts an assertion on subject. A wrapped subject is unwrapped before
// the factory sees it.
func (e *Expect) That(subject any) *Assertion {
	raw := subject
	if w := intercept.WrapperOf(subject); w != nil {
		raw = w.Raw()
	}
	return &Assertion{
		expect:  e,
		subject: subject,
		raw:     raw,
		matcher: e.sess.WrapAs(e.factory(raw), intercept.KindNone),
	}
}
