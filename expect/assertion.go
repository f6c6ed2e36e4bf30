package expect

import (
	"fmt"

	"github.com/liuxd6825/steplog/errext"
	"github.com/liuxd6825/steplog/intercept"
)

// Assertion is the matcher object of one subject.
type Assertion struct {
	expect  *Expect
	subject any
	raw     any
	matcher *intercept.Wrapper
	negated bool
	err     error
}

// Subject returns the subject as it was passed to That.
func (a *Assertion) Subject() any { return a.subject }

// Negated reports whether a is the negation of an assertion.
func (a *Assertion) Negated() bool { return a.negated }

// Not returns the negated assertion. The negation of a negated assertion is
// the assertion itself.
func (a *Assertion) Not() *Assertion {
	if a.negated {
		return a
	}
	neg := &Assertion{
		expect:  a.expect,
		subject: a.subject,
		raw:     a.raw,
		negated: true,
		err:     a.err,
	}
	m, err := a.negation()
	if err != nil {
		neg.err = err
		neg.matcher = a.matcher
		return neg
	}
	neg.matcher = a.expect.sess.WrapAs(m, intercept.KindNone)
	return neg
}

func (a *Assertion) negation() (any, error) {
	v, err := a.matcher.Get("Not")
	if err != nil {
		return nil, errext.WithHint(err, "the matcher object has neither a Not method nor a Not field")
	}
	fn, ok := v.(func(args ...any) ([]any, error))
	if !ok {
		return v, nil
	}
	out, err := fn()
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: Not returned nothing", intercept.ErrNotCallable)
	}
	return out[0], nil
}

// Call runs the matcher called name. Wrapped arguments are unwrapped. When a
// title builder exists for name the matcher runs inside a step.
func (a *Assertion) Call(name string, args ...any) error {
	if a.err != nil {
		return a.err
	}

	body := func() ([]any, error) {
		if m, ok := a.expect.custom[name]; ok {
			return nil, m(a.raw, a.negated, intercept.Sanitize(args)...)
		}
		_, err := a.matcher.Call(name, args...)
		return nil, err
	}

	logf, ok := a.expect.logs[name]
	if !ok {
		_, err := body()
		return err
	}
	_, err := a.expect.stepper.Step(logf(a.subject, a.negated, args...), a.expect.callSite(), body)
	return err //nolint:wrapcheck
}

// ToBe calls the ToBe matcher.
func (a *Assertion) ToBe(expected any) error { return a.Call("ToBe", expected) }

// ToEqual calls the ToEqual matcher.
func (a *Assertion) ToEqual(expected any) error { return a.Call("ToEqual", expected) }

// ToContain calls the ToContain matcher.
func (a *Assertion) ToContain(item any) error { return a.Call("ToContain", item) }

// ToBeTruthy calls the ToBeTruthy matcher.
func (a *Assertion) ToBeTruthy() error { return a.Call("ToBeTruthy") }

// ToBeNil calls the ToBeNil matcher.
func (a *Assertion) ToBeNil() error { return a.Call("ToBeNil") }

// ToHaveText calls the ToHaveText matcher.
func (a *Assertion) ToHaveText(expected string) error { return a.Call("ToHaveText", expected) }

// ToContainText calls the ToContainText matcher.
func (a *Assertion) ToContainText(expected string) error { return a.Call("ToContainText", expected) }

// ToBeVisible calls the ToBeVisible matcher.
func (a *Assertion) ToBeVisible() error { return a.Call("ToBeVisible") }

// ToBeChecked calls the ToBeChecked matcher.
func (a *Assertion) ToBeChecked() error { return a.Call("ToBeChecked") }

// ToHaveAttribute calls the ToHaveAttribute matcher.
func (a *Assertion) ToHaveAttribute(name, value string) error {
	return a.Call("ToHaveAttribute", name, value)
}

// ToHaveValue calls the ToHaveValue matcher.
func (a *Assertion) ToHaveValue(value string) error { return a.Call("ToHaveValue", value) }

// ToHaveCount calls the ToHaveCount matcher.
func (a *Assertion) ToHaveCount(n int) error { return a.Call("ToHaveCount", n) }

// ToHaveURL calls the ToHaveURL matcher.
func (a *Assertion) ToHaveURL(url string) error { return a.Call("ToHaveURL", url) }

// ToHaveTitle calls the ToHaveTitle matcher.
func (a *Assertion) ToHaveTitle(title string) error { return a.Call("ToHaveTitle", title) }

// ToHaveStatus calls the ToHaveStatus matcher.
func (a *Assertion) ToHaveStatus(code int) error { return a.Call("ToHaveStatus", code) }

// ToBeOK calls the ToBeOK matcher.
func (a *Assertion) ToBeOK() error { return a.Call("ToBeOK") }

// ToHaveJSON calls the ToHaveJSON matcher.
func (a *Assertion) ToHaveJSON(path string, expected ...any) error {
	return a.Call("ToHaveJSON", append([]any{path}, expected...)...)
}
