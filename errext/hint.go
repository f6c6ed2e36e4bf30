package errext

import "errors"

// HasHint is an error that tells the user how to fix it.
type HasHint interface {
	error
	Hint() string
}

// WithHint attaches hint to err. Hints already present in the chain of err
// stay visible after the new one: "new (old)". A nil err stays nil.
func WithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	return &hinted{err: err, hint: hint}
}

// HintOf returns the outermost hint in the chain of err, or "".
func HintOf(err error) string {
	var herr HasHint
	if errors.As(err, &herr) {
		return herr.Hint()
	}
	return ""
}

type hinted struct {
	err  error
	hint string
}

var _ HasHint = &hinted{}

func (e *hinted) Error() string { return e.err.Error() }
func (e *hinted) Unwrap() error { return e.err }

func (e *hinted) Hint() string {
	if inner := HintOf(e.err); inner != "" {
		return e.hint + " (" + inner + ")"
	}
	return e.hint
}
