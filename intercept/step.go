package intercept

import (
	"fmt"
)

// Location is a position in the calling script.
type Location struct {
	File     string
	Line     int
	Function string
}

func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Function == "" {
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	}
	return fmt.Sprintf("%s:%d (%s)", l.File, l.Line, l.Function)
}

// Stepper runs body as a reporting step. Implementations return exactly what
// body returns, including its error.
type Stepper interface {
	Step(title string, loc *Location, body func() ([]any, error)) ([]any, error)
}

// StepperFunc adapts a function to Stepper.
type StepperFunc func(title string, loc *Location, body func() ([]any, error)) ([]any, error)

// Step implements Stepper.
func (f StepperFunc) Step(title string, loc *Location, body func() ([]any, error)) ([]any, error) {
	return f(title, loc, body)
}

// Direct runs body without reporting anything.
var Direct Stepper = StepperFunc(func(_ string, _ *Location, body func() ([]any, error)) ([]any, error) { //nolint:gochecknoglobals
	return body()
})
