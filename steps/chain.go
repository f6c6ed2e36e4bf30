package steps

import (
	"github.com/liuxd6825/steplog/intercept"
)

// Chain returns a stepper reporting each step to every one of steppers. The
// first stepper's step encloses the others'; the body runs once, inside the
// innermost one. Nil steppers are skipped.
func Chain(steppers ...intercept.Stepper) intercept.Stepper {
	var chain []intercept.Stepper
	for _, s := range steppers {
		if s != nil {
			chain = append(chain, s)
		}
	}
	switch len(chain) {
	case 0:
		return intercept.Direct
	case 1:
		return chain[0]
	}
	return intercept.StepperFunc(func(title string, loc *intercept.Location, body func() ([]any, error)) ([]any, error) {
		return run(chain, title, loc, body)
	})
}

func run(chain []intercept.Stepper, title string, loc *intercept.Location, body func() ([]any, error)) ([]any, error) {
	if len(chain) == 0 {
		return body()
	}
	return chain[0].Step(title, loc, func() ([]any, error) {
		return run(chain[1:], title, loc, body)
	})
}
