package expect

import (
	"fmt"
	"strings"

	"github.com/liuxd6825/steplog/errext/exitcodes"
)

// AssertionError is returned by a matcher whose expectation does not hold.
type AssertionError struct {
	Matcher string
	Negated bool
	Message string
}

func (e *AssertionError) Error() string {
	name := e.Matcher
	if e.Negated {
		name = "Not()." + name
	}
	return fmt.Sprintf("expect: %s failed: %s", name, strings.TrimSpace(e.Message))
}

// ExitCode implements errext.HasExitCode.
func (e *AssertionError) ExitCode() exitcodes.ExitCode { return exitcodes.StepFailed }
