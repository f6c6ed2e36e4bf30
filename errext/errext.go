// Package errext attaches user-facing context to errors: hints on how to fix
// them, the process exit code they map to and, for script errors, the stack
// trace to print instead of the message.
package errext

import (
	"errors"

	"github.com/liuxd6825/steplog/errext/exitcodes"
)

// Exception is an error raised by a script, carrying the script stack trace.
type Exception interface {
	error
	StackTrace() string
}

// HasExitCode is an error that decides the exit code of the process when it
// ends a command.
type HasExitCode interface {
	error
	ExitCode() exitcodes.ExitCode
}

// WithExitCodeIfNone attaches code to err unless some error in its chain
// already carries one. A nil err stays nil.
func WithExitCodeIfNone(err error, code exitcodes.ExitCode) error {
	if err == nil {
		return nil
	}
	if _, ok := ExitCodeOf(err); ok {
		return err
	}
	return &exitCoded{err: err, code: code}
}

// ExitCodeOf returns the first exit code found in the chain of err.
func ExitCodeOf(err error) (exitcodes.ExitCode, bool) {
	var ecerr HasExitCode
	if errors.As(err, &ecerr) {
		return ecerr.ExitCode(), true
	}
	return 0, false
}

type exitCoded struct {
	err  error
	code exitcodes.ExitCode
}

var _ HasExitCode = &exitCoded{}

func (e *exitCoded) Error() string                { return e.err.Error() }
func (e *exitCoded) Unwrap() error                { return e.err }
func (e *exitCoded) ExitCode() exitcodes.ExitCode { return e.code }
