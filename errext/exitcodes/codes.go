// Package exitcodes lists the exit codes of the steplog binary.
package exitcodes

// ExitCode is a process exit code.
type ExitCode uint8

// Exit codes. 0 is success and 255 (-1) an error without a code.
const (
	// StepFailed: an expectation failed and the script didn't catch it.
	StepFailed ExitCode = 97
	// GenericTimeout: the run deadline passed.
	GenericTimeout ExitCode = 102
	// GenericEngine: steplog itself failed.
	GenericEngine ExitCode = 103
	// InvalidConfig: the rule file, env or flags are invalid.
	InvalidConfig ExitCode = 104
	// ExternalAbort: the run was interrupted, e.g. by a signal.
	ExternalAbort ExitCode = 105
	// BrowserUnavailable: no browser, context or page could be obtained.
	BrowserUnavailable ExitCode = 106
	// ScriptException: the script threw or could not be compiled.
	ScriptException ExitCode = 107
)
