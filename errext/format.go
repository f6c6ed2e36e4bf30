package errext

import "errors"

// Format returns the message and the log fields to report err with. Script
// exceptions are reported by their stack trace; the hint and the exit code,
// when present, become the "hint" and "exit_code" fields.
func Format(err error) (string, map[string]any) {
	if err == nil {
		return "", nil
	}

	msg := err.Error()
	var exc Exception
	if errors.As(err, &exc) {
		msg = exc.StackTrace()
	}

	fields := map[string]any{}
	if hint := HintOf(err); hint != "" {
		fields["hint"] = hint
	}
	if code, ok := ExitCodeOf(err); ok {
		fields["exit_code"] = int(code)
	}
	return msg, fields
}
