package intercept

import "errors"

// Errors of the interception procedure itself. Errors returned by the wrapped
// handles are never wrapped or translated.
var (
	ErrUnknownMember = errors.New("unknown member")
	ErrNotCallable   = errors.New("member is not callable")
	ErrArgument      = errors.New("invalid argument")
)
