package chromium

import "errors"

// Errors returned by the adapter itself. Errors coming from the browser are
// wrapped, not translated.
var (
	ErrClosed            = errors.New("target closed")
	ErrNotFound          = errors.New("no element matches the locator")
	ErrStrictMode        = errors.New("strict mode violation")
	ErrUnsupportedMethod = errors.New("unsupported request method")
)
