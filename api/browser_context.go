package api

// BrowserContext is the public interface of an isolated browser session.
type BrowserContext interface {
	AddCookies(cookies []*Cookie) error
	Browser() Browser
	ClearCookies() error
	Close() error
	Cookies(urls ...string) ([]*Cookie, error)
	NewPage() (Page, error)
	Pages() []Page
	Request() APIRequestContext
	SetExtraHTTPHeaders(headers map[string]string) error
	// WaitForPage resolves with the next page opened in this context.
	WaitForPage() Pending
}

// Cookie represents a browser cookie.
type Cookie struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	URL      string `json:"url,omitempty"`
	Domain   string `json:"domain,omitempty"`
	Path     string `json:"path,omitempty"`
	Expires  int64  `json:"expires,omitempty"`
	HTTPOnly bool   `json:"httpOnly,omitempty"`
	Secure   bool   `json:"secure,omitempty"`
	SameSite string `json:"sameSite,omitempty"`
}
