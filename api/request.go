package api

// APIRequestContext sends HTTP requests outside of any page.
type APIRequestContext interface {
	Delete(url string, opts *RequestOptions) (APIResponse, error)
	Dispose() error
	Fetch(url string, opts *RequestOptions) (APIResponse, error)
	Get(url string, opts *RequestOptions) (APIResponse, error)
	Head(url string, opts *RequestOptions) (APIResponse, error)
	Patch(url string, opts *RequestOptions) (APIResponse, error)
	Post(url string, opts *RequestOptions) (APIResponse, error)
	Put(url string, opts *RequestOptions) (APIResponse, error)
}

// APIResponse is the response of an APIRequestContext call.
type APIResponse interface {
	Body() ([]byte, error)
	Headers() map[string]string
	JSON(v any) error
	OK() bool
	Status() int
	StatusText() string
	Text() (string, error)
	URL() string
}
