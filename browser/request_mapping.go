package browser

import (
	"github.com/liuxd6825/steplog/api"
	"github.com/liuxd6825/steplog/intercept"
)

// Request is the intercepted api.APIRequestContext. Responses are not
// handles and are returned as the client produced them.
type Request struct {
	*intercept.Wrapper
}

var _ api.APIRequestContext = &Request{}

// Describe sets the display name and returns r.
func (r *Request) Describe(text string) *Request {
	r.Wrapper.Describe(text)
	return r
}

// Delete implements api.APIRequestContext.
func (r *Request) Delete(url string, opts *api.RequestOptions) (api.APIResponse, error) {
	return call1[api.APIResponse](r.Wrapper, "Delete", url, opts)
}

// Dispose implements api.APIRequestContext.
func (r *Request) Dispose() error { return call(r.Wrapper, "Dispose") }

// Fetch implements api.APIRequestContext.
func (r *Request) Fetch(url string, opts *api.RequestOptions) (api.APIResponse, error) {
	return call1[api.APIResponse](r.Wrapper, "Fetch", url, opts)
}

// Get implements api.APIRequestContext.
func (r *Request) Get(url string, opts *api.RequestOptions) (api.APIResponse, error) {
	return call1[api.APIResponse](r.Wrapper, "Get", url, opts)
}

// Head implements api.APIRequestContext.
func (r *Request) Head(url string, opts *api.RequestOptions) (api.APIResponse, error) {
	return call1[api.APIResponse](r.Wrapper, "Head", url, opts)
}

// Patch implements api.APIRequestContext.
func (r *Request) Patch(url string, opts *api.RequestOptions) (api.APIResponse, error) {
	return call1[api.APIResponse](r.Wrapper, "Patch", url, opts)
}

// Post implements api.APIRequestContext.
func (r *Request) Post(url string, opts *api.RequestOptions) (api.APIResponse, error) {
	return call1[api.APIResponse](r.Wrapper, "Post", url, opts)
}

// Put implements api.APIRequestContext.
func (r *Request) Put(url string, opts *api.RequestOptions) (api.APIResponse, error) {
	return call1[api.APIResponse](r.Wrapper, "Put", url, opts)
}
