package browsertest

import (
	"encoding/json"
	"net/http"

	"github.com/liuxd6825/steplog/api"
)

// Request is an in-memory api.APIRequestContext answering from the engine's
// canned responses.
type Request struct {
	engine *Engine
}

var _ api.APIRequestContext = &Request{}

// NewRequest returns a request client of e.
func (e *Engine) NewRequest() *Request { return &Request{engine: e} }

func (r *Request) do(method, url string, opts *api.RequestOptions) (api.APIResponse, error) {
	if err := r.engine.record("request", method, url, opts); err != nil {
		return nil, err
	}
	return r.engine.response(url), nil
}

// Delete implements api.APIRequestContext.
func (r *Request) Delete(url string, opts *api.RequestOptions) (api.APIResponse, error) {
	return r.do("Delete", url, opts)
}

// Dispose implements api.APIRequestContext.
func (r *Request) Dispose() error { return r.engine.record("request", "Dispose") }

// Fetch implements api.APIRequestContext.
func (r *Request) Fetch(url string, opts *api.RequestOptions) (api.APIResponse, error) {
	return r.do("Fetch", url, opts)
}

// Get implements api.APIRequestContext.
func (r *Request) Get(url string, opts *api.RequestOptions) (api.APIResponse, error) {
	return r.do("Get", url, opts)
}

// Head implements api.APIRequestContext.
func (r *Request) Head(url string, opts *api.RequestOptions) (api.APIResponse, error) {
	return r.do("Head", url, opts)
}

// Patch implements api.APIRequestContext.
func (r *Request) Patch(url string, opts *api.RequestOptions) (api.APIResponse, error) {
	return r.do("Patch", url, opts)
}

// Post implements api.APIRequestContext.
func (r *Request) Post(url string, opts *api.RequestOptions) (api.APIResponse, error) {
	return r.do("Post", url, opts)
}

// Put implements api.APIRequestContext.
func (r *Request) Put(url string, opts *api.RequestOptions) (api.APIResponse, error) {
	return r.do("Put", url, opts)
}

// Response is a canned api.APIResponse.
type Response struct {
	URLValue   string
	StatusCode int
	Header     map[string]string
	BodyValue  []byte
}

var _ api.APIResponse = &Response{}

// Body implements api.APIResponse.
func (r *Response) Body() ([]byte, error) { return r.BodyValue, nil }

// Headers implements api.APIResponse.
func (r *Response) Headers() map[string]string { return r.Header }

// JSON implements api.APIResponse.
func (r *Response) JSON(v any) error { return json.Unmarshal(r.BodyValue, v) }

// OK implements api.APIResponse.
func (r *Response) OK() bool { return r.StatusCode >= 200 && r.StatusCode <= 299 }

// Status implements api.APIResponse.
func (r *Response) Status() int { return r.StatusCode }

// StatusText implements api.APIResponse.
func (r *Response) StatusText() string { return http.StatusText(r.StatusCode) }

// Text implements api.APIResponse.
func (r *Response) Text() (string, error) { return string(r.BodyValue), nil }

// URL implements api.APIResponse.
func (r *Response) URL() string { return r.URLValue }
