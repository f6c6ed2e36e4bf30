package chromium

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/liuxd6825/steplog/api"
)

// Ensure Response implements the api.APIResponse interface.
var _ api.APIResponse = &Response{}

// Response is a response received by a page or by the request context. Its
// body is loaded on first use.
type Response struct {
	url        string
	status     int
	statusText string
	headers    map[string]string
	load       func() ([]byte, error)

	once sync.Once
	body []byte
	err  error
}

// Body returns the response body.
func (r *Response) Body() ([]byte, error) {
	r.once.Do(func() {
		if r.load != nil {
			r.body, r.err = r.load()
		}
	})
	return r.body, r.err
}

// Headers returns the response headers with lower-case names.
func (r *Response) Headers() map[string]string {
	out := make(map[string]string, len(r.headers))
	for k, v := range r.headers {
		out[k] = v
	}
	return out
}

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	body, err := r.Body()
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decoding response from %s: %w", r.url, err)
	}
	return nil
}

// OK reports whether the status is in the 2xx range.
func (r *Response) OK() bool { return r.status >= 200 && r.status <= 299 }

// Status returns the status code.
func (r *Response) Status() int { return r.status }

// StatusText returns the status text.
func (r *Response) StatusText() string {
	if r.statusText == "" {
		return http.StatusText(r.status)
	}
	return r.statusText
}

// Text returns the body as a string.
func (r *Response) Text() (string, error) {
	body, err := r.Body()
	return string(body), err
}

// URL returns the URL of the response.
func (r *Response) URL() string { return r.url }

func (r *Response) String() string {
	return fmt.Sprintf("%d %s", r.status, r.url)
}

func decodeBody(body string, base64Encoded bool) ([]byte, error) {
	if !base64Encoded {
		return []byte(body), nil
	}
	out, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("decoding response body: %w", err)
	}
	return out, nil
}
