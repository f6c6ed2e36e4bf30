package chromium

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/liuxd6825/steplog/api"
)

// Ensure Request implements the api.APIRequestContext interface.
var _ api.APIRequestContext = &Request{}

// RequestOptions configures a Request.
type RequestOptions struct {
	BaseURL string
	Headers map[string]string
	// Client defaults to a client with its own connection pool.
	Client  *http.Client
	Timeout time.Duration
}

// Request sends HTTP requests outside of any page.
type Request struct {
	baseURL string
	headers map[string]string
	client  *http.Client
	timeout time.Duration

	mu       sync.Mutex
	disposed bool
}

// NewRequest returns a Request configured by opts.
func NewRequest(opts RequestOptions) *Request {
	r := &Request{
		baseURL: opts.BaseURL,
		headers: make(map[string]string, len(opts.Headers)),
		client:  opts.Client,
		timeout: opts.Timeout,
	}
	for k, v := range opts.Headers {
		r.headers[k] = v
	}
	if r.client == nil {
		r.client = &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()}
	}
	if r.timeout <= 0 {
		r.timeout = DefaultTimeout
	}
	return r
}

// Delete sends a DELETE request.
func (r *Request) Delete(u string, opts *api.RequestOptions) (api.APIResponse, error) {
	return r.do(http.MethodDelete, u, opts)
}

// Dispose releases the connections of r. Later requests fail.
func (r *Request) Dispose() error {
	r.mu.Lock()
	r.disposed = true
	r.mu.Unlock()
	r.client.CloseIdleConnections()
	return nil
}

// Fetch sends a request with the method of opts, GET by default.
func (r *Request) Fetch(u string, opts *api.RequestOptions) (api.APIResponse, error) {
	method := http.MethodGet
	if opts != nil && opts.Method != "" {
		method = strings.ToUpper(opts.Method)
	}
	return r.do(method, u, opts)
}

// Get sends a GET request.
func (r *Request) Get(u string, opts *api.RequestOptions) (api.APIResponse, error) {
	return r.do(http.MethodGet, u, opts)
}

// Head sends a HEAD request.
func (r *Request) Head(u string, opts *api.RequestOptions) (api.APIResponse, error) {
	return r.do(http.MethodHead, u, opts)
}

// Patch sends a PATCH request.
func (r *Request) Patch(u string, opts *api.RequestOptions) (api.APIResponse, error) {
	return r.do(http.MethodPatch, u, opts)
}

// Post sends a POST request.
func (r *Request) Post(u string, opts *api.RequestOptions) (api.APIResponse, error) {
	return r.do(http.MethodPost, u, opts)
}

// Put sends a PUT request.
func (r *Request) Put(u string, opts *api.RequestOptions) (api.APIResponse, error) {
	return r.do(http.MethodPut, u, opts)
}

func (r *Request) do(method, u string, opts *api.RequestOptions) (api.APIResponse, error) {
	r.mu.Lock()
	disposed := r.disposed
	r.mu.Unlock()
	if disposed {
		return nil, fmt.Errorf("%s %s: %w", method, u, ErrClosed)
	}
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions:
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedMethod, method)
	}
	if opts == nil {
		opts = &api.RequestOptions{}
	}

	target, err := r.url(u, opts.Params)
	if err != nil {
		return nil, err
	}
	body, contentType, err := encodeData(opts.Data)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, target, err)
	}

	timeout := r.timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, target, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	res, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer func() { _ = res.Body.Close() }()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: reading body: %w", method, target, err)
	}
	headers := make(map[string]string, len(res.Header))
	for k, v := range res.Header {
		headers[strings.ToLower(k)] = strings.Join(v, ", ")
	}
	out := &Response{
		url:        res.Request.URL.String(),
		status:     res.StatusCode,
		statusText: strings.TrimSpace(strings.TrimPrefix(res.Status, fmt.Sprint(res.StatusCode))),
		headers:    headers,
		load:       func() ([]byte, error) { return data, nil },
	}
	if opts.FailOnStatusCode && !out.OK() {
		return out, fmt.Errorf("%s %s: %d %s", method, target, out.status, out.StatusText())
	}
	return out, nil
}

func (r *Request) url(u string, params map[string]string) (string, error) {
	ref, err := url.Parse(u)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", u, err)
	}
	if r.baseURL != "" {
		base, err := url.Parse(r.baseURL)
		if err != nil {
			return "", fmt.Errorf("invalid base URL %q: %w", r.baseURL, err)
		}
		ref = base.ResolveReference(ref)
	}
	if len(params) > 0 {
		q := ref.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		ref.RawQuery = q.Encode()
	}
	return ref.String(), nil
}

// encodeData turns request data into a body. Bytes and strings are sent as
// they are, anything else as JSON.
func encodeData(data any) (io.Reader, string, error) {
	switch d := data.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return bytes.NewReader(d), "application/octet-stream", nil
	case string:
		return strings.NewReader(d), "text/plain; charset=utf-8", nil
	default:
		b, err := json.Marshal(d)
		if err != nil {
			return nil, "", fmt.Errorf("encoding data as JSON: %w", err)
		}
		return bytes.NewReader(b), "application/json", nil
	}
}
