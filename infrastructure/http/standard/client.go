// ABOUTME: Standard HTTP client with retry on GET and request id propagation
// ABOUTME: Used by the backend, translator and import clients

package standard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"paperread-app/core/interfaces"
	"paperread-app/pkg/requestid"
)

const (
	maxRetries       = 3
	defaultUserAgent = "PaperRead/1.0"
)

// StandardHTTPClient implements interfaces.HTTPClient on net/http
type StandardHTTPClient struct {
	client    *http.Client
	userAgent string
}

// Option configures the client
type Option func(*StandardHTTPClient)

// WithTransport replaces the client's transport, e.g. with a logging round tripper
func WithTransport(rt http.RoundTripper) Option {
	return func(c *StandardHTTPClient) {
		c.client.Transport = rt
	}
}

// WithUserAgent sets the User-Agent header sent on every request
func WithUserAgent(ua string) Option {
	return func(c *StandardHTTPClient) {
		c.userAgent = ua
	}
}

// NewStandardHTTPClient creates a new HTTP client with the specified timeout
func NewStandardHTTPClient(timeout time.Duration, opts ...Option) *StandardHTTPClient {
	c := &StandardHTTPClient{
		client:    &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *StandardHTTPClient) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if id := requestid.From(ctx); id != "" {
		req.Header.Set(requestid.Header, id)
	}
	return req, nil
}

// Get performs an HTTP GET request, retrying transport errors and 5xx
// responses with exponential backoff
func (c *StandardHTTPClient) Get(ctx context.Context, url string) (interfaces.Response, error) {
	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			// 100ms, 200ms
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := c.newRequest(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		resp, err = c.client.Do(req)
		if err != nil {
			resp = nil
			lastErr = err
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}

		if resp.StatusCode < 500 {
			break
		}

		lastErr = fmt.Errorf("server returned %d", resp.StatusCode)
		// the last 5xx response is returned to the caller
		if attempt < maxRetries-1 {
			resp.Body.Close()
			resp = nil
		}
	}

	if resp == nil {
		return nil, lastErr
	}
	return wrap(resp), nil
}

// Post performs an HTTP POST request with a JSON body. POSTs are not retried.
func (c *StandardHTTPClient) Post(ctx context.Context, url string, body io.Reader) (interfaces.Response, error) {
	req, err := c.newRequest(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	return wrap(resp), nil
}

func wrap(resp *http.Response) *httpResponse {
	return &httpResponse{
		statusCode: resp.StatusCode,
		body:       resp.Body,
		headers:    resp.Header,
	}
}

// httpResponse implements the Response interface
type httpResponse struct {
	statusCode int
	body       io.ReadCloser
	headers    http.Header
}

// StatusCode returns the HTTP status code
func (r *httpResponse) StatusCode() int {
	return r.statusCode
}

// Body returns the response body
func (r *httpResponse) Body() io.ReadCloser {
	return r.body
}

// Header returns the value of the specified header
func (r *httpResponse) Header(key string) string {
	return r.headers.Get(key)
}
