// ABOUTME: Outbound HTTP contract used by the backend, translation and import clients
// ABOUTME: Lets tests substitute httptest servers or canned responses

package interfaces

import (
	"context"
	"io"
)

// HTTPClient issues outbound requests on behalf of a reading session.
// Implementations propagate the request id found in ctx.
type HTTPClient interface {
	// Get fetches url. Implementations may retry transient failures.
	Get(ctx context.Context, url string) (Response, error)

	// Post sends a JSON body to url. It is never retried because
	// annotation and article writes are not idempotent on the backend.
	Post(ctx context.Context, url string, body io.Reader) (Response, error)
}

// Response is the subset of an HTTP response the clients read.
// Callers close Body.
type Response interface {
	StatusCode() int
	Body() io.ReadCloser
	// Header looks up a header case-insensitively, returning "" when absent
	Header(key string) string
}
