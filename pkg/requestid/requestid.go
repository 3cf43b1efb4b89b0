// ABOUTME: Request id propagation through context
// ABOUTME: Lets outgoing calls carry the id of the request that caused them

package requestid

import "context"

// Header is the HTTP header carrying the request id
const Header = "X-Request-ID"

type contextKey struct{}

// With returns a context carrying id
func With(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// From returns the request id carried by ctx, or ""
func From(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}
