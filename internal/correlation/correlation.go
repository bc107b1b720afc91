// Package correlation carries the per-request correlation identifier.
//
// The identifier is an opaque token joining access logs, audit events, and
// error envelopes produced while handling one request. It is supplied by the
// caller via the X-Correlation-ID header or generated fresh, and travels as a
// request-scoped context value, never as process-wide mutable state, so
// concurrent requests can never observe each other's id.
package correlation

import (
	"context"

	"github.com/google/uuid"
)

// Header is the HTTP header used to propagate the correlation identifier.
const Header = "X-Correlation-ID"

type ctxKey struct{}

// WithID returns a child context carrying the correlation id.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the correlation id stored in ctx, or "" when absent.
func FromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		return v
	}
	return ""
}

// NewID generates a fresh correlation id (random UUIDv4).
func NewID() string { return uuid.NewString() }
