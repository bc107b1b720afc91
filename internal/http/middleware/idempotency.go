// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements idempotency support for POST /wishes. It validates an
// optional Idempotency-Key request header, performs a caller-supplied lookup
// to detect previously completed requests, and annotates the Gin context so
// the create handler can:
//
//   - read the normalized key (GetIdempotencyKey)
//   - detect replayed requests (IsReplay)
//
// Persistence is decoupled behind the narrow IdempotencyLookup function
// type; the middleware itself only owns transport concerns.
package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey is the request header clients use to convey an
// idempotency key for create operations. The value is expected to be stable
// for a given semantic operation so that retries can be safely deduplicated.
const HeaderIdempotencyKey = "Idempotency-Key"

// Context keys used internally to stash idempotency state.
const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay"
)

// GetIdempotencyKey returns the validated idempotency key stored in the Gin
// context by IdempotencyValidator. The second return value indicates presence.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyIdemKey)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// IsReplay reports whether the middleware detected that this request replays
// a previously completed create (based on the provided key).
func IsReplay(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyIdemReplay)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// IdempotencyOptions configures header validation for IdempotencyValidator.
type IdempotencyOptions struct {
	// MaxLen caps the accepted key length. Values <= 0 default to 200.
	MaxLen int
	// Pattern restricts allowed characters. If nil, a conservative token
	// pattern is used: ^[A-Za-z0-9._~\-:]+$
	Pattern *regexp.Regexp
}

// IdempotencyLookup answers whether a still-valid, completed result exists
// for the given key at the given instant. TTL enforcement belongs to the
// lookup implementation.
type IdempotencyLookup func(ctx context.Context, key string, now time.Time) (bool, error)

// defaultKeyPattern is the fallback charset for idempotency keys.
var defaultKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// IdempotencyValidator returns a middleware that validates the
// Idempotency-Key header on POST requests and stashes the key and replay
// flag in the context. Requests without the header pass through untouched;
// a malformed header is rejected with 400 before any handler runs.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pattern := opts.Pattern
	if pattern == nil {
		pattern = defaultKeyPattern
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxLen || !pattern.MatchString(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": gin.H{
					"code":    "validation_error",
					"message": "invalid Idempotency-Key header",
				},
			})
			return
		}
		c.Set(ctxKeyIdemKey, key)

		if lookup != nil {
			replay, err := lookup(c.Request.Context(), key, time.Now().UTC())
			if err == nil && replay {
				c.Set(ctxKeyIdemReplay, true)
			}
		}
		c.Next()
	}
}
