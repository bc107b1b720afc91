// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides structured request logging, a panic-safe recovery
// handler, and the correlation id injector:
//
//   - CorrelationID() ensures every request carries a correlation identifier
//     (propagated via X-Correlation-ID, stored in the request context, and
//     echoed on the response).
//   - Logger() emits structured access logs with request/response metadata
//     (latency, status, sizes) and selects log level by outcome. Request and
//     response bodies are never read or logged, so user-supplied field
//     values cannot leak into the request lifecycle log.
//   - Recovery() converts panics into the standard JSON error envelope with
//     a generic message, logging the stack trace server-side only.
//
// Ordering: CorrelationID() first, then Logger(), then Recovery(), so that
// panics and errors are logged with the correlation id attached.
package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-wishlist-backend/internal/correlation"
)

// loggerKey is the Gin context key under which the request-scoped logger is stored.
const loggerKey = "logger"

// maxQueryLogLength caps the number of bytes of the raw query string logged.
const maxQueryLogLength = 2048

// CorrelationID attaches (or propagates) a correlation identifier per request.
//
// If the incoming request has X-Correlation-ID, that value is reused;
// otherwise a fresh UUIDv4 is generated. The id is written to the response
// header and bound into the request context so services, audit events, and
// error envelopes can all reference it. The binding is request-scoped: no
// process-wide state is involved, so concurrent requests cannot observe
// each other's id.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		cid := c.GetHeader(correlation.Header)
		if cid == "" {
			cid = correlation.NewID()
		}
		c.Request = c.Request.WithContext(correlation.WithID(c.Request.Context(), cid))
		c.Writer.Header().Set(correlation.Header, cid)
		c.Next()
	}
}

// Logger writes a structured access log for each request and response.
//
// It records method, route path, remote IP, correlation id, query string
// (truncated), response status, latency, and bytes in/out, and stores a
// request-scoped zerolog.Logger in the Gin context for downstream
// enrichment. Log level follows the outcome: error for 5xx, warn for 4xx,
// info otherwise. Bodies are never logged.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		path := c.FullPath()
		if path == "" {
			// Fallback when route not matched / 404.
			path = c.Request.URL.Path
		}

		l := log.With().
			Str("correlation_id", correlation.FromContext(c.Request.Context())).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("remote_ip", c.ClientIP()).
			Str("query", truncate(c.Request.URL.RawQuery, maxQueryLogLength)).
			Int64("bytes_in", c.Request.ContentLength).
			Logger()

		c.Set(loggerKey, &l)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		ev := l.With().
			Int("status", status).
			Dur("latency", latency).
			Int("bytes_out", c.Writer.Size()).
			Logger()

		switch {
		case len(c.Errors) > 0:
			ev.Error().Str("errors", c.Errors.String()).Msg("request")
		case status >= 500:
			ev.Error().Msg("request")
		case status >= 400:
			ev.Warn().Msg("request")
		default:
			ev.Info().Msg("request")
		}
	}
}

// Recovery intercepts panics, logs the stack trace server-side, and returns
// the standard error envelope with code internal_error and a generic
// message. No diagnostic detail crosses the service boundary.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				cid := correlation.FromContext(c.Request.Context())
				log.Error().
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Str("correlation_id", cid).
					Msg("panic recovered")

				if !c.Writer.Written() {
					c.Header(correlation.Header, cid)
					c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
						"error": gin.H{
							"code":           "internal_error",
							"message":        "internal server error",
							"correlation_id": cid,
						},
					})
					return
				}
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}

// LoggerFrom returns the request-scoped zerolog.Logger attached by Logger().
// A fallback logger is returned when none was attached, so callers never
// need a nil check.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.With().Logger()
	return &l
}

// truncate limits s to max bytes, appending an ellipsis when cut. A max <= 0
// disables truncation. Byte-based truncation is acceptable for logging.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
