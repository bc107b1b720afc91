// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the standard response utilities used across all
// endpoints. Every non-2xx response is wrapped in the same error envelope;
// success responses are returned bare (never wrapped). Only a stable code,
// a human-readable message, and the correlation id ever cross the service
// boundary — no stack traces, field-level exception text, or storage detail
// under any condition.
//
// Example error response:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "error": {
//	    "code": "not_found",
//	    "message": "wish doesn't exist",
//	    "correlation_id": "123e4567-e89b-12d3-a456-426614174000"
//	  }
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-wishlist-backend/internal/correlation"
	"github.com/tbourn/go-wishlist-backend/internal/http/middleware"
)

// ErrorDetail is the inner object of the error envelope.
type ErrorDetail struct {
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"wish doesn't exist"`
	// Correlates server logs and client errors
	CorrelationID string `json:"correlation_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
}

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// fail aborts the request with a structured error envelope and logs
// server-side errors.
//
// Server errors (>=500) are logged with the request-scoped logger; the
// logged detail stays server-side, the rendered message does not grow.
func fail(c *gin.Context, status int, code, msg string) {
	cid := correlation.FromContext(c.Request.Context())
	resp := ErrorResponse{Error: ErrorDetail{
		Code:          code,
		Message:       msg,
		CorrelationID: cid,
	}}

	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail().
//
// External packages (e.g., router setup) should call Fail to return
// consistent error envelopes without depending on unexported helpers.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// noContent writes an HTTP 204 No Content response.
func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
