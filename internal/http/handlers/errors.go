// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes the closed set of error codes mapped to HTTP
// responses (via the `fail()` helper in this package). The taxonomy is
// deliberately small and total: every failure a request can produce renders
// as exactly one of these codes, so the envelope shape is uniform across
// domain errors, input validation, transport mismatches, and faults.
//
// Conventions:
//   - validation_error (422): client-correctable input problem
//   - not_found        (404): the referenced id does not exist
//   - http_error       (4xx): transport-level mismatch (unroutable path,
//     wrong method)
//   - internal_error   (500): unexpected fault; the message is always
//     generic and internals are never exposed
package handlers

const (
	ErrCodeValidation = "validation_error"
	ErrCodeNotFound   = "not_found"
	ErrCodeHTTP       = "http_error"
	ErrCodeInternal   = "internal_error"
)
