// Package services defines the business logic for wishlist records.
// This file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes is performed at the
// handler layer. Input-shape violations are reported as
// *normalize.ValidationError (see normalize.IsValidation); anything else
// coming out of the store is treated by handlers as an internal fault.
package services

import "errors"

// ErrWishNotFound indicates that the requested wish does not exist.
var ErrWishNotFound = errors.New("wish doesn't exist")
