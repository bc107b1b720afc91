// Package services – audit event stream.
//
// Every successful mutation (create, update, delete) emits one structured
// audit line. The stream carries action metadata only: it must never include
// titles, notes, links, or any other user-supplied field value.
package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-wishlist-backend/internal/correlation"
)

// Auditor writes mutation events to a dedicated structured log stream.
// The zero value is not usable; construct with NewAuditor.
type Auditor struct {
	l zerolog.Logger
}

// NewAuditor builds an Auditor writing through the given logger, tagged with
// component=audit so the stream can be routed separately from access logs.
func NewAuditor(l zerolog.Logger) *Auditor {
	return &Auditor{l: l.With().Str("component", "audit").Logger()}
}

// DefaultAuditor builds an Auditor on the global zerolog logger.
func DefaultAuditor() *Auditor {
	return NewAuditor(log.Logger)
}

// Record emits one audit event. The correlation id is read from ctx so the
// event can be joined to the request that caused it.
func (a *Auditor) Record(ctx context.Context, action string, wishID uint, success bool) {
	a.l.Info().
		Str("action", action).
		Uint("wish_id", wishID).
		Bool("success", success).
		Str("correlation_id", correlation.FromContext(ctx)).
		Msg("audit")
}
