// Package domain defines the core persistence models for the application.
package domain

import "time"

// IdempotencyRecord stores the outcome of a previously processed create
// request, keyed by the client-supplied Idempotency-Key header. It enables
// safe retries of POST /wishes: a replay within the TTL returns the wish
// that was originally created instead of inserting a duplicate.
type IdempotencyRecord struct {
	ID        string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	Key       string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_idem_key"`
	WishID    uint      `gorm:"not null"`
	Status    int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (IdempotencyRecord) TableName() string { return "idempotency_keys" }
