// Package domain defines the persistence models for wishlist records.
// These types are mapped with GORM and form the core data layer of the
// wishlist application.
package domain

import (
	"github.com/shopspring/decimal"
)

// Wish represents a single wishlist item: something the owner intends to
// buy, with an optional link, price estimate, and free-form notes.
//
// Fields:
//   - ID: autoincrement integer primary key, assigned by the store on
//     creation and never reused after deletion (SQLite AUTOINCREMENT).
//   - Title: required display name, 1–50 Unicode code points.
//   - Link: optional URL (http:// or https:// only), up to 200 code points.
//   - PriceEstimate: optional non-negative amount, quantized to 2 decimals.
//   - Notes: optional free text, up to 1000 code points.
//   - UpdatedAt: canonical UTC timestamp string (YYYY-MM-DDTHH:MM:SSZ),
//     set by the service on every successful mutation. The column is a
//     string on purpose: the canonical rendering is part of the API
//     contract, so it is stored exactly as it is served.
type Wish struct {
	ID            uint    `json:"id"             gorm:"primaryKey;autoIncrement"`
	Title         string  `json:"title"          gorm:"type:varchar(50);not null"`
	Link          *string `json:"link"           gorm:"type:varchar(200)"`
	PriceEstimate *Price  `json:"price_estimate" gorm:"type:NUMERIC"`
	Notes         *string `json:"notes"          gorm:"type:text"`
	UpdatedAt     string  `json:"updated_at"     gorm:"type:varchar(20);not null;autoUpdateTime:false"`
}

// TableName returns the database table name for Wish.
func (Wish) TableName() string { return "wishes" }

// Price is a monetary amount carried as an exact decimal throughout the
// service, never as a binary float. It serializes to JSON as a string with
// exactly two fractional digits ("19.99") so the wire representation cannot
// drift, and accepts either a JSON number or a numeric string on input.
type Price struct {
	decimal.Decimal
}

// NewPrice wraps a decimal as a Price. Quantization to two decimals is the
// caller's responsibility (see normalize.Price).
func NewPrice(d decimal.Decimal) Price { return Price{Decimal: d} }

// MarshalJSON renders the amount as a quoted fixed-point string, e.g. "20.00".
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.StringFixed(2) + `"`), nil
}

// UnmarshalJSON accepts a JSON number or a quoted numeric string. The raw
// digits are parsed exactly; no float round trip occurs.
func (p *Price) UnmarshalJSON(b []byte) error {
	return p.Decimal.UnmarshalJSON(b)
}
