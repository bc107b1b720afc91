// Package normalize turns loosely-typed client input into the canonical
// internal representation of a wish record, or rejects it with a
// ValidationError. All functions are pure and total over any syntactically
// parseable JSON value.
//
// Field values arrive as json.RawMessage so that "absent", "null", and a
// typed value stay distinguishable on partial updates. Monetary amounts are
// parsed and rounded with exact decimal arithmetic (shopspring/decimal);
// binary floats never enter the pipeline.
package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/tbourn/go-wishlist-backend/internal/domain"
)

// Length bounds, counted in Unicode code points after NFC normalization.
const (
	TitleMaxRunes  = 50
	LinkMaxRunes   = 200
	NotesMaxRunes  = 1000
	SearchMinRunes = 1
	SearchMaxRunes = 100
)

// ValidationError is a client-correctable input problem. Its message is safe
// to return verbatim in the API error envelope.
type ValidationError struct {
	msg string
}

// Error implements the error interface.
func (e *ValidationError) Error() string { return e.msg }

// NewValidationError builds a ValidationError with the given client-safe message.
func NewValidationError(msg string) *ValidationError { return &ValidationError{msg: msg} }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// jsonNull matches the literal JSON null value.
var jsonNull = []byte("null")

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), jsonNull)
}

// decodeString decodes raw as a JSON string, returning a ValidationError
// with the given field name when raw is any other JSON type.
func decodeString(raw json.RawMessage, field string) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", NewValidationError(field + " must be a string")
	}
	return s, nil
}

// Title validates and canonicalizes a title value. The title is required on
// create and, once present, can never be cleared: an explicit null or empty
// string on update is rejected just like a missing title on create.
func Title(raw json.RawMessage, onUpdate bool) (string, error) {
	missing := "title is required"
	if onUpdate {
		missing = "title can't be empty"
	}
	if len(raw) == 0 || isNull(raw) {
		return "", NewValidationError(missing)
	}
	s, err := decodeString(raw, "title")
	if err != nil {
		return "", err
	}
	s = norm.NFC.String(s)
	if s == "" {
		return "", NewValidationError(missing)
	}
	if utf8.RuneCountInString(s) > TitleMaxRunes {
		return "", NewValidationError("title must be at most 50 characters")
	}
	return s, nil
}

// Link validates an optional URL. A JSON null yields (nil, nil), clearing
// the field. Only http:// and https:// schemes are accepted, matched
// case-sensitively at the start of the value.
func Link(raw json.RawMessage) (*string, error) {
	if len(raw) == 0 || isNull(raw) {
		return nil, nil
	}
	s, err := decodeString(raw, "link")
	if err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(s) > LinkMaxRunes {
		return nil, NewValidationError("link must be at most 200 characters")
	}
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return nil, NewValidationError("link must start with http:// or https://")
	}
	return &s, nil
}

// Price validates an optional monetary amount supplied as a JSON number or
// a numeric string. A JSON null yields (nil, nil). Negative amounts are
// rejected; accepted amounts are rounded half-up to two fractional digits.
func Price(raw json.RawMessage) (*domain.Price, error) {
	if len(raw) == 0 || isNull(raw) {
		return nil, nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(raw); err != nil {
		return nil, NewValidationError("price_estimate must be a number")
	}
	return quantize(d)
}

// PriceLiteral validates a monetary amount supplied as a plain string, e.g.
// a query parameter. Same rules as Price.
func PriceLiteral(s string) (*domain.Price, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, NewValidationError("price_estimate must be a number")
	}
	return quantize(d)
}

// quantize applies the sign check and round-half-up quantization shared by
// Price and PriceLiteral. decimal.Round rounds half away from zero, which
// is round-half-up over the non-negative range enforced here.
func quantize(d decimal.Decimal) (*domain.Price, error) {
	if d.IsNegative() {
		return nil, NewValidationError("price_estimate must be non-negative")
	}
	p := domain.NewPrice(d.Round(2))
	return &p, nil
}

// Notes validates optional free-form notes. A JSON null yields (nil, nil).
func Notes(raw json.RawMessage) (*string, error) {
	if len(raw) == 0 || isNull(raw) {
		return nil, nil
	}
	s, err := decodeString(raw, "notes")
	if err != nil {
		return nil, err
	}
	s = norm.NFC.String(s)
	if utf8.RuneCountInString(s) > NotesMaxRunes {
		return nil, NewValidationError("notes must be at most 1000 characters")
	}
	return &s, nil
}

// SearchTerm bounds a raw search query to 1–100 code points. The term is
// returned unmodified; metacharacter escaping happens in the search package.
func SearchTerm(term string) (string, error) {
	n := utf8.RuneCountInString(term)
	if n < SearchMinRunes {
		return "", NewValidationError("search query must not be empty")
	}
	if n > SearchMaxRunes {
		return "", NewValidationError("search query must be at most 100 characters")
	}
	return term, nil
}

// Timestamp renders t as the canonical wire timestamp: UTC, seconds
// precision, zero offset written as a literal Z (e.g. 2024-07-01T12:30:00Z).
func Timestamp(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

// Now returns the canonical timestamp for the current instant.
func Now() string { return Timestamp(time.Now()) }
