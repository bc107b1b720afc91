// Package search builds safe substring-match patterns for SQL LIKE queries.
// It is intentionally small and dependency-free:
//
//   - No logging in the library (callers decide how/what to log)
//   - Deterministic output: the same term always yields the same pattern
//   - Injection-proof: wildcard and escape metacharacters in the term are
//     neutralized, so a term can only ever match itself as a literal
//     substring, never "all records"
//
// Queries using these patterns must declare the escape character, e.g.
//
//	db.Where("title LIKE ? ESCAPE '\\'", search.SubstringPattern(term))
package search

import "strings"

// Escape is the escape character declared in the LIKE clause.
const Escape = `\`

// likeEscaper neutralizes the three characters significant to LIKE:
// the escape character itself, then the two wildcards. The escape character
// must be replaced first so it cannot re-arm a later substitution.
var likeEscaper = strings.NewReplacer(
	`\`, `\\`,
	`%`, `\%`,
	`_`, `\_`,
)

// EscapeLike returns s with all LIKE metacharacters escaped, suitable for
// embedding in a pattern as a literal.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// SubstringPattern converts a raw, caller-supplied term into a pattern that
// matches any value containing the term as a literal substring. Wildcards
// inside the term are matched literally; only the surrounding anchors are
// open wildcards.
func SubstringPattern(term string) string {
	return "%" + EscapeLike(term) + "%"
}
