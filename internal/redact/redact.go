// Package redact masks sensitive identifiers before they reach a log sink.
package redact

import "strings"

// Redactor masks values when enabled. The zero value passes values through.
type Redactor struct {
	enabled bool
	keep    int
}

// New returns a Redactor that, when enabled, keeps only the last two
// characters of each value.
func New(enabled bool) Redactor {
	return Redactor{enabled: enabled, keep: 2}
}

// Enabled reports whether masking is active.
func (r Redactor) Enabled() bool { return r.enabled }

// Mask replaces all but the trailing characters of v with '*'.
func (r Redactor) Mask(v string) string {
	if !r.enabled || strings.TrimSpace(v) == "" {
		return v
	}
	runes := []rune(v)
	keep := r.keep
	if keep >= len(runes) {
		keep = 0
	}
	return strings.Repeat("*", len(runes)-keep) + string(runes[len(runes)-keep:])
}
