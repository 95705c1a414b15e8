// Package correction defines the structured types exchanged with correction
// providers. These are the public API contract: any provider implementation
// and any consumer of results imports this package.
package correction

import "fmt"

// Change is a single proposed substitution of one text fragment for another,
// with a human-readable rationale. Original is matched against the live text
// by first occurrence; it is not guaranteed unique within the source.
type Change struct {
	Original    string `json:"original"`
	Replacement string `json:"replacement"`
	Explanation string `json:"explanation"`
}

// Result is a provider's answer for one piece of text. Changes may be empty
// when the text is clean; Corrected then equals the input.
type Result struct {
	Corrected string   `json:"corrected"`
	Changes   []Change `json:"changes"`
}

// Clean reports whether the result carries no changes.
func (r *Result) Clean() bool { return len(r.Changes) == 0 }

// ShapeError describes a malformed provider response. The engine treats it
// like any capability failure: it must never render an undefined or partial
// result.
type ShapeError struct {
	Field string
	Index int // change index for per-change faults, -1 otherwise
}

func (e *ShapeError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("correction: malformed response: changes[%d].%s", e.Index, e.Field)
	}
	return fmt.Sprintf("correction: malformed response: %s", e.Field)
}

// Validate guards the response shape before it reaches any UI surface.
// Every change must name the fragment it replaces; a nil result or an
// absent corrected text on a non-empty change list is malformed.
func (r *Result) Validate() error {
	if r == nil {
		return &ShapeError{Field: "result", Index: -1}
	}
	if len(r.Changes) > 0 && r.Corrected == "" {
		return &ShapeError{Field: "corrected", Index: -1}
	}
	for i, c := range r.Changes {
		if c.Original == "" {
			return &ShapeError{Field: "original", Index: i}
		}
	}
	return nil
}

// Normalize drops no-op changes (Original equal to Replacement). Providers
// occasionally emit them; they carry nothing to apply and must not fail the
// whole response. A result whose changes all drop becomes clean.
func (r *Result) Normalize() {
	if r == nil {
		return
	}
	kept := r.Changes[:0]
	for _, c := range r.Changes {
		if c.Original != c.Replacement {
			kept = append(kept, c)
		}
	}
	r.Changes = kept
}
