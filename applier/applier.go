// Package applier merges accepted corrections into live text.
//
// Substitution is first-occurrence-only: when a change's original fragment
// appears more than once, the first match is replaced, which can apply a
// correction to the wrong occurrence. This mirrors the documented contract
// of the Change type; position-anchored changes would remove the ambiguity
// but are not part of the provider surface.
package applier

import (
	"strings"

	"github.com/hazyhaar/proofwatch/correction"
)

// ApplyOne substitutes the first occurrence of c.Original in text with
// c.Replacement. The second return reports whether a match was found;
// unmatched changes leave the text untouched.
func ApplyOne(text string, c correction.Change) (string, bool) {
	if c.Original == "" {
		return text, false
	}
	idx := strings.Index(text, c.Original)
	if idx < 0 {
		return text, false
	}
	return text[:idx] + c.Replacement + text[idx+len(c.Original):], true
}

// ApplyAll applies every change in sequence order. Changes whose original
// fragment is no longer present (already applied, or invalidated by an
// earlier substitution) are skipped.
func ApplyAll(text string, changes []correction.Change) string {
	for _, c := range changes {
		text, _ = ApplyOne(text, c)
	}
	return text
}

// Remove returns changes with index i removed, preserving the relative
// order of the remaining entries. Out-of-range indexes return the slice
// unchanged.
func Remove(changes []correction.Change, i int) []correction.Change {
	if i < 0 || i >= len(changes) {
		return changes
	}
	out := make([]correction.Change, 0, len(changes)-1)
	out = append(out, changes[:i]...)
	out = append(out, changes[i+1:]...)
	return out
}
