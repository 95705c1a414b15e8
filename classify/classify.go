// Package classify decides whether a document element should ever be
// monitored for correction. Classification is a pure function of the
// element snapshot: no caching, no side effects beyond diagnostic logging
// by callers, and an unchanged element always yields the same decision.
package classify

import (
	"fmt"

	"github.com/hazyhaar/proofwatch/dom"
)

// OverrideAttr is the inheritable opt-in/opt-out attribute. An explicit
// "false" anywhere up the chain rejects the element regardless of every
// other rule; an explicit "true" forces acceptance the same way.
const OverrideAttr = "data-proofwatch"

// Decision is the classifier verdict. Reason is always populated, including
// on acceptance, so decisions stay observable in logs and tests.
type Decision struct {
	Check  bool   `json:"check"`
	Reason string `json:"reason"`
}

// Single-line input types carrying prose.
var proseInputTypes = map[string]bool{
	"text":   true,
	"search": true,
	"email":  true,
}

// Single-line input types that never carry prose. Rejection here is
// unconditional, independent of the allow set.
var nonProseInputTypes = map[string]bool{
	"password":       true,
	"number":         true,
	"tel":            true,
	"url":            true,
	"date":           true,
	"datetime-local": true,
	"month":          true,
	"week":           true,
	"time":           true,
	"color":          true,
	"range":          true,
	"file":           true,
	"hidden":         true,
}

// Input-mode hints indicating non-prose entry.
var nonProseInputModes = map[string]bool{
	"numeric": true,
	"decimal": true,
	"tel":     true,
	"none":    true,
}

// Autocomplete hints for sensitive or non-prose fields.
var sensitiveAutocomplete = map[string]bool{
	"cc-number":     true,
	"cc-name":       true,
	"cc-exp":        true,
	"cc-exp-month":  true,
	"cc-exp-year":   true,
	"cc-csc":        true,
	"cc-type":       true,
	"tel":           true,
	"tel-national":  true,
	"one-time-code": true,
	"postal-code":   true,
	"bday":          true,
	"bday-day":      true,
	"bday-month":    true,
	"bday-year":     true,
}

// ARIA roles marking form controls rather than prose surfaces.
var controlRoles = map[string]bool{
	"spinbutton": true,
	"slider":     true,
	"switch":     true,
	"combobox":   true,
	"listbox":    true,
	"menu":       true,
}

// Classify evaluates the eligibility rules in order; the first matching
// rule wins. The ordering is load-bearing: the override attribute dominates
// everything, structural eligibility gates the remaining checks, and the
// attribute-hint rules only run on structurally eligible elements.
func Classify(n *dom.Node) Decision {
	if n == nil {
		return Decision{Check: false, Reason: "no element"}
	}

	// Rule 1: explicit override, nearest ancestor value wins.
	if v, ok := n.InheritedAttr(OverrideAttr); ok {
		switch v {
		case "false":
			return Decision{Check: false, Reason: "opted out via " + OverrideAttr}
		case "true":
			return Decision{Check: true, Reason: "forced via " + OverrideAttr}
		}
	}

	// Rule 2: structural eligibility.
	switch n.Kind() {
	case dom.KindTextArea:
		// Always structurally eligible.
	case dom.KindInput:
		t := n.InputType()
		if nonProseInputTypes[t] {
			return Decision{Check: false, Reason: fmt.Sprintf("non-prose input type %q", t)}
		}
		if !proseInputTypes[t] {
			return Decision{Check: false, Reason: fmt.Sprintf("input type %q not in prose set", t)}
		}
	default:
		if !regionEditable(n) {
			return Decision{Check: false, Reason: "not an editable prose element"}
		}
	}

	// Rule 3: disabled / read-only, native and accessibility variants.
	if n.Disabled {
		return Decision{Check: false, Reason: "element disabled"}
	}
	if n.ReadOnly {
		return Decision{Check: false, Reason: "element read-only"}
	}
	if v, ok := n.Attr("aria-disabled"); ok && v == "true" {
		return Decision{Check: false, Reason: "aria-disabled"}
	}
	if v, ok := n.Attr("aria-readonly"); ok && v == "true" {
		return Decision{Check: false, Reason: "aria-readonly"}
	}

	// Rule 4: inherited native spellcheck opt-out.
	if v, ok := n.InheritedAttr("spellcheck"); ok && v == "false" {
		return Decision{Check: false, Reason: "spellcheck disabled"}
	}

	// Rule 5: non-prose input mode.
	if v, ok := n.Attr("inputmode"); ok && nonProseInputModes[v] {
		return Decision{Check: false, Reason: fmt.Sprintf("non-prose inputmode %q", v)}
	}

	// Rule 6: sensitive autocomplete hint.
	if v, ok := n.Attr("autocomplete"); ok && sensitiveAutocomplete[v] {
		return Decision{Check: false, Reason: fmt.Sprintf("sensitive autocomplete %q", v)}
	}

	// Rule 7: control role.
	if v, ok := n.Attr("role"); ok && controlRoles[v] {
		return Decision{Check: false, Reason: fmt.Sprintf("control role %q", v)}
	}

	return Decision{Check: true, Reason: "eligible"}
}

// regionEditable reports whether a non-field element owns editable
// behaviour: either the snapshot resolved it as rendered-editable or it
// carries an explicit contenteditable declaration.
func regionEditable(n *dom.Node) bool {
	if n.Editable {
		return true
	}
	v, ok := n.Attr("contenteditable")
	if !ok {
		return false
	}
	switch v {
	case "true", "", "plaintext-only":
		return true
	}
	return false
}
