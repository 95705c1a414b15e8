// Package dom models the slice of the host document the correction engine
// reasons about: an element snapshot with its attribute surface and ancestor
// chain, captured at decision time.
//
// Nodes are identity-comparable handles, not owning references. The engine
// keys all session state (active element, dismissal marker) off Node.ID and
// never retains a *Node beyond the event that delivered it, so a snapshot
// cannot extend the lifetime of the underlying UI node.
package dom

import "strings"

// Kind is the broad element category the classifier branches on.
type Kind string

const (
	KindInput    Kind = "input"    // single-line text field
	KindTextArea Kind = "textarea" // multi-line text field
	KindOther    Kind = "other"    // anything else, editable regions included
)

// Node is a snapshot of one document element. Attrs holds the element's own
// attributes; inherited lookups walk Parent. The chain ends before the
// document root, so walking to nil covers exactly the ancestor elements.
type Node struct {
	ID       string            `json:"id"`
	Tag      string            `json:"tag"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Disabled bool              `json:"disabled,omitempty"` // IDL property, not the attribute
	ReadOnly bool              `json:"readonly,omitempty"`
	Editable bool              `json:"editable,omitempty"` // isContentEditable as rendered
	Parent   *Node             `json:"parent,omitempty"`
}

// Kind reports the element category from the tag name.
func (n *Node) Kind() Kind {
	switch strings.ToLower(n.Tag) {
	case "input":
		return KindInput
	case "textarea":
		return KindTextArea
	default:
		return KindOther
	}
}

// Attr returns the element's own attribute value. The second return
// distinguishes an explicit empty string from an absent attribute.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.Attrs[name]
	return v, ok
}

// InheritedAttr searches from the element upward through its ancestors and
// returns the nearest explicitly-set value. Absence at every level yields
// ok=false, which is distinct from an explicit empty string at some level.
func (n *Node) InheritedAttr(name string) (string, bool) {
	for cur := n; cur != nil; cur = cur.Parent {
		if v, ok := cur.Attrs[name]; ok {
			return v, true
		}
	}
	return "", false
}

// InputType returns the normalised type of a single-line field. Inputs with
// no type attribute behave as type "text".
func (n *Node) InputType() string {
	t, ok := n.Attr("type")
	if !ok || t == "" {
		return "text"
	}
	return strings.ToLower(t)
}
