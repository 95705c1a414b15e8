package dom

// editableDeclared reports whether the node explicitly declares editable
// behaviour. The three recognised contenteditable values are "true", the
// bare attribute (empty string), and "plaintext-only". A node that merely
// renders editable because an ancestor declared it does not count.
func editableDeclared(n *Node) bool {
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

// ResolveHost maps an event's origin node to the element that owns the
// editable behaviour. Text fields are their own host. For anything else the
// walk starts at the node itself and climbs until it finds the nearest
// explicit contenteditable declaration, stopping at the document body.
// If no declaration is found the origin node is returned unchanged.
//
// Edits inside a rich editable region surface events on the innermost node
// under the caret; every piece of session state must key off the container
// this function returns, never the transient inner node.
func ResolveHost(n *Node) *Node {
	if n == nil {
		return nil
	}
	switch n.Kind() {
	case KindInput, KindTextArea:
		return n
	}

	for cur := n; cur != nil; cur = cur.Parent {
		if editableDeclared(cur) {
			return cur
		}
		if cur.Tag == "body" {
			break
		}
	}
	return n
}
