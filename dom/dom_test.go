package dom

import "testing"

func TestInheritedAttr_NearestWins(t *testing.T) {
	root := &Node{ID: "root", Tag: "html", Attrs: map[string]string{"spellcheck": "true"}}
	mid := &Node{ID: "mid", Tag: "div", Attrs: map[string]string{"spellcheck": "false"}, Parent: root}
	leaf := &Node{ID: "leaf", Tag: "span", Parent: mid}

	v, ok := leaf.InheritedAttr("spellcheck")
	if !ok || v != "false" {
		t.Fatalf("InheritedAttr: got %q/%v, want \"false\"/true", v, ok)
	}
}

func TestInheritedAttr_ExplicitEmptyDistinctFromAbsent(t *testing.T) {
	parent := &Node{ID: "p", Tag: "div", Attrs: map[string]string{"contenteditable": ""}}
	child := &Node{ID: "c", Tag: "span", Parent: parent}

	v, ok := child.InheritedAttr("contenteditable")
	if !ok || v != "" {
		t.Fatalf("explicit empty: got %q/%v, want \"\"/true", v, ok)
	}

	if _, ok := child.InheritedAttr("nonexistent"); ok {
		t.Fatal("absent attribute reported as set")
	}
}

func TestInputType_DefaultsToText(t *testing.T) {
	n := &Node{ID: "i", Tag: "input"}
	if got := n.InputType(); got != "text" {
		t.Errorf("InputType: got %q, want \"text\"", got)
	}
	n.Attrs = map[string]string{"type": "EMAIL"}
	if got := n.InputType(); got != "email" {
		t.Errorf("InputType: got %q, want \"email\"", got)
	}
}

func TestResolveHost_TextFieldIsItsOwnHost(t *testing.T) {
	container := &Node{ID: "c", Tag: "div", Attrs: map[string]string{"contenteditable": "true"}}
	input := &Node{ID: "i", Tag: "input", Parent: container}

	if got := ResolveHost(input); got != input {
		t.Fatalf("ResolveHost(input): got %s, want the input itself", got.ID)
	}
}

func TestResolveHost_ClimbsToDeclaredContainer(t *testing.T) {
	body := &Node{ID: "body", Tag: "body"}
	host := &Node{ID: "host", Tag: "div", Attrs: map[string]string{"contenteditable": "true"}, Parent: body}
	para := &Node{ID: "para", Tag: "p", Editable: true, Parent: host}
	span := &Node{ID: "span", Tag: "span", Editable: true, Parent: para}

	if got := ResolveHost(span); got != host {
		t.Fatalf("ResolveHost: got %s, want host", got.ID)
	}
}

func TestResolveHost_PlaintextOnlyAndBareAttribute(t *testing.T) {
	for _, v := range []string{"", "plaintext-only"} {
		host := &Node{ID: "host", Tag: "div", Attrs: map[string]string{"contenteditable": v}}
		inner := &Node{ID: "inner", Tag: "b", Parent: host}
		if got := ResolveHost(inner); got != host {
			t.Errorf("contenteditable=%q: got %s, want host", v, got.ID)
		}
	}
}

func TestResolveHost_StopsAtBody(t *testing.T) {
	html := &Node{ID: "html", Tag: "html", Attrs: map[string]string{"contenteditable": "true"}}
	body := &Node{ID: "body", Tag: "body", Parent: html}
	div := &Node{ID: "div", Tag: "div", Parent: body}

	if got := ResolveHost(div); got != div {
		t.Fatalf("ResolveHost past body: got %s, want the origin node", got.ID)
	}
}

func TestResolveHost_InheritedRenderedDoesNotCount(t *testing.T) {
	// Editable=true (rendered) but no explicit declaration anywhere under body.
	body := &Node{ID: "body", Tag: "body"}
	div := &Node{ID: "div", Tag: "div", Editable: true, Parent: body}
	span := &Node{ID: "span", Tag: "span", Editable: true, Parent: div}

	if got := ResolveHost(span); got != span {
		t.Fatalf("ResolveHost: got %s, want origin node back", got.ID)
	}
}
