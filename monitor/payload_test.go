package monitor

import (
	"testing"

	"github.com/hazyhaar/proofwatch/classify"
	"github.com/hazyhaar/proofwatch/dom"
)

func TestParsePayload_InputChain(t *testing.T) {
	raw := `{
		"kind": "input",
		"chain": [
			{"id": "pw-3", "tag": "span", "attrs": {}, "editable": true},
			{"id": "pw-2", "tag": "div", "attrs": {"contenteditable": "true"}, "editable": true},
			{"id": "pw-1", "tag": "body", "attrs": {}}
		]
	}`
	p, err := parsePayload(raw)
	if err != nil {
		t.Fatal(err)
	}
	if p.Kind != "input" {
		t.Fatalf("kind: got %q", p.Kind)
	}

	n := p.node()
	if n == nil || n.ID != "pw-3" {
		t.Fatalf("origin: got %+v", n)
	}
	if n.Parent == nil || n.Parent.ID != "pw-2" {
		t.Fatalf("parent: got %+v", n.Parent)
	}
	if n.Parent.Parent == nil || n.Parent.Parent.Tag != "body" {
		t.Fatalf("grandparent: got %+v", n.Parent.Parent)
	}

	// The rebuilt chain must resolve to the declared contenteditable host.
	host := dom.ResolveHost(n)
	if host == nil || host.ID != "pw-2" {
		t.Fatalf("host: got %+v", host)
	}
	if d := classify.Classify(host); !d.Check {
		t.Fatalf("host should be checkable: %+v", d)
	}
}

func TestParsePayload_TextareaChain(t *testing.T) {
	raw := `{
		"kind": "blur",
		"to_tooltip": true,
		"chain": [
			{"id": "pw-7", "tag": "textarea", "attrs": {"name": "bio"}},
			{"id": "pw-1", "tag": "body", "attrs": {}}
		]
	}`
	p, err := parsePayload(raw)
	if err != nil {
		t.Fatal(err)
	}
	if !p.ToTooltip {
		t.Fatal("to_tooltip lost")
	}

	host := dom.ResolveHost(p.node())
	if host == nil || host.ID != "pw-7" {
		t.Fatalf("textarea is its own host: got %+v", host)
	}
}

func TestParsePayload_Pointer(t *testing.T) {
	p, err := parsePayload(`{"kind": "pointer", "target_id": "pw-4", "in_tooltip": true}`)
	if err != nil {
		t.Fatal(err)
	}
	if p.TargetID != "pw-4" || !p.InTooltip {
		t.Fatalf("pointer fields: got %+v", p)
	}
	if p.node() != nil {
		t.Fatal("pointer payload has no node")
	}
}

func TestParsePayload_Invalid(t *testing.T) {
	if _, err := parsePayload(`not json`); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := parsePayload(`{"chain": []}`); err == nil {
		t.Fatal("expected missing-kind error")
	}
}

func TestParsePayload_DisabledFlag(t *testing.T) {
	raw := `{
		"kind": "input",
		"chain": [
			{"id": "pw-9", "tag": "textarea", "attrs": {}, "disabled": true},
			{"id": "pw-1", "tag": "body", "attrs": {}}
		]
	}`
	p, err := parsePayload(raw)
	if err != nil {
		t.Fatal(err)
	}
	host := dom.ResolveHost(p.node())
	if d := classify.Classify(host); d.Check {
		t.Fatalf("disabled element must not be checkable: %+v", d)
	}
}
