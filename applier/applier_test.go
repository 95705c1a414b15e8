package applier

import (
	"testing"

	"github.com/hazyhaar/proofwatch/correction"
)

func TestApplyOne_FirstOccurrenceOnly(t *testing.T) {
	got, ok := ApplyOne("teh cat and teh dog", correction.Change{Original: "teh", Replacement: "the"})
	if !ok {
		t.Fatal("ApplyOne: no match reported")
	}
	if got != "the cat and teh dog" {
		t.Fatalf("ApplyOne: got %q, want only the first occurrence replaced", got)
	}
}

func TestApplyOne_NoMatch(t *testing.T) {
	got, ok := ApplyOne("clean text", correction.Change{Original: "teh", Replacement: "the"})
	if ok || got != "clean text" {
		t.Fatalf("ApplyOne: got %q/%v, want untouched text and no match", got, ok)
	}
}

func TestApplyOne_EmptyOriginal(t *testing.T) {
	got, ok := ApplyOne("text", correction.Change{Original: "", Replacement: "x"})
	if ok || got != "text" {
		t.Fatalf("ApplyOne empty original: got %q/%v, want no-op", got, ok)
	}
}

func TestApplyAll_SequenceOrder(t *testing.T) {
	changes := []correction.Change{
		{Original: "helo", Replacement: "hello"},
		{Original: "wrld", Replacement: "world"},
	}
	got := ApplyAll("helo wrld", changes)
	if got != "hello world" {
		t.Fatalf("ApplyAll: got %q, want %q", got, "hello world")
	}
}

func TestApplyAll_SkipsInvalidated(t *testing.T) {
	changes := []correction.Change{
		{Original: "abc", Replacement: "xyz"},
		{Original: "abc", Replacement: "qqq"}, // gone after the first apply
	}
	got := ApplyAll("abc", changes)
	if got != "xyz" {
		t.Fatalf("ApplyAll: got %q, want %q", got, "xyz")
	}
}

func TestRemove_PreservesOrder(t *testing.T) {
	changes := []correction.Change{
		{Original: "a"}, {Original: "b"}, {Original: "c"},
	}
	got := Remove(changes, 1)
	if len(got) != 2 {
		t.Fatalf("Remove: got %d changes, want 2", len(got))
	}
	if got[0].Original != "a" || got[1].Original != "c" {
		t.Fatalf("Remove: got %v, want order a,c", got)
	}
	// Source slice stays intact.
	if len(changes) != 3 {
		t.Fatalf("Remove mutated input: %v", changes)
	}
}

func TestRemove_OutOfRange(t *testing.T) {
	changes := []correction.Change{{Original: "a"}}
	if got := Remove(changes, 5); len(got) != 1 {
		t.Fatalf("Remove out of range: got %d, want 1", len(got))
	}
	if got := Remove(changes, -1); len(got) != 1 {
		t.Fatalf("Remove negative: got %d, want 1", len(got))
	}
}
