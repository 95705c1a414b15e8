package idgen

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNew_ValidUUIDv7(t *testing.T) {
	id := New()
	u, err := uuid.Parse(id)
	if err != nil {
		t.Fatalf("New: %q not a UUID: %v", id, err)
	}
	if u.Version() != 7 {
		t.Errorf("version: got %d, want 7", u.Version())
	}
}

func TestNew_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := New()
		if seen[id] {
			t.Fatalf("duplicate ID: %s", id)
		}
		seen[id] = true
	}
}

func TestPrefixed(t *testing.T) {
	gen := Prefixed("chk_", UUIDv7())
	id := gen()
	if !strings.HasPrefix(id, "chk_") {
		t.Fatalf("Prefixed: got %q, want chk_ prefix", id)
	}
	if _, err := uuid.Parse(strings.TrimPrefix(id, "chk_")); err != nil {
		t.Fatalf("Prefixed suffix not a UUID: %v", err)
	}
}
