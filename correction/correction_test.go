package correction

import "testing"

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		res     *Result
		wantErr bool
	}{
		{"nil result", nil, true},
		{"clean", &Result{Corrected: "fine text"}, false},
		{"clean empty corrected", &Result{}, false},
		{
			"valid change",
			&Result{Corrected: "the cat", Changes: []Change{{Original: "teh", Replacement: "the"}}},
			false,
		},
		{
			"missing corrected with changes",
			&Result{Changes: []Change{{Original: "teh", Replacement: "the"}}},
			true,
		},
		{
			"empty original",
			&Result{Corrected: "x", Changes: []Change{{Original: "", Replacement: "the"}}},
			true,
		},
		{
			"identity change passes validation",
			&Result{Corrected: "x", Changes: []Change{{Original: "the", Replacement: "the"}}},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.res.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate: got %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestShapeError_Message(t *testing.T) {
	res := &Result{Corrected: "x", Changes: []Change{
		{Original: "teh", Replacement: "the"},
		{Original: "", Replacement: "y"},
	}}
	err := res.Validate()
	se, ok := err.(*ShapeError)
	if !ok {
		t.Fatalf("error type: got %T", err)
	}
	if se.Index != 1 || se.Field != "original" {
		t.Fatalf("shape error: got %+v", se)
	}
	if got := se.Error(); got != "correction: malformed response: changes[1].original" {
		t.Fatalf("message: got %q", got)
	}
}

func TestNormalize_DropsNoOpChanges(t *testing.T) {
	res := &Result{Corrected: "the cat sat", Changes: []Change{
		{Original: "teh", Replacement: "the"},
		{Original: "sat", Replacement: "sat"},
		{Original: "cta", Replacement: "cat"},
	}}
	res.Normalize()

	if len(res.Changes) != 2 {
		t.Fatalf("changes after normalize: got %d, want 2", len(res.Changes))
	}
	if res.Changes[0].Original != "teh" || res.Changes[1].Original != "cta" {
		t.Fatalf("order not preserved: %+v", res.Changes)
	}
	if err := res.Validate(); err != nil {
		t.Fatalf("normalized result should validate: %v", err)
	}
}

func TestNormalize_AllNoOpsBecomesClean(t *testing.T) {
	res := &Result{Corrected: "fine", Changes: []Change{
		{Original: "fine", Replacement: "fine"},
	}}
	res.Normalize()
	if !res.Clean() {
		t.Fatalf("expected clean result, got %+v", res.Changes)
	}

	var nilRes *Result
	nilRes.Normalize() // must not panic
}

func TestClean(t *testing.T) {
	if !(&Result{Corrected: "ok"}).Clean() {
		t.Fatal("no changes should be clean")
	}
	r := &Result{Corrected: "a", Changes: []Change{{Original: "b", Replacement: "a"}}}
	if r.Clean() {
		t.Fatal("result with changes is not clean")
	}
}
