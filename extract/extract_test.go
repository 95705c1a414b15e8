package extract

import "testing"

func TestText_BlocksBecomeLines(t *testing.T) {
	got, err := Text(`<div>first line</div><div>second <b>bold</b> line</div>`)
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	want := "first line\nsecond bold line"
	if got != want {
		t.Fatalf("Text: got %q, want %q", got, want)
	}
}

func TestText_BrAndWhitespaceCollapse(t *testing.T) {
	got, err := Text("<p>one   \t two</p><p>three<br>four</p>")
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	want := "one two\nthree\nfour"
	if got != want {
		t.Fatalf("Text: got %q, want %q", got, want)
	}
}

func TestText_SkipsScriptAndStyle(t *testing.T) {
	got, err := Text(`<div>keep<script>drop()</script><style>.x{}</style></div>`)
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if got != "keep" {
		t.Fatalf("Text: got %q, want %q", got, "keep")
	}
}

func TestText_PlainStringPassesThrough(t *testing.T) {
	got, err := Text("just plain text")
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if got != "just plain text" {
		t.Fatalf("Text: got %q", got)
	}
}

func TestSanitizeExplanation_StripsMarkup(t *testing.T) {
	got := SanitizeExplanation(`use <b>"their"</b> here<script>alert(1)</script>`)
	if got != `use &#34;their&#34; here` {
		t.Fatalf("SanitizeExplanation: got %q", got)
	}
}

func TestMarkdown(t *testing.T) {
	got, err := Markdown(`<p>some <strong>bold</strong> text</p>`)
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	if got != "some **bold** text" {
		t.Fatalf("Markdown: got %q", got)
	}
}
