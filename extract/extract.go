// Package extract turns the HTML of a rich editable region into the prose
// the correction provider should see, and sanitises provider-supplied
// explanation strings before they are injected into tooltip markup.
package extract

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// Elements that break prose flow into separate lines.
var blockTags = map[string]bool{
	"address": true, "article": true, "blockquote": true, "div": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "p": true, "pre": true, "section": true, "table": true,
	"tr": true, "ul": true, "ol": true,
}

// Elements whose text content never reaches the provider.
var skipTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
}

// Text extracts plain prose from editable-region HTML: block elements and
// <br> become newlines, script/style subtrees are dropped, and runs of
// whitespace inside a line collapse to single spaces.
func Text(fragment string) (string, error) {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("extract: parse: %w", err)
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			if skipTags[n.Data] {
				return
			}
			if n.Data == "br" {
				b.WriteString("\n")
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockTags[n.Data] {
			b.WriteString("\n")
		}
	}
	walk(doc)

	return collapse(b.String()), nil
}

// collapse normalises whitespace: spaces and tabs collapse within lines,
// blank lines collapse to one newline, edges are trimmed.
func collapse(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// Markdown converts editable-region HTML to markdown, preserving emphasis
// and links for providers that want structure rather than flat prose.
func Markdown(fragment string) (string, error) {
	md, err := htmltomarkdown.ConvertString(fragment)
	if err != nil {
		return "", fmt.Errorf("extract: markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}

var strict = bluemonday.StrictPolicy()

// SanitizeExplanation strips all markup from a provider explanation. The
// tooltip injects explanations into page HTML, so provider output is never
// trusted as markup.
func SanitizeExplanation(s string) string {
	return strict.Sanitize(s)
}
