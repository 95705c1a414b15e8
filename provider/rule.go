package provider

import (
	"context"
	"sort"
	"strings"

	"github.com/hazyhaar/proofwatch/correction"
)

func init() {
	must(Register(Metadata{
		Name:        "rule",
		DisplayName: "Local rules",
		RequiresKey: false,
	}, newRule))
}

// RuleChange is one fixed substitution for the local rule provider.
type RuleChange struct {
	Replacement string
	Explanation string
}

// rule is a deterministic offline backend: a fixed table of misspellings.
// It serves development and tests; it makes the whole engine runnable with
// no network and no key.
type rule struct {
	rules map[string]RuleChange
	order []string
}

func newRule(cfg Config) (Provider, error) {
	rules := cfg.Rules
	if rules == nil {
		rules = defaultRules
	}
	order := make([]string, 0, len(rules))
	for k := range rules {
		order = append(order, k)
	}
	// Deterministic change ordering: by first occurrence in the text, so
	// results are stable across runs.
	sort.Strings(order)
	return &rule{rules: rules, order: order}, nil
}

var defaultRules = map[string]RuleChange{
	"teh":        {Replacement: "the", Explanation: "Spelling: \"teh\" should be \"the\"."},
	"recieve":    {Replacement: "receive", Explanation: "Spelling: i before e except after c."},
	"seperate":   {Replacement: "separate", Explanation: "Spelling: \"seperate\" should be \"separate\"."},
	"definately": {Replacement: "definitely", Explanation: "Spelling: \"definately\" should be \"definitely\"."},
	"alot":       {Replacement: "a lot", Explanation: "\"alot\" is not a word."},
	"its a":      {Replacement: "it's a", Explanation: "Contraction of \"it is\" needs an apostrophe."},
}

func (p *rule) Correct(ctx context.Context, text string) (*correction.Result, error) {
	type hit struct {
		pos int
		key string
	}
	var hits []hit
	for _, key := range p.order {
		if pos := strings.Index(text, key); pos >= 0 {
			hits = append(hits, hit{pos: pos, key: key})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	res := &correction.Result{Corrected: text}
	for _, h := range hits {
		rc := p.rules[h.key]
		res.Changes = append(res.Changes, correction.Change{
			Original:    h.key,
			Replacement: rc.Replacement,
			Explanation: rc.Explanation,
		})
		res.Corrected = strings.Replace(res.Corrected, h.key, rc.Replacement, 1)
	}
	return res, nil
}
