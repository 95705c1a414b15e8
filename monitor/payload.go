package monitor

import (
	"encoding/json"
	"fmt"

	"github.com/hazyhaar/proofwatch/dom"
)

// eventPayload is one message posted by the page script over the binding.
type eventPayload struct {
	Kind      string        `json:"kind"`
	Chain     []nodePayload `json:"chain,omitempty"`
	ToTooltip bool          `json:"to_tooltip,omitempty"`
	TargetID  string        `json:"target_id,omitempty"`
	InTooltip bool          `json:"in_tooltip,omitempty"`
	Index     int           `json:"index,omitempty"`
}

// nodePayload is one serialized element. The chain is origin-first and
// ends at <body>.
type nodePayload struct {
	ID       string            `json:"id"`
	Tag      string            `json:"tag"`
	Attrs    map[string]string `json:"attrs"`
	Disabled bool              `json:"disabled"`
	ReadOnly bool              `json:"read_only"`
	Editable bool              `json:"editable"`
}

func parsePayload(raw string) (*eventPayload, error) {
	var p eventPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("monitor: parse payload: %w", err)
	}
	if p.Kind == "" {
		return nil, fmt.Errorf("monitor: payload without kind")
	}
	return &p, nil
}

// node rebuilds the origin element with its ancestor chain wired through
// Parent pointers, so host resolution and attribute inheritance work the
// same as in the live document.
func (p *eventPayload) node() *dom.Node {
	var nodes []*dom.Node
	for _, np := range p.Chain {
		nodes = append(nodes, &dom.Node{
			ID:       np.ID,
			Tag:      np.Tag,
			Attrs:    np.Attrs,
			Disabled: np.Disabled,
			ReadOnly: np.ReadOnly,
			Editable: np.Editable,
		})
	}
	for i := 0; i < len(nodes)-1; i++ {
		nodes[i].Parent = nodes[i+1]
	}
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}
