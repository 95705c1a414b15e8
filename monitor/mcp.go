package monitor

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/proofwatch/classify"
	"github.com/hazyhaar/proofwatch/dom"
	"github.com/hazyhaar/proofwatch/kit"
	"github.com/hazyhaar/proofwatch/settings"
)

// RegisterMCP registers the proofwatch tools on an MCP server.
func (m *Monitor) RegisterMCP(srv *mcp.Server) {
	m.registerCheckTool(srv)
	m.registerClassifyTool(srv)
	m.registerStatusTool(srv)
	m.registerSetSettingTool(srv)
}

// inputSchema builds a JSON Schema object with type "object".
func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// mcpTransport tags the context so downstream logging can tell transports
// apart.
func mcpTransport(next kit.Endpoint) kit.Endpoint {
	return func(ctx context.Context, req any) (any, error) {
		return next(kit.WithTransport(ctx, "mcp"), req)
	}
}

// --- check ---

type checkRequest struct {
	Text string `json:"text"`
}

func (m *Monitor) registerCheckTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "proofwatch_check",
		Description: "Run a grammar and spelling check on a piece of text. Returns the corrected text and the list of discrete changes.",
		InputSchema: inputSchema(map[string]any{
			"text": map[string]any{"type": "string", "description": "Text to check"},
		}, []string{"text"}),
	}

	endpoint := kit.Chain(mcpTransport)(func(ctx context.Context, req any) (any, error) {
		r := req.(*checkRequest)
		prov, err := m.openProvider(ctx)
		if err != nil {
			return nil, err
		}
		res, err := prov.Correct(ctx, r.Text)
		if err != nil {
			return nil, err
		}
		if err := res.Validate(); err != nil {
			return nil, err
		}
		return res, nil
	})

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r checkRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- classify ---

type classifyRequest struct {
	// Chain is the element and its ancestors, origin first, as the page
	// script serializes them.
	Chain []nodePayload `json:"chain"`
}

type classifyResponse struct {
	Check  bool   `json:"check"`
	Reason string `json:"reason"`
	HostID string `json:"host_id,omitempty"`
}

func (m *Monitor) registerClassifyTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "proofwatch_classify",
		Description: "Decide whether a serialized element would be checked: resolves the editing host and runs the eligibility rules. Returns the decision with its reason.",
		InputSchema: inputSchema(map[string]any{
			"chain": map[string]any{
				"type":        "array",
				"description": "Element then ancestors up to body. Each entry: id, tag, attrs, disabled, read_only, editable.",
				"items":       map[string]any{"type": "object"},
			},
		}, []string{"chain"}),
	}

	endpoint := kit.Chain(mcpTransport)(func(_ context.Context, req any) (any, error) {
		r := req.(*classifyRequest)
		p := &eventPayload{Kind: "input", Chain: r.Chain}
		host := dom.ResolveHost(p.node())
		if host == nil {
			return &classifyResponse{Check: false, Reason: "empty chain"}, nil
		}
		d := classify.Classify(host)
		return &classifyResponse{Check: d.Check, Reason: d.Reason, HostID: host.ID}, nil
	})

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r classifyRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- status ---

func (m *Monitor) registerStatusTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "proofwatch_status",
		Description: "Report whether checking is enabled and configured, plus the live session state.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := kit.Chain(mcpTransport)(func(ctx context.Context, _ any) (any, error) {
		st, err := m.Status(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{"status": st, "session": m.Snapshot()}, nil
	})

	decode := func(_ *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- set_setting ---

type setSettingRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (m *Monitor) registerSetSettingTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "proofwatch_set_setting",
		Description: "Write one persisted setting: enabled, provider, api_key, or model.",
		InputSchema: inputSchema(map[string]any{
			"key":   map[string]any{"type": "string", "enum": []any{settings.KeyEnabled, settings.KeyProvider, settings.KeyAPIKey, settings.KeyModel}},
			"value": map[string]any{"type": "string"},
		}, []string{"key", "value"}),
	}

	endpoint := kit.Chain(mcpTransport)(func(ctx context.Context, req any) (any, error) {
		r := req.(*setSettingRequest)
		if err := m.store.Set(ctx, r.Key, r.Value); err != nil {
			return nil, err
		}
		return map[string]string{"status": "ok", "key": r.Key}, nil
	})

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r setSettingRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		switch r.Key {
		case settings.KeyEnabled, settings.KeyProvider, settings.KeyAPIKey, settings.KeyModel:
		default:
			return nil, &settingKeyError{key: r.Key}
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

type settingKeyError struct{ key string }

func (e *settingKeyError) Error() string {
	return "unknown setting key: " + e.key
}
