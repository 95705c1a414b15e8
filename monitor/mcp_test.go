package monitor

import (
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/proofwatch/correction"
	"github.com/hazyhaar/proofwatch/settings"
)

var testImpl = &mcp.Implementation{Name: "proofwatch-test", Version: "0.1.0"}

// testMonitor creates a Monitor backed by a throwaway settings database.
// No browser is involved; the tools only need the store and the provider
// registry.
func testMonitor(t *testing.T) *Monitor {
	t.Helper()
	m, err := New(&Config{
		DBPath:   filepath.Join(t.TempDir(), "settings.db"),
		Provider: "rule",
	}, slog.Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

// mcpSession registers the tools and returns a connected client session
// that can call them end-to-end.
func mcpSession(t *testing.T) (*Monitor, *mcp.ClientSession) {
	t.Helper()
	m := testMonitor(t)

	srv := mcp.NewServer(testImpl, nil)
	m.RegisterMCP(srv)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()

	go func() {
		_ = srv.Run(ctx, serverT)
	}()

	client := mcp.NewClient(testImpl, nil)
	session, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })

	return m, session
}

// callTool invokes a tool and returns the JSON text from the first TextContent.
func callTool(t *testing.T, session *mcp.ClientSession, name string, args any) string {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	if err := result.GetError(); err != nil {
		t.Fatalf("CallTool(%s) tool error: %v", name, err)
	}
	if len(result.Content) == 0 {
		t.Fatalf("CallTool(%s): empty content", name)
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("CallTool(%s): expected TextContent, got %T", name, result.Content[0])
	}
	return tc.Text
}

// --- proofwatch_check ---

func TestMCP_Check(t *testing.T) {
	_, session := mcpSession(t)

	text := callTool(t, session, "proofwatch_check", map[string]any{
		"text": "i will recieve teh mail",
	})

	var res correction.Result
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if res.Corrected != "i will receive the mail" {
		t.Fatalf("corrected: got %q", res.Corrected)
	}
	if len(res.Changes) != 2 {
		t.Fatalf("changes: got %d, want 2", len(res.Changes))
	}
}

// --- proofwatch_classify ---

func TestMCP_Classify(t *testing.T) {
	_, session := mcpSession(t)

	text := callTool(t, session, "proofwatch_classify", map[string]any{
		"chain": []map[string]any{
			{"id": "el-1", "tag": "textarea", "attrs": map[string]string{}},
			{"id": "el-2", "tag": "body", "attrs": map[string]string{}},
		},
	})

	var resp classifyResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !resp.Check {
		t.Fatalf("textarea: got %+v, want checkable", resp)
	}
	if resp.HostID != "el-1" {
		t.Fatalf("host: got %q, want el-1", resp.HostID)
	}
}

func TestMCP_Classify_Ineligible(t *testing.T) {
	_, session := mcpSession(t)

	text := callTool(t, session, "proofwatch_classify", map[string]any{
		"chain": []map[string]any{
			{"id": "pw-1", "tag": "input", "attrs": map[string]string{"type": "password"}},
			{"id": "el-2", "tag": "body", "attrs": map[string]string{}},
		},
	})

	var resp classifyResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Check {
		t.Fatalf("password input: got %+v, want not checkable", resp)
	}
	if resp.Reason == "" {
		t.Fatal("want a reason for the refusal")
	}
}

// --- proofwatch_status / proofwatch_set_setting ---

func TestMCP_StatusAndSetSetting(t *testing.T) {
	_, session := mcpSession(t)

	var st struct {
		Status settings.Status `json:"status"`
	}
	text := callTool(t, session, "proofwatch_status", map[string]any{})
	if err := json.Unmarshal([]byte(text), &st); err != nil {
		t.Fatalf("unmarshal status: %v", err)
	}
	if !st.Status.Enabled || st.Status.Configured {
		t.Fatalf("fresh store: got %+v, want enabled and unconfigured", st.Status)
	}

	callTool(t, session, "proofwatch_set_setting", map[string]any{
		"key":   settings.KeyProvider,
		"value": "rule",
	})

	text = callTool(t, session, "proofwatch_status", map[string]any{})
	if err := json.Unmarshal([]byte(text), &st); err != nil {
		t.Fatalf("unmarshal status: %v", err)
	}
	if !st.Status.Configured {
		t.Fatalf("after set provider: got %+v, want configured", st.Status)
	}
}

func TestMCP_SetSetting_UnknownKeyRejected(t *testing.T) {
	_, session := mcpSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "proofwatch_set_setting",
		Arguments: map[string]any{"key": "volume", "value": "11"},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if !result.IsError {
		t.Fatal("unknown key: want a tool error")
	}
}
