package mcp

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/csheth/claimscout/internal/catalog"
	"github.com/csheth/claimscout/internal/export"
	"github.com/csheth/claimscout/internal/session"
)

// --- Test helpers ---

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatal(err)
	}
	return NewServer(session.New(cat, session.Options{}), Options{
		Exporter:  export.New(""),
		ExportDir: t.TempDir(),
		Version:   "test",
	})
}

func connect(t *testing.T, srv *Server) *gomcp.ClientSession {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	client := gomcp.NewClient(&gomcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	t1, t2 := gomcp.NewInMemoryTransports()
	go func() {
		_ = srv.MCPServer().Run(ctx, t1)
	}()
	cs, err := client.Connect(ctx, t2, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func call(t *testing.T, cs *gomcp.ClientSession, name string, args map[string]any) *gomcp.CallToolResult {
	t.Helper()
	if args == nil {
		args = map[string]any{}
	}
	res, err := cs.CallTool(context.Background(), &gomcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("call tool %s: %v", name, err)
	}
	return res
}

func decode[T any](t *testing.T, res *gomcp.CallToolResult) T {
	t.Helper()
	var out T
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", extractText(res))
	}
	data, err := json.Marshal(res.StructuredContent)
	if res.StructuredContent == nil {
		data = []byte(extractText(res))
	} else if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal %T: %v (raw %s)", out, err, data)
	}
	return out
}

func extractText(result *gomcp.CallToolResult) string {
	for _, c := range result.Content {
		if tc, ok := c.(*gomcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// --- Tests ---

func TestListCases(t *testing.T) {
	cs := connect(t, newTestServer(t))
	out := decode[listCasesOutput](t, call(t, cs, "list_cases", nil))
	if out.Count != 3 || out.Cases[0].ID != "acme" || out.Cases[0].Elements != 3 {
		t.Fatalf("cases got %+v", out)
	}
}

func TestStrengthenAcceptFlow(t *testing.T) {
	cs := connect(t, newTestServer(t))
	snap := decode[snapshotOutput](t, call(t, cs, "select_case", map[string]any{"case_id": "acme"}))
	if !snap.Started || len(snap.Elements) != 3 || len(snap.Messages) != 2 {
		t.Fatalf("select_case snapshot %+v", snap)
	}

	sub := decode[submitMessageOutput](t, call(t, cs, "submit_message", map[string]any{"text": "Strengthen evidence for element 3"}))
	if sub.Intent != "strengthen" || sub.Pending == nil || sub.Pending.ElementID != 3 {
		t.Fatalf("submit got %+v", sub)
	}

	res := decode[resolveOutput](t, call(t, cs, "resolve_proposal", map[string]any{"action": "accept"}))
	if !res.Resolved || !res.Applied || res.ElementID != 3 || !strings.Contains(res.Reply, "Element 3 updated") {
		t.Fatalf("resolve got %+v", res)
	}

	snap = decode[snapshotOutput](t, call(t, cs, "get_snapshot", nil))
	if snap.Elements[2].Version != 2 || snap.Elements[2].Changes != 1 || snap.Refinements != 1 || snap.Pending != nil {
		t.Fatalf("snapshot after accept %+v", snap)
	}
}

func TestResolveWithoutPending(t *testing.T) {
	cs := connect(t, newTestServer(t))
	call(t, cs, "select_case", map[string]any{"case_id": "acme"})
	res := decode[resolveOutput](t, call(t, cs, "resolve_proposal", map[string]any{"action": "reject"}))
	if res.Resolved || res.Reply != "" {
		t.Fatalf("resolve with nothing pending got %+v", res)
	}
}

func TestToolErrors(t *testing.T) {
	cs := connect(t, newTestServer(t))
	cases := []struct {
		name string
		tool string
		args map[string]any
		want string
	}{
		{"submit before select", "submit_message", map[string]any{"text": "Undo"}, "select_case first"},
		{"unknown case", "select_case", map[string]any{"case_id": "globex"}, "unknown case"},
		{"bad action", "resolve_proposal", map[string]any{"action": "maybe"}, "action"},
		{"bad format", "request_export", map[string]any{"format": "xlsx"}, "unknown export format"},
		{"export before select", "request_export", map[string]any{"format": "csv"}, "not started"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := call(t, cs, tc.tool, tc.args)
			if !res.IsError || !strings.Contains(extractText(res), tc.want) {
				t.Fatalf("got error=%v text=%q want %q", res.IsError, extractText(res), tc.want)
			}
		})
	}
}

func TestSelectTwiceNeedsReset(t *testing.T) {
	cs := connect(t, newTestServer(t))
	call(t, cs, "select_case", map[string]any{"case_id": "acme"})
	if res := call(t, cs, "select_case", map[string]any{"case_id": "nova"}); !res.IsError {
		t.Fatal("second select should fail while a chart is loaded")
	}
	call(t, cs, "reset_session", nil)
	snap := decode[snapshotOutput](t, call(t, cs, "select_case", map[string]any{"case_id": "nova"}))
	if snap.CaseID != "nova" {
		t.Fatalf("case got %q", snap.CaseID)
	}
}

func TestRequestExportWritesCSV(t *testing.T) {
	srv := newTestServer(t)
	cs := connect(t, srv)
	call(t, cs, "select_case", map[string]any{"case_id": "acme"})
	out := decode[exportOutput](t, call(t, cs, "request_export", map[string]any{"format": "csv"}))
	data, err := os.ReadFile(out.Path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.HasPrefix(string(data), "Element #,Patent Claim Element") {
		t.Fatalf("csv header got %q", strings.SplitN(string(data), "\n", 2)[0])
	}
}

func TestHelpDoesNotTouchSession(t *testing.T) {
	cs := connect(t, newTestServer(t))
	out := decode[helpOutput](t, call(t, cs, "help", map[string]any{"query": "how do I undo"}))
	if !strings.HasPrefix(out.Answer, "Type **'Undo'**") {
		t.Fatalf("answer got %q", out.Answer)
	}
	snap := decode[snapshotOutput](t, call(t, cs, "get_snapshot", nil))
	if snap.Started || len(snap.Messages) != 0 {
		t.Fatalf("help changed the session: %+v", snap)
	}
}

func TestHelpWalkthroughForOpenCase(t *testing.T) {
	cs := connect(t, newTestServer(t))
	call(t, cs, "select_case", map[string]any{"case_id": "acme"})
	out := decode[helpOutput](t, call(t, cs, "help", map[string]any{"query": ""}))
	if len(out.Walkthrough) != 5 {
		t.Fatalf("walkthrough got %+v", out.Walkthrough)
	}
	if !strings.Contains(out.Walkthrough[0].Description, "Acme Corp Thermostat") ||
		!strings.Contains(out.Walkthrough[1].Description, "element 3") {
		t.Fatalf("walkthrough not tailored: %+v", out.Walkthrough[:2])
	}
}
