package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openstrand/strandkit/internal/document"
	"github.com/openstrand/strandkit/internal/icons"
	"github.com/openstrand/strandkit/internal/schemaservice"
	"github.com/openstrand/strandkit/internal/testutil"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	db := testutil.TestStore(t)
	svc := schemaservice.NewService(db, document.NewParser(icons.Default()), nil)
	return New(svc)
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so the handler functions
	// are exercised directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "validate_schema":
		result, err = srv.validateSchema(ctx, req)
	case "read_schema":
		result, err = srv.readSchema(ctx, req)
	case "save_schema":
		result, err = srv.saveSchema(ctx, req)
	case "list_schemas":
		result, err = srv.listSchemas(ctx, req)
	case "pending_schemas":
		result, err = srv.pendingSchemas(ctx, req)
	case "get_schema_contract":
		result, err = srv.getSchemaContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestValidateSchemaTool(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "validate_schema", map[string]interface{}{
		"content": "kind: Loom\nmetadata:\n  name: X\n",
	})
	if resultText(r) != "valid" {
		t.Errorf("result = %q, want valid", resultText(r))
	}

	r = callTool(t, srv, "validate_schema", map[string]interface{}{
		"content": "kind: Loom\n",
	})
	text := resultText(r)
	if !strings.HasPrefix(text, "invalid") || !strings.Contains(text, "metadata.name") {
		t.Errorf("result = %q, want diagnostics", text)
	}
}

func TestSaveAndReadSchema(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "save_schema", map[string]interface{}{
		"id":      "looms/a",
		"content": "kind: Loom\nmetadata:\n  name: Saved Via MCP\n",
	})
	text := resultText(r)
	if !strings.HasPrefix(text, "saved: looms/a") {
		t.Errorf("save result = %q", text)
	}

	r = callTool(t, srv, "read_schema", map[string]interface{}{"id": "looms/a"})
	text = resultText(r)
	if !strings.Contains(text, "Saved Via MCP") {
		t.Errorf("read result = %q", text)
	}
}

func TestSaveSchema_ValidationFailure(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "save_schema", map[string]interface{}{
		"id":      "bad",
		"content": "kind: Strand\n", // title missing
	})
	if !r.IsError {
		t.Fatal("expected error result for invalid document")
	}
	if !strings.Contains(resultText(r), "title") {
		t.Errorf("result = %q, want title diagnostic", resultText(r))
	}

	r = callTool(t, srv, "read_schema", map[string]interface{}{"id": "bad"})
	if !r.IsError {
		t.Error("failed save must not write")
	}
}

func TestListSchemasTool(t *testing.T) {
	srv := testServer(t)
	callTool(t, srv, "save_schema", map[string]interface{}{
		"id":      "a",
		"content": "kind: Loom\nmetadata:\n  name: A\n",
	})

	r := callTool(t, srv, "list_schemas", map[string]interface{}{"kind": "Loom"})
	if !strings.Contains(resultText(r), "a\tLoom\tsaved") {
		t.Errorf("list = %q", resultText(r))
	}

	r = callTool(t, srv, "list_schemas", map[string]interface{}{"kind": "Tapestry"})
	if !r.IsError {
		t.Error("expected error for unknown kind")
	}
}

func TestPendingSchemasTool(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "pending_schemas", map[string]interface{}{})
	if resultText(r) != "no pending schemas" {
		t.Errorf("empty queue = %q", resultText(r))
	}
}

func TestGetSchemaContract(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "get_schema_contract", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "kind-tagged YAML") {
		t.Errorf("contract = %q", text)
	}
}

func TestReadSchemaMissing(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "read_schema", map[string]interface{}{"id": "nope"})
	if !r.IsError {
		t.Error("expected error for missing record")
	}
}
