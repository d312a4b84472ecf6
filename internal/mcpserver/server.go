// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes strandkit schema tools for LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/openstrand/strandkit/internal/schema"
	"github.com/openstrand/strandkit/internal/schemaservice"
	"github.com/openstrand/strandkit/internal/store"
	"github.com/openstrand/strandkit/internal/validate"
)

// Server wraps the MCP server with strandkit tools.
type Server struct {
	mcp *server.MCPServer
	svc *schemaservice.Service
}

// New creates a new MCP server with all strandkit tools registered.
func New(svc *schemaservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Strandkit",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("validate_schema",
		mcp.WithDescription("Validate a Loom, Weave, or Strand document without saving it. "+
			"Returns the full list of errors and warnings with dotted field paths."),
		mcp.WithString("content", mcp.Required(), mcp.Description("YAML document or Markdown with frontmatter")),
	), s.validateSchema)

	s.mcp.AddTool(mcp.NewTool("read_schema",
		mcp.WithDescription("Read a stored schema record by id, including its lifecycle state."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Record id (e.g. topics/intro.md)")),
	), s.readSchema)

	s.mcp.AddTool(mcp.NewTool("save_schema",
		mcp.WithDescription("Validate and save a schema document under the given id. "+
			"Content MUST follow the schema format (versioned, kind-tagged YAML). "+
			"Read the contract first via the get_schema_contract tool or the "+
			"openstrand://schema-format resource. On validation failure nothing "+
			"is written and the diagnostics are returned."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Record id to save under")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Document following the schema format contract")),
	), s.saveSchema)

	s.mcp.AddTool(mcp.NewTool("list_schemas",
		mcp.WithDescription("List stored schema records of a kind in insertion order."),
		mcp.WithString("kind", mcp.Required(), mcp.Description("One of: Loom, Weave, Strand")),
	), s.listSchemas)

	s.mcp.AddTool(mcp.NewTool("pending_schemas",
		mcp.WithDescription("List schema records queued for publication."),
	), s.pendingSchemas)

	s.mcp.AddTool(mcp.NewTool("get_schema_contract",
		mcp.WithDescription("Returns the canonical schema format contract. "+
			"Call this before creating or updating schema documents."),
	), s.getSchemaContract)

	// Resource: schema format contract.
	s.mcp.AddResource(
		mcp.NewResource("openstrand://schema-format", "Schema Format Contract",
			mcp.WithResourceDescription("Canonical versioned schema format that all documents must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readSchemaFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) validateSchema(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.Validate(ctx, content)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(diagnosticsText(res.OK(), res.Errors, res.Warnings)), nil
}

func (s *Server) readSchema(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := s.svc.Get(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(recordSummary(rec), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) saveSchema(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rec, res, err := s.svc.Save(ctx, id, content, store.SaveOptions{})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if rec == nil {
		return mcp.NewToolResultError(diagnosticsText(false, res.Errors, res.Warnings)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("saved: %s (%s, %s)", rec.Meta.ID, rec.Meta.Kind, rec.Meta.State)), nil
}

func (s *Server) listSchemas(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := req.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	recs, err := s.svc.List(ctx, schema.Kind(kind))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(recordLines(recs)), nil
}

func (s *Server) pendingSchemas(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	recs, err := s.svc.Pending(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(recs) == 0 {
		return mcp.NewToolResultText("no pending schemas"), nil
	}
	return mcp.NewToolResultText(recordLines(recs)), nil
}

func (s *Server) getSchemaContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(SchemaFormatContract), nil
}

func (s *Server) readSchemaFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "openstrand://schema-format",
			MIMEType: "text/markdown",
			Text:     SchemaFormatContract,
		},
	}, nil
}

func recordSummary(rec *store.Record) map[string]any {
	return map[string]any{
		"id":       rec.Meta.ID,
		"kind":     rec.Meta.Kind,
		"state":    rec.Meta.State,
		"checksum": rec.Meta.Checksum,
		"savedAt":  rec.Meta.SavedAt,
		"schema":   rec.Schema,
	}
}

func recordLines(recs []*store.Record) string {
	var lines []string
	for _, rec := range recs {
		lines = append(lines, fmt.Sprintf("%s\t%s\t%s", rec.Meta.ID, rec.Meta.Kind, rec.Meta.State))
	}
	return strings.Join(lines, "\n")
}

func diagnosticsText(ok bool, errs, warns []validate.Note) string {
	var b strings.Builder
	if ok {
		b.WriteString("valid")
	} else {
		b.WriteString("invalid")
	}
	for _, n := range errs {
		fmt.Fprintf(&b, "\nerror: %s: %s", n.Path, n.Message)
	}
	for _, n := range warns {
		fmt.Fprintf(&b, "\nwarning: %s: %s", n.Path, n.Message)
	}
	return b.String()
}
