// Package mcp exposes the BSIF toolchain as an MCP server: a thin
// tool-registration layer over the same validate/resolve/exec packages
// the CLI drives.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewServer creates a new MCP server with bsif tools registered.
func NewServer(version string) *server.MCPServer {
	s := server.NewMCPServer(
		"bsif",
		version,
		server.WithToolCapabilities(true),
	)

	s.AddTool(
		mcp.NewTool("bsif/validate",
			mcp.WithDescription("Validate a BSIF document structurally and semantically"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Path to the BSIF JSON or YAML file")),
		),
		HandleValidate,
	)

	s.AddTool(
		mcp.NewTool("bsif/resolve",
			mcp.WithDescription("Resolve a BSIF document's transitive references into a DAG"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Path to the root BSIF file")),
		),
		HandleResolve,
	)

	s.AddTool(
		mcp.NewTool("bsif/send",
			mcp.WithDescription("Step a BSIF state machine through a sequence of events"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Path to a state-machine BSIF file")),
			mcp.WithString("events", mcp.Required(), mcp.Description("Comma-separated event names to send in order")),
		),
		HandleSend,
	)

	s.AddTool(
		mcp.NewTool("bsif/schema",
			mcp.WithDescription("Export the BSIF document JSON Schema (Draft 2020-12)"),
		),
		HandleSchema,
	)

	return s
}
