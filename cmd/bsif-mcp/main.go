// Package main provides the bsif-mcp binary — MCP server for AI agents.
package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	bmcp "github.com/ormasoftchile/bsif/pkg/bsif/ecosystem/mcp"
)

var version = "dev"

func main() {
	s := bmcp.NewServer(version)
	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
