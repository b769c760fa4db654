package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ormasoftchile/bsif/pkg/bsif/diag"
	"github.com/ormasoftchile/bsif/pkg/bsif/exec"
	"github.com/ormasoftchile/bsif/pkg/bsif/resolve"
	"github.com/ormasoftchile/bsif/pkg/bsif/schema"
	"github.com/ormasoftchile/bsif/pkg/bsif/validate"
)

// HandleValidate implements the bsif/validate MCP tool.
func HandleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	path, _ := args["path"].(string)
	if path == "" {
		return errorResult("path argument is required"), nil
	}

	doc, diags := validate.ValidateFile(path)
	if diags.HasErrors() {
		return errorResult(formatDiags(diags.Errors())), nil
	}
	msg := fmt.Sprintf("✓ %s is valid (%s)", doc.Metadata.Name, doc.Semantics.Type())
	if warns := diags.Warnings(); len(warns) > 0 {
		msg += "\n" + formatDiags(warns)
	}
	return textResult(msg), nil
}

// HandleResolve implements the bsif/resolve MCP tool.
func HandleResolve(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	path, _ := args["path"].(string)
	if path == "" {
		return errorResult("path argument is required"), nil
	}

	r := resolve.New(resolve.DefaultOptions())
	resolved, diags := r.Resolve(path)
	if diags.HasErrors() {
		return errorResult(formatDiags(diags.Errors())), nil
	}

	names := make([]string, 0, len(resolved.References))
	for name := range resolved.References {
		names = append(names, name)
	}
	response := map[string]any{
		"name":       resolved.Metadata.Name,
		"references": names,
	}
	data, _ := json.MarshalIndent(response, "", "  ")
	return textResult(string(data)), nil
}

// HandleSend implements the bsif/send MCP tool: it steps a fresh
// exec.Instance through the requested events and reports the outcome. There is
// no dry-run mode to choose: Send never has a side effect to guard
// against.
func HandleSend(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	path, _ := args["path"].(string)
	if path == "" {
		return errorResult("path argument is required"), nil
	}
	eventsArg, _ := args["events"].(string)

	doc, diags := validate.ValidateFile(path)
	if diags.HasErrors() {
		return errorResult(formatDiags(diags.Errors())), nil
	}
	sm, ok := doc.Semantics.(schema.StateMachine)
	if !ok {
		return errorResult(fmt.Sprintf("%s is a %s document, not a state machine", path, doc.Semantics.Type())), nil
	}

	inst := exec.New(sm)
	var events []string
	for _, e := range strings.Split(eventsArg, ",") {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		events = append(events, e)
		next, err := inst.Send(e)
		if err != nil {
			d := diag.Errorf(diag.CodeNoTransition, nil, "send %q from %q: %s", e, inst.CurrentState(), err)
			return errorResult(d.Error()), nil
		}
		inst = next
	}

	response := map[string]any{
		"sent":         events,
		"currentState": inst.CurrentState(),
		"history":      inst.History(),
		"actions":      inst.Actions(),
		"final":        inst.IsInFinalState(),
	}
	data, _ := json.MarshalIndent(response, "", "  ")
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(data))},
	}, nil
}

// HandleSchema implements the bsif/schema MCP tool.
func HandleSchema(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := schema.GenerateJSONSchema()
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return textResult(string(data)), nil
}

func formatDiags(diags diag.List) string {
	var msgs []string
	for _, d := range diags {
		msgs = append(msgs, d.Error())
	}
	return strings.Join(msgs, "; ")
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(text)},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(msg)},
		IsError: true,
	}
}
