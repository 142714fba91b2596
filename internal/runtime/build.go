// Package runtime assembles the MCP server from the tool registry.
package runtime

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/modal-tools/modal-mcp-server/internal/dispatch"
	"github.com/modal-tools/modal-mcp-server/internal/protocol"
	"github.com/modal-tools/modal-mcp-server/internal/registry"
)

// Builder constructs an MCP server exposing every registered tool.
type Builder struct {
	// Name is the MCP server name.
	Name string
	// Version is the MCP server version.
	Version string
	// Dispatcher runs tool invocations.
	Dispatcher dispatch.Dispatcher
}

// Build creates the MCP server with one tool per registry definition. Each
// handler delegates to the dispatcher, so both transports share identical
// semantics.
func (b Builder) Build() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    b.Name,
		Version: b.Version,
	}, nil)

	for _, def := range b.Dispatcher.Registry.Definitions() {
		tool := &mcp.Tool{
			Name:        def.Name,
			Title:       def.Title,
			Description: def.Description,
			InputSchema: def.InputSchema(),
			Annotations: buildAnnotations(def.Annotations),
		}
		name := def.Name
		mcp.AddTool(server, tool, func(ctx context.Context, _ *mcp.CallToolRequest, input map[string]any) (*mcp.CallToolResult, protocol.Envelope, error) {
			return nil, b.Dispatcher.Call(ctx, name, input), nil
		})
	}

	return server
}

func buildAnnotations(a registry.Annotations) *mcp.ToolAnnotations {
	// Every tool talks to the remote platform.
	openWorld := true
	destructive := a.Destructive
	return &mcp.ToolAnnotations{
		ReadOnlyHint:    a.ReadOnly,
		DestructiveHint: &destructive,
		IdempotentHint:  a.Idempotent,
		OpenWorldHint:   &openWorld,
	}
}
