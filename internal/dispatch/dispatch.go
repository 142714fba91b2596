// Package dispatch runs the per-request pipeline shared by the MCP and
// plain HTTP surfaces: lookup, validate, execute, envelope.
package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/modal-tools/modal-mcp-server/internal/audit"
	"github.com/modal-tools/modal-mcp-server/internal/protocol"
	"github.com/modal-tools/modal-mcp-server/internal/registry"
	"github.com/modal-tools/modal-mcp-server/internal/security"
)

// Dispatcher resolves tool names and executes invocations. It holds no
// per-request state; every request resolves to exactly one envelope.
type Dispatcher struct {
	// Registry is the read-only tool table.
	Registry *registry.Registry
	// Logger is used for structured logging.
	Logger *slog.Logger
	// Audit records tool events.
	Audit audit.Logger
}

// Call executes the named tool with the given arguments. All failure modes
// (unknown tool, invalid arguments, external errors) terminate in a failure
// envelope; Call never panics or returns a Go error.
func (d Dispatcher) Call(ctx context.Context, name string, args map[string]any) protocol.Envelope {
	def, ok := d.Registry.Lookup(name)
	if !ok {
		d.record(ctx, audit.Event{Type: "unknown_tool", Tool: name})
		return protocol.Failuref("unknown tool: %s", name)
	}

	normalized, err := def.ValidateArgs(args)
	if err != nil {
		d.record(ctx, audit.Event{Type: "invalid_args", Tool: name, Detail: err.Error()})
		return protocol.Failure(err.Error())
	}

	if d.Logger != nil {
		d.Logger.Info("tool call", "tool", name, "args", security.RedactArguments(normalized))
	}
	d.record(ctx, audit.Event{Type: "tool_call", Tool: name})

	ctxTool := ctx
	timeout := parseTimeout(def.Timeout)
	if timeout > 0 {
		var cancel context.CancelFunc
		ctxTool, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	envelope := def.Handler(ctxTool, normalized)

	if !envelope.Success && errors.Is(ctxTool.Err(), context.DeadlineExceeded) {
		envelope = protocol.Failuref("tool %s timed out after %s", name, timeout)
	}

	if envelope.Success {
		d.record(ctx, audit.Event{Type: "tool_ok", Tool: name})
	} else {
		d.record(ctx, audit.Event{Type: "tool_error", Tool: name, Detail: envelope.Error})
		if d.Logger != nil {
			d.Logger.Warn("tool failed", "tool", name, "error", envelope.Error)
		}
	}
	return envelope
}

func (d Dispatcher) record(ctx context.Context, event audit.Event) {
	if d.Audit != nil {
		d.Audit.Record(ctx, event)
	}
}

func parseTimeout(value string) time.Duration {
	if value == "" {
		return 0
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return parsed
}
