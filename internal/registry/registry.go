// Package registry holds the fixed set of tools the adapter exposes. The
// set is built once at startup and is read-only afterwards.
package registry

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/modal-tools/modal-mcp-server/internal/normalize"
	"github.com/modal-tools/modal-mcp-server/internal/protocol"
)

// Handler executes a tool with validated arguments. Handlers never return
// Go errors; every failure is expressed in the envelope.
type Handler func(ctx context.Context, args map[string]any) protocol.Envelope

// ParamType enumerates supported parameter types.
type ParamType string

const (
	// TypeString is a JSON string.
	TypeString ParamType = "string"
	// TypeBoolean is a JSON boolean.
	TypeBoolean ParamType = "boolean"
	// TypeStringArray is a JSON array of strings.
	TypeStringArray ParamType = "array"
	// TypeStringMap is a JSON object with string values.
	TypeStringMap ParamType = "object"
)

// Param declares one tool parameter.
type Param struct {
	// Name is the parameter name.
	Name string
	// Type is the parameter's JSON type.
	Type ParamType
	// Description explains the parameter for the agent.
	Description string
	// Required marks the parameter as mandatory.
	Required bool
	// Default is applied when the caller omits the parameter.
	Default any
}

// Annotations carries tool behavior hints surfaced to MCP clients.
type Annotations struct {
	// ReadOnly indicates the tool does not mutate remote state.
	ReadOnly bool
	// Destructive indicates the tool may destroy remote data.
	Destructive bool
	// Idempotent indicates repeated calls have no additional effect.
	Idempotent bool
}

// Definition declares a tool: its schema and its handler.
type Definition struct {
	// Name is the tool name.
	Name string
	// Title is the human-friendly tool title.
	Title string
	// Description explains the tool for the agent.
	Description string
	// Params is the ordered parameter list.
	Params []Param
	// Output selects how CLI output is normalized.
	Output normalize.Mode
	// Timeout, when positive, bounds the external call. Zero inherits the
	// CLI's own behavior.
	Timeout string
	// Annotations provides tool hints.
	Annotations Annotations
	// Handler executes the tool.
	Handler Handler

	schema   *jsonschema.Schema
	resolved *jsonschema.Resolved
}

// InputSchema returns the tool's JSON Schema for client introspection.
func (d *Definition) InputSchema() *jsonschema.Schema {
	return d.schema
}

// Registry is the read-only tool table.
type Registry struct {
	order  []*Definition
	byName map[string]*Definition
}

// New builds a registry from definitions, compiling each input schema.
func New(defs ...Definition) (*Registry, error) {
	r := &Registry{byName: make(map[string]*Definition, len(defs))}
	for i := range defs {
		def := defs[i]
		if def.Name == "" {
			return nil, fmt.Errorf("tool %d: name is required", i)
		}
		if _, exists := r.byName[def.Name]; exists {
			return nil, fmt.Errorf("duplicate tool name: %s", def.Name)
		}
		if def.Handler == nil {
			return nil, fmt.Errorf("tool %s: handler is required", def.Name)
		}
		if def.Output == "" {
			def.Output = normalize.ModeText
		}

		schema, err := buildSchema(def.Params)
		if err != nil {
			return nil, fmt.Errorf("tool %s: %w", def.Name, err)
		}
		resolved, err := schema.Resolve(nil)
		if err != nil {
			return nil, fmt.Errorf("tool %s: resolve schema: %w", def.Name, err)
		}
		def.schema = schema
		def.resolved = resolved

		r.byName[def.Name] = &def
		r.order = append(r.order, &def)
	}
	return r, nil
}

// Lookup returns the definition for a tool name.
func (r *Registry) Lookup(name string) (*Definition, bool) {
	def, ok := r.byName[name]
	return def, ok
}

// Definitions returns all tools in registration order.
func (r *Registry) Definitions() []*Definition {
	return r.order
}

// ValidateArgs applies defaults and validates arguments against the tool's
// schema. It returns the normalized argument map or a descriptive error
// naming the offending field. No external call happens when this fails.
func (d *Definition) ValidateArgs(args map[string]any) (map[string]any, error) {
	normalized := make(map[string]any, len(d.Params))
	known := make(map[string]struct{}, len(d.Params))
	for _, p := range d.Params {
		known[p.Name] = struct{}{}
	}
	for name, value := range args {
		if _, ok := known[name]; !ok {
			return nil, fmt.Errorf("unknown parameter: %s", name)
		}
		normalized[name] = value
	}
	for _, p := range d.Params {
		if _, ok := normalized[p.Name]; ok {
			continue
		}
		if p.Required {
			return nil, fmt.Errorf("missing required parameter: %s", p.Name)
		}
		if p.Default != nil {
			normalized[p.Name] = p.Default
		}
	}
	if err := d.resolved.Validate(normalized); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	return normalized, nil
}

func buildSchema(params []Param) (*jsonschema.Schema, error) {
	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: make(map[string]*jsonschema.Schema, len(params)),
	}
	for _, p := range params {
		if p.Name == "" {
			return nil, fmt.Errorf("parameter name is required")
		}
		prop := &jsonschema.Schema{Description: p.Description}
		switch p.Type {
		case TypeString:
			prop.Type = "string"
		case TypeBoolean:
			prop.Type = "boolean"
		case TypeStringArray:
			prop.Type = "array"
			prop.Items = &jsonschema.Schema{Type: "string"}
		case TypeStringMap:
			prop.Type = "object"
			prop.AdditionalProperties = &jsonschema.Schema{Type: "string"}
		default:
			return nil, fmt.Errorf("parameter %s: unknown type %q", p.Name, p.Type)
		}
		schema.Properties[p.Name] = prop
		if p.Required {
			schema.Required = append(schema.Required, p.Name)
		}
	}
	return schema, nil
}
