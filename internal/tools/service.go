// Package tools defines the Modal tool surface: the eight operations the
// adapter exposes, each shelling out to the modal CLI through modal.Runner.
package tools

import (
	"github.com/modal-tools/modal-mcp-server/internal/modal"
	"github.com/modal-tools/modal-mcp-server/internal/normalize"
	"github.com/modal-tools/modal-mcp-server/internal/registry"
	"github.com/modal-tools/modal-mcp-server/internal/settings"
)

// Service builds tool definitions bound to a runner.
type Service struct {
	// Runner executes modal CLI invocations.
	Runner modal.Runner
	// UVDeploy wraps deploys in "uv run --directory=<app dir>".
	UVDeploy bool
	// Overrides adjusts output mode and timeout per tool.
	Overrides map[string]settings.ToolOverride
}

type entry struct {
	def   registry.Definition
	build func(mode normalize.Mode) registry.Handler
}

// Registry returns the complete read-only tool registry.
func (s Service) Registry() (*registry.Registry, error) {
	entries := []entry{
		s.listVolumes(),
		s.listVolumeContents(),
		s.copyVolumeFiles(),
		s.removeVolumeFile(),
		s.putVolumeFile(),
		s.getVolumeFile(),
		s.deployApp(),
		s.runFunction(),
	}

	defs := make([]registry.Definition, 0, len(entries))
	for _, e := range entries {
		def := e.def
		if override, ok := s.Overrides[def.Name]; ok {
			if override.Output != "" {
				def.Output = normalize.Mode(override.Output)
			}
			if override.Timeout != "" {
				def.Timeout = override.Timeout
			}
		}
		def.Handler = e.build(def.Output)
		defs = append(defs, def)
	}
	return registry.New(defs...)
}

func stringArg(args map[string]any, name string) string {
	value, _ := args[name].(string)
	return value
}

func boolArg(args map[string]any, name string) bool {
	value, _ := args[name].(bool)
	return value
}

func stringsArg(args map[string]any, name string) []string {
	switch v := args[name].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, _ := item.(string)
			out = append(out, s)
		}
		return out
	default:
		return nil
	}
}

func stringMapArg(args map[string]any, name string) map[string]string {
	switch v := args[name].(type) {
	case map[string]string:
		return v
	case map[string]any:
		out := make(map[string]string, len(v))
		for key, item := range v {
			s, _ := item.(string)
			out[key] = s
		}
		return out
	default:
		return nil
	}
}
