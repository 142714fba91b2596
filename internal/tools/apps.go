package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/modal-tools/modal-mcp-server/internal/modal"
	"github.com/modal-tools/modal-mcp-server/internal/normalize"
	"github.com/modal-tools/modal-mcp-server/internal/protocol"
	"github.com/modal-tools/modal-mcp-server/internal/registry"
)

func (s Service) deployApp() entry {
	return entry{
		def: registry.Definition{
			Name:        "deploy_app",
			Title:       "Deploy App",
			Description: "Deploy a Modal application.",
			Params: []registry.Param{
				{Name: "absolute_path_to_app", Type: registry.TypeString, Required: true, Description: "The absolute path to the Modal application to deploy."},
			},
		},
		build: func(mode normalize.Mode) registry.Handler {
			return func(ctx context.Context, args map[string]any) protocol.Envelope {
				appPath := stringArg(args, "absolute_path_to_app")
				if _, err := os.Stat(appPath); err != nil {
					return protocol.Failuref("app path does not exist: %s", appPath)
				}
				res, err := s.Runner.Run(ctx, modal.Invocation{
					Args: []string{"deploy", filepath.Base(appPath)},
					Dir:  filepath.Dir(appPath),
					UV:   s.UVDeploy,
				})
				return normalize.Envelope(mode, res, err, "Failed to deploy app", "")
			}
		},
	}
}

func (s Service) runFunction() entry {
	return entry{
		def: registry.Definition{
			Name:        "run_function",
			Title:       "Run Function",
			Description: "Run a function in a Modal application.",
			Params: []registry.Param{
				{Name: "app_path", Type: registry.TypeString, Required: true, Description: "Path to the Modal app file to run."},
				{Name: "function_name", Type: registry.TypeString, Required: true, Description: "Name of the function to run."},
				{Name: "kwargs", Type: registry.TypeStringMap, Description: "Arguments passed to the function as --key value pairs."},
			},
		},
		build: func(mode normalize.Mode) registry.Handler {
			return func(ctx context.Context, args map[string]any) protocol.Envelope {
				appPath := stringArg(args, "app_path")
				functionName := stringArg(args, "function_name")
				if _, err := os.Stat(appPath); err != nil {
					return protocol.Failuref("app path does not exist: %s", appPath)
				}
				cliArgs := []string{"run", fmt.Sprintf("%s::%s", appPath, functionName)}
				kwargs := stringMapArg(args, "kwargs")
				keys := make([]string, 0, len(kwargs))
				for key := range kwargs {
					keys = append(keys, key)
				}
				// Sorted so the built command line is deterministic.
				sort.Strings(keys)
				for _, key := range keys {
					cliArgs = append(cliArgs, fmt.Sprintf("--%s", key), kwargs[key])
				}
				res, err := s.Runner.Run(ctx, modal.Invocation{Args: cliArgs})
				return normalize.Envelope(mode, res, err, "Function execution failed", "")
			}
		},
	}
}
