package modal

import (
	"context"
	"fmt"

	"github.com/modal-tools/modal-mcp-server/internal/executil"
)

// CLI runs invocations against the real modal command-line client.
type CLI struct {
	// Binary is the modal executable name or path.
	Binary string
	// Env adds environment variables to every invocation. Credentials are
	// not managed here; the child process inherits the server's environment.
	Env map[string]string
}

// Run builds the argv and executes it, capturing all output.
func (c CLI) Run(ctx context.Context, inv Invocation) (Result, error) {
	binary := c.Binary
	if binary == "" {
		binary = "modal"
	}

	argv := make([]string, 0, len(inv.Args)+4)
	if inv.UV {
		argv = append(argv, "uv", "run", fmt.Sprintf("--directory=%s", inv.Dir))
	}
	argv = append(argv, binary)
	argv = append(argv, inv.Args...)

	res, err := executil.Run(ctx, executil.Spec{
		Argv: argv,
		Dir:  inv.Dir,
		Env:  c.Env,
	})
	return Result{
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
		ExitCode: res.ExitCode,
	}, err
}
