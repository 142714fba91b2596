// Package modal is the boundary to the modal CLI. Everything the adapter
// does to the platform goes through the Runner interface so tests can
// substitute a fake without touching the real platform.
package modal

import "context"

// Invocation describes one modal CLI call.
type Invocation struct {
	// Args are the CLI arguments after the binary name, e.g.
	// ["volume", "list", "--json"].
	Args []string
	// Dir is the working directory for the call; empty means inherit.
	Dir string
	// UV wraps the call in "uv run --directory=<Dir>" so the invoked app's
	// virtualenv is used. Only meaningful for deploys.
	UV bool
}

// Result captures the outcome of a CLI call.
type Result struct {
	// Stdout is the captured standard output.
	Stdout string
	// Stderr is the captured standard error.
	Stderr string
	// ExitCode is the process exit code, or -1 when the process never ran.
	ExitCode int
}

// Runner executes modal CLI invocations. A non-zero exit status is reported
// as a non-nil error alongside the captured Result.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (Result, error)
}
