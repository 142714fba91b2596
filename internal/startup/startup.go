// Package startup runs preflight checks before the server starts serving.
package startup

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/modal-tools/modal-mcp-server/internal/modal"
)

const preflightTimeout = 30 * time.Second

// Preflight verifies the modal CLI is reachable by asking for its version.
// A broken installation fails at startup instead of on the first request.
func Preflight(ctx context.Context, runner modal.Runner, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, preflightTimeout)
	defer cancel()

	res, err := runner.Run(ctx, modal.Invocation{Args: []string{"--version"}})
	if err != nil {
		detail := strings.TrimSpace(res.Stderr)
		if detail == "" {
			detail = err.Error()
		}
		return fmt.Errorf("modal CLI preflight failed: %s", detail)
	}
	if logger != nil {
		logger.Info("modal CLI available", "version", strings.TrimSpace(res.Stdout))
	}
	return nil
}
