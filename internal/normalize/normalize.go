// Package normalize converts raw modal CLI results into response envelopes.
package normalize

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modal-tools/modal-mcp-server/internal/modal"
	"github.com/modal-tools/modal-mcp-server/internal/protocol"
)

// Mode selects how a tool's CLI output becomes an envelope.
type Mode string

const (
	// ModeJSON parses stdout as JSON and returns it as data.
	ModeJSON Mode = "json"
	// ModeText returns a textual confirmation message.
	ModeText Mode = "text"
	// ModeRaw returns stdout untouched as data. Used when a download is
	// redirected to stdout instead of disk.
	ModeRaw Mode = "raw"
)

// Envelope builds the response envelope for one CLI result. failPrefix
// prefixes failure text; successMessage, when non-empty, replaces stdout as
// the text-mode confirmation.
func Envelope(mode Mode, res modal.Result, runErr error, failPrefix, successMessage string) protocol.Envelope {
	if runErr != nil {
		return protocol.Failure(FailureText(failPrefix, res, runErr))
	}

	switch mode {
	case ModeJSON:
		var data any
		if err := json.Unmarshal([]byte(res.Stdout), &data); err != nil {
			return protocol.Failuref("failed to parse JSON output: %v", err)
		}
		return protocol.Structured(data)
	case ModeRaw:
		return protocol.Structured(res.Stdout)
	default:
		message := strings.TrimSpace(successMessage)
		if message == "" {
			message = strings.TrimSpace(res.Stdout)
		}
		if message == "" {
			message = "ok"
		}
		return protocol.Text(message)
	}
}

// FailureText renders the error for a failed CLI call, passing the tool's
// own error output through verbatim.
func FailureText(prefix string, res modal.Result, runErr error) string {
	detail := strings.TrimSpace(res.Stderr)
	if detail == "" {
		detail = strings.TrimSpace(res.Stdout)
	}
	if detail == "" && runErr != nil {
		detail = runErr.Error()
	}
	if prefix == "" {
		return detail
	}
	if detail == "" {
		return prefix
	}
	return fmt.Sprintf("%s: %s", prefix, detail)
}
