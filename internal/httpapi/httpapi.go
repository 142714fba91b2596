// Package httpapi exposes the tool surface over plain HTTP/JSON: a schema
// discovery endpoint and per-tool invocation endpoints.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/modal-tools/modal-mcp-server/internal/dispatch"
	"github.com/modal-tools/modal-mcp-server/internal/protocol"
)

// Handler serves the HTTP tool API.
type Handler struct {
	// Name identifies the server in the schema document.
	Name string
	// Version is the server version.
	Version string
	// Dispatcher runs tool invocations.
	Dispatcher dispatch.Dispatcher
	// Logger is used for structured logging.
	Logger *slog.Logger
}

type schemaDocument struct {
	SchemaVersion string       `json:"schema_version"`
	Name          string       `json:"name"`
	Version       string       `json:"version"`
	Description   string       `json:"description"`
	Tools         []schemaTool `json:"tools"`
}

type schemaTool struct {
	Name        string             `json:"name"`
	Title       string             `json:"title,omitempty"`
	Description string             `json:"description,omitempty"`
	InputSchema *jsonschema.Schema `json:"input_schema"`
}

type dispatchRequest struct {
	ToolName  string         `json:"tool_name"`
	ToolInput map[string]any `json:"tool_input"`
}

// Register mounts the API routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /mcp/schema", h.schema)
	mux.HandleFunc("POST /mcp/tools/{tool}", h.invoke)
	mux.HandleFunc("POST /mcp/call", h.call)
}

func (h *Handler) schema(w http.ResponseWriter, _ *http.Request) {
	defs := h.Dispatcher.Registry.Definitions()
	doc := schemaDocument{
		SchemaVersion: "v1",
		Name:          h.Name,
		Version:       h.Version,
		Description:   "Tools for interacting with Modal, a platform for running serverless applications in the cloud",
		Tools:         make([]schemaTool, 0, len(defs)),
	}
	for _, def := range defs {
		doc.Tools = append(doc.Tools, schemaTool{
			Name:        def.Name,
			Title:       def.Title,
			Description: def.Description,
			InputSchema: def.InputSchema(),
		})
	}
	h.writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) invoke(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("tool")
	args, err := decodeArgs(r.Body)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, protocol.Failuref("invalid request body: %v", err))
		return
	}
	h.respond(w, r, name, args)
}

func (h *Handler) call(w http.ResponseWriter, r *http.Request) {
	var req dispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, protocol.Failuref("invalid request body: %v", err))
		return
	}
	if req.ToolName == "" {
		h.writeJSON(w, http.StatusBadRequest, protocol.Failure("missing required field: tool_name"))
		return
	}
	h.respond(w, r, req.ToolName, req.ToolInput)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, name string, args map[string]any) {
	if _, ok := h.Dispatcher.Registry.Lookup(name); !ok {
		h.writeJSON(w, http.StatusNotFound, protocol.Failuref("unknown tool: %s", name))
		return
	}
	envelope := h.Dispatcher.Call(r.Context(), name, args)
	h.writeJSON(w, http.StatusOK, envelope)
}

// decodeArgs treats an empty body as an empty argument map so tools without
// parameters can be invoked with a bare POST.
func decodeArgs(body io.Reader) (map[string]any, error) {
	args := map[string]any{}
	err := json.NewDecoder(body).Decode(&args)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return args, nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(value); err != nil && h.Logger != nil {
		h.Logger.Error("write response failed", "error", err)
	}
}
