package settings

// Settings is the top-level YAML settings file.
type Settings struct {
	// Server describes the serving side.
	Server ServerSettings `yaml:"server"`
	// Modal describes how the modal CLI is invoked.
	Modal ModalSettings `yaml:"modal"`
	// Tools holds optional per-tool overrides keyed by tool name.
	Tools map[string]ToolOverride `yaml:"tools"`
}

// ServerSettings defines server identity and transport.
type ServerSettings struct {
	// Name is the MCP server name.
	Name string `yaml:"name"`
	// Version is the MCP server version.
	Version string `yaml:"version"`
	// Transport selects the transport ("http" or "stdio").
	Transport string `yaml:"transport"`
	// Preflight runs a modal CLI version check before serving.
	Preflight bool `yaml:"preflight"`
	// HTTP configures the HTTP transport.
	HTTP HTTPSettings `yaml:"http"`
}

// HTTPSettings configures the HTTP listener.
type HTTPSettings struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`
	// Path is the MCP streamable endpoint path.
	Path string `yaml:"path"`
	// ReadTimeout limits request read time.
	ReadTimeout string `yaml:"read_timeout"`
	// WriteTimeout limits response write time.
	WriteTimeout string `yaml:"write_timeout"`
	// IdleTimeout controls idle connections.
	IdleTimeout string `yaml:"idle_timeout"`
	// Stateless disables MCP session tracking.
	Stateless bool `yaml:"stateless"`
}

// ModalSettings configures the modal CLI boundary.
type ModalSettings struct {
	// Binary is the modal executable name or path.
	Binary string `yaml:"binary"`
	// UVDeploy wraps deploys in "uv run --directory=<app dir>" so the app's
	// own virtualenv is used.
	UVDeploy bool `yaml:"uv_deploy"`
	// Env adds environment variables to every CLI invocation.
	Env map[string]string `yaml:"env"`
}

// ToolOverride adjusts a single registered tool.
type ToolOverride struct {
	// Output overrides the tool's output mode ("json" or "text").
	Output string `yaml:"output"`
	// Timeout limits the tool's external call duration.
	Timeout string `yaml:"timeout"`
}
