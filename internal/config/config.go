package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config stores environment-driven settings for the server.
type Config struct {
	// SettingsPath is the path to the YAML settings file. When the file does
	// not exist the embedded defaults are used.
	SettingsPath string `env:"MODAL_MCP_SETTINGS" envDefault:"settings.yaml"`
	// LogLevel sets the logger level.
	LogLevel string `env:"MODAL_MCP_LOG_LEVEL" envDefault:"info"`
	// ShutdownTimeout controls graceful shutdown duration.
	ShutdownTimeout time.Duration `env:"MODAL_MCP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load parses environment variables into Config.
func Load() (Config, error) {
	return env.ParseAs[Config]()
}
