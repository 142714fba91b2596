package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load renders env references in the raw YAML, parses it into Settings and
// validates the result.
func Load(data []byte) (*Settings, error) {
	rendered, err := Expand(data)
	if err != nil {
		return nil, err
	}

	var s Settings
	dec := yaml.NewDecoder(bytes.NewReader(rendered))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	if err := Validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate applies defaults and verifies required fields.
func Validate(s *Settings) error {
	if s == nil {
		return fmt.Errorf("settings is nil")
	}
	if s.Server.Name == "" {
		s.Server.Name = "modal-mcp-server"
	}
	if s.Server.Version == "" {
		s.Server.Version = "0.1.0"
	}
	if s.Server.Transport == "" {
		s.Server.Transport = "http"
	}
	switch s.Server.Transport {
	case "http", "stdio":
	default:
		return fmt.Errorf("server.transport must be http or stdio")
	}
	if s.Server.HTTP.Listen == "" {
		s.Server.HTTP.Listen = ":8000"
	}
	if s.Server.HTTP.Path == "" {
		s.Server.HTTP.Path = "/mcp"
	}
	if !strings.HasPrefix(s.Server.HTTP.Path, "/") {
		return fmt.Errorf("server.http.path must start with /")
	}
	for _, field := range []struct {
		name  string
		value string
	}{
		{"server.http.read_timeout", s.Server.HTTP.ReadTimeout},
		{"server.http.write_timeout", s.Server.HTTP.WriteTimeout},
		{"server.http.idle_timeout", s.Server.HTTP.IdleTimeout},
	} {
		if strings.TrimSpace(field.value) == "" {
			continue
		}
		if _, err := time.ParseDuration(field.value); err != nil {
			return fmt.Errorf("%s is invalid: %w", field.name, err)
		}
	}

	if s.Modal.Binary == "" {
		s.Modal.Binary = "modal"
	}

	for name, override := range s.Tools {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("tools override with empty name")
		}
		switch override.Output {
		case "", "json", "text":
		default:
			return fmt.Errorf("tools.%s.output must be json or text", name)
		}
		if strings.TrimSpace(override.Timeout) != "" {
			if _, err := time.ParseDuration(override.Timeout); err != nil {
				return fmt.Errorf("tools.%s.timeout is invalid: %w", name, err)
			}
		}
	}

	return nil
}
