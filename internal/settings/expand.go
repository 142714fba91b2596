package settings

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/template"
)

// Expand renders {{ env "NAME" }} and {{ envDefault "NAME" "fallback" }}
// references in a raw settings file. A reference to an unset variable
// without a fallback fails with the full list of missing names.
func Expand(raw []byte) ([]byte, error) {
	missing := map[string]struct{}{}

	funcs := template.FuncMap{
		"env": func(name string) string {
			value, ok := os.LookupEnv(name)
			if !ok {
				missing[name] = struct{}{}
			}
			return value
		},
		"envDefault": func(name, fallback string) string {
			if value, ok := os.LookupEnv(name); ok {
				return value
			}
			return fallback
		},
	}

	tmpl, err := template.New("settings").Funcs(funcs).Option("missingkey=error").Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse settings template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]any{}); err != nil {
		return nil, fmt.Errorf("render settings template: %w", err)
	}
	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for name := range missing {
			names = append(names, name)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("missing env vars: %s", strings.Join(names, ", "))
	}

	return buf.Bytes(), nil
}
