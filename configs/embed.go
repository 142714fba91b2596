package configs

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed *.yaml
var embedded embed.FS

// Default returns the embedded default settings file, used when no settings
// file exists on disk.
func Default() []byte {
	data, err := fs.ReadFile(embedded, "default.yaml")
	if err != nil {
		panic(fmt.Sprintf("embedded default settings missing: %v", err))
	}
	return data
}
