package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/modal-tools/modal-mcp-server/internal/modal"
)

// recordingRunner captures invocations and replays a canned result.
type recordingRunner struct {
	invocations []modal.Invocation
	result      modal.Result
	err         error
}

func (f *recordingRunner) Run(_ context.Context, inv modal.Invocation) (modal.Result, error) {
	f.invocations = append(f.invocations, inv)
	return f.result, f.err
}

// volumeFake emulates the modal CLI's volume subcommands against an
// in-memory file tree, enough to exercise round-trip and listing behavior.
type volumeFake struct {
	// volumes maps volume name to path ("/a.txt") to content.
	volumes map[string]map[string][]byte
	calls   int
}

func newVolumeFake() *volumeFake {
	return &volumeFake{volumes: map[string]map[string][]byte{}}
}

func (f *volumeFake) seed(volume, path string, content []byte) {
	if f.volumes[volume] == nil {
		f.volumes[volume] = map[string][]byte{}
	}
	f.volumes[volume][normPath(path)] = content
}

func normPath(p string) string {
	if !strings.HasPrefix(p, "/") {
		return "/" + p
	}
	return p
}

func cliError(format string, args ...any) (modal.Result, error) {
	return modal.Result{
		Stderr:   fmt.Sprintf(format+"\n", args...),
		ExitCode: 1,
	}, errors.New("exit status 1")
}

func (f *volumeFake) Run(_ context.Context, inv modal.Invocation) (modal.Result, error) {
	f.calls++
	if len(inv.Args) < 2 || inv.Args[0] != "volume" {
		return cliError("Error: unsupported command: %v", inv.Args)
	}

	sub := inv.Args[1]
	var flags []string
	var positional []string
	for _, arg := range inv.Args[2:] {
		if strings.HasPrefix(arg, "-") && arg != "-" {
			flags = append(flags, arg)
			continue
		}
		positional = append(positional, arg)
	}
	hasFlag := func(name string) bool {
		for _, flag := range flags {
			if flag == name {
				return true
			}
		}
		return false
	}

	switch sub {
	case "list":
		names := make([]string, 0, len(f.volumes))
		for name := range f.volumes {
			names = append(names, name)
		}
		sort.Strings(names)
		out, _ := json.Marshal(names)
		return modal.Result{Stdout: string(out)}, nil

	case "ls":
		volume, path := positional[0], normPath(positional[1])
		tree, ok := f.volumes[volume]
		if !ok {
			return cliError("Error: volume '%s' not found", volume)
		}
		prefix := strings.TrimSuffix(path, "/") + "/"
		seen := map[string]struct{}{}
		var entries []string
		for file := range tree {
			if !strings.HasPrefix(file, prefix) {
				continue
			}
			rest := strings.TrimPrefix(file, prefix)
			name := rest
			if idx := strings.Index(rest, "/"); idx >= 0 {
				name = rest[:idx+1]
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			entries = append(entries, name)
		}
		sort.Strings(entries)
		out, _ := json.Marshal(entries)
		return modal.Result{Stdout: string(out)}, nil

	case "put":
		volume, local, remote := positional[0], positional[1], positional[2]
		data, err := os.ReadFile(local)
		if err != nil {
			return cliError("Error: %v", err)
		}
		target := remote
		if strings.HasSuffix(remote, "/") {
			target = remote + filepath.Base(local)
		}
		if _, exists := f.volumes[volume][normPath(target)]; exists && !hasFlag("-f") {
			return cliError("Error: destination already exists: %s", target)
		}
		f.seed(volume, target, data)
		return modal.Result{}, nil

	case "get":
		volume, remote, dest := positional[0], positional[1], positional[2]
		data, ok := f.volumes[volume][normPath(remote)]
		if !ok {
			return cliError("Error: file '%s' not found in volume '%s'", remote, volume)
		}
		if dest == "-" {
			return modal.Result{Stdout: string(data)}, nil
		}
		target := dest
		if info, err := os.Stat(dest); err == nil && info.IsDir() {
			target = filepath.Join(dest, filepath.Base(remote))
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return cliError("Error: %v", err)
		}
		return modal.Result{}, nil

	case "cp":
		volume := positional[0]
		paths := positional[1:]
		dst := paths[len(paths)-1]
		for _, src := range paths[:len(paths)-1] {
			data, ok := f.volumes[volume][normPath(src)]
			if !ok {
				return cliError("Error: file '%s' not found in volume '%s'", src, volume)
			}
			target := dst
			if strings.HasSuffix(dst, "/") {
				target = dst + filepath.Base(src)
			}
			f.seed(volume, target, data)
		}
		return modal.Result{}, nil

	case "rm":
		volume, path := positional[0], normPath(positional[1])
		tree := f.volumes[volume]
		if _, ok := tree[path]; ok {
			delete(tree, path)
			return modal.Result{}, nil
		}
		prefix := strings.TrimSuffix(path, "/") + "/"
		var children []string
		for file := range tree {
			if strings.HasPrefix(file, prefix) {
				children = append(children, file)
			}
		}
		if len(children) == 0 {
			return cliError("Error: file '%s' not found in volume '%s'", path, volume)
		}
		if !hasFlag("-r") {
			return cliError("Error: '%s' is a directory, use recursive to delete", path)
		}
		for _, file := range children {
			delete(tree, file)
		}
		return modal.Result{}, nil

	default:
		return cliError("Error: unsupported volume subcommand: %s", sub)
	}
}
