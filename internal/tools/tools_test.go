package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modal-tools/modal-mcp-server/internal/dispatch"
	"github.com/modal-tools/modal-mcp-server/internal/modal"
	"github.com/modal-tools/modal-mcp-server/internal/settings"
)

func newDispatcher(t *testing.T, svc Service) dispatch.Dispatcher {
	t.Helper()
	reg, err := svc.Registry()
	require.NoError(t, err)
	return dispatch.Dispatcher{Registry: reg}
}

func TestListVolumes(t *testing.T) {
	runner := &recordingRunner{result: modal.Result{Stdout: `[{"Name":"v1"},{"Name":"v2"}]`}}
	d := newDispatcher(t, Service{Runner: runner})

	env := d.Call(context.Background(), "list_volumes", nil)
	require.True(t, env.Success, env.Error)
	assert.Len(t, env.Data, 2)
	require.Len(t, runner.invocations, 1)
	assert.Equal(t, []string{"volume", "list", "--json"}, runner.invocations[0].Args)
}

func TestListVolumeContents(t *testing.T) {
	t.Run("builds the ls command with the default path", func(t *testing.T) {
		runner := &recordingRunner{result: modal.Result{Stdout: `[]`}}
		d := newDispatcher(t, Service{Runner: runner})

		env := d.Call(context.Background(), "list_volume_contents", map[string]any{"volume_name": "v1"})
		require.True(t, env.Success, env.Error)
		require.Len(t, runner.invocations, 1)
		assert.Equal(t, []string{"volume", "ls", "--json", "v1", "/"}, runner.invocations[0].Args)
	})

	t.Run("lists files and directories", func(t *testing.T) {
		fake := newVolumeFake()
		fake.seed("v1", "/a.txt", []byte("alpha"))
		fake.seed("v1", "/b/c.txt", []byte("nested"))
		d := newDispatcher(t, Service{Runner: fake})

		env := d.Call(context.Background(), "list_volume_contents", map[string]any{
			"volume_name": "v1",
			"path":        "/",
		})
		require.True(t, env.Success, env.Error)
		assert.Equal(t, []any{"a.txt", "b/"}, env.Data)
	})
}

func TestCopyVolumeFiles(t *testing.T) {
	t.Run("requires a source and a destination", func(t *testing.T) {
		runner := &recordingRunner{}
		d := newDispatcher(t, Service{Runner: runner})

		env := d.Call(context.Background(), "copy_volume_files", map[string]any{
			"volume_name": "v1",
			"paths":       []any{"a.txt"},
		})
		assert.False(t, env.Success)
		assert.Equal(t, "at least one source and one destination path are required", env.Error)
		assert.Empty(t, runner.invocations, "no external call on validation failure")
	})

	t.Run("duplicates a file and a listing shows both", func(t *testing.T) {
		fake := newVolumeFake()
		fake.seed("v1", "/a.txt", []byte("alpha"))
		d := newDispatcher(t, Service{Runner: fake})

		env := d.Call(context.Background(), "copy_volume_files", map[string]any{
			"volume_name": "v1",
			"paths":       []any{"a.txt", "a2.txt"},
		})
		require.True(t, env.Success, env.Error)
		assert.Equal(t, "Successfully copied files in volume v1", env.Message)

		listing := d.Call(context.Background(), "list_volume_contents", map[string]any{"volume_name": "v1"})
		require.True(t, listing.Success, listing.Error)
		assert.Equal(t, []any{"a.txt", "a2.txt"}, listing.Data)
	})
}

func TestRemoveVolumeFile(t *testing.T) {
	t.Run("builds the rm command", func(t *testing.T) {
		runner := &recordingRunner{}
		d := newDispatcher(t, Service{Runner: runner})

		env := d.Call(context.Background(), "remove_volume_file", map[string]any{
			"volume_name": "v1",
			"remote_path": "logs",
			"recursive":   true,
		})
		require.True(t, env.Success, env.Error)
		assert.Equal(t, "Successfully deleted logs from volume v1", env.Message)
		require.Len(t, runner.invocations, 1)
		assert.Equal(t, []string{"volume", "rm", "-r", "v1", "logs"}, runner.invocations[0].Args)
	})

	t.Run("absent path surfaces a not-found failure", func(t *testing.T) {
		fake := newVolumeFake()
		fake.seed("v1", "/a.txt", []byte("alpha"))
		d := newDispatcher(t, Service{Runner: fake})

		env := d.Call(context.Background(), "remove_volume_file", map[string]any{
			"volume_name": "v1",
			"remote_path": "missing.txt",
		})
		assert.False(t, env.Success)
		assert.Contains(t, env.Error, "not found")
	})
}

func TestPutAndGetRoundTrip(t *testing.T) {
	content := []byte("line one\nline two\x00binary tail")
	local := filepath.Join(t.TempDir(), "payload.bin")
	require.NoError(t, os.WriteFile(local, content, 0o644))

	fake := newVolumeFake()
	fake.seed("v1", "/keep.txt", nil)
	d := newDispatcher(t, Service{Runner: fake})

	put := d.Call(context.Background(), "put_volume_file", map[string]any{
		"volume_name": "v1",
		"local_path":  local,
		"remote_path": "/data/",
	})
	require.True(t, put.Success, put.Error)
	assert.Equal(t, "Successfully uploaded "+local+" to v1:/data/", put.Message)

	get := d.Call(context.Background(), "get_volume_file", map[string]any{
		"volume_name":       "v1",
		"remote_path":       "/data/payload.bin",
		"local_destination": "-",
	})
	require.True(t, get.Success, get.Error)
	assert.Equal(t, string(content), get.Data, "downloaded content must match the upload byte for byte")
	assert.Empty(t, get.Message)
}

func TestGetVolumeFile(t *testing.T) {
	t.Run("writes to disk by default", func(t *testing.T) {
		fake := newVolumeFake()
		fake.seed("v1", "/a.txt", []byte("alpha"))
		d := newDispatcher(t, Service{Runner: fake})

		dest := filepath.Join(t.TempDir(), "a.txt")
		env := d.Call(context.Background(), "get_volume_file", map[string]any{
			"volume_name":       "v1",
			"remote_path":       "a.txt",
			"local_destination": dest,
		})
		require.True(t, env.Success, env.Error)
		assert.Equal(t, "Successfully downloaded a.txt from volume v1", env.Message)

		written, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.Equal(t, []byte("alpha"), written)
	})

	t.Run("passes the force flag", func(t *testing.T) {
		runner := &recordingRunner{}
		d := newDispatcher(t, Service{Runner: runner})

		env := d.Call(context.Background(), "get_volume_file", map[string]any{
			"volume_name": "v1",
			"remote_path": "a.txt",
			"force":       true,
		})
		require.True(t, env.Success, env.Error)
		require.Len(t, runner.invocations, 1)
		assert.Equal(t, []string{"volume", "get", "--force", "v1", "a.txt", "."}, runner.invocations[0].Args)
	})
}

func TestDeployApp(t *testing.T) {
	t.Run("missing app path fails before any external call", func(t *testing.T) {
		runner := &recordingRunner{}
		d := newDispatcher(t, Service{Runner: runner})

		missing := filepath.Join(t.TempDir(), "nope.py")
		env := d.Call(context.Background(), "deploy_app", map[string]any{
			"absolute_path_to_app": missing,
		})
		assert.False(t, env.Success)
		assert.Equal(t, "app path does not exist: "+missing, env.Error)
		assert.Empty(t, runner.invocations)
	})

	t.Run("runs deploy from the app directory", func(t *testing.T) {
		dir := t.TempDir()
		appPath := filepath.Join(dir, "app.py")
		require.NoError(t, os.WriteFile(appPath, []byte("app = None\n"), 0o644))

		runner := &recordingRunner{result: modal.Result{Stdout: "Deployed app example\n"}}
		d := newDispatcher(t, Service{Runner: runner, UVDeploy: true})

		env := d.Call(context.Background(), "deploy_app", map[string]any{
			"absolute_path_to_app": appPath,
		})
		require.True(t, env.Success, env.Error)
		assert.Equal(t, "Deployed app example", env.Message)
		require.Len(t, runner.invocations, 1)
		inv := runner.invocations[0]
		assert.Equal(t, []string{"deploy", "app.py"}, inv.Args)
		assert.Equal(t, dir, inv.Dir)
		assert.True(t, inv.UV)
	})
}

func TestRunFunction(t *testing.T) {
	t.Run("missing app path fails before any external call", func(t *testing.T) {
		runner := &recordingRunner{}
		d := newDispatcher(t, Service{Runner: runner})

		missing := filepath.Join(t.TempDir(), "nope.py")
		env := d.Call(context.Background(), "run_function", map[string]any{
			"app_path":      missing,
			"function_name": "hello",
		})
		assert.False(t, env.Success)
		assert.Equal(t, "app path does not exist: "+missing, env.Error)
		assert.Empty(t, runner.invocations)
	})

	t.Run("builds the run command with sorted kwargs", func(t *testing.T) {
		appPath := filepath.Join(t.TempDir(), "app.py")
		require.NoError(t, os.WriteFile(appPath, []byte("app = None\n"), 0o644))

		runner := &recordingRunner{result: modal.Result{Stdout: "Hello, test!\n"}}
		d := newDispatcher(t, Service{Runner: runner})

		env := d.Call(context.Background(), "run_function", map[string]any{
			"app_path":      appPath,
			"function_name": "hello",
			"kwargs":        map[string]any{"name": "test", "greeting": "hi"},
		})
		require.True(t, env.Success, env.Error)
		assert.Equal(t, "Hello, test!", env.Message)
		require.Len(t, runner.invocations, 1)
		assert.Equal(t, []string{
			"run", appPath + "::hello",
			"--greeting", "hi",
			"--name", "test",
		}, runner.invocations[0].Args)
	})
}

func TestOverrides(t *testing.T) {
	t.Run("output mode override switches a tool to text", func(t *testing.T) {
		runner := &recordingRunner{result: modal.Result{Stdout: "v1\nv2\n"}}
		d := newDispatcher(t, Service{
			Runner:    runner,
			Overrides: map[string]settings.ToolOverride{"list_volumes": {Output: "text"}},
		})

		env := d.Call(context.Background(), "list_volumes", nil)
		require.True(t, env.Success, env.Error)
		assert.Nil(t, env.Data)
		assert.Equal(t, "v1\nv2", env.Message)
	})
}
