package tools

import (
	"context"
	"fmt"

	"github.com/modal-tools/modal-mcp-server/internal/modal"
	"github.com/modal-tools/modal-mcp-server/internal/normalize"
	"github.com/modal-tools/modal-mcp-server/internal/protocol"
	"github.com/modal-tools/modal-mcp-server/internal/registry"
)

func (s Service) listVolumes() entry {
	return entry{
		def: registry.Definition{
			Name:        "list_volumes",
			Title:       "List Volumes",
			Description: "List all Modal volumes.",
			Output:      normalize.ModeJSON,
			Annotations: registry.Annotations{ReadOnly: true, Idempotent: true},
		},
		build: func(mode normalize.Mode) registry.Handler {
			return func(ctx context.Context, _ map[string]any) protocol.Envelope {
				res, err := s.Runner.Run(ctx, modal.Invocation{
					Args: []string{"volume", "list", "--json"},
				})
				return normalize.Envelope(mode, res, err, "Failed to list volumes", "")
			}
		},
	}
}

func (s Service) listVolumeContents() entry {
	return entry{
		def: registry.Definition{
			Name:        "list_volume_contents",
			Title:       "List Volume Contents",
			Description: "List files and directories in a Modal volume.",
			Params: []registry.Param{
				{Name: "volume_name", Type: registry.TypeString, Required: true, Description: "Name of the Modal volume to list contents from."},
				{Name: "path", Type: registry.TypeString, Default: "/", Description: "Path within the volume to list contents from."},
			},
			Output:      normalize.ModeJSON,
			Annotations: registry.Annotations{ReadOnly: true, Idempotent: true},
		},
		build: func(mode normalize.Mode) registry.Handler {
			return func(ctx context.Context, args map[string]any) protocol.Envelope {
				res, err := s.Runner.Run(ctx, modal.Invocation{
					Args: []string{"volume", "ls", "--json", stringArg(args, "volume_name"), stringArg(args, "path")},
				})
				return normalize.Envelope(mode, res, err, "Failed to list volume contents", "")
			}
		},
	}
}

func (s Service) copyVolumeFiles() entry {
	return entry{
		def: registry.Definition{
			Name:        "copy_volume_files",
			Title:       "Copy Volume Files",
			Description: "Copy files within a Modal volume. The last path is the destination, all others are sources.",
			Params: []registry.Param{
				{Name: "volume_name", Type: registry.TypeString, Required: true, Description: "Name of the Modal volume to perform the copy in."},
				{Name: "paths", Type: registry.TypeStringArray, Required: true, Description: "Paths for the copy operation; the last entry is the destination."},
			},
		},
		build: func(mode normalize.Mode) registry.Handler {
			return func(ctx context.Context, args map[string]any) protocol.Envelope {
				volume := stringArg(args, "volume_name")
				paths := stringsArg(args, "paths")
				if len(paths) < 2 {
					return protocol.Failure("at least one source and one destination path are required")
				}
				res, err := s.Runner.Run(ctx, modal.Invocation{
					Args: append([]string{"volume", "cp", volume}, paths...),
				})
				return normalize.Envelope(mode, res, err, "Failed to copy files",
					fmt.Sprintf("Successfully copied files in volume %s", volume))
			}
		},
	}
}

func (s Service) removeVolumeFile() entry {
	return entry{
		def: registry.Definition{
			Name:        "remove_volume_file",
			Title:       "Remove Volume File",
			Description: "Delete a file or directory from a Modal volume.",
			Params: []registry.Param{
				{Name: "volume_name", Type: registry.TypeString, Required: true, Description: "Name of the Modal volume to delete from."},
				{Name: "remote_path", Type: registry.TypeString, Required: true, Description: "Path to the file or directory to delete."},
				{Name: "recursive", Type: registry.TypeBoolean, Default: false, Description: "Delete directories recursively."},
			},
			Annotations: registry.Annotations{Destructive: true},
		},
		build: func(mode normalize.Mode) registry.Handler {
			return func(ctx context.Context, args map[string]any) protocol.Envelope {
				volume := stringArg(args, "volume_name")
				remotePath := stringArg(args, "remote_path")
				cliArgs := []string{"volume", "rm"}
				if boolArg(args, "recursive") {
					cliArgs = append(cliArgs, "-r")
				}
				cliArgs = append(cliArgs, volume, remotePath)
				res, err := s.Runner.Run(ctx, modal.Invocation{Args: cliArgs})
				return normalize.Envelope(mode, res, err,
					fmt.Sprintf("Failed to delete %s", remotePath),
					fmt.Sprintf("Successfully deleted %s from volume %s", remotePath, volume))
			}
		},
	}
}

func (s Service) putVolumeFile() entry {
	return entry{
		def: registry.Definition{
			Name:        "put_volume_file",
			Title:       "Upload Volume File",
			Description: "Upload a file or directory to a Modal volume.",
			Params: []registry.Param{
				{Name: "volume_name", Type: registry.TypeString, Required: true, Description: "Name of the Modal volume to upload to."},
				{Name: "local_path", Type: registry.TypeString, Required: true, Description: "Path to the local file or directory to upload."},
				{Name: "remote_path", Type: registry.TypeString, Default: "/", Description: "Path in the volume to upload to. A trailing slash keeps the file name."},
				{Name: "force", Type: registry.TypeBoolean, Default: false, Description: "Overwrite existing files."},
			},
		},
		build: func(mode normalize.Mode) registry.Handler {
			return func(ctx context.Context, args map[string]any) protocol.Envelope {
				volume := stringArg(args, "volume_name")
				localPath := stringArg(args, "local_path")
				remotePath := stringArg(args, "remote_path")
				cliArgs := []string{"volume", "put"}
				if boolArg(args, "force") {
					cliArgs = append(cliArgs, "-f")
				}
				cliArgs = append(cliArgs, volume, localPath, remotePath)
				res, err := s.Runner.Run(ctx, modal.Invocation{Args: cliArgs})
				return normalize.Envelope(mode, res, err,
					fmt.Sprintf("Failed to upload %s", localPath),
					fmt.Sprintf("Successfully uploaded %s to %s:%s", localPath, volume, remotePath))
			}
		},
	}
}

func (s Service) getVolumeFile() entry {
	return entry{
		def: registry.Definition{
			Name:        "get_volume_file",
			Title:       "Download Volume File",
			Description: "Download files from a Modal volume. Use \"-\" as the destination to return the file content directly.",
			Params: []registry.Param{
				{Name: "volume_name", Type: registry.TypeString, Required: true, Description: "Name of the Modal volume to download from."},
				{Name: "remote_path", Type: registry.TypeString, Required: true, Description: "Path to the file or directory in the volume to download."},
				{Name: "local_destination", Type: registry.TypeString, Default: ".", Description: "Local path to save the downloaded file(s). \"-\" returns the raw content instead of writing to disk."},
				{Name: "force", Type: registry.TypeBoolean, Default: false, Description: "Overwrite existing files."},
			},
			Annotations: registry.Annotations{ReadOnly: true},
		},
		build: func(mode normalize.Mode) registry.Handler {
			return func(ctx context.Context, args map[string]any) protocol.Envelope {
				volume := stringArg(args, "volume_name")
				remotePath := stringArg(args, "remote_path")
				destination := stringArg(args, "local_destination")
				cliArgs := []string{"volume", "get"}
				if boolArg(args, "force") {
					cliArgs = append(cliArgs, "--force")
				}
				cliArgs = append(cliArgs, volume, remotePath, destination)
				res, err := s.Runner.Run(ctx, modal.Invocation{Args: cliArgs})
				failPrefix := fmt.Sprintf("Failed to download %s", remotePath)
				if destination == "-" {
					// The CLI wrote the file content to stdout; hand the raw
					// bytes back instead of a confirmation.
					return normalize.Envelope(normalize.ModeRaw, res, err, failPrefix, "")
				}
				return normalize.Envelope(mode, res, err, failPrefix,
					fmt.Sprintf("Successfully downloaded %s from volume %s", remotePath, volume))
			}
		},
	}
}
