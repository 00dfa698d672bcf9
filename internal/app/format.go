package app

import (
	"context"
	"strings"

	"nx-dart/internal/core"
	"nx-dart/internal/shared"
	"nx-dart/internal/types"
)

const formatChunkSize = 10

// Format formats the Dart files owned by a project. Files are passed one by
// one so that nested projects are left alone.
func (s Service) Format(ctx context.Context, req FormatRequest) (ExecutorResult, error) {
	root, err := requireWorkspace(req.Workspace)
	if err != nil {
		return ExecutorResult{}, err
	}
	node, err := s.findProject(root, req.Project)
	if err != nil {
		return ExecutorResult{}, err
	}

	var files []string
	for _, file := range node.Data.Files {
		if core.IsDartFile(file.File) {
			files = append(files, relativeToRoot(node.Data.Root, file.File))
		}
	}

	success := true
	for start := 0; start < len(files); start += formatChunkSize {
		chunk := files[start:min(start+formatChunkSize, len(files))]
		args := []string{"format", "--show", "all"}
		if req.Check {
			args = append(args, "--set-exit-if-changed", "--output", "none")
		}
		ok, err := s.Commands.Run(ctx, types.Command{
			Executable: string(types.DartToolDart),
			Args:       append(args, chunk...),
			Dir:        shared.OSPath(root, node.Data.Root),
		})
		if err != nil {
			return ExecutorResult{}, err
		}
		success = success && ok
	}
	return ExecutorResult{Success: success}, nil
}

func relativeToRoot(projectRoot, file string) string {
	if projectRoot == "" {
		return file
	}
	return strings.TrimPrefix(file, projectRoot+"/")
}
