package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"nx-dart/internal/adapters"
	"nx-dart/internal/ports"
	"nx-dart/internal/types"
)

// writeWorkspace creates files below a temporary workspace root.
func writeWorkspace(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

// discoverGraph returns the projects of root as a graph without edges.
func discoverGraph(t *testing.T, root string) types.ProjectGraph {
	t.Helper()
	nodes, err := adapters.NewWorkspaceAdapter().DiscoverProjects(root)
	require.NoError(t, err)
	return types.ProjectGraph{Nodes: nodes}
}

// allFiles asks for every file of every project to be processed.
func allFiles(graph types.ProjectGraph) types.ProjectFileMap {
	files := types.ProjectFileMap{}
	for name, node := range graph.Nodes {
		files[name] = node.Data.Files
	}
	return files
}

func newTestProcessor(root string, mode types.ResolutionMode) GraphProcessor {
	return NewGraphProcessor(
		mode,
		adapters.NewManifestFileAdapter(root),
		adapters.NewDartSourceAdapter(root),
		func(current types.ProjectGraph) (ports.GraphBuilderPort, error) {
			return adapters.NewProjectGraphBuilder(current)
		},
	)
}

const (
	pubspecA = "name: a\n"
	pubspecB = `name: b
dependencies:
  a:
    path: ../a
  collection: ^1.17.0
`
)
