package app

import (
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nx-dart/internal/adapters"
	"nx-dart/internal/types"
)

func graphWorkspace(t *testing.T) string {
	return writeWorkspace(t, map[string]string{
		"libs/a/pubspec.yaml":      "name: a\n",
		"libs/a/lib/a.dart":        "class A {}\n",
		"libs/a/example/main.dart": "import 'package:a/a.dart';\n",
		"libs/b/pubspec.yaml":      "name: b\ndependencies:\n  a:\n    path: ../a\n",
		"libs/b/lib/b.dart":        "import 'package:a/a.dart';\n",
	})
}

func TestGraph_DiscoversAndWritesOutput(t *testing.T) {
	root := graphWorkspace(t)
	output := filepath.Join(t.TempDir(), "out", "graph.json")
	svc := newTestService(&recordingCommands{})

	result, err := svc.Graph(t.Context(), GraphRequest{
		Workspace: root,
		Mode:      types.ResolutionModeDeclared,
		Output:    output,
	})
	require.NoError(t, err)
	assert.Equal(t, output, result.Output)

	assert.Equal(t, types.ProjectTypeLibrary, result.Graph.Nodes["a"].Type)
	assert.Equal(t, types.ProjectTypeApplication, result.Graph.Nodes["b"].Type)
	wantDeps := map[string][]types.GraphDependency{
		"a": {},
		"b": {{Source: "b", Target: "a", Type: types.DependencyTypeStatic}},
	}
	if diff := cmp.Diff(wantDeps, result.Graph.Dependencies); diff != "" {
		t.Errorf("dependencies mismatch (-want +got):\n%s", diff)
	}

	written, err := adapters.NewOutputReaderAdapter().ReadGraph(output)
	require.NoError(t, err)
	if diff := cmp.Diff(result.Graph, written); diff != "" {
		t.Errorf("written graph mismatch (-want +got):\n%s", diff)
	}
}

func TestGraph_OnlyChangedFiles(t *testing.T) {
	root := graphWorkspace(t)
	svc := newTestService(&recordingCommands{})

	result, err := svc.Graph(t.Context(), GraphRequest{
		Workspace: root,
		Mode:      types.ResolutionModeDeclared,
		Files:     []string{"./libs/b/lib/b.dart", "README.md"},
	})
	require.NoError(t, err)

	assert.Equal(t, []types.GraphDependency{
		{Source: "b", Target: "a", Type: types.DependencyTypeStatic},
	}, result.Graph.Dependencies["b"])
	for _, file := range result.Graph.Nodes["b"].Data.Files {
		if file.File == "libs/b/pubspec.yaml" {
			assert.Empty(t, file.Deps, "unchanged pubspec must not be attributed")
		}
	}
}

func TestGraph_AugmentsBaseGraph(t *testing.T) {
	root := graphWorkspace(t)
	output := filepath.Join(t.TempDir(), "graph.json")
	svc := newTestService(&recordingCommands{})

	first, err := svc.Graph(t.Context(), GraphRequest{
		Workspace: root,
		Mode:      types.ResolutionModeDeclared,
		Output:    output,
	})
	require.NoError(t, err)

	second, err := svc.Graph(t.Context(), GraphRequest{
		Workspace: root,
		Mode:      types.ResolutionModeDeclared,
		BaseGraph: output,
	})
	require.NoError(t, err)
	if diff := cmp.Diff(first.Graph, second.Graph); diff != "" {
		t.Errorf("augmenting the previous graph changed it (-first +second):\n%s", diff)
	}
	assert.Empty(t, second.Output)
}

func TestGraph_RequiresMode(t *testing.T) {
	svc := newTestService(&recordingCommands{})
	_, err := svc.Graph(t.Context(), GraphRequest{Workspace: t.TempDir()})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
	assert.Contains(t, err.Error(), "resolution mode is required")
}

func TestGraph_UnknownMode(t *testing.T) {
	root := graphWorkspace(t)
	svc := newTestService(&recordingCommands{})
	_, err := svc.Graph(t.Context(), GraphRequest{Workspace: root, Mode: "locked"})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestGraph_MissingBaseGraph(t *testing.T) {
	root := graphWorkspace(t)
	svc := newTestService(&recordingCommands{})
	_, err := svc.Graph(t.Context(), GraphRequest{
		Workspace: root,
		Mode:      types.ResolutionModeDeclared,
		BaseGraph: filepath.Join(root, "missing.json"),
	})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}
