package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nx-dart/internal/adapters"
	"nx-dart/internal/types"
)

type recordingSource struct {
	imports map[string][]string
	opened  []string
}

func (s *recordingSource) ImportsForFile(file string) ([]string, error) {
	s.opened = append(s.opened, file)
	return s.imports[file], nil
}

type staticResolver struct {
	targets  map[string]map[string]string
	external map[string][]types.ExternalNode
}

func (r staticResolver) ResolveExternalNodes(project string) []types.ExternalNode {
	return r.external[project]
}

func (r staticResolver) ResolveDependencyTarget(project, pkg string) (string, bool) {
	target, ok := r.targets[project][pkg]
	return target, ok
}

func TestBuildSourceImportDependencies(t *testing.T) {
	source := &recordingSource{imports: map[string][]string{
		"b/lib/b.dart": {"package:foo/foo.dart", "bar.dart", "dart:async", "package:unknown/x.dart"},
	}}
	resolver := staticResolver{targets: map[string]map[string]string{
		"b": {"foo": "pub:foo:1", "bar": "pub:bar:1"},
	}}
	files := types.ProjectFileMap{
		"b": {{File: "b/lib/b.dart"}, {File: "b/pubspec.yaml"}, {File: "b/README.md"}},
	}

	deps, err := BuildSourceImportDependencies(t.Context(), files, resolver, source)
	require.NoError(t, err)

	want := []types.ExplicitDependency{{SourceProject: "b", SourceFile: "b/lib/b.dart", TargetNode: "pub:foo:1"}}
	if diff := cmp.Diff(want, deps); diff != "" {
		t.Fatalf("dependencies mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"b/lib/b.dart"}, source.opened, "only Dart files are read")
}

func TestBuildPubspecDependencies_OnlyOwnManifest(t *testing.T) {
	root := writeWorkspace(t, map[string]string{
		"libs/a/pubspec.yaml":          pubspecA,
		"libs/b/pubspec.yaml":          pubspecB,
		"libs/b/example/pubspec.yaml":  "dependencies:\n  a: any\n",
		"libs/b/tool/pubspec.yaml.bak": pubspecB,
	})
	graph := discoverGraph(t, root)
	resolver := staticResolver{targets: map[string]map[string]string{
		"b": {"a": "a", "collection": "pub:collection:1"},
	}}
	files := types.ProjectFileMap{
		"b": {{File: "libs/b/pubspec.yaml"}, {File: "libs/b/tool/pubspec.yaml.bak"}},
	}

	deps, err := BuildPubspecDependencies(graph.Nodes, files, resolver, adapters.NewManifestFileAdapter(root))
	require.NoError(t, err)

	want := []types.ExplicitDependency{
		{SourceProject: "b", SourceFile: "libs/b/pubspec.yaml", TargetNode: "a"},
		{SourceProject: "b", SourceFile: "libs/b/pubspec.yaml", TargetNode: "pub:collection:1"},
	}
	if diff := cmp.Diff(want, deps); diff != "" {
		t.Fatalf("dependencies mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildExternalPackageNodes_Idempotent(t *testing.T) {
	shared := types.ExternalNode{Type: "pub", Name: "pub:collection:1", Data: types.ExternalNodeData{PackageName: "collection", Version: "1"}}
	resolver := staticResolver{external: map[string][]types.ExternalNode{
		"a": {shared},
		"b": {shared},
	}}
	builder, err := adapters.NewProjectGraphBuilder(types.ProjectGraph{Nodes: map[string]types.ProjectNode{
		"a": {Name: "a"}, "b": {Name: "b"},
	}})
	require.NoError(t, err)
	files := types.ProjectFileMap{"a": nil, "b": nil}

	require.NoError(t, BuildExternalPackageNodes(resolver, builder, files))
	require.NoError(t, BuildExternalPackageNodes(resolver, builder, files))

	graph, err := builder.Graph()
	require.NoError(t, err)
	assert.Len(t, graph.ExternalNodes, 1)
	assert.True(t, builder.HasExternalNode("pub:collection:1"))
}
