package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nx-dart/internal/adapters"
	"nx-dart/internal/types"
)

func TestBuildPackageIndex(t *testing.T) {
	root := writeWorkspace(t, map[string]string{
		"libs/a/pubspec.yaml": pubspecA,
		"libs/b/pubspec.yaml": pubspecB,
		"tools/pubspec.yaml":  "description: no name\n",
	})
	nodes := map[string]types.ProjectNode{
		"a":     {Name: "a", Data: types.ProjectNodeData{Root: "libs/a"}},
		"b":     {Name: "b", Data: types.ProjectNodeData{Root: "./libs/b/"}},
		"tools": {Name: "tools", Data: types.ProjectNodeData{Root: "tools"}},
		"docs":  {Name: "docs", Data: types.ProjectNodeData{Root: "docs"}},
	}

	index, err := BuildPackageIndex(t.Context(), nodes, adapters.NewManifestFileAdapter(root))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, index.PackageProjects())
	project, ok := index.ProjectForPackage("b")
	assert.True(t, ok)
	assert.Equal(t, "b", project)
	pkg, ok := index.PackageForProject("a")
	assert.True(t, ok)
	assert.Equal(t, "a", pkg)

	_, ok = index.PackageForProject("tools")
	assert.False(t, ok, "a pubspec without a name is not a package")
	assert.Nil(t, index.Pubspec("docs"))

	assert.Equal(t, "libs/b", index.Root("b"))
	project, ok = index.ProjectForRoot("libs/b/")
	assert.True(t, ok)
	assert.Equal(t, "b", project)
	project, ok = index.ProjectForRoot("docs")
	assert.True(t, ok, "roots are indexed for every project")
	assert.Equal(t, "docs", project)
}

func TestBuildPackageIndex_DuplicatePackageNameKeepsFirst(t *testing.T) {
	root := writeWorkspace(t, map[string]string{
		"one/pubspec.yaml": "name: shared\n",
		"two/pubspec.yaml": "name: shared\n",
	})
	nodes := map[string]types.ProjectNode{
		"two": {Name: "two", Data: types.ProjectNodeData{Root: "two"}},
		"one": {Name: "one", Data: types.ProjectNodeData{Root: "one"}},
	}

	index, err := BuildPackageIndex(t.Context(), nodes, adapters.NewManifestFileAdapter(root))
	require.NoError(t, err)

	project, ok := index.ProjectForPackage("shared")
	assert.True(t, ok)
	assert.Equal(t, "one", project)
	assert.Equal(t, []string{"one"}, index.PackageProjects())
}

func TestBuildPackageIndex_MalformedPubspec(t *testing.T) {
	root := writeWorkspace(t, map[string]string{"a/pubspec.yaml": "name: [\n"})
	nodes := map[string]types.ProjectNode{
		"a": {Name: "a", Data: types.ProjectNodeData{Root: "a"}},
	}
	_, err := BuildPackageIndex(t.Context(), nodes, adapters.NewManifestFileAdapter(root))
	require.Error(t, err)
}
