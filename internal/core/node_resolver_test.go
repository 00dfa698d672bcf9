package core

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nx-dart/internal/adapters"
	"nx-dart/internal/types"
)

func sha256Hex(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

func newTestResolver(t *testing.T, root string, mode types.ResolutionMode) *PackageNodeResolver {
	t.Helper()
	graph := discoverGraph(t, root)
	resolver, err := NewPackageNodeResolver(t.Context(), mode, graph.Nodes, adapters.NewManifestFileAdapter(root))
	require.NoError(t, err)
	return resolver
}

func TestPackageNodeResolver_Declared(t *testing.T) {
	root := writeWorkspace(t, map[string]string{
		"libs/a/pubspec.yaml": pubspecA,
		"libs/b/pubspec.yaml": pubspecB,
	})
	resolver := newTestResolver(t, root, types.ResolutionModeDeclared)

	target, ok := resolver.ResolveDependencyTarget("b", "a")
	require.True(t, ok)
	assert.Equal(t, "a", target)

	hash := sha256Hex(`"^1.17.0"`)
	target, ok = resolver.ResolveDependencyTarget("b", "collection")
	require.True(t, ok)
	assert.Equal(t, "pub:collection:"+hash, target)

	want := []types.ExternalNode{{
		Type: "pub",
		Name: "pub:collection:" + hash,
		Data: types.ExternalNodeData{PackageName: "collection", Version: hash},
	}}
	if diff := cmp.Diff(want, resolver.ResolveExternalNodes("b")); diff != "" {
		t.Fatalf("external nodes mismatch (-want +got):\n%s", diff)
	}

	_, ok = resolver.ResolveDependencyTarget("a", "b")
	assert.False(t, ok, "a must not depend on b")
	assert.Empty(t, resolver.ResolveExternalNodes("a"))
	assert.Nil(t, resolver.ResolveExternalNodes("not-a-project"))
}

func TestPackageNodeResolver_SpecifierIdentity(t *testing.T) {
	root := writeWorkspace(t, map[string]string{
		"one/pubspec.yaml":   "name: one\ndependencies:\n  http:\n    hosted: https://pub.dev\n    version: ^1.0.0\n",
		"two/pubspec.yaml":   "name: two\ndependencies:\n  http:\n    version: ^1.0.0\n    hosted: https://pub.dev\n",
		"three/pubspec.yaml": "name: three\ndependencies:\n  http: ^1.0.0\n",
		"four/pubspec.yaml":  "name: four\ndependencies:\n  http: \">=1.0.0 <2.0.0\"\n",
	})
	resolver := newTestResolver(t, root, types.ResolutionModeDeclared)

	one, _ := resolver.ResolveDependencyTarget("one", "http")
	two, _ := resolver.ResolveDependencyTarget("two", "http")
	three, _ := resolver.ResolveDependencyTarget("three", "http")
	four, _ := resolver.ResolveDependencyTarget("four", "http")

	assert.Equal(t, one, two, "key order must not change the identity")
	assert.NotEqual(t, one, three)
	assert.Equal(t, "pub:http:"+sha256Hex(`{"hosted":"https://pub.dev","version":"^1.0.0"}`), one)
	assert.Equal(t, "pub:http:"+sha256Hex(`">=1.0.0 <2.0.0"`), four)
}

func TestPackageNodeResolver_NonStringSpecifierKeys(t *testing.T) {
	root := writeWorkspace(t, map[string]string{
		"a/pubspec.yaml": "name: a\ndependencies:\n  foo:\n    git:\n      url: x\n      1: y\n",
	})
	resolver := newTestResolver(t, root, types.ResolutionModeDeclared)

	target, ok := resolver.ResolveDependencyTarget("a", "foo")
	require.True(t, ok)
	assert.Equal(t, "pub:foo:"+sha256Hex(`{"git":{"1":"y","url":"x"}}`), target)
}

func TestPackageNodeResolver_DevDependenciesAndNullSpecifiers(t *testing.T) {
	root := writeWorkspace(t, map[string]string{
		"a/pubspec.yaml": pubspecA,
		"c/pubspec.yaml": "name: c\ndependencies:\n  meta:\ndev_dependencies:\n  a: any\n  test: ^1.24.0\n",
	})
	resolver := newTestResolver(t, root, types.ResolutionModeDeclared)

	target, ok := resolver.ResolveDependencyTarget("c", "a")
	require.True(t, ok)
	assert.Equal(t, "a", target)

	_, ok = resolver.ResolveDependencyTarget("c", "test")
	assert.True(t, ok)

	_, ok = resolver.ResolveDependencyTarget("c", "meta")
	assert.False(t, ok)
	assert.Len(t, resolver.ResolveExternalNodes("c"), 1)
}

func TestPackageNodeResolver_NamelessPubspecIsNotAPackage(t *testing.T) {
	root := writeWorkspace(t, map[string]string{
		"a/pubspec.yaml":         pubspecA,
		"a/example/pubspec.yaml": "dependencies:\n  a:\n    path: ..\n",
	})
	resolver := newTestResolver(t, root, types.ResolutionModeDeclared)

	_, ok := resolver.Index().PackageForProject("a/example")
	assert.False(t, ok)
	_, ok = resolver.ResolveDependencyTarget("a/example", "a")
	assert.False(t, ok)
	assert.Equal(t, []string{"a"}, resolver.Index().PackageProjects())
}

func TestPackageNodeResolver_Resolved(t *testing.T) {
	root := writeWorkspace(t, map[string]string{
		"libs/a/pubspec.yaml": pubspecA,
		"libs/b/pubspec.yaml": pubspecB,
		"libs/b/.dart_tool/package_config.json": `{
  "configVersion": 2,
  "packages": [
    {"name": "a", "rootUri": "../../a/", "packageUri": "lib/"},
    {"name": "b", "rootUri": "../", "packageUri": "lib/"},
    {"name": "collection", "rootUri": "file:///home/dev/.pub-cache/hosted/pub.dev/collection-1.18.0", "packageUri": "lib/"}
  ]
}`,
	})
	resolver := newTestResolver(t, root, types.ResolutionModeResolved)

	target, ok := resolver.ResolveDependencyTarget("b", "a")
	require.True(t, ok)
	assert.Equal(t, "a", target)

	hash := sha256Hex("file:///home/dev/.pub-cache/hosted/pub.dev/collection-1.18.0")
	target, ok = resolver.ResolveDependencyTarget("b", "collection")
	require.True(t, ok)
	assert.Equal(t, "pub:collection:"+hash, target)
	assert.Len(t, resolver.ResolveExternalNodes("b"), 1)
}

func TestPackageNodeResolver_ResolvedRelativeOutsideWorkspace(t *testing.T) {
	root := writeWorkspace(t, map[string]string{
		"b/pubspec.yaml":                   "name: b\ndependencies:\n  vendored:\n    path: ../../vendored\n",
		"b/.dart_tool/package_config.json": `{"configVersion": 2, "packages": [{"name": "vendored", "rootUri": "../../../vendored"}]}`,
	})
	resolver := newTestResolver(t, root, types.ResolutionModeResolved)

	target, ok := resolver.ResolveDependencyTarget("b", "vendored")
	require.True(t, ok)
	assert.Equal(t, "pub:vendored:"+sha256Hex("../../../vendored"), target)
}

func TestPackageNodeResolver_ResolvedPercentEncodedRoot(t *testing.T) {
	root := writeWorkspace(t, map[string]string{
		"my pkg/a/pubspec.yaml":                 pubspecA,
		"libs/b/pubspec.yaml":                   pubspecB,
		"libs/b/.dart_tool/package_config.json": `{"configVersion": 2, "packages": [{"name": "a", "rootUri": "../../../my%20pkg/a/"}]}`,
	})
	resolver := newTestResolver(t, root, types.ResolutionModeResolved)

	target, ok := resolver.ResolveDependencyTarget("b", "a")
	require.True(t, ok)
	assert.Equal(t, "a", target)
	assert.Empty(t, resolver.ResolveExternalNodes("b"))
}

func TestPackageNodeResolver_ResolvedWithoutPackageConfig(t *testing.T) {
	root := writeWorkspace(t, map[string]string{
		"libs/a/pubspec.yaml": pubspecA,
		"libs/b/pubspec.yaml": pubspecB,
	})
	resolver := newTestResolver(t, root, types.ResolutionModeResolved)

	_, ok := resolver.ResolveDependencyTarget("b", "a")
	assert.False(t, ok)
	assert.Empty(t, resolver.ResolveExternalNodes("b"))
}

func TestPackageNodeResolver_Errors(t *testing.T) {
	root := writeWorkspace(t, map[string]string{
		"a/pubspec.yaml": pubspecA,
	})
	graph := discoverGraph(t, root)

	_, err := NewPackageNodeResolver(t.Context(), "lockfile", graph.Nodes, adapters.NewManifestFileAdapter(root))
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))

	broken := writeWorkspace(t, map[string]string{
		"a/pubspec.yaml":                   pubspecA,
		"a/.dart_tool/package_config.json": "{",
	})
	graph = discoverGraph(t, broken)
	_, err = NewPackageNodeResolver(t.Context(), types.ResolutionModeResolved, graph.Nodes, adapters.NewManifestFileAdapter(broken))
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
