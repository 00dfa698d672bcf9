package core

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"

	"nx-dart/internal/ports"
	"nx-dart/internal/shared"
	"nx-dart/internal/types"
)

// DependencyResolver is the query side of PackageNodeResolver.
type DependencyResolver interface {
	ResolveExternalNodes(project string) []types.ExternalNode
	ResolveDependencyTarget(project, pkg string) (string, bool)
}

// BuildSourceImportDependencies emits one dependency per package import in
// the Dart files to process. Imports that do not resolve are skipped.
func BuildSourceImportDependencies(ctx context.Context, files types.ProjectFileMap, resolver DependencyResolver, sources ports.SourcePort) ([]types.ExplicitDependency, error) {
	var deps []types.ExplicitDependency
	for _, project := range sortedProjects(files) {
		for _, file := range files[project] {
			if !IsDartFile(file.File) {
				continue
			}
			imports, err := sources.ImportsForFile(file.File)
			if err != nil {
				return nil, err
			}
			for _, uri := range imports {
				pkg, ok := PackageNameFromURI(uri)
				if !ok {
					continue
				}
				target, ok := resolver.ResolveDependencyTarget(project, pkg)
				if !ok {
					log.Ctx(ctx).Debug().Str("file", file.File).Str("package", pkg).Msg("import does not resolve to a dependency")
					continue
				}
				deps = append(deps, types.ExplicitDependency{
					SourceProject: project,
					SourceFile:    file.File,
					TargetNode:    target,
				})
			}
		}
	}
	return deps, nil
}

// BuildPubspecDependencies emits one dependency per resolvable entry of a
// project's own pubspec.yaml when that file is among the files to process.
func BuildPubspecDependencies(nodes map[string]types.ProjectNode, files types.ProjectFileMap, resolver DependencyResolver, manifests ports.ManifestPort) ([]types.ExplicitDependency, error) {
	var deps []types.ExplicitDependency
	for _, project := range sortedProjects(files) {
		node, ok := nodes[project]
		if !ok {
			continue
		}
		pubspecFile := shared.PubspecPath(node.Data.Root)
		for _, file := range files[project] {
			if shared.NormalizePath(file.File) != pubspecFile {
				continue
			}
			pubspec, err := manifests.LoadPubspec(node.Data.Root)
			if err != nil {
				return nil, err
			}
			if pubspec == nil {
				continue
			}
			for _, dep := range pubspec.AllDependencies() {
				target, ok := resolver.ResolveDependencyTarget(project, dep.Name)
				if !ok {
					continue
				}
				deps = append(deps, types.ExplicitDependency{
					SourceProject: project,
					SourceFile:    file.File,
					TargetNode:    target,
				})
			}
		}
	}
	return deps, nil
}

// BuildExternalPackageNodes registers the external nodes of every project
// to process. Nodes already in the graph are left alone.
func BuildExternalPackageNodes(resolver DependencyResolver, builder ports.GraphBuilderPort, files types.ProjectFileMap) error {
	for _, project := range sortedProjects(files) {
		for _, node := range resolver.ResolveExternalNodes(project) {
			if builder.HasExternalNode(node.Name) {
				continue
			}
			if err := builder.AddExternalNode(node); err != nil {
				return err
			}
		}
	}
	return nil
}

func sortedProjects(files types.ProjectFileMap) []string {
	projects := make([]string, 0, len(files))
	for project := range files {
		projects = append(projects, project)
	}
	sort.Strings(projects)
	return projects
}
