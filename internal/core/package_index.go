package core

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"

	"nx-dart/internal/ports"
	"nx-dart/internal/shared"
	"nx-dart/internal/types"
)

// PackageIndex maps between Dart package names and the projects that hold
// them. It is built once per graph computation and not modified afterwards.
type PackageIndex struct {
	packageToProject map[string]string
	projectToPackage map[string]string
	pubspecs         map[string]*types.Pubspec
	roots            map[string]string
	rootToProject    map[string]string
	packages         []string
}

// BuildPackageIndex loads the pubspec of every project. Projects without a
// pubspec or without a package name are not packages. When two projects
// declare the same package name the first one in name order wins.
func BuildPackageIndex(ctx context.Context, nodes map[string]types.ProjectNode, manifests ports.ManifestPort) (PackageIndex, error) {
	index := PackageIndex{
		packageToProject: map[string]string{},
		projectToPackage: map[string]string{},
		pubspecs:         map[string]*types.Pubspec{},
		roots:            make(map[string]string, len(nodes)),
		rootToProject:    make(map[string]string, len(nodes)),
	}

	names := make([]string, 0, len(nodes))
	for name := range nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, project := range names {
		root := shared.NormalizePath(nodes[project].Data.Root)
		index.roots[project] = root
		if _, taken := index.rootToProject[root]; !taken {
			index.rootToProject[root] = project
		}

		pubspec, err := manifests.LoadPubspec(root)
		if err != nil {
			return PackageIndex{}, err
		}
		if pubspec == nil || pubspec.Name == "" {
			continue
		}
		if owner, taken := index.packageToProject[pubspec.Name]; taken {
			log.Ctx(ctx).Warn().
				Str("package", pubspec.Name).
				Str("project", project).
				Str("owner", owner).
				Msg("package name declared by more than one project")
			continue
		}
		index.packageToProject[pubspec.Name] = project
		index.projectToPackage[project] = pubspec.Name
		index.pubspecs[project] = pubspec
		index.packages = append(index.packages, project)
	}

	log.Ctx(ctx).Debug().Int("projects", len(nodes)).Int("packages", len(index.packages)).Msg("package index built")
	return index, nil
}

func (i PackageIndex) ProjectForPackage(pkg string) (string, bool) {
	project, ok := i.packageToProject[pkg]
	return project, ok
}

func (i PackageIndex) PackageForProject(project string) (string, bool) {
	pkg, ok := i.projectToPackage[project]
	return pkg, ok
}

func (i PackageIndex) ProjectForRoot(root string) (string, bool) {
	project, ok := i.rootToProject[shared.NormalizePath(root)]
	return project, ok
}

func (i PackageIndex) Pubspec(project string) *types.Pubspec {
	return i.pubspecs[project]
}

func (i PackageIndex) Root(project string) string {
	return i.roots[project]
}

// PackageProjects lists the projects that are Dart packages, sorted.
func (i PackageIndex) PackageProjects() []string {
	return append([]string(nil), i.packages...)
}
