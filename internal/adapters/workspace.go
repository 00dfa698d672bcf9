package adapters

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"nx-dart/internal/ports"
	"nx-dart/internal/shared"
	"nx-dart/internal/types"
)

type WorkspaceAdapter struct{}

func NewWorkspaceAdapter() WorkspaceAdapter {
	return WorkspaceAdapter{}
}

// FindPubspecs returns the workspace-relative directories that contain a
// pubspec.yaml, sorted.
func (a WorkspaceAdapter) FindPubspecs(root string) ([]string, error) {
	roots, _, err := scanWorkspace(root, false)
	return roots, err
}

// DiscoverProjects turns every pubspec directory into a project node. Each
// file belongs to the deepest project root that contains it; files outside
// every project are ignored. The project name is the pubspec name, or the
// root path for anonymous packages.
func (a WorkspaceAdapter) DiscoverProjects(root string) (map[string]types.ProjectNode, error) {
	roots, files, err := scanWorkspace(root, true)
	if err != nil {
		return nil, err
	}
	manifests := NewManifestFileAdapter(root)

	byRoot := make(map[string]string, len(roots))
	nodes := make(map[string]types.ProjectNode, len(roots))
	for _, projectRoot := range roots {
		pubspec, err := manifests.LoadPubspec(projectRoot)
		if err != nil {
			return nil, err
		}
		name := anonymousProjectName(root, projectRoot)
		if pubspec != nil && pubspec.Name != "" {
			name = pubspec.Name
		}
		if existing, ok := nodes[name]; ok {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeAlreadyExists).
				WithMsg("project " + name + " is declared by both " + existing.Data.Root + " and " + projectRoot)
		}
		byRoot[projectRoot] = name
		nodes[name] = types.ProjectNode{
			Name: name,
			Data: types.ProjectNodeData{Root: projectRoot, Files: []types.FileData{}},
		}
	}

	for _, file := range files {
		owner, ok := owningRoot(roots, file)
		if !ok {
			continue
		}
		node := nodes[byRoot[owner]]
		node.Data.Files = append(node.Data.Files, types.FileData{File: file})
		nodes[byRoot[owner]] = node
	}
	return nodes, nil
}

func scanWorkspace(root string, collectFiles bool) ([]string, []string, error) {
	if root == "" {
		return nil, nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("workspace root is empty")
	}
	var roots, files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && shouldSkipWorkspaceDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = shared.NormalizePath(rel)
		if d.Name() == shared.PubspecFile {
			roots = append(roots, shared.NormalizePath(filepath.Dir(rel)))
		}
		if collectFiles {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to scan workspace").
			WithCause(err)
	}
	sort.Strings(roots)
	sort.Strings(files)
	return roots, files, nil
}

func owningRoot(roots []string, file string) (string, bool) {
	best, found := "", false
	for _, root := range roots {
		if root != "" && !strings.HasPrefix(file, root+"/") {
			continue
		}
		if !found || len(root) > len(best) {
			best, found = root, true
		}
	}
	return best, found
}

func anonymousProjectName(workspaceRoot, projectRoot string) string {
	if projectRoot != "" {
		return projectRoot
	}
	abs, err := filepath.Abs(workspaceRoot)
	if err != nil {
		return filepath.Base(workspaceRoot)
	}
	return filepath.Base(abs)
}

func shouldSkipWorkspaceDir(name string) bool {
	switch name {
	case shared.DartToolDir, "build", ".git", "node_modules", ".pub-cache", ".idea", ".fvm", ".symlinks":
		return true
	default:
		return false
	}
}

var _ ports.WorkspacePort = WorkspaceAdapter{}
