package adapters

import (
	"errors"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"
	graphlib "github.com/dominikbraun/graph"

	"nx-dart/internal/ports"
	"nx-dart/internal/types"
)

const edgeTypeAttribute = "type"

// ProjectGraphBuilder is an in-memory stand-in for the host orchestrator's
// graph builder. Vertices are project and external node names; there is at
// most one edge per (source, target) pair.
type ProjectGraphBuilder struct {
	base     types.ProjectGraph
	graph    graphlib.Graph[string, string]
	external map[string]types.ExternalNode
	// fileDeps[project][file] lists the targets attributed to that file.
	fileDeps map[string]map[string][]string
}

// NewProjectGraphBuilder seeds a builder with an existing graph. The input is
// copied and never modified.
func NewProjectGraphBuilder(current types.ProjectGraph) (*ProjectGraphBuilder, error) {
	b := &ProjectGraphBuilder{
		base:     current.Clone(),
		graph:    graphlib.New(graphlib.StringHash, graphlib.Directed()),
		external: make(map[string]types.ExternalNode, len(current.ExternalNodes)),
		fileDeps: map[string]map[string][]string{},
	}
	for name := range b.base.Nodes {
		if err := b.graph.AddVertex(name); err != nil {
			return nil, graphError("failed to add project "+name, err)
		}
	}
	for name, node := range b.base.ExternalNodes {
		if err := b.AddExternalNode(node); err != nil {
			return nil, graphError("failed to add external node "+name, err)
		}
	}
	for _, deps := range b.base.Dependencies {
		for _, dep := range deps {
			if err := b.addEdge(dep.Source, dep.Target, dep.Type); err != nil {
				return nil, err
			}
		}
	}
	return b, nil
}

func (b *ProjectGraphBuilder) HasNode(name string) bool {
	_, err := b.graph.Vertex(name)
	return err == nil
}

func (b *ProjectGraphBuilder) HasExternalNode(name string) bool {
	_, ok := b.external[name]
	return ok
}

func (b *ProjectGraphBuilder) AddExternalNode(node types.ExternalNode) error {
	if _, ok := b.base.Nodes[node.Name]; ok {
		return errbuilder.New().
			WithCode(errbuilder.CodeAlreadyExists).
			WithMsg("external node " + node.Name + " collides with a project")
	}
	if err := b.graph.AddVertex(node.Name); err != nil && !errors.Is(err, graphlib.ErrVertexAlreadyExists) {
		return graphError("failed to add external node "+node.Name, err)
	}
	b.external[node.Name] = node
	return nil
}

// AddExplicitDependency records an edge caused by sourceFile. The file must
// be one of the source project's files.
func (b *ProjectGraphBuilder) AddExplicitDependency(sourceProject, sourceFile, target string) error {
	node, ok := b.base.Nodes[sourceProject]
	if !ok {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("source project " + sourceProject + " is not in the graph")
	}
	if !ownsFile(node, sourceFile) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("file " + sourceFile + " does not belong to project " + sourceProject)
	}
	if err := b.addEdge(sourceProject, target, types.DependencyTypeStatic); err != nil {
		return err
	}
	files, ok := b.fileDeps[sourceProject]
	if !ok {
		files = map[string][]string{}
		b.fileDeps[sourceProject] = files
	}
	for _, existing := range files[sourceFile] {
		if existing == target {
			return nil
		}
	}
	files[sourceFile] = append(files[sourceFile], target)
	return nil
}

func (b *ProjectGraphBuilder) AddImplicitDependency(sourceProject, target string) error {
	if _, ok := b.base.Nodes[sourceProject]; !ok {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("source project " + sourceProject + " is not in the graph")
	}
	return b.addEdge(sourceProject, target, types.DependencyTypeImplicit)
}

// Graph materializes the builder state. Dependency lists are sorted by target
// and file deps keep insertion order, so equal inputs give equal outputs.
func (b *ProjectGraphBuilder) Graph() (types.ProjectGraph, error) {
	out := b.base.Clone()
	for name, node := range out.Nodes {
		files := b.fileDeps[name]
		for i, file := range node.Data.Files {
			for _, target := range files[file.File] {
				if !containsString(file.Deps, target) {
					node.Data.Files[i].Deps = append(node.Data.Files[i].Deps, target)
				}
			}
		}
		out.Nodes[name] = node
	}
	for name, node := range b.external {
		out.ExternalNodes[name] = node
	}

	adjacency, err := b.graph.AdjacencyMap()
	if err != nil {
		return types.ProjectGraph{}, graphError("failed to read graph edges", err)
	}
	out.Dependencies = make(map[string][]types.GraphDependency, len(out.Nodes))
	for source := range out.Nodes {
		deps := make([]types.GraphDependency, 0, len(adjacency[source]))
		for target, edge := range adjacency[source] {
			deps = append(deps, types.GraphDependency{
				Source: source,
				Target: target,
				Type:   types.DependencyType(edge.Properties.Attributes[edgeTypeAttribute]),
			})
		}
		sort.Slice(deps, func(i, j int) bool { return deps[i].Target < deps[j].Target })
		out.Dependencies[source] = deps
	}
	return out, nil
}

func (b *ProjectGraphBuilder) addEdge(source, target string, kind types.DependencyType) error {
	err := b.graph.AddEdge(source, target, graphlib.EdgeAttribute(edgeTypeAttribute, string(kind)))
	switch {
	case err == nil, errors.Is(err, graphlib.ErrEdgeAlreadyExists):
		return nil
	case errors.Is(err, graphlib.ErrVertexNotFound):
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("dependency " + source + " -> " + target + " references an unknown node").
			WithCause(err)
	default:
		return graphError("failed to add dependency "+source+" -> "+target, err)
	}
}

func ownsFile(node types.ProjectNode, file string) bool {
	for _, owned := range node.Data.Files {
		if owned.File == file {
			return true
		}
	}
	return false
}

func containsString(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

func graphError(msg string, err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(msg).
		WithCause(err)
}

var _ ports.GraphBuilderPort = (*ProjectGraphBuilder)(nil)
