package core

import (
	"context"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"nx-dart/internal/ports"
	"nx-dart/internal/types"
)

// BuilderFactory creates a graph builder seeded with the current graph.
type BuilderFactory func(current types.ProjectGraph) (ports.GraphBuilderPort, error)

type GraphProcessor struct {
	Mode       types.ResolutionMode
	Manifests  ports.ManifestPort
	Sources    ports.SourcePort
	NewBuilder BuilderFactory
}

func NewGraphProcessor(mode types.ResolutionMode, manifests ports.ManifestPort, sources ports.SourcePort, newBuilder BuilderFactory) GraphProcessor {
	return GraphProcessor{
		Mode:       mode,
		Manifests:  manifests,
		Sources:    sources,
		NewBuilder: newBuilder,
	}
}

// Process augments graph with Dart package dependencies for the files in
// pctx. Every manifest is re-read on each call. The input graph is not
// modified and nothing already in it is removed.
func (p GraphProcessor) Process(ctx context.Context, graph types.ProjectGraph, pctx types.ProcessorContext) (types.ProjectGraph, error) {
	resolver, err := NewPackageNodeResolver(ctx, p.Mode, graph.Nodes, p.Manifests)
	if err != nil {
		return types.ProjectGraph{}, err
	}
	builder, err := p.NewBuilder(graph)
	if err != nil {
		return types.ProjectGraph{}, err
	}

	if err := BuildExternalPackageNodes(resolver, builder, pctx.FilesToProcess); err != nil {
		return types.ProjectGraph{}, err
	}

	sourceDeps, err := BuildSourceImportDependencies(ctx, pctx.FilesToProcess, resolver, p.Sources)
	if err != nil {
		return types.ProjectGraph{}, err
	}
	pubspecDeps, err := BuildPubspecDependencies(graph.Nodes, pctx.FilesToProcess, resolver, p.Manifests)
	if err != nil {
		return types.ProjectGraph{}, err
	}
	deps := append(sourceDeps, pubspecDeps...)

	for _, dep := range deps {
		assert.NotEmpty(ctx, dep.TargetNode, "dependency target must be set")
		if !builder.HasNode(dep.TargetNode) {
			return types.ProjectGraph{}, errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg("dependency of " + dep.SourceProject + " on " + dep.TargetNode + " was resolved before its node was registered")
		}
	}

	for _, dep := range deps {
		switch p.Mode {
		case types.ResolutionModeResolved:
			err = builder.AddImplicitDependency(dep.SourceProject, dep.TargetNode)
		default:
			err = builder.AddExplicitDependency(dep.SourceProject, dep.SourceFile, dep.TargetNode)
		}
		if err != nil {
			return types.ProjectGraph{}, err
		}
	}

	log.Ctx(ctx).Debug().
		Str("workspace", pctx.WorkspaceRoot).
		Str("mode", string(p.Mode)).
		Int("projects", len(pctx.FilesToProcess)).
		Int("dependencies", len(deps)).
		Msg("project graph processed")
	return builder.Graph()
}
