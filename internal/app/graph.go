package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"nx-dart/internal/core"
	"nx-dart/internal/ports"
	"nx-dart/internal/shared"
	"nx-dart/internal/types"
)

func (s Service) Graph(ctx context.Context, req GraphRequest) (GraphResult, error) {
	root, err := requireWorkspace(req.Workspace)
	if err != nil {
		return GraphResult{}, err
	}
	if req.Mode == "" {
		return GraphResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("resolution mode is required")
	}
	manifests := s.Manifests(root)

	var graph types.ProjectGraph
	if strings.TrimSpace(req.BaseGraph) != "" {
		graph, err = s.GraphReader.ReadGraph(req.BaseGraph)
	} else {
		graph, err = s.discoverGraph(root, manifests)
	}
	if err != nil {
		return GraphResult{}, err
	}

	processor := core.NewGraphProcessor(req.Mode, manifests, s.Sources(root), s.NewBuilder)
	out, err := processor.Process(ctx, graph, types.ProcessorContext{
		WorkspaceRoot:  root,
		FilesToProcess: filesToProcess(ctx, graph, req.Files),
	})
	if err != nil {
		return GraphResult{}, err
	}

	result := GraphResult{Graph: out}
	if output := strings.TrimSpace(req.Output); output != "" {
		if err := s.GraphOutputs(filepath.Dir(output)).WriteGraph(out, filepath.Base(output)); err != nil {
			return GraphResult{}, err
		}
		result.Output = output
	}
	log.Ctx(ctx).Debug().
		Int("projects", len(out.Nodes)).
		Int("external_nodes", len(out.ExternalNodes)).
		Msg("project graph computed")
	return result, nil
}

// discoverGraph enumerates the workspace projects and infers their type.
func (s Service) discoverGraph(root string, manifests ports.ManifestPort) (types.ProjectGraph, error) {
	nodes, err := s.Workspace.DiscoverProjects(root)
	if err != nil {
		return types.ProjectGraph{}, err
	}
	tree := s.Trees(root)
	for name, node := range nodes {
		projectType, ok, err := core.InferProjectType(manifests, tree, node.Data.Root)
		if err != nil {
			return types.ProjectGraph{}, err
		}
		if ok {
			node.Type = projectType
			nodes[name] = node
		}
	}
	return types.ProjectGraph{Nodes: nodes}, nil
}

// filesToProcess maps changed files to the projects that own them. Without
// changed files every file of every project is processed.
func filesToProcess(ctx context.Context, graph types.ProjectGraph, changed []string) types.ProjectFileMap {
	files := types.ProjectFileMap{}
	if len(changed) == 0 {
		for name, node := range graph.Nodes {
			files[name] = node.Data.Files
		}
		return files
	}

	owners := map[string]string{}
	for name, node := range graph.Nodes {
		for _, file := range node.Data.Files {
			owners[file.File] = name
		}
	}
	for _, file := range changed {
		file = shared.NormalizePath(file)
		owner, ok := owners[file]
		if !ok {
			log.Ctx(ctx).Debug().Str("file", file).Msg("file is not owned by any project, skipped")
			continue
		}
		files[owner] = append(files[owner], types.FileData{File: file})
	}
	return files
}

func (s Service) findProject(root, name string) (types.ProjectNode, error) {
	if strings.TrimSpace(name) == "" {
		return types.ProjectNode{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("project name is required")
	}
	nodes, err := s.Workspace.DiscoverProjects(root)
	if err != nil {
		return types.ProjectNode{}, err
	}
	node, ok := nodes[name]
	if !ok {
		return types.ProjectNode{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("project " + name + " not found in " + root)
	}
	return node, nil
}

func requireWorkspace(workspace string) (string, error) {
	root := strings.TrimSpace(workspace)
	if root == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("workspace root is required")
	}
	return root, nil
}
