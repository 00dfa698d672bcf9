package app

import (
	"nx-dart/internal/adapters"
	"nx-dart/internal/core"
	"nx-dart/internal/ports"
	"nx-dart/internal/types"
)

// Service wires the use cases to adapters. Adapters that read the workspace
// are created per call from the explicit workspace root.
type Service struct {
	Workspace    ports.WorkspacePort
	Commands     ports.CommandPort
	LintRules    ports.LintRulesSourcePort
	GraphReader  ports.GraphReaderPort
	Manifests    func(workspaceRoot string) ports.ManifestPort
	Sources      func(workspaceRoot string) ports.SourcePort
	Trees        func(workspaceRoot string) ports.TreePort
	GraphOutputs func(dir string) ports.GraphOutputPort
	NewBuilder   core.BuilderFactory
}

func NewService() Service {
	return Service{
		Workspace:   adapters.NewWorkspaceAdapter(),
		Commands:    adapters.NewExecCommandAdapter(),
		LintRules:   adapters.NewLintRulesHTTPAdapter(),
		GraphReader: adapters.NewOutputReaderAdapter(),
		Manifests: func(root string) ports.ManifestPort {
			return adapters.NewManifestFileAdapter(root)
		},
		Sources: func(root string) ports.SourcePort {
			return adapters.NewDartSourceAdapter(root)
		},
		Trees: func(root string) ports.TreePort {
			return adapters.NewFileTreeAdapter(root)
		},
		GraphOutputs: func(dir string) ports.GraphOutputPort {
			return adapters.NewOutputFileAdapter(dir)
		},
		NewBuilder: func(current types.ProjectGraph) (ports.GraphBuilderPort, error) {
			return adapters.NewProjectGraphBuilder(current)
		},
	}
}
