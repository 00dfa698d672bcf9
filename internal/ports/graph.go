package ports

import "nx-dart/internal/types"

// GraphBuilderPort is the host's project graph builder. Targets must be
// registered nodes; external nodes therefore have to be added before any
// dependency that references them.
type GraphBuilderPort interface {
	HasNode(name string) bool
	HasExternalNode(name string) bool
	AddExternalNode(node types.ExternalNode) error
	AddExplicitDependency(sourceProject, sourceFile, target string) error
	AddImplicitDependency(sourceProject, target string) error
	Graph() (types.ProjectGraph, error)
}
