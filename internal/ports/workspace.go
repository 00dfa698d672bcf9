package ports

import "nx-dart/internal/types"

// WorkspacePort enumerates the projects of a workspace. It stands in for the
// host orchestrator's project configuration.
type WorkspacePort interface {
	FindPubspecs(root string) ([]string, error)
	DiscoverProjects(root string) (map[string]types.ProjectNode, error)
}
