package ports

import "nx-dart/internal/types"

type GraphOutputPort interface {
	WriteGraph(graph types.ProjectGraph, filename string) error
}
