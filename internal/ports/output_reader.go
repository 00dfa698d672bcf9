package ports

import "nx-dart/internal/types"

// GraphReaderPort loads a previously written graph, used as the host graph
// the processor augments.
type GraphReaderPort interface {
	ReadGraph(path string) (types.ProjectGraph, error)
}
