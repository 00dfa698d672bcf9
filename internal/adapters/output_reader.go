package adapters

import (
	"encoding/json"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"nx-dart/internal/ports"
	"nx-dart/internal/types"
)

type OutputReaderAdapter struct{}

func NewOutputReaderAdapter() OutputReaderAdapter {
	return OutputReaderAdapter{}
}

func (a OutputReaderAdapter) ReadGraph(path string) (types.ProjectGraph, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return types.ProjectGraph{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("project graph not found: " + path).
			WithCause(err)
	}
	var graph types.ProjectGraph
	if err := json.Unmarshal(content, &graph); err != nil {
		return types.ProjectGraph{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid project graph in " + path).
			WithCause(err)
	}
	if len(graph.Nodes) == 0 {
		return types.ProjectGraph{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("project graph " + path + " has no nodes")
	}
	return graph.Clone(), nil
}

var _ ports.GraphReaderPort = OutputReaderAdapter{}
