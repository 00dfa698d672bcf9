package types

// FileData is a file owned by a project. Deps lists the graph nodes that
// explicit dependencies attributed to this file point at.
type FileData struct {
	File string   `json:"file"`
	Deps []string `json:"deps,omitempty"`
}

type ProjectNodeData struct {
	Root  string     `json:"root"`
	Files []FileData `json:"files"`
}

type ProjectNode struct {
	Name string          `json:"name"`
	Type ProjectType     `json:"type,omitempty"`
	Data ProjectNodeData `json:"data"`
}

type ExternalNodeData struct {
	PackageName string `json:"packageName"`
	Version     string `json:"version"`
}

type ExternalNode struct {
	Type string           `json:"type"`
	Name string           `json:"name"`
	Data ExternalNodeData `json:"data"`
}

type GraphDependency struct {
	Source string         `json:"source"`
	Target string         `json:"target"`
	Type   DependencyType `json:"type"`
}

type ProjectGraph struct {
	Nodes         map[string]ProjectNode       `json:"nodes"`
	ExternalNodes map[string]ExternalNode      `json:"externalNodes"`
	Dependencies  map[string][]GraphDependency `json:"dependencies"`
}

// ProjectFileMap maps project names to the files the host asks to
// (re)process.
type ProjectFileMap map[string][]FileData

type ProcessorContext struct {
	WorkspaceRoot  string
	FilesToProcess ProjectFileMap
}

// ExplicitDependency is an inferred edge together with the file that caused
// it.
type ExplicitDependency struct {
	SourceProject string
	SourceFile    string
	TargetNode    string
}

// Clone returns a deep copy so that builders can stay additive.
func (g ProjectGraph) Clone() ProjectGraph {
	out := ProjectGraph{
		Nodes:         make(map[string]ProjectNode, len(g.Nodes)),
		ExternalNodes: make(map[string]ExternalNode, len(g.ExternalNodes)),
		Dependencies:  make(map[string][]GraphDependency, len(g.Dependencies)),
	}
	for name, node := range g.Nodes {
		files := make([]FileData, len(node.Data.Files))
		for i, file := range node.Data.Files {
			files[i] = FileData{File: file.File, Deps: append([]string(nil), file.Deps...)}
		}
		node.Data.Files = files
		out.Nodes[name] = node
	}
	for name, node := range g.ExternalNodes {
		out.ExternalNodes[name] = node
	}
	for name, deps := range g.Dependencies {
		out.Dependencies[name] = append(make([]GraphDependency, 0, len(deps)), deps...)
	}
	return out
}
