package app

import (
	"context"

	"nx-dart/internal/types"
)

type GraphRequest struct {
	Workspace string
	Mode      types.ResolutionMode
	// BaseGraph optionally names a graph file to augment instead of the
	// discovered projects.
	BaseGraph string
	// Files limits processing to these workspace-relative files. Empty means
	// every file of every project.
	Files  []string
	Output string
}

type GraphResult struct {
	Graph  types.ProjectGraph
	Output string
}

type AnalyzeRequest struct {
	Workspace     string
	Project       string
	FatalInfos    bool
	FatalWarnings bool
}

type FormatRequest struct {
	Workspace string
	Project   string
	Check     bool
}

// TestOption is passed to the test runner as `--<Key> <Value>`.
type TestOption struct {
	Key   string
	Value string
}

type TestRequest struct {
	Workspace string
	Project   string
	Coverage  bool
	Reporter  string
	Options   []TestOption
	Targets   []string
}

// ExecutorResult reports whether the tool succeeded. Failures reported by
// the tool itself are not errors.
type ExecutorResult struct {
	Success bool
}

type ChangeLintsRequest struct {
	Workspace string
	Rules     types.LintRules
}

type ChangeLintsResult struct {
	Include string
	Touched []string
	// Task updates the workspace dev dependencies. It is nil when the
	// included package did not change.
	Task func(ctx context.Context) error
}
