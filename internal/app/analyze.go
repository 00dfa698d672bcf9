package app

import (
	"context"

	"nx-dart/internal/shared"
	"nx-dart/internal/types"
)

// analyzerIssueExitCodes are the exit codes `dart analyze` uses for infos,
// warnings and errors.
var analyzerIssueExitCodes = []int{1, 2, 3}

func (s Service) Analyze(ctx context.Context, req AnalyzeRequest) (ExecutorResult, error) {
	root, err := requireWorkspace(req.Workspace)
	if err != nil {
		return ExecutorResult{}, err
	}
	node, err := s.findProject(root, req.Project)
	if err != nil {
		return ExecutorResult{}, err
	}

	args := []string{"analyze"}
	if req.FatalInfos {
		args = append(args, "--fatal-infos")
	}
	if !req.FatalWarnings {
		args = append(args, "--no-fatal-warnings")
	}
	ok, err := s.Commands.Run(ctx, types.Command{
		Executable:             string(types.DartToolDart),
		Args:                   args,
		Dir:                    shared.OSPath(root, node.Data.Root),
		ExpectedErrorExitCodes: analyzerIssueExitCodes,
	})
	if err != nil {
		return ExecutorResult{}, err
	}
	return ExecutorResult{Success: ok}, nil
}
