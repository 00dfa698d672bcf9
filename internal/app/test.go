package app

import (
	"context"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"nx-dart/internal/shared"
	"nx-dart/internal/types"
)

const (
	coverageDir         = "coverage"
	coverageLcovFile    = coverageDir + "/lcov.info"
	coverageDartDataDir = coverageDir + "/dart"
)

// Test runs `dart test` or `flutter test` for a project. Dart coverage data
// is converted to lcov so both tools leave coverage/lcov.info behind.
func (s Service) Test(ctx context.Context, req TestRequest) (ExecutorResult, error) {
	root, err := requireWorkspace(req.Workspace)
	if err != nil {
		return ExecutorResult{}, err
	}
	node, err := s.findProject(root, req.Project)
	if err != nil {
		return ExecutorResult{}, err
	}
	pubspec, err := s.Manifests(root).LoadPubspec(node.Data.Root)
	if err != nil {
		return ExecutorResult{}, err
	}
	if pubspec == nil {
		return ExecutorResult{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("could not find " + shared.PubspecPath(node.Data.Root))
	}

	tool := types.DartToolDart
	if pubspec.IsFlutterPackage() {
		tool = types.DartToolFlutter
	}
	projectDir := shared.OSPath(root, node.Data.Root)
	if req.Coverage {
		if err := os.RemoveAll(filepath.Join(projectDir, coverageDir)); err != nil {
			return ExecutorResult{}, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to remove previous coverage data").
				WithCause(err)
		}
	}

	ok, err := s.Commands.Run(ctx, types.Command{
		Executable: string(tool),
		Args:       testArguments(tool, req),
		Dir:        projectDir,
	})
	if err != nil || !ok {
		return ExecutorResult{Success: ok}, err
	}
	if req.Coverage && tool == types.DartToolDart {
		return s.convertCoverageToLcov(ctx, projectDir)
	}
	return ExecutorResult{Success: true}, nil
}

func testArguments(tool types.DartTool, req TestRequest) []string {
	args := []string{"test"}
	reporter := req.Reporter
	if reporter == "" {
		reporter = "expanded"
	}
	args = append(args, "--reporter", reporter)
	if req.Coverage {
		switch tool {
		case types.DartToolFlutter:
			args = append(args, "--coverage", "--coverage-path", coverageLcovFile)
		default:
			args = append(args, "--coverage", coverageDartDataDir)
		}
	}
	for _, option := range req.Options {
		args = append(args, "--"+option.Key, option.Value)
	}
	return append(args, req.Targets...)
}

func (s Service) convertCoverageToLcov(ctx context.Context, projectDir string) (ExecutorResult, error) {
	ok, err := s.Commands.Run(ctx, types.Command{
		Executable: string(types.DartToolDart),
		Args:       []string{"pub", "global", "activate", "coverage"},
	})
	if err != nil || !ok {
		return ExecutorResult{Success: ok}, err
	}
	ok, err = s.Commands.Run(ctx, types.Command{
		Executable: string(types.DartToolDart),
		Args: []string{
			"pub", "global", "run", "coverage:format_coverage",
			"--lcov",
			"--in", coverageDartDataDir,
			"--out", coverageLcovFile,
		},
		Dir: projectDir,
	})
	if err != nil || !ok {
		return ExecutorResult{Success: ok}, err
	}
	if err := os.RemoveAll(filepath.Join(projectDir, filepath.FromSlash(coverageDartDataDir))); err != nil {
		return ExecutorResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to remove raw coverage data").
			WithCause(err)
	}
	return ExecutorResult{Success: true}, nil
}
