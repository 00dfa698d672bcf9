package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"

	"nx-dart/internal/app"
)

type analyzeOptions struct {
	Project       string
	FatalInfos    bool
	FatalWarnings bool
}

func newAnalyzeCommand() *cobra.Command {
	opts := analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run dart analyze for a project",
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := newAppService().Analyze(cmd.Context(), app.AnalyzeRequest{
				Workspace:     workspaceRoot(),
				Project:       opts.Project,
				FatalInfos:    opts.FatalInfos,
				FatalWarnings: opts.FatalWarnings,
			})
			return executorOutcome(err, result, "dart analyze", opts.Project)
		},
	}
	cmd.Flags().StringVar(&opts.Project, "project", "", "Project name")
	cmd.Flags().BoolVar(&opts.FatalInfos, "fatal-infos", false, "Treat infos as fatal")
	cmd.Flags().BoolVar(&opts.FatalWarnings, "fatal-warnings", true, "Treat warnings as fatal")
	return cmd
}

type formatOptions struct {
	Project string
	Check   bool
}

func newFormatCommand() *cobra.Command {
	opts := formatOptions{}
	cmd := &cobra.Command{
		Use:   "format",
		Short: "Run dart format on the files of a project",
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := newAppService().Format(cmd.Context(), app.FormatRequest{
				Workspace: workspaceRoot(),
				Project:   opts.Project,
				Check:     opts.Check,
			})
			return executorOutcome(err, result, "dart format", opts.Project)
		},
	}
	cmd.Flags().StringVar(&opts.Project, "project", "", "Project name")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "Fail instead of rewriting unformatted files")
	return cmd
}

type testOptions struct {
	Project  string
	Coverage bool
	Reporter string
	Options  []string
}

func newTestCommand() *cobra.Command {
	opts := testOptions{}
	cmd := &cobra.Command{
		Use:   "test [targets...]",
		Short: "Run dart test or flutter test for a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTest(cmd.Context(), opts, args)
		},
	}
	cmd.Flags().StringVar(&opts.Project, "project", "", "Project name")
	cmd.Flags().BoolVar(&opts.Coverage, "coverage", false, "Collect coverage into coverage/lcov.info")
	cmd.Flags().StringVar(&opts.Reporter, "reporter", "", "Test reporter (default expanded)")
	cmd.Flags().StringArrayVar(&opts.Options, "option", nil, "Extra test runner option as key=value")
	return cmd
}

func runTest(ctx context.Context, opts testOptions, targets []string) error {
	options, err := parseTestOptions(opts.Options)
	if err != nil {
		return err
	}
	result, err := newAppService().Test(ctx, app.TestRequest{
		Workspace: workspaceRoot(),
		Project:   opts.Project,
		Coverage:  opts.Coverage,
		Reporter:  opts.Reporter,
		Options:   options,
		Targets:   targets,
	})
	return executorOutcome(err, result, "test", opts.Project)
}

func parseTestOptions(values []string) ([]app.TestOption, error) {
	options := make([]app.TestOption, 0, len(values))
	for _, value := range values {
		key, val, ok := strings.Cut(value, "=")
		key = strings.TrimPrefix(strings.TrimSpace(key), "--")
		if !ok || key == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("invalid test option " + value + " (want key=value)")
		}
		options = append(options, app.TestOption{Key: key, Value: val})
	}
	return options, nil
}

func executorOutcome(err error, result app.ExecutorResult, tool, project string) error {
	if err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("%s failed for %s: %w", tool, project, errToolFailed)
	}
	return nil
}
