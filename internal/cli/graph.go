package cli

import (
	"context"
	"io"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"nx-dart/internal/adapters"
	"nx-dart/internal/app"
)

type graphOptions struct {
	Mode   string
	Output string
	Base   string
	Files  []string
}

func newGraphCommand() *cobra.Command {
	opts := graphOptions{}
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Compute the project graph of a Dart workspace",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGraph(cmd.Context(), cmd, opts)
		},
	}
	addModeFlag(cmd, &opts.Mode)
	cmd.Flags().StringVar(&opts.Output, "output", "", "Graph JSON file (default stdout)")
	cmd.Flags().StringVar(&opts.Base, "base", "", "Previously computed graph to augment")
	cmd.Flags().StringSliceVar(&opts.Files, "files", nil, "Only process these workspace-relative files")
	return cmd
}

func runGraph(ctx context.Context, cmd *cobra.Command, opts graphOptions) error {
	service := newAppService()
	req := app.GraphRequest{
		Workspace: workspaceRoot(),
		Mode:      resolveMode(cmd, opts.Mode),
		BaseGraph: opts.Base,
		Files:     resolveStrings(cmd, opts.Files, "files", "files"),
		Output:    opts.Output,
	}
	return computeGraph(ctx, service, req, cmd.OutOrStdout())
}

// computeGraph runs the graph use case and prints the graph when no output
// file was requested.
func computeGraph(ctx context.Context, service app.Service, req app.GraphRequest, stdout io.Writer) error {
	result, err := service.Graph(ctx, req)
	if err != nil {
		return err
	}
	if result.Output != "" {
		log.Ctx(ctx).Info().
			Str("output", result.Output).
			Int("projects", len(result.Graph.Nodes)).
			Msg("project graph written")
		return nil
	}
	data, err := adapters.EncodeGraph(result.Graph)
	if err != nil {
		return err
	}
	if _, err := stdout.Write(data); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to print project graph").
			WithCause(err)
	}
	return nil
}
