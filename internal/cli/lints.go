package cli

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"nx-dart/internal/app"
	"nx-dart/internal/types"
)

type lintsOptions struct {
	Rules   string
	SkipPub bool
}

func newLintsCommand() *cobra.Command {
	opts := lintsOptions{}
	cmd := &cobra.Command{
		Use:   "lints",
		Short: "Change the lint rules included by the workspace analysis options",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			result, err := newAppService().ChangeLints(ctx, app.ChangeLintsRequest{
				Workspace: workspaceRoot(),
				Rules:     types.LintRules(opts.Rules),
			})
			if err != nil {
				return err
			}
			log.Ctx(ctx).Info().
				Str("include", result.Include).
				Strs("files", result.Touched).
				Msg("lint rules changed")
			if result.Task == nil || opts.SkipPub {
				return nil
			}
			return result.Task(ctx)
		},
	}
	cmd.Flags().StringVar(&opts.Rules, "rules", string(types.LintRulesRecommended), "Lint set (core, recommended, flutter or all)")
	cmd.Flags().BoolVar(&opts.SkipPub, "skip-pub", false, "Do not update the lint package in the workspace dev dependencies")
	return cmd
}
