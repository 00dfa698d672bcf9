package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"nx-dart/internal/core"
	"nx-dart/internal/shared"
	"nx-dart/internal/types"
)

const nodeModulesExclude = "node_modules/**"

// ChangeLints points the workspace analysis_options.yaml at a lint set. The
// workspace pubspec.yaml and analysis_options.yaml are created when missing.
// Changes are committed before returning; the returned task swaps the lint
// package in the workspace dev dependencies.
func (s Service) ChangeLints(ctx context.Context, req ChangeLintsRequest) (ChangeLintsResult, error) {
	root, err := requireWorkspace(req.Workspace)
	if err != nil {
		return ChangeLintsResult{}, err
	}
	include, err := core.LintRulesInclude(req.Rules)
	if err != nil {
		return ChangeLintsResult{}, err
	}

	tree := s.Trees(root)
	if !tree.Exists(shared.PubspecFile) {
		tree.Write(shared.PubspecFile, []byte(workspacePubspec(workspacePackageName(root))))
	}
	if !tree.Exists(shared.AnalysisOptionsFile) {
		tree.Write(shared.AnalysisOptionsFile, []byte(core.WorkspaceAnalysisOptions))
	}
	content, err := tree.Read(shared.AnalysisOptionsFile)
	if err != nil {
		return ChangeLintsResult{}, err
	}
	doc, err := core.ParseAnalysisOptions(content)
	if err != nil {
		return ChangeLintsResult{}, err
	}
	doc.AddAnalyzerExclude(nodeModulesExclude)

	if req.Rules == types.LintRulesAll {
		rules, err := s.LintRules.FetchAllLintRules(ctx)
		if err != nil {
			return ChangeLintsResult{}, err
		}
		tree.Write(core.AllLintRulesFile, rules)
	}
	previous := doc.Include()
	doc.SetInclude(include)
	updated, err := doc.Bytes()
	if err != nil {
		return ChangeLintsResult{}, err
	}
	tree.Write(shared.AnalysisOptionsFile, updated)

	touched, err := tree.Commit()
	if err != nil {
		return ChangeLintsResult{}, err
	}
	log.Ctx(ctx).Debug().Str("include", include).Strs("files", touched).Msg("lint rules updated")
	return ChangeLintsResult{
		Include: include,
		Touched: touched,
		Task:    s.lintPackageTask(root, previous, include),
	}, nil
}

func (s Service) lintPackageTask(root, previousInclude, include string) func(context.Context) error {
	previous, hadPrevious := core.PackageNameFromURI(previousInclude)
	next, hasNext := core.PackageNameFromURI(include)
	if previous == next {
		return nil
	}
	var commands []types.Command
	if hadPrevious {
		commands = append(commands, types.Command{
			Executable: string(types.DartToolDart),
			Args:       []string{"pub", "remove", previous},
			Dir:        root,
		})
	}
	if hasNext {
		commands = append(commands, types.Command{
			Executable: string(types.DartToolDart),
			Args:       []string{"pub", "add", "--dev", next},
			Dir:        root,
		})
	}
	if len(commands) == 0 {
		return nil
	}
	return func(ctx context.Context) error {
		for _, command := range commands {
			ok, err := s.Commands.Run(ctx, command)
			if err != nil {
				return err
			}
			if !ok {
				return errbuilder.New().
					WithCode(errbuilder.CodeInternal).
					WithMsg("dart " + strings.Join(command.Args, " ") + " failed")
			}
		}
		return nil
	}
}

func workspacePubspec(name string) string {
	return "name: " + name + "\npublish_to: none\n\nenvironment:\n  sdk: '>=3.0.0 <4.0.0'\n"
}

// workspacePackageName derives a valid Dart package name from the workspace
// directory name.
func workspacePackageName(root string) string {
	base := root
	if abs, err := filepath.Abs(root); err == nil {
		base = abs
	}
	var b strings.Builder
	for _, r := range strings.ToLower(filepath.Base(base)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	name := b.String()
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		name = "workspace_" + name
	}
	return name
}
