package ports

import "context"

type LintRulesSourcePort interface {
	FetchAllLintRules(ctx context.Context) ([]byte, error)
}
