package ports

import (
	"context"

	"nx-dart/internal/types"
)

// CommandPort runs external Dart/Flutter tooling. It reports success for a
// zero exit code, false for an expected error exit code and an error for
// everything else.
type CommandPort interface {
	Run(ctx context.Context, cmd types.Command) (bool, error)
}
