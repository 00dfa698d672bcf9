package adapters

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"nx-dart/internal/ports"
	"nx-dart/internal/types"
)

// ExecCommandAdapter runs Dart and Flutter tooling as child processes.
// Output is streamed to Stdout/Stderr unless the command is silent.
type ExecCommandAdapter struct {
	Stdout io.Writer
	Stderr io.Writer
}

func NewExecCommandAdapter() ExecCommandAdapter {
	return ExecCommandAdapter{Stdout: os.Stdout, Stderr: os.Stderr}
}

func (a ExecCommandAdapter) Run(ctx context.Context, command types.Command) (bool, error) {
	if strings.TrimSpace(command.Executable) == "" {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("command executable is empty")
	}
	line := strings.TrimSpace(command.Executable + " " + strings.Join(command.Args, " "))
	log.Ctx(ctx).Debug().Str("dir", command.Dir).Str("command", line).Msg("running command")

	cmd := exec.CommandContext(ctx, command.Executable, command.Args...)
	cmd.Dir = command.Dir
	var captured bytes.Buffer
	if command.Silent {
		cmd.Stdout = &captured
		cmd.Stderr = &captured
	} else {
		cmd.Stdout = a.Stdout
		cmd.Stderr = a.Stderr
	}

	err := cmd.Run()
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && slices.Contains(expectedExitCodes(command), exitErr.ExitCode()) {
		log.Ctx(ctx).Debug().Int("exit_code", exitErr.ExitCode()).Str("command", line).Msg("command reported failure")
		return false, nil
	}
	msg := fmt.Sprintf("command %q failed", line)
	if output := strings.TrimSpace(captured.String()); output != "" {
		msg += ": " + output
	}
	return false, errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(msg).
		WithCause(err)
}

func expectedExitCodes(command types.Command) []int {
	if command.ExpectedErrorExitCodes == nil {
		return []int{1}
	}
	return command.ExpectedErrorExitCodes
}

var _ ports.CommandPort = ExecCommandAdapter{}
