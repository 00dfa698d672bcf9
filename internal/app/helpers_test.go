package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"nx-dart/internal/types"
)

// recordingCommands satisfies ports.CommandPort. Commands are recorded and
// answered from results in order; once results run out every command
// succeeds.
type recordingCommands struct {
	results []bool
	err     error
	calls   []types.Command
}

func (c *recordingCommands) Run(_ context.Context, cmd types.Command) (bool, error) {
	c.calls = append(c.calls, cmd)
	if c.err != nil {
		return false, c.err
	}
	if len(c.results) == 0 {
		return true, nil
	}
	ok := c.results[0]
	c.results = c.results[1:]
	return ok, nil
}

// stubLintRules satisfies ports.LintRulesSourcePort.
type stubLintRules struct {
	rules []byte
	err   error
	calls int
}

func (s *stubLintRules) FetchAllLintRules(_ context.Context) ([]byte, error) {
	s.calls++
	return s.rules, s.err
}

func newTestService(commands *recordingCommands) Service {
	svc := NewService()
	svc.Commands = commands
	return svc
}

func writeWorkspace(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func readWorkspaceFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}
