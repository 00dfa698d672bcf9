package adapters

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"nx-dart/internal/ports"
	"nx-dart/internal/shared"
)

// FileTreeAdapter stages generator writes in memory on top of the workspace.
// Nothing touches the disk until Commit.
type FileTreeAdapter struct {
	Root    string
	changes map[string][]byte
	deleted map[string]bool
}

func NewFileTreeAdapter(root string) *FileTreeAdapter {
	return &FileTreeAdapter{Root: root, changes: map[string][]byte{}, deleted: map[string]bool{}}
}

func (t *FileTreeAdapter) Exists(path string) bool {
	path = shared.NormalizePath(path)
	if t.deleted[path] {
		return false
	}
	if _, ok := t.changes[path]; ok {
		return true
	}
	_, err := os.Stat(shared.OSPath(t.Root, path))
	return err == nil
}

func (t *FileTreeAdapter) Read(path string) ([]byte, error) {
	path = shared.NormalizePath(path)
	if t.deleted[path] {
		return nil, treeNotFound(path, fs.ErrNotExist)
	}
	if content, ok := t.changes[path]; ok {
		return append([]byte(nil), content...), nil
	}
	content, err := os.ReadFile(shared.OSPath(t.Root, path))
	if err != nil {
		return nil, treeNotFound(path, err)
	}
	return content, nil
}

func (t *FileTreeAdapter) Write(path string, content []byte) {
	path = shared.NormalizePath(path)
	delete(t.deleted, path)
	t.changes[path] = append([]byte(nil), content...)
}

func (t *FileTreeAdapter) Delete(path string) {
	path = shared.NormalizePath(path)
	delete(t.changes, path)
	t.deleted[path] = true
}

// Children lists the names directly below dir, merging staged writes with
// what is on disk.
func (t *FileTreeAdapter) Children(dir string) []string {
	dir = shared.NormalizePath(dir)
	names := map[string]bool{}
	if entries, err := os.ReadDir(shared.OSPath(t.Root, dir)); err == nil {
		for _, entry := range entries {
			if !t.deleted[shared.JoinPath(dir, entry.Name())] {
				names[entry.Name()] = true
			}
		}
	}
	prefix := ""
	if dir != "" {
		prefix = dir + "/"
	}
	for path := range t.changes {
		if rest, ok := strings.CutPrefix(path, prefix); ok && rest != "" {
			names[strings.SplitN(rest, "/", 2)[0]] = true
		}
	}
	children := make([]string, 0, len(names))
	for name := range names {
		children = append(children, name)
	}
	sort.Strings(children)
	return children
}

// Commit flushes staged writes and deletions to disk and returns the touched
// paths in sorted order.
func (t *FileTreeAdapter) Commit() ([]string, error) {
	var touched []string
	for path, content := range t.changes {
		target := shared.OSPath(t.Root, path)
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return nil, treeWriteError(path, err)
		}
		if err := os.WriteFile(target, content, 0644); err != nil {
			return nil, treeWriteError(path, err)
		}
		touched = append(touched, path)
	}
	for path := range t.deleted {
		err := os.Remove(shared.OSPath(t.Root, path))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, treeWriteError(path, err)
		}
		touched = append(touched, path)
	}
	t.changes = map[string][]byte{}
	t.deleted = map[string]bool{}
	sort.Strings(touched)
	return touched, nil
}

func treeNotFound(path string, err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(path + " does not exist").
		WithCause(err)
}

func treeWriteError(path string, err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("failed to write " + path).
		WithCause(err)
}

var _ ports.TreePort = (*FileTreeAdapter)(nil)
