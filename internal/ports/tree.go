package ports

// TreePort is the virtual file tree generators write to. Paths are
// workspace-relative. Commit flushes staged changes and returns the touched
// paths.
type TreePort interface {
	Exists(path string) bool
	Read(path string) ([]byte, error)
	Write(path string, content []byte)
	Delete(path string)
	Children(dir string) []string
	Commit() ([]string, error)
}
