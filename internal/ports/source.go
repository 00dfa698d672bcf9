package ports

// SourcePort extracts import and export URIs from Dart source files.
type SourcePort interface {
	ImportsForFile(file string) ([]string, error)
}
