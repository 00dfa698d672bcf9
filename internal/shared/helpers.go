// Package shared provides path helpers used by both the core and
// the adapters of nx-dart.
package shared

import (
	"path"
	"path/filepath"
	"strings"
)

const (
	PubspecFile         = "pubspec.yaml"
	AnalysisOptionsFile = "analysis_options.yaml"
	FlutterMetadataFile = ".metadata"
	DartToolDir         = ".dart_tool"
	PackageConfigFile   = "package_config.json"
)

// NormalizePath converts a workspace-relative path to the slash-separated,
// cleaned form used for project roots and file entries. The workspace root
// itself normalizes to "".
func NormalizePath(p string) string {
	cleaned := path.Clean(filepath.ToSlash(p))
	if cleaned == "." {
		return ""
	}
	return strings.TrimPrefix(cleaned, "./")
}

// JoinPath joins workspace-relative segments and normalizes the result.
func JoinPath(elem ...string) string {
	return NormalizePath(path.Join(elem...))
}

func PubspecPath(packageRoot string) string {
	return JoinPath(packageRoot, PubspecFile)
}

func DartToolPath(packageRoot string) string {
	return JoinPath(packageRoot, DartToolDir)
}

func PackageConfigPath(packageRoot string) string {
	return JoinPath(DartToolPath(packageRoot), PackageConfigFile)
}

func AnalysisOptionsPath(dir string) string {
	return JoinPath(dir, AnalysisOptionsFile)
}

// OSPath resolves a workspace-relative path against the workspace root.
func OSPath(workspaceRoot, rel string) string {
	return filepath.Join(workspaceRoot, filepath.FromSlash(rel))
}
