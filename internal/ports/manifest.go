package ports

import "nx-dart/internal/types"

// ManifestPort reads package manifests relative to the workspace root. Every
// loader returns (nil, nil) when the file does not exist and an error when
// it exists but cannot be parsed.
type ManifestPort interface {
	LoadPubspec(packageRoot string) (*types.Pubspec, error)
	LoadAnalysisOptions(dir string) (*types.AnalysisOptions, error)
	LoadFlutterMetadata(packageRoot string) (*types.FlutterMetadata, error)
	LoadPackageConfig(packageRoot string) (*types.PackageConfig, error)
}
