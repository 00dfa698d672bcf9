package adapters

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"nx-dart/internal/ports"
	"nx-dart/internal/shared"
	"nx-dart/internal/types"
)

// ManifestFileAdapter reads pubspec.yaml, analysis_options.yaml, .metadata
// and package_config.json below an explicit workspace root.
type ManifestFileAdapter struct {
	WorkspaceRoot string
}

func NewManifestFileAdapter(workspaceRoot string) ManifestFileAdapter {
	return ManifestFileAdapter{WorkspaceRoot: workspaceRoot}
}

func (a ManifestFileAdapter) LoadPubspec(packageRoot string) (*types.Pubspec, error) {
	var pubspec types.Pubspec
	found, err := a.loadYAML(shared.PubspecPath(packageRoot), &pubspec)
	if err != nil || !found {
		return nil, err
	}
	return &pubspec, nil
}

func (a ManifestFileAdapter) LoadAnalysisOptions(dir string) (*types.AnalysisOptions, error) {
	var options types.AnalysisOptions
	found, err := a.loadYAML(shared.AnalysisOptionsPath(dir), &options)
	if err != nil || !found {
		return nil, err
	}
	return &options, nil
}

func (a ManifestFileAdapter) LoadFlutterMetadata(packageRoot string) (*types.FlutterMetadata, error) {
	var metadata types.FlutterMetadata
	found, err := a.loadYAML(shared.JoinPath(packageRoot, shared.FlutterMetadataFile), &metadata)
	if err != nil || !found {
		return nil, err
	}
	return &metadata, nil
}

func (a ManifestFileAdapter) LoadPackageConfig(packageRoot string) (*types.PackageConfig, error) {
	rel := shared.PackageConfigPath(packageRoot)
	data, found, err := a.read(rel)
	if err != nil || !found {
		return nil, err
	}
	var config types.PackageConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse " + rel).
			WithCause(err)
	}
	return &config, nil
}

func (a ManifestFileAdapter) loadYAML(rel string, out any) (bool, error) {
	data, found, err := a.read(rel)
	if err != nil || !found {
		return false, err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse " + rel).
			WithCause(err)
	}
	return true, nil
}

func (a ManifestFileAdapter) read(rel string) ([]byte, bool, error) {
	data, err := os.ReadFile(shared.OSPath(a.WorkspaceRoot, rel))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read " + rel).
			WithCause(err)
	}
	return data, true, nil
}

var _ ports.ManifestPort = ManifestFileAdapter{}
