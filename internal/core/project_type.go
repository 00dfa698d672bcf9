package core

import (
	"nx-dart/internal/ports"
	"nx-dart/internal/shared"
	"nx-dart/internal/types"
)

var flutterPlatformDirs = []string{"android", "ios", "macos", "linux", "windows", "web"}

// InferProjectType guesses whether a package is an application or a library.
// It returns false when packageRoot holds no pubspec.yaml.
func InferProjectType(manifests ports.ManifestPort, tree ports.TreePort, packageRoot string) (types.ProjectType, bool, error) {
	pubspec, err := manifests.LoadPubspec(packageRoot)
	if err != nil || pubspec == nil {
		return "", false, err
	}

	if !pubspec.IsFlutterPackage() {
		if len(tree.Children(shared.JoinPath(packageRoot, "example"))) > 0 {
			return types.ProjectTypeLibrary, true, nil
		}
		return types.ProjectTypeApplication, true, nil
	}

	metadata, err := manifests.LoadFlutterMetadata(packageRoot)
	if err != nil {
		return "", false, err
	}
	if metadata != nil {
		switch metadata.ProjectType {
		case "app":
			return types.ProjectTypeApplication, true, nil
		case "package", "plugin", "plugin_ffi":
			return types.ProjectTypeLibrary, true, nil
		}
	}

	if !pubspec.IsFlutterPlugin() {
		if tree.Exists(shared.JoinPath(packageRoot, "lib", "main.dart")) {
			return types.ProjectTypeApplication, true, nil
		}
		for _, dir := range flutterPlatformDirs {
			if tree.Exists(shared.JoinPath(packageRoot, dir)) {
				return types.ProjectTypeApplication, true, nil
			}
		}
	}
	return types.ProjectTypeLibrary, true, nil
}
