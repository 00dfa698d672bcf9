package types

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DependencySpec is one entry of a pubspec dependency section. Spec holds
// the decoded specifier: a version constraint string, a hosted/git/path/sdk
// mapping, or nil when the entry has no value.
type DependencySpec struct {
	Name string
	Spec any
}

// DependencyMap keeps pubspec dependencies in declaration order.
type DependencyMap []DependencySpec

func (m *DependencyMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		*m = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: dependencies must be a mapping", value.Line)
	}
	deps := make(DependencyMap, 0, len(value.Content)/2)
	index := map[string]int{}
	for i := 0; i+1 < len(value.Content); i += 2 {
		var name string
		if err := value.Content[i].Decode(&name); err != nil {
			return err
		}
		var spec any
		if err := value.Content[i+1].Decode(&spec); err != nil {
			return err
		}
		if pos, ok := index[name]; ok {
			deps[pos].Spec = spec
			continue
		}
		index[name] = len(deps)
		deps = append(deps, DependencySpec{Name: name, Spec: spec})
	}
	*m = deps
	return nil
}

func (m DependencyMap) Has(name string) bool {
	for _, dep := range m {
		if dep.Name == name {
			return true
		}
	}
	return false
}

func (m DependencyMap) Names() []string {
	names := make([]string, 0, len(m))
	for _, dep := range m {
		names = append(names, dep.Name)
	}
	return names
}

type Pubspec struct {
	Name            string         `yaml:"name"`
	Environment     map[string]any `yaml:"environment,omitempty"`
	Dependencies    DependencyMap  `yaml:"dependencies,omitempty"`
	DevDependencies DependencyMap  `yaml:"dev_dependencies,omitempty"`
	Flutter         map[string]any `yaml:"flutter,omitempty"`
}

// AllDependencies returns the union of runtime and dev dependencies. A name
// listed in both sections keeps its runtime position and the dev specifier.
func (p Pubspec) AllDependencies() DependencyMap {
	all := make(DependencyMap, 0, len(p.Dependencies)+len(p.DevDependencies))
	index := map[string]int{}
	for _, section := range []DependencyMap{p.Dependencies, p.DevDependencies} {
		for _, dep := range section {
			if pos, ok := index[dep.Name]; ok {
				all[pos].Spec = dep.Spec
				continue
			}
			index[dep.Name] = len(all)
			all = append(all, dep)
		}
	}
	return all
}

func (p Pubspec) IsFlutterPackage() bool {
	if _, ok := p.Environment["flutter"]; ok {
		return true
	}
	return p.Dependencies.Has("flutter")
}

func (p Pubspec) IsFlutterPlugin() bool {
	_, ok := p.Flutter["plugin"]
	return ok
}

type AnalysisOptions struct {
	Include string `yaml:"include,omitempty"`
}

// FlutterMetadata is the .metadata file written by `flutter create`.
type FlutterMetadata struct {
	ProjectType string `yaml:"project_type"`
}

type PackageConfig struct {
	ConfigVersion int                 `json:"configVersion"`
	Packages      []PackageConfigItem `json:"packages"`
}

// PackageConfigItem is one resolved package. RootURI is either a file: URI
// or a path relative to the .dart_tool directory.
type PackageConfigItem struct {
	Name            string `json:"name"`
	RootURI         string `json:"rootUri"`
	PackageURI      string `json:"packageUri,omitempty"`
	LanguageVersion string `json:"languageVersion,omitempty"`
}

// RootURIs indexes the resolved root of every package by name.
func (c PackageConfig) RootURIs() map[string]string {
	roots := make(map[string]string, len(c.Packages))
	for _, pkg := range c.Packages {
		roots[pkg.Name] = pkg.RootURI
	}
	return roots
}
