package core

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"nx-dart/internal/ports"
	"nx-dart/internal/shared"
	"nx-dart/internal/types"
)

// PackageResolution is what one package's dependencies resolve to.
type PackageResolution struct {
	// Targets maps a dependency package name to a graph node name.
	Targets       map[string]string
	ExternalNodes []types.ExternalNode
}

func newPackageResolution() PackageResolution {
	return PackageResolution{Targets: map[string]string{}}
}

func (r *PackageResolution) addProject(dependency, project string) {
	r.Targets[dependency] = project
}

func (r *PackageResolution) addExternal(dependency, content string) {
	node := ExternalPubNode(dependency, content)
	r.Targets[dependency] = node.Name
	for _, existing := range r.ExternalNodes {
		if existing.Name == node.Name {
			return
		}
	}
	r.ExternalNodes = append(r.ExternalNodes, node)
}

// ExternalPubNode builds the external node for a dependency whose identity is
// the sha256 of content.
func ExternalPubNode(dependency, content string) types.ExternalNode {
	sum := sha256.Sum256([]byte(content))
	hash := hex.EncodeToString(sum[:])
	return types.ExternalNode{
		Type: types.ExternalNodeTypePub,
		Name: types.ExternalNodeTypePub + ":" + dependency + ":" + hash,
		Data: types.ExternalNodeData{PackageName: dependency, Version: hash},
	}
}

// DependencyStrategy resolves the dependencies of one indexed package.
type DependencyStrategy interface {
	Resolve(ctx context.Context, index PackageIndex, project string) (PackageResolution, error)
}

func NewDependencyStrategy(mode types.ResolutionMode, manifests ports.ManifestPort) (DependencyStrategy, error) {
	switch mode {
	case types.ResolutionModeDeclared:
		return declaredStrategy{}, nil
	case types.ResolutionModeResolved:
		return resolvedStrategy{manifests: manifests}, nil
	default:
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unknown resolution mode '" + string(mode) + "' (want declared or resolved)")
	}
}

// declaredStrategy trusts the specifiers in pubspec.yaml.
type declaredStrategy struct{}

func (declaredStrategy) Resolve(ctx context.Context, index PackageIndex, project string) (PackageResolution, error) {
	resolution := newPackageResolution()
	pubspec := index.Pubspec(project)
	if pubspec == nil {
		return resolution, nil
	}
	for _, dep := range pubspec.AllDependencies() {
		if target, ok := index.ProjectForPackage(dep.Name); ok {
			resolution.addProject(dep.Name, target)
			continue
		}
		if dep.Spec == nil {
			log.Ctx(ctx).Debug().Str("project", project).Str("dependency", dep.Name).Msg("dependency has no specifier, skipped")
			continue
		}
		content, err := specifierJSON(dep.Spec)
		if err != nil {
			return PackageResolution{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("cannot serialize specifier of " + dep.Name + " in " + shared.PubspecPath(index.Root(project))).
				WithCause(err)
		}
		resolution.addExternal(dep.Name, content)
	}
	return resolution, nil
}

// specifierJSON serializes a specifier the way a JSON.stringify would for
// the same document: compact and without HTML escaping. Map keys are sorted,
// so key order in the pubspec does not change the result.
func specifierJSON(spec any) (string, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(jsonCompatible(spec)); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// jsonCompatible rewrites mappings decoded with non-string keys, which yaml
// produces for keys such as `1:`, so they encode with stringified keys.
func jsonCompatible(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = jsonCompatible(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = jsonCompatible(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = jsonCompatible(item)
		}
		return out
	default:
		return value
	}
}

// resolvedStrategy follows .dart_tool/package_config.json, which records the
// location pub actually picked for every dependency.
type resolvedStrategy struct {
	manifests ports.ManifestPort
}

func (s resolvedStrategy) Resolve(ctx context.Context, index PackageIndex, project string) (PackageResolution, error) {
	resolution := newPackageResolution()
	pubspec := index.Pubspec(project)
	if pubspec == nil {
		return resolution, nil
	}
	root := index.Root(project)
	config, err := s.manifests.LoadPackageConfig(root)
	if err != nil {
		return PackageResolution{}, err
	}
	if config == nil {
		log.Ctx(ctx).Debug().Str("project", project).Msg("no package_config.json, dependencies not resolved")
		return resolution, nil
	}

	rootURIs := config.RootURIs()
	for _, dep := range pubspec.AllDependencies() {
		rootURI, ok := rootURIs[dep.Name]
		if !ok || rootURI == "" {
			continue
		}
		if !strings.HasPrefix(rootURI, "file:") {
			// Relative rootUris are URI references and may be percent-encoded.
			relative := rootURI
			if decoded, err := url.PathUnescape(rootURI); err == nil {
				relative = decoded
			}
			location := shared.JoinPath(shared.DartToolPath(root), relative)
			if target, ok := index.ProjectForRoot(location); ok {
				resolution.addProject(dep.Name, target)
				continue
			}
		}
		resolution.addExternal(dep.Name, rootURI)
	}
	return resolution, nil
}

// PackageNodeResolver answers dependency queries for one graph computation.
// Every package is resolved eagerly at construction.
type PackageNodeResolver struct {
	index       PackageIndex
	resolutions map[string]PackageResolution
}

func NewPackageNodeResolver(ctx context.Context, mode types.ResolutionMode, nodes map[string]types.ProjectNode, manifests ports.ManifestPort) (*PackageNodeResolver, error) {
	strategy, err := NewDependencyStrategy(mode, manifests)
	if err != nil {
		return nil, err
	}
	index, err := BuildPackageIndex(ctx, nodes, manifests)
	if err != nil {
		return nil, err
	}
	return ResolvePackages(ctx, index, strategy)
}

// ResolvePackages runs strategy over every package of index.
func ResolvePackages(ctx context.Context, index PackageIndex, strategy DependencyStrategy) (*PackageNodeResolver, error) {
	resolver := &PackageNodeResolver{
		index:       index,
		resolutions: make(map[string]PackageResolution, len(index.packages)),
	}
	for _, project := range index.PackageProjects() {
		resolution, err := strategy.Resolve(ctx, index, project)
		if err != nil {
			return nil, err
		}
		resolver.resolutions[project] = resolution
	}
	return resolver, nil
}

func (r *PackageNodeResolver) Index() PackageIndex {
	return r.index
}

// ResolveExternalNodes returns the external nodes the project's package
// depends on, or nil when the project is not a package.
func (r *PackageNodeResolver) ResolveExternalNodes(project string) []types.ExternalNode {
	resolution, ok := r.resolutions[project]
	if !ok {
		return nil
	}
	return append([]types.ExternalNode(nil), resolution.ExternalNodes...)
}

// ResolveDependencyTarget returns the node that the project's dependency on
// pkg points at.
func (r *PackageNodeResolver) ResolveDependencyTarget(project, pkg string) (string, bool) {
	target, ok := r.resolutions[project].Targets[pkg]
	return target, ok
}
