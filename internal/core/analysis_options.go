package core

import (
	"bytes"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"nx-dart/internal/types"
)

const WorkspaceAnalysisOptions = `analyzer:
  language:
    strict-casts: true
    strict-inference: true
    strict-raw-types: true
`

const AllLintRulesFile = "all_lint_rules.yaml"

// LintRulesInclude is the include value of analysis_options.yaml for a lint
// set.
func LintRulesInclude(rules types.LintRules) (string, error) {
	switch rules {
	case types.LintRulesCore:
		return "package:lints/core.yaml", nil
	case types.LintRulesRecommended:
		return "package:lints/recommended.yaml", nil
	case types.LintRulesFlutter:
		return "package:flutter_lints/flutter.yaml", nil
	case types.LintRulesAll:
		return "./" + AllLintRulesFile, nil
	default:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unknown lint rules '" + string(rules) + "' (want core, recommended, flutter or all)")
	}
}

// AnalysisOptionsDocument is an analysis_options.yaml kept as a node tree so
// that edits preserve comments and unrelated keys.
type AnalysisOptionsDocument struct {
	root *yaml.Node
}

func ParseAnalysisOptions(content []byte) (*AnalysisOptionsDocument, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse analysis_options.yaml").
			WithCause(err)
	}
	if doc.Kind != yaml.DocumentNode {
		doc = yaml.Node{Kind: yaml.DocumentNode}
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		doc.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
	}
	return &AnalysisOptionsDocument{root: &doc}, nil
}

func (d *AnalysisOptionsDocument) contents() *yaml.Node {
	return d.root.Content[0]
}

// Include returns the top-level include value, if any.
func (d *AnalysisOptionsDocument) Include() string {
	if node := mappingValue(d.contents(), "include"); node != nil && node.Kind == yaml.ScalarNode {
		return node.Value
	}
	return ""
}

// SetInclude replaces the include value. The key is moved to the top of the
// document when it changes; an empty include removes it.
func (d *AnalysisOptionsDocument) SetInclude(include string) {
	if d.Include() == include {
		return
	}
	removeMappingKey(d.contents(), "include")
	if include == "" {
		return
	}
	contents := d.contents()
	contents.Content = append([]*yaml.Node{scalar("include"), scalar(include)}, contents.Content...)
}

// AddAnalyzerExclude appends pattern to analyzer.exclude unless present.
func (d *AnalysisOptionsDocument) AddAnalyzerExclude(pattern string) {
	analyzer := mappingValue(d.contents(), "analyzer")
	if analyzer == nil || analyzer.Kind != yaml.MappingNode {
		removeMappingKey(d.contents(), "analyzer")
		analyzer = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		d.contents().Content = append(d.contents().Content, scalar("analyzer"), analyzer)
	}
	exclude := mappingValue(analyzer, "exclude")
	if exclude == nil || exclude.Kind != yaml.SequenceNode {
		removeMappingKey(analyzer, "exclude")
		exclude = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		analyzer.Content = append([]*yaml.Node{scalar("exclude"), exclude}, analyzer.Content...)
	}
	for _, item := range exclude.Content {
		if item.Value == pattern {
			return
		}
	}
	exclude.Content = append(exclude.Content, scalar(pattern))
}

func (d *AnalysisOptionsDocument) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(d.root); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode analysis_options.yaml").
			WithCause(err)
	}
	if err := encoder.Close(); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode analysis_options.yaml").
			WithCause(err)
	}
	return buf.Bytes(), nil
}

func mappingValue(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

func removeMappingKey(mapping *yaml.Node, key string) {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			mapping.Content = append(mapping.Content[:i], mapping.Content[i+2:]...)
			return
		}
	}
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}
