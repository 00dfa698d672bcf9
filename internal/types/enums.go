package types

type ResolutionMode string

const (
	// ResolutionModeDeclared resolves dependency targets from pubspec.yaml
	// specifiers. Edges are explicit and attributed to the source file.
	ResolutionModeDeclared ResolutionMode = "declared"
	// ResolutionModeResolved resolves dependency targets from
	// .dart_tool/package_config.json. Edges are implicit because the file
	// is generated and not tracked by the host.
	ResolutionModeResolved ResolutionMode = "resolved"
)

type DependencyType string

const (
	DependencyTypeStatic   DependencyType = "static"
	DependencyTypeImplicit DependencyType = "implicit"
)

type ProjectType string

const (
	ProjectTypeApplication ProjectType = "application"
	ProjectTypeLibrary     ProjectType = "library"
)

type LintRules string

const (
	LintRulesCore        LintRules = "core"
	LintRulesRecommended LintRules = "recommended"
	LintRulesFlutter     LintRules = "flutter"
	LintRulesAll         LintRules = "all"
)

type DartTool string

const (
	DartToolDart    DartTool = "dart"
	DartToolFlutter DartTool = "flutter"
)

const ExternalNodeTypePub = "pub"
