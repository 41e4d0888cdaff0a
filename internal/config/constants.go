package config

const SourceFileExt = ".lisp"

// HostSourceFileExt is the extension of host-side units, which are compiled
// and loaded into the running process rather than cross-compiled.
const HostSourceFileExt = ".go"

// Well-known file names, resolved relative to the source root.
const (
	ManifestFileName = "jscl.yaml"
	MetadataFileName = "package.json"
)

// VersionKey is the metadata key whose quoted value is the project version.
const VersionKey = "version"

// Names of the two collaborator tables injected into the bundle wrapper
// scope. Generated code references runtime primitives through these, so it
// never contains free variables.
const (
	PublicTableName    = "values"
	InternalsTableName = "internals"
)

// Expressions the bundle trailer passes for the two collaborator tables.
const (
	PublicTableExpr    = "jscl.packages.JSCL"
	InternalsTableExpr = "jscl.internals"
)

// Well-known runtime slots written by the environment serializer.
const (
	EnvironmentSlot     = "internals.currentEnvironment"
	VariableCounterSlot = "internals.variableCounter"
	GensymCounterSlot   = "internals.gensymCounter"
	LiteralCounterSlot  = "internals.literalCounter"
)

// InternFuncExpr wraps serialized symbols so the runtime interns them into
// its own symbol table on load.
const InternFuncExpr = "internals.intern"

// NodeShebang is the interpreter line for standalone front-end bundles.
const NodeShebang = "#!/usr/bin/env node"

// Default artifact names.
const (
	RuntimeArtifactName = "jscl.js"
	TestArtifactName    = "tests.js"
)
