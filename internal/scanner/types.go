package scanner

// ImportKind classifies the shape of an import declaration.
type ImportKind string

const (
	// ImportNamed is a named import: import { a, b } from 'mod'
	ImportNamed ImportKind = "named"
	// ImportDefault is a default import: import a from 'mod'
	ImportDefault ImportKind = "default"
	// ImportNamespace is a namespace import: import * as a from 'mod'
	ImportNamespace ImportKind = "namespace"
	// ImportSideEffect is a side-effect-only import: import 'mod'
	ImportSideEffect ImportKind = "side-effect"
)

// ExportKind classifies the declaration behind an export.
type ExportKind string

const (
	// ExportFunction is an exported function declaration.
	ExportFunction ExportKind = "function"
	// ExportClass is an exported class declaration.
	ExportClass ExportKind = "class"
	// ExportInterface is an exported interface declaration.
	ExportInterface ExportKind = "interface"
	// ExportType is an exported type alias or enum.
	ExportType ExportKind = "type"
	// ExportConstant is an exported const/let/var binding, or a bare
	// export-list entry whose declaration kind is not recoverable.
	ExportConstant ExportKind = "constant"
	// ExportDefault is the module's default export.
	ExportDefault ExportKind = "default"
)

// Import is a single module dependency as written in the source.
type Import struct {
	// Specifier is the module specifier exactly as written.
	Specifier string `yaml:"specifier" json:"specifier"`
	// Symbols lists the imported names, when the shape declares any.
	Symbols []string `yaml:"symbols,omitempty" json:"symbols,omitempty"`
	// Kind is the import shape.
	Kind ImportKind `yaml:"kind" json:"kind"`
	// Line is the 1-based source line of the declaration.
	Line int `yaml:"line" json:"line"`
}

// Export is a single exported symbol.
type Export struct {
	// Name is the exported symbol name ("default" for anonymous defaults).
	Name string `yaml:"name" json:"name"`
	// Kind is the declaration kind.
	Kind ExportKind `yaml:"kind" json:"kind"`
	// Line is the 1-based source line of the declaration.
	Line int `yaml:"line" json:"line"`
	// ReExport marks export-from forms: export { x } from './mod'
	ReExport bool `yaml:"re_export,omitempty" json:"re_export,omitempty"`
	// Source is the origin module specifier for re-exports.
	Source string `yaml:"source,omitempty" json:"source,omitempty"`
	// Signature is the declaration text, used for textual signature
	// comparison between file versions.
	Signature string `yaml:"signature,omitempty" json:"signature,omitempty"`
}

// FileNode is the scanned model of one source file.
type FileNode struct {
	// Path is the normalized project-relative file path.
	Path string `yaml:"path" json:"path"`
	// Imports in source order.
	Imports []Import `yaml:"imports,omitempty" json:"imports,omitempty"`
	// Exports in source order.
	Exports []Export `yaml:"exports,omitempty" json:"exports,omitempty"`
}
