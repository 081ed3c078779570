package scanner

import (
	"regexp"
	"sort"
	"strings"
)

// Import/export extraction is deliberately textual. Building a real syntax
// tree would be more precise, but a file that is mid-edit (and syntactically
// broken) must still yield a partial node instead of aborting the scan, so
// the extractor recognizes declaration shapes with patterns and ignores
// everything it cannot match.

var (
	reImportNamed        = regexp.MustCompile(`(?m)^[ \t]*import\s+(?:type\s+)?\{([^}]*)\}\s*from\s*['"]([^'"]+)['"]`)
	reImportDefaultNamed = regexp.MustCompile(`(?m)^[ \t]*import\s+([A-Za-z_$][\w$]*)\s*,\s*\{([^}]*)\}\s*from\s*['"]([^'"]+)['"]`)
	reImportDefault      = regexp.MustCompile(`(?m)^[ \t]*import\s+(?:type\s+)?([A-Za-z_$][\w$]*)\s+from\s*['"]([^'"]+)['"]`)
	reImportNamespace    = regexp.MustCompile(`(?m)^[ \t]*import\s+\*\s+as\s+([A-Za-z_$][\w$]*)\s+from\s*['"]([^'"]+)['"]`)
	reImportSideEffect   = regexp.MustCompile(`(?m)^[ \t]*import\s*['"]([^'"]+)['"]`)
	reImportDynamic      = regexp.MustCompile(`\bimport\(\s*['"]([^'"]+)['"]\s*\)`)
	reRequirePlain       = regexp.MustCompile(`(?m)^[ \t]*(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*=\s*require\(\s*['"]([^'"]+)['"]\s*\)`)
	reRequireDestructure = regexp.MustCompile(`(?m)^[ \t]*(?:const|let|var)\s+\{([^}]*)\}\s*=\s*require\(\s*['"]([^'"]+)['"]\s*\)`)

	reExportFunc      = regexp.MustCompile(`(?m)^[ \t]*export\s+(?:async\s+)?function\s*\*?\s*([A-Za-z_$][\w$]*)\s*(\([^)]*\))?`)
	reExportClass     = regexp.MustCompile(`(?m)^[ \t]*export\s+(?:abstract\s+)?class\s+([A-Za-z_$][\w$]*)([^\n{]*)`)
	reExportInterface = regexp.MustCompile(`(?m)^[ \t]*export\s+interface\s+([A-Za-z_$][\w$]*)`)
	reExportTypeAlias = regexp.MustCompile(`(?m)^[ \t]*export\s+type\s+([A-Za-z_$][\w$]*)`)
	reExportEnum      = regexp.MustCompile(`(?m)^[ \t]*export\s+(?:const\s+)?enum\s+([A-Za-z_$][\w$]*)`)
	reExportBinding   = regexp.MustCompile(`(?m)^[ \t]*export\s+(?:const|let|var)\s+([A-Za-z_$][\w$]*)(\s*:\s*[^=\n;]+)?`)
	reExportDefault   = regexp.MustCompile(`(?m)^[ \t]*export\s+default\s+(?:async\s+)?(?:function\s*\*?\s*([A-Za-z_$][\w$]*)?|class\s+([A-Za-z_$][\w$]*)?|([A-Za-z_$][\w$]*))?`)
	reExportList      = regexp.MustCompile(`(?m)^[ \t]*export\s+(?:type\s+)?\{([^}]*)\}(?:\s*from\s*['"]([^'"]+)['"])?`)
	reExportStar      = regexp.MustCompile(`(?m)^[ \t]*export\s+\*(?:\s+as\s+([A-Za-z_$][\w$]*))?\s+from\s*['"]([^'"]+)['"]`)

	reCJSExportProp   = regexp.MustCompile(`(?m)^[ \t]*(?:module\.)?exports\.([A-Za-z_$][\w$]*)\s*=`)
	reCJSExportObject = regexp.MustCompile(`(?m)^[ \t]*module\.exports\s*=\s*\{([^}]*)\}`)
	reCJSExportIdent  = regexp.MustCompile(`(?m)^[ \t]*module\.exports\s*=\s*([A-Za-z_$][\w$]*)\s*;?\s*$`)
)

// ExtractNode scans content and returns the dependency node for path.
// Content that matches no recognized shape simply yields fewer entries;
// extraction never fails.
func ExtractNode(path, content string) *FileNode {
	return &FileNode{
		Path:    path,
		Imports: ExtractImports(content),
		Exports: ExtractExports(content),
	}
}

type importAt struct {
	imp Import
	off int
}

// ExtractImports returns all recognized import declarations in source order.
func ExtractImports(content string) []Import {
	var found []importAt
	add := func(off int, imp Import) {
		imp.Line = lineAt(content, off)
		found = append(found, importAt{imp: imp, off: off})
	}

	for _, m := range reImportDefaultNamed.FindAllStringSubmatchIndex(content, -1) {
		spec := content[m[6]:m[7]]
		add(m[0], Import{Specifier: spec, Kind: ImportDefault, Symbols: []string{content[m[2]:m[3]]}})
		if names := splitBindingList(content[m[4]:m[5]], false); len(names) > 0 {
			add(m[0], Import{Specifier: spec, Kind: ImportNamed, Symbols: names})
		}
	}
	for _, m := range reImportNamed.FindAllStringSubmatchIndex(content, -1) {
		add(m[0], Import{
			Specifier: content[m[4]:m[5]],
			Kind:      ImportNamed,
			Symbols:   splitBindingList(content[m[2]:m[3]], false),
		})
	}
	for _, m := range reImportNamespace.FindAllStringSubmatchIndex(content, -1) {
		add(m[0], Import{
			Specifier: content[m[4]:m[5]],
			Kind:      ImportNamespace,
			Symbols:   []string{content[m[2]:m[3]]},
		})
	}
	for _, m := range reImportDefault.FindAllStringSubmatchIndex(content, -1) {
		add(m[0], Import{
			Specifier: content[m[4]:m[5]],
			Kind:      ImportDefault,
			Symbols:   []string{content[m[2]:m[3]]},
		})
	}
	for _, m := range reImportSideEffect.FindAllStringSubmatchIndex(content, -1) {
		add(m[0], Import{Specifier: content[m[2]:m[3]], Kind: ImportSideEffect})
	}
	for _, m := range reImportDynamic.FindAllStringSubmatchIndex(content, -1) {
		// Literal dynamic import: the specifier is knowable, the binding is
		// not, so it is tracked as a side-effect edge.
		add(m[0], Import{Specifier: content[m[2]:m[3]], Kind: ImportSideEffect})
	}
	for _, m := range reRequirePlain.FindAllStringSubmatchIndex(content, -1) {
		add(m[0], Import{
			Specifier: content[m[4]:m[5]],
			Kind:      ImportDefault,
			Symbols:   []string{content[m[2]:m[3]]},
		})
	}
	for _, m := range reRequireDestructure.FindAllStringSubmatchIndex(content, -1) {
		add(m[0], Import{
			Specifier: content[m[4]:m[5]],
			Kind:      ImportNamed,
			Symbols:   splitBindingList(content[m[2]:m[3]], false),
		})
	}

	// Re-export forms are dependencies too: export { x } from './a' creates
	// an edge to './a' even though nothing is bound locally.
	for _, m := range reExportList.FindAllStringSubmatchIndex(content, -1) {
		if m[4] < 0 {
			continue // bare export list, no source module
		}
		add(m[0], Import{
			Specifier: content[m[4]:m[5]],
			Kind:      ImportNamed,
			Symbols:   splitBindingList(content[m[2]:m[3]], false),
		})
	}
	for _, m := range reExportStar.FindAllStringSubmatchIndex(content, -1) {
		add(m[0], Import{Specifier: content[m[4]:m[5]], Kind: ImportNamespace})
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].off < found[j].off })
	imports := make([]Import, 0, len(found))
	for _, f := range found {
		imports = append(imports, f.imp)
	}
	return imports
}

type exportAt struct {
	exp Export
	off int
}

// ExtractExports returns all recognized exported symbols in source order.
func ExtractExports(content string) []Export {
	var found []exportAt
	add := func(off int, exp Export) {
		exp.Line = lineAt(content, off)
		found = append(found, exportAt{exp: exp, off: off})
	}

	for _, m := range reExportFunc.FindAllStringSubmatchIndex(content, -1) {
		add(m[0], Export{
			Name:      content[m[2]:m[3]],
			Kind:      ExportFunction,
			Signature: collapseSpace(content[m[0]:m[1]]),
		})
	}
	for _, m := range reExportClass.FindAllStringSubmatchIndex(content, -1) {
		add(m[0], Export{
			Name:      content[m[2]:m[3]],
			Kind:      ExportClass,
			Signature: collapseSpace(content[m[0]:m[1]]),
		})
	}
	for _, m := range reExportInterface.FindAllStringSubmatchIndex(content, -1) {
		add(m[0], Export{Name: content[m[2]:m[3]], Kind: ExportInterface})
	}
	for _, m := range reExportTypeAlias.FindAllStringSubmatchIndex(content, -1) {
		add(m[0], Export{Name: content[m[2]:m[3]], Kind: ExportType})
	}
	for _, m := range reExportEnum.FindAllStringSubmatchIndex(content, -1) {
		add(m[0], Export{Name: content[m[2]:m[3]], Kind: ExportType})
	}
	for _, m := range reExportBinding.FindAllStringSubmatchIndex(content, -1) {
		name := content[m[2]:m[3]]
		if name == "enum" {
			continue // export const enum, already handled
		}
		add(m[0], Export{
			Name:      name,
			Kind:      ExportConstant,
			Signature: collapseSpace(content[m[0]:m[1]]),
		})
	}
	for _, m := range reExportDefault.FindAllStringSubmatchIndex(content, -1) {
		name := "default"
		for _, g := range []int{2, 4, 6} {
			if m[g] >= 0 && m[g] < m[g+1] {
				name = content[m[g]:m[g+1]]
				break
			}
		}
		add(m[0], Export{
			Name:      name,
			Kind:      ExportDefault,
			Signature: collapseSpace(content[m[0]:m[1]]),
		})
	}
	for _, m := range reExportList.FindAllStringSubmatchIndex(content, -1) {
		source := ""
		if m[4] >= 0 {
			source = content[m[4]:m[5]]
		}
		for _, name := range splitBindingList(content[m[2]:m[3]], true) {
			add(m[0], Export{
				Name:     name,
				Kind:     ExportConstant,
				ReExport: source != "",
				Source:   source,
			})
		}
	}
	for _, m := range reExportStar.FindAllStringSubmatchIndex(content, -1) {
		name := "*"
		if m[2] >= 0 {
			name = content[m[2]:m[3]]
		}
		add(m[0], Export{
			Name:     name,
			Kind:     ExportConstant,
			ReExport: true,
			Source:   content[m[4]:m[5]],
		})
	}

	for _, m := range reCJSExportProp.FindAllStringSubmatchIndex(content, -1) {
		add(m[0], Export{Name: content[m[2]:m[3]], Kind: ExportConstant})
	}
	for _, m := range reCJSExportObject.FindAllStringSubmatchIndex(content, -1) {
		for _, name := range splitBindingList(content[m[2]:m[3]], true) {
			add(m[0], Export{Name: name, Kind: ExportConstant})
		}
	}
	for _, m := range reCJSExportIdent.FindAllStringSubmatchIndex(content, -1) {
		add(m[0], Export{
			Name:      content[m[2]:m[3]],
			Kind:      ExportDefault,
			Signature: collapseSpace(content[m[0]:m[1]]),
		})
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].off < found[j].off })
	exports := make([]Export, 0, len(found))
	for _, f := range found {
		exports = append(exports, f.exp)
	}
	return exports
}

// splitBindingList splits "a, b as c, default as d" into symbol names.
// exportedSide selects which side of an "as" alias is the visible name:
// imports bind the original (left), exports expose the alias (right).
func splitBindingList(list string, exportedSide bool) []string {
	var names []string
	for _, part := range strings.Split(list, ",") {
		fields := strings.Fields(part)
		if len(fields) > 1 && fields[0] == "type" {
			fields = fields[1:] // inline type-only binding: { type Foo }
		}
		name := ""
		switch {
		case len(fields) == 3 && fields[1] == "as":
			if exportedSide {
				name = fields[2]
			} else {
				name = fields[0]
			}
		case len(fields) >= 1:
			name = fields[0]
		}
		if isIdentifier(name) {
			names = append(names, name)
		}
	}
	return names
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// lineAt returns the 1-based line number of the byte offset.
func lineAt(content string, off int) int {
	if off > len(content) {
		off = len(content)
	}
	return 1 + strings.Count(content[:off], "\n")
}

// collapseSpace normalizes whitespace runs so multi-line declarations
// compare stably between file versions.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
