package depgraph

import (
	"path"
	"path/filepath"
	"strings"
)

// extVariants is the extension resolution order. Source extensions come
// first so a specifier written against a built artifact still prefers the
// source file when both exist.
var extVariants = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}

// outputDirSwaps maps a leading path segment to the equivalent segments
// used by common build layouts. A dependency recorded against src/ must
// still resolve when the graph knows the file under dist/, and vice versa.
var outputDirSwaps = map[string][]string{
	"src":   {"dist", "build", "lib", "out"},
	"dist":  {"src"},
	"build": {"src"},
	"lib":   {"src"},
	"out":   {"src"},
}

// NormalizePath converts p to the canonical graph key: slash-separated,
// cleaned, relative to root when p is absolute or root-prefixed.
func NormalizePath(root, p string) string {
	p = filepath.ToSlash(p)
	root = filepath.ToSlash(root)
	if filepath.IsAbs(p) && root != "" {
		if rel, err := filepath.Rel(root, filepath.FromSlash(p)); err == nil && !strings.HasPrefix(rel, "..") {
			p = filepath.ToSlash(rel)
		}
	}
	p = path.Clean(p)
	p = strings.TrimPrefix(p, "./")
	return p
}

// PathVariants expands a normalized path into the plausible equivalents a
// specifier or caller-supplied target may be written as: alternate source
// and artifact extensions, directory index files, and build-output
// directory swaps. The input path is always first, and order is
// deterministic so resolution picks a stable winner.
func PathVariants(p string) []string {
	seen := map[string]struct{}{}
	var variants []string
	add := func(v string) {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			variants = append(variants, v)
		}
	}

	bases := []string{p}
	if first, rest, ok := strings.Cut(p, "/"); ok {
		for _, swap := range outputDirSwaps[first] {
			bases = append(bases, swap+"/"+rest)
		}
	}

	for _, base := range bases {
		add(base)
		stem := base
		if ext := path.Ext(base); ext != "" && isVariantExt(ext) {
			stem = strings.TrimSuffix(base, ext)
		}
		for _, ext := range extVariants {
			add(stem + ext)
		}
		for _, ext := range extVariants {
			add(base + "/index" + ext)
		}
	}
	return variants
}

func isVariantExt(ext string) bool {
	for _, v := range extVariants {
		if ext == v {
			return true
		}
	}
	return false
}

// joinSpecifier resolves a relative specifier against the importing file's
// directory, yielding a normalized project-relative path.
func joinSpecifier(fromFile, specifier string) string {
	joined := path.Join(path.Dir(fromFile), specifier)
	return strings.TrimPrefix(path.Clean(joined), "./")
}
