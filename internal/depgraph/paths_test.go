package depgraph

import (
	"path/filepath"
	"testing"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		root string
		p    string
		want string
	}{
		{"already relative", "/proj", "src/app.ts", "src/app.ts"},
		{"leading dot-slash", "/proj", "./src/app.ts", "src/app.ts"},
		{"absolute under root", "/proj", "/proj/src/app.ts", "src/app.ts"},
		{"absolute outside root stays absolute", "/proj", "/other/app.ts", "/other/app.ts"},
		{"redundant segments cleaned", "/proj", "src/./sub/../app.ts", "src/app.ts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePath(tt.root, tt.p)
			if got != tt.want {
				t.Errorf("NormalizePath(%q, %q) = %q, want %q", tt.root, tt.p, got, tt.want)
			}
		})
	}
}

func TestNormalizePath_WindowsSeparators(t *testing.T) {
	// ToSlash is a no-op on Unix, so only assert the slash form.
	got := NormalizePath("", filepath.FromSlash("src/app.ts"))
	if got != "src/app.ts" {
		t.Errorf("NormalizePath() = %q, want src/app.ts", got)
	}
}

func TestPathVariants_InputFirst(t *testing.T) {
	variants := PathVariants("src/app.ts")
	if len(variants) == 0 || variants[0] != "src/app.ts" {
		t.Fatalf("expected input first, got %v", variants)
	}
}

func TestPathVariants_Extensions(t *testing.T) {
	variants := PathVariants("src/app")

	for _, want := range []string{"src/app.ts", "src/app.tsx", "src/app.js", "src/app.jsx", "src/app.mjs", "src/app.cjs"} {
		if !containsVariant(variants, want) {
			t.Errorf("missing extension variant %q in %v", want, variants)
		}
	}
}

func TestPathVariants_IndexFiles(t *testing.T) {
	variants := PathVariants("src/utils")

	if !containsVariant(variants, "src/utils/index.ts") {
		t.Errorf("missing index variant in %v", variants)
	}
	if !containsVariant(variants, "src/utils/index.js") {
		t.Errorf("missing index variant in %v", variants)
	}
}

func TestPathVariants_CrossExtension(t *testing.T) {
	// A .js specifier must find the .ts source and vice versa.
	variants := PathVariants("src/app.js")
	if !containsVariant(variants, "src/app.ts") {
		t.Errorf("js path should yield ts variant, got %v", variants)
	}

	variants = PathVariants("src/app.ts")
	if !containsVariant(variants, "src/app.js") {
		t.Errorf("ts path should yield js variant, got %v", variants)
	}
}

func TestPathVariants_OutputDirSwaps(t *testing.T) {
	variants := PathVariants("dist/app.js")
	if !containsVariant(variants, "src/app.ts") {
		t.Errorf("dist path should yield src variant, got %v", variants)
	}

	variants = PathVariants("src/app.ts")
	for _, want := range []string{"dist/app.js", "build/app.js", "lib/app.js", "out/app.js"} {
		if !containsVariant(variants, want) {
			t.Errorf("missing output-dir variant %q in %v", want, variants)
		}
	}
}

func TestPathVariants_NonVariantExtensionKept(t *testing.T) {
	// .css is not a source extension; the stem must not be truncated.
	variants := PathVariants("src/app.css")
	if !containsVariant(variants, "src/app.css.ts") {
		// .css.ts is the correct expansion because .css is not swappable
		t.Errorf("expected src/app.css.ts in %v", variants)
	}
	for _, v := range variants {
		if v == "src/app.ts" {
			t.Errorf("css extension must not be swapped away, got %v", variants)
		}
	}
}

func TestPathVariants_Deterministic(t *testing.T) {
	a := PathVariants("src/app.ts")
	b := PathVariants("src/app.ts")
	if len(a) != len(b) {
		t.Fatalf("variant count differs: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("variant order differs at %d: %q vs %q", i, a[i], b[i])
		}
	}
}

func TestJoinSpecifier(t *testing.T) {
	tests := []struct {
		fromFile  string
		specifier string
		want      string
	}{
		{"src/app.ts", "./helper", "src/helper"},
		{"src/app.ts", "../shared/util", "shared/util"},
		{"src/deep/a/b.ts", "../../top", "src/top"},
		{"app.ts", "./sibling", "sibling"},
	}

	for _, tt := range tests {
		got := joinSpecifier(tt.fromFile, tt.specifier)
		if got != tt.want {
			t.Errorf("joinSpecifier(%q, %q) = %q, want %q", tt.fromFile, tt.specifier, got, tt.want)
		}
	}
}

func containsVariant(variants []string, want string) bool {
	for _, v := range variants {
		if v == want {
			return true
		}
	}
	return false
}
