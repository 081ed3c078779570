package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_NoConfigReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	defaults := DefaultConfig()
	if cfg.Scan.Workers != defaults.Scan.Workers {
		t.Errorf("Workers = %d, want %d", cfg.Scan.Workers, defaults.Scan.Workers)
	}
	if cfg.Impact.MaxDepth != defaults.Impact.MaxDepth {
		t.Errorf("MaxDepth = %d, want %d", cfg.Impact.MaxDepth, defaults.Impact.MaxDepth)
	}
	if cfg.Output.DefaultFormat != "yaml" {
		t.Errorf("DefaultFormat = %q, want yaml", cfg.Output.DefaultFormat)
	}
}

func TestLoadFromPath_MergesWithDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `scan:
  workers: 2
impact:
  max_depth: 5
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}

	if cfg.Scan.Workers != 2 {
		t.Errorf("Workers = %d, want 2", cfg.Scan.Workers)
	}
	if cfg.Impact.MaxDepth != 5 {
		t.Errorf("MaxDepth = %d, want 5", cfg.Impact.MaxDepth)
	}
	// Unset fields fall back to defaults
	if len(cfg.Scan.ExcludeDirs) == 0 {
		t.Error("ExcludeDirs should fall back to defaults")
	}
	if cfg.Output.DefaultFormat != "yaml" {
		t.Errorf("DefaultFormat = %q, want yaml", cfg.Output.DefaultFormat)
	}
}

func TestLoadFromPath_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("scan: [not: valid"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := LoadFromPath(path); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoadFromPath_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `output:
  default_format: xml
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := LoadFromPath(path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestFindConfigDir_WalksUp(t *testing.T) {
	root := t.TempDir()
	configDir := filepath.Join(root, ConfigDirName)
	if err := os.Mkdir(configDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	found, err := FindConfigDir(nested)
	if err != nil {
		t.Fatalf("FindConfigDir() error: %v", err)
	}
	if found != configDir {
		t.Errorf("found %q, want %q", found, configDir)
	}
}

func TestFindConfigDir_NotFound(t *testing.T) {
	_, err := FindConfigDir(t.TempDir())
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("err = %v, want ErrConfigNotFound", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"zero workers", func(c *Config) { c.Scan.Workers = 0 }, true},
		{"negative depth", func(c *Config) { c.Impact.MaxDepth = -1 }, true},
		{"bad format", func(c *Config) { c.Output.DefaultFormat = "toml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveDefault(t *testing.T) {
	dir := t.TempDir()

	path, err := SaveDefault(dir)
	if err != nil {
		t.Fatalf("SaveDefault() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(data), "# ripple configuration") {
		t.Error("config file missing header comment")
	}

	// The written file must round-trip through Load
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() after save error: %v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("saved config invalid: %v", err)
	}

	// Refuses to overwrite
	if _, err := SaveDefault(dir); err == nil {
		t.Error("expected error for existing config file")
	}
}

func TestMerge_LoadedTakesPrecedence(t *testing.T) {
	loaded := &Config{
		Scan:   ScanConfig{ExcludeDirs: []string{"custom"}, Workers: 3},
		Impact: ImpactConfig{MaxDepth: 7, IncludeTests: true, ExcludePatterns: []string{"*.gen.ts"}},
		Output: OutputConfig{DefaultFormat: "json"},
	}

	merged := Merge(loaded, DefaultConfig())

	if merged.Scan.Workers != 3 {
		t.Errorf("Workers = %d, want 3", merged.Scan.Workers)
	}
	if len(merged.Scan.ExcludeDirs) != 1 || merged.Scan.ExcludeDirs[0] != "custom" {
		t.Errorf("ExcludeDirs = %v", merged.Scan.ExcludeDirs)
	}
	if merged.Impact.MaxDepth != 7 {
		t.Errorf("MaxDepth = %d, want 7", merged.Impact.MaxDepth)
	}
	if !merged.Impact.IncludeTests {
		t.Error("IncludeTests lost in merge")
	}
	if len(merged.Impact.ExcludePatterns) != 1 {
		t.Errorf("ExcludePatterns = %v", merged.Impact.ExcludePatterns)
	}
	if merged.Output.DefaultFormat != "json" {
		t.Errorf("DefaultFormat = %q, want json", merged.Output.DefaultFormat)
	}
}
