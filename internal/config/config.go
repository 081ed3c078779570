package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the ripple configuration file
const ConfigFileName = "config.yaml"

// ConfigDirName is the name of the ripple configuration directory
const ConfigDirName = ".ripple"

// Config holds all ripple configuration
type Config struct {
	Scan   ScanConfig   `yaml:"scan"`
	Impact ImpactConfig `yaml:"impact"`
	Output OutputConfig `yaml:"output"`
}

// ScanConfig holds configuration for the source scanner
type ScanConfig struct {
	// ExcludeDirs are directory names skipped during the tree walk.
	ExcludeDirs []string `yaml:"exclude_dirs"`
	// Workers is the scan worker pool size.
	Workers int `yaml:"workers"`
}

// ImpactConfig holds configuration for impact analysis
type ImpactConfig struct {
	// MaxDepth bounds reverse traversal.
	MaxDepth int `yaml:"max_depth"`
	// IncludeTests keeps test files in the affected set.
	IncludeTests bool `yaml:"include_tests"`
	// ExcludePatterns are default glob excludes applied to dependents.
	ExcludePatterns []string `yaml:"exclude_patterns"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
}

// ErrConfigNotFound is returned when no config file can be found
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig is returned when config validation fails
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads config from .ripple/config.yaml, falling back to defaults.
// It searches for the config directory starting from workDir and walking up
// the directory tree. If no config is found, returns defaults.
func Load(workDir string) (*Config, error) {
	configDir, err := FindConfigDir(workDir)
	if err != nil {
		// No config dir found, return defaults
		return DefaultConfig(), nil
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	return LoadFromPath(configPath)
}

// LoadFromPath reads config from a specific path.
// Merges loaded config with defaults and validates the result.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	loaded := &Config{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	merged := Merge(loaded, DefaultConfig())

	if err := Validate(merged); err != nil {
		return nil, err
	}

	return merged, nil
}

// FindConfigDir locates the .ripple directory by walking up from startDir.
// Returns the path to the .ripple directory if found.
func FindConfigDir(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	currentDir := absDir
	for {
		configDir := filepath.Join(currentDir, ConfigDirName)
		info, err := os.Stat(configDir)
		if err == nil && info.IsDir() {
			return configDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", ErrConfigNotFound
		}
		currentDir = parentDir
	}
}

// EnsureConfigDir creates the .ripple directory if it doesn't exist.
// Returns the path to the .ripple directory.
func EnsureConfigDir(workDir string) (string, error) {
	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	configDir := filepath.Join(absDir, ConfigDirName)

	info, err := os.Stat(configDir)
	if err == nil {
		if info.IsDir() {
			return configDir, nil
		}
		return "", fmt.Errorf("%s exists but is not a directory", configDir)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	return configDir, nil
}

// Validate checks that config values are valid.
// Returns an error if validation fails.
func Validate(cfg *Config) error {
	if cfg.Scan.Workers <= 0 {
		return fmt.Errorf("%w: scan workers must be positive, got %d",
			ErrInvalidConfig, cfg.Scan.Workers)
	}

	if cfg.Impact.MaxDepth <= 0 {
		return fmt.Errorf("%w: max_depth must be positive, got %d",
			ErrInvalidConfig, cfg.Impact.MaxDepth)
	}

	if !IsValidFormat(cfg.Output.DefaultFormat) {
		return fmt.Errorf("%w: default_format must be one of %v, got %q",
			ErrInvalidConfig, ValidFormats, cfg.Output.DefaultFormat)
	}

	return nil
}

// SaveDefault writes the default configuration to .ripple/config.yaml in
// workDir. Creates the .ripple directory if it doesn't exist.
func SaveDefault(workDir string) (string, error) {
	return Save(workDir, DefaultConfig())
}

// Save writes cfg to .ripple/config.yaml in workDir. Refuses to overwrite
// an existing config file.
func Save(workDir string, cfg *Config) (string, error) {
	configDir, err := EnsureConfigDir(workDir)
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(configDir, ConfigFileName)

	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists: %s", configPath)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}

	header := "# ripple configuration\n\n"
	data = append([]byte(header), data...)

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}

	return configPath, nil
}
