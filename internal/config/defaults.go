package config

// DefaultExcludeDirs are the directory names skipped by default: build
// output, dependency caches, version-control metadata, and coverage
// artifacts.
var DefaultExcludeDirs = []string{
	"node_modules",
	".git",
	"dist",
	"build",
	"out",
	"coverage",
	".next",
	"vendor",
}

// DefaultConfig returns configuration with sensible defaults.
// These defaults are used when no config file exists or when
// config file is missing specific fields.
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			ExcludeDirs: append([]string{}, DefaultExcludeDirs...),
			Workers:     8,
		},
		Impact: ImpactConfig{
			MaxDepth:     10,
			IncludeTests: false,
		},
		Output: OutputConfig{
			DefaultFormat: "yaml",
		},
	}
}

// Merge merges loaded config with defaults.
// Values from loaded config take precedence over defaults.
// Returns a new Config with merged values.
func Merge(loaded, defaults *Config) *Config {
	result := &Config{}

	result.Scan = mergeScanConfig(loaded.Scan, defaults.Scan)
	result.Impact = mergeImpactConfig(loaded.Impact, defaults.Impact)
	result.Output = mergeOutputConfig(loaded.Output, defaults.Output)

	return result
}

func mergeScanConfig(loaded, defaults ScanConfig) ScanConfig {
	result := ScanConfig{}

	if len(loaded.ExcludeDirs) > 0 {
		result.ExcludeDirs = loaded.ExcludeDirs
	} else {
		result.ExcludeDirs = defaults.ExcludeDirs
	}

	if loaded.Workers != 0 {
		result.Workers = loaded.Workers
	} else {
		result.Workers = defaults.Workers
	}

	return result
}

func mergeImpactConfig(loaded, defaults ImpactConfig) ImpactConfig {
	result := ImpactConfig{}

	if loaded.MaxDepth != 0 {
		result.MaxDepth = loaded.MaxDepth
	} else {
		result.MaxDepth = defaults.MaxDepth
	}

	// Booleans can't distinguish unset from false; users who want true
	// set it explicitly.
	result.IncludeTests = loaded.IncludeTests

	if len(loaded.ExcludePatterns) > 0 {
		result.ExcludePatterns = loaded.ExcludePatterns
	}

	return result
}

func mergeOutputConfig(loaded, defaults OutputConfig) OutputConfig {
	result := OutputConfig{}

	if loaded.DefaultFormat != "" {
		result.DefaultFormat = loaded.DefaultFormat
	} else {
		result.DefaultFormat = defaults.DefaultFormat
	}

	return result
}

// ValidFormats lists the valid values for output format
var ValidFormats = []string{"yaml", "json"}

// IsValidFormat checks if the given format value is valid
func IsValidFormat(format string) bool {
	for _, valid := range ValidFormats {
		if format == valid {
			return true
		}
	}
	return false
}
