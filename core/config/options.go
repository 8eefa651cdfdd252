package config

// Flags carries the command line values that interact with the config file.
type Flags struct {
	IgnorePatterns []string
	IgnoreFilePath string
	Relative       bool
	RelativeSet    bool
	Deps           bool
	CycleEdges     bool
	TargetFiles    []string
	ReferenceFiles []string
}

// ProcessingOptions is the merged view of flags and config used by a run.
type ProcessingOptions struct {
	IgnorePatterns   []string
	IgnoreFilePath   string
	UseRelativePaths bool
	Deps             bool
	RecordCycleEdges bool
	TargetFiles      []string
	ReferenceFiles   []string
}

// NewProcessingOptions layers flags over cfg. Ignore patterns accumulate,
// config first. An explicit --relative wins over use_relative_paths.
func NewProcessingOptions(flags Flags, cfg *Config) ProcessingOptions {
	if cfg == nil {
		cfg = Default()
	}

	patterns := make([]string, 0, len(cfg.Default.IgnorePatterns)+len(flags.IgnorePatterns))
	patterns = append(patterns, cfg.Default.IgnorePatterns...)
	patterns = append(patterns, flags.IgnorePatterns...)

	relative := flags.Relative
	if !flags.RelativeSet && cfg.Default.UseRelativePaths != nil {
		relative = *cfg.Default.UseRelativePaths
	}

	deps := flags.Deps
	if cfg.Default.Deps != nil && *cfg.Default.Deps {
		deps = true
	}

	return ProcessingOptions{
		IgnorePatterns:   patterns,
		IgnoreFilePath:   flags.IgnoreFilePath,
		UseRelativePaths: relative,
		Deps:             deps,
		RecordCycleEdges: flags.CycleEdges,
		TargetFiles:      flags.TargetFiles,
		ReferenceFiles:   flags.ReferenceFiles,
	}
}
