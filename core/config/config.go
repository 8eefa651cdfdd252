package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tristendillon/pcc/core/logger"
	"gopkg.in/yaml.v3"
)

const FileName = ".pcc_config.yaml"

const (
	ActionCopy = "copy"
	ActionSave = "save"
)

type Config struct {
	Default Defaults `yaml:"default"`
}

// Defaults are applied whenever the matching flag is not given.
type Defaults struct {
	Action           string   `yaml:"action,omitempty"`
	OutputPath       string   `yaml:"output_path,omitempty"`
	OutputFileName   string   `yaml:"output_file_name,omitempty"`
	IgnorePatterns   []string `yaml:"ignore_patterns,omitempty"`
	UseRelativePaths *bool    `yaml:"use_relative_paths,omitempty"`
	Deps             *bool    `yaml:"deps,omitempty"`
}

func Default() *Config {
	return &Config{
		Default: Defaults{
			Action:         ActionCopy,
			OutputFileName: "combined_code.txt",
			IgnorePatterns: []string{"*.lock", "*.log"},
		},
	}
}

// Path is the location of the user config file.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home dir: %w", err)
	}
	return filepath.Join(home, FileName), nil
}

func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads path. A missing file gives the defaults.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("No config file found at %s, using default config", path)
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	logger.Debug("Config file found: %s", path)
	logger.Debug("Config: %+v", cfg)

	return &cfg, nil
}

// Save writes cfg to path, refusing to replace an existing file unless
// overwrite is set.
func Save(cfg *Config, path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}
