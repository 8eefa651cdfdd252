// Package tsconfig loads path aliases from a project's tsconfig.json or
// jsconfig.json. Loading never fails: a missing or malformed file yields an
// empty alias table.
package tsconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tailscale/hujson"
	"github.com/tristendillon/pcc/core/logger"
	"github.com/tristendillon/pcc/core/resolver"
)

// ConfigFiles are tried in order inside the project root.
var ConfigFiles = []string{"tsconfig.json", "jsconfig.json"}

type file struct {
	CompilerOptions struct {
		BaseURL string              `json:"baseUrl"`
		Paths   map[string][]string `json:"paths"`
	} `json:"compilerOptions"`
}

// LoadAliases reads the first config file found in projectRoot.
func LoadAliases(projectRoot string) resolver.AliasTable {
	for _, name := range ConfigFiles {
		path := filepath.Join(projectRoot, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		table, err := LoadFile(path)
		if err != nil {
			logger.Debug("Ignoring %s: %v", path, err)
			return resolver.NewAliasTable(projectRoot, nil)
		}
		logger.Debug("Loaded %d path aliases from %s", table.Len(), path)
		return table
	}
	logger.Debug("No tsconfig found in %s, no path aliases", projectRoot)
	return resolver.NewAliasTable(projectRoot, nil)
}

// LoadFile parses one config file. Only the first target of each paths entry
// is used; "/*" wildcards are stripped from both sides.
func LoadFile(path string) (resolver.AliasTable, error) {
	dir := filepath.Dir(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return resolver.NewAliasTable(dir, nil), fmt.Errorf("failed to read %s: %w", path, err)
	}

	// tsconfig allows comments and trailing commas.
	standard, err := hujson.Standardize(data)
	if err != nil {
		return resolver.NewAliasTable(dir, nil), fmt.Errorf("failed to parse %s: %w", path, err)
	}

	var cfg file
	if err := json.Unmarshal(standard, &cfg); err != nil {
		return resolver.NewAliasTable(dir, nil), fmt.Errorf("failed to parse %s: %w", path, err)
	}

	base := dir
	if cfg.CompilerOptions.BaseURL != "" {
		base = filepath.Join(dir, filepath.FromSlash(cfg.CompilerOptions.BaseURL))
	}

	// Map iteration is random; sort so duplicate prefixes after trimming
	// resolve the same way on every run.
	keys := make([]string, 0, len(cfg.CompilerOptions.Paths))
	for k := range cfg.CompilerOptions.Paths {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	aliases := make([]resolver.Alias, 0, len(keys))
	for _, k := range keys {
		targets := cfg.CompilerOptions.Paths[k]
		if len(targets) == 0 {
			continue
		}
		aliases = append(aliases, resolver.Alias{
			Prefix: trimWildcard(k),
			Target: strings.TrimPrefix(trimWildcard(targets[0]), "./"),
		})
	}

	return resolver.NewAliasTable(base, aliases), nil
}

func trimWildcard(s string) string {
	if s == "*" {
		return ""
	}
	return strings.TrimSuffix(s, "/*")
}
