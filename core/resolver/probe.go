package resolver

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Extensions lists the suffixes tried, in order, when a request has no exact
// file match. The first four mirror what TypeScript tooling tries; the module
// variants come after.
var Extensions = []string{".ts", ".tsx", ".js", ".jsx", ".mts", ".cts", ".mjs", ".cjs"}

// DefaultExtension is appended to "~/" specifiers that carry no extension.
const DefaultExtension = ".ts"

const (
	ManifestFile = "package.json"
	NodeModules  = "node_modules"
)

// manifestFields are consulted in order for a package's entry file.
var manifestFields = []string{"types", "module", "main"}

// Probe resolves request against base using extension and index probing:
//
//  1. the path itself, if it is a regular file
//  2. the path with each of Extensions appended
//  3. for a directory, the entry named by its package.json
//  4. for a directory, index plus each of Extensions
//
// The returned path is absolute and clean.
func Probe(base, request string) (string, bool) {
	path := request
	if !filepath.IsAbs(path) {
		path = filepath.Join(base, request)
	}
	return probePath(path)
}

// ProbeNodeModules looks the package up in every node_modules directory from
// startDir up to the filesystem root.
func ProbeNodeModules(startDir, specifier string) (string, bool) {
	dir := filepath.Clean(startDir)
	for {
		if p, ok := probePath(filepath.Join(dir, NodeModules, filepath.FromSlash(specifier))); ok {
			return p, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func probePath(path string) (string, bool) {
	if p, ok := probeFile(path); ok {
		return p, true
	}
	if !isDir(path) {
		return "", false
	}
	if entry, ok := manifestEntry(path); ok {
		entryPath := filepath.Join(path, filepath.FromSlash(entry))
		if p, ok := probeFile(entryPath); ok {
			return p, true
		}
		if entryPath != path && isDir(entryPath) {
			if p, ok := probeIndex(entryPath); ok {
				return p, true
			}
		}
	}
	return probeIndex(path)
}

func probeFile(path string) (string, bool) {
	if isFile(path) {
		return absolute(path), true
	}
	for _, ext := range Extensions {
		if candidate := path + ext; isFile(candidate) {
			return absolute(candidate), true
		}
	}
	return "", false
}

func probeIndex(dir string) (string, bool) {
	for _, ext := range Extensions {
		if candidate := filepath.Join(dir, "index"+ext); isFile(candidate) {
			return absolute(candidate), true
		}
	}
	return "", false
}

type packageManifest struct {
	Types   string `json:"types"`
	Typings string `json:"typings"`
	Module  string `json:"module"`
	Main    string `json:"main"`
}

// manifestEntry reads dir/package.json and returns the first non-empty entry
// field. Unreadable or malformed manifests are treated as absent.
func manifestEntry(dir string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return "", false
	}
	var m packageManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return "", false
	}
	if m.Types == "" {
		m.Types = m.Typings
	}
	values := map[string]string{"types": m.Types, "module": m.Module, "main": m.Main}
	for _, field := range manifestFields {
		if v := values[field]; v != "" {
			return v, true
		}
	}
	return "", false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func absolute(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
