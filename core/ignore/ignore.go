package ignore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
	"github.com/tristendillon/pcc/core/logger"
)

const GitignoreFile = ".gitignore"

// VendoredDirs never contribute files to a bundle.
var VendoredDirs = []string{"node_modules", "vendor", "bower_components", "jspm_packages"}

// Matcher tests paths against gitignore-style patterns. Paths are matched
// relative to baseDir when they live under it.
type Matcher struct {
	baseDir  string
	patterns []string
	compiled *gitignore.GitIgnore
}

// NewMatcher compiles patterns plus, when ignoreFile is set, the lines of
// that file.
func NewMatcher(baseDir string, patterns []string, ignoreFile string) (*Matcher, error) {
	patterns = cleanPatterns(patterns)

	var compiled *gitignore.GitIgnore
	if ignoreFile != "" {
		var err error
		compiled, err = gitignore.CompileIgnoreFileAndLines(ignoreFile, patterns...)
		if err != nil {
			return nil, fmt.Errorf("failed to read ignore file %s: %w", ignoreFile, err)
		}
		logger.Debug("Loaded ignore file %s", ignoreFile)
	} else {
		compiled = gitignore.CompileIgnoreLines(patterns...)
	}

	return &Matcher{
		baseDir:  baseDir,
		patterns: patterns,
		compiled: compiled,
	}, nil
}

// FromGitignore loads dir/.gitignore. A missing file yields nil.
func FromGitignore(dir string) *Matcher {
	path := filepath.Join(dir, GitignoreFile)
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	m, err := NewMatcher(dir, nil, path)
	if err != nil {
		logger.Debug("Skipping %s: %v", path, err)
		return nil
	}
	return m
}

func (m *Matcher) Patterns() []string {
	if m == nil {
		return nil
	}
	return append([]string{}, m.patterns...)
}

// Excluded reports whether path matches. A nil matcher excludes nothing.
func (m *Matcher) Excluded(path string) bool {
	if m == nil || m.compiled == nil {
		return false
	}
	return m.compiled.MatchesPath(m.relative(path))
}

func (m *Matcher) relative(path string) string {
	if m.baseDir != "" && filepath.IsAbs(path) {
		if rel, err := filepath.Rel(m.baseDir, path); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(path)
}

// IsVendored reports whether path sits in a vendored dir below base.
// Directories above base do not count, so a project checked out inside
// node_modules or vendor still sees its own files.
func IsVendored(base, path string) bool {
	if base != "" {
		if rel, err := filepath.Rel(base, path); err == nil {
			path = rel
		}
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		for _, dir := range VendoredDirs {
			if part == dir {
				return true
			}
		}
	}
	return false
}

// Exclude combines vendoring below base with the given matchers, for use as
// the dependency builder's exclusion predicate.
func Exclude(base string, matchers ...*Matcher) func(path string) bool {
	return func(path string) bool {
		if IsVendored(base, path) {
			return true
		}
		for _, m := range matchers {
			if m.Excluded(path) {
				return true
			}
		}
		return false
	}
}

func cleanPatterns(patterns []string) []string {
	var out []string
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
