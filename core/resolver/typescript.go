package resolver

import (
	"path/filepath"
	"strings"

	"github.com/tristendillon/pcc/core/ast"
	"github.com/tristendillon/pcc/core/logger"
)

// ExtractFunc returns the raw import specifiers written in a file.
type ExtractFunc func(path string, content []byte) []string

// TypeScriptResolver extracts and resolves TypeScript/JavaScript module
// specifiers.
type TypeScriptResolver struct {
	projectRoot string
	sourceRoot  string
	aliases     AliasTable
	extract     ExtractFunc
}

type Option func(*TypeScriptResolver)

// WithExtractor replaces the tree-sitter extractor, typically with a cached one.
func WithExtractor(fn ExtractFunc) Option {
	return func(r *TypeScriptResolver) {
		if fn != nil {
			r.extract = fn
		}
	}
}

// WithSourceRoot changes the conventional source directory name ("src").
func WithSourceRoot(name string) Option {
	return func(r *TypeScriptResolver) {
		if name != "" {
			r.sourceRoot = name
		}
	}
}

func NewTypeScriptResolver(projectRoot string, aliases AliasTable, opts ...Option) *TypeScriptResolver {
	r := &TypeScriptResolver{
		projectRoot: projectRoot,
		sourceRoot:  SourceRootName,
		aliases:     aliases,
		extract:     ast.ExtractImports,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *TypeScriptResolver) Supports(path string) bool {
	return ast.IsSupportedFile(path)
}

func (r *TypeScriptResolver) Imports(path string, content []byte) []string {
	return r.extract(path, content)
}

// Resolve maps specifier, written in currentFile, to an absolute file path.
// It reports false when no candidate exists; it never fails.
func (r *TypeScriptResolver) Resolve(specifier, currentFile string) (string, bool) {
	if specifier == "" {
		return "", false
	}
	currentDir := filepath.Dir(currentFile)

	switch {
	case strings.HasPrefix(specifier, "~"):
		rest := strings.TrimLeft(strings.TrimPrefix(specifier, "~"), "/")
		if rest == "" {
			return "", false
		}
		if filepath.Ext(rest) == "" {
			rest += DefaultExtension
		}
		return r.resolveRooted(rest, currentDir)

	case strings.HasPrefix(specifier, "."):
		return Probe(currentDir, specifier)

	default:
		if target, ok := r.aliases.Apply(specifier); ok {
			logger.Debug("Alias %s -> %s", specifier, target)
			if p, ok := Probe(r.aliasBase(), target); ok {
				return p, true
			}
			specifier = target
		}
		if p, ok := r.resolveRooted(specifier, currentDir); ok {
			return p, true
		}
		return ProbeNodeModules(r.anchor(currentDir), specifier)
	}
}

func (r *TypeScriptResolver) resolveRooted(specifier, currentDir string) (string, bool) {
	srcDir := filepath.Join(r.anchor(currentDir), r.sourceRoot)
	direct := filepath.Join(srcDir, filepath.FromSlash(specifier))
	if isFile(direct) {
		return absolute(direct), true
	}
	return Probe(srcDir, filepath.FromSlash(specifier))
}

// anchor is the project root found above currentDir, or currentDir itself.
func (r *TypeScriptResolver) anchor(currentDir string) string {
	if root, ok := FindProjectRoot(currentDir, r.sourceRoot); ok {
		return root
	}
	return currentDir
}

func (r *TypeScriptResolver) aliasBase() string {
	if base := r.aliases.BaseDir(); base != "" {
		return base
	}
	return r.projectRoot
}
