package ast

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"github.com/tristendillon/pcc/core/logger"
)

const importCapture = "import_path"

// importQuery matches static imports, re-exports, `import x = require(..)`
// and plain require() calls. Only @import_path captures are reported.
const importQuery = `
(import_statement
	source: (string) @import_path)
(export_statement
	source: (string) @import_path)
(import_require_clause
	source: (string) @import_path)
(call_expression
	function: (identifier) @fn
	arguments: (arguments . (string) @import_path)
	(#eq? @fn "require"))
`

type Grammar int

const (
	TypeScript Grammar = iota
	TSX
)

func (g Grammar) String() string {
	switch g {
	case TypeScript:
		return "typescript"
	case TSX:
		return "tsx"
	default:
		return "unknown"
	}
}

var grammars = map[string]Grammar{
	".ts":  TypeScript,
	".mts": TypeScript,
	".cts": TypeScript,
	".tsx": TSX,
	".js":  TSX,
	".jsx": TSX,
	".mjs": TSX,
	".cjs": TSX,
}

type compiledQuery struct {
	once     sync.Once
	language *sitter.Language
	query    *sitter.Query
	err      error
}

var queries = map[Grammar]*compiledQuery{
	TypeScript: {language: typescript.GetLanguage()},
	TSX:        {language: tsx.GetLanguage()},
}

func (cq *compiledQuery) get() (*sitter.Query, error) {
	cq.once.Do(func() {
		cq.query, cq.err = sitter.NewQuery([]byte(importQuery), cq.language)
	})
	return cq.query, cq.err
}

// IsSupportedFile reports whether path has an extension the extractor parses.
func IsSupportedFile(path string) bool {
	_, ok := grammarFor(path)
	return ok
}

func grammarFor(path string) (Grammar, bool) {
	g, ok := grammars[strings.ToLower(filepath.Ext(path))]
	return g, ok
}

// ExtractImports returns the module specifiers written in content, in source
// order, with quotes stripped. Files the grammar cannot fully parse still
// yield whatever import nodes matched; a parser failure yields nil.
func ExtractImports(path string, content []byte) []string {
	imports, err := Parse(context.Background(), path, content)
	if err != nil {
		logger.Debug("Failed to extract imports from %s: %v", path, err)
		return nil
	}
	return imports
}

// Parse is ExtractImports with the failure surfaced.
func Parse(ctx context.Context, path string, content []byte) ([]string, error) {
	grammar, ok := grammarFor(path)
	if !ok {
		grammar = TypeScript
	}
	cq := queries[grammar]
	query, err := cq.get()
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s import query: %w", grammar, err)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(cq.language)

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("tree-sitter returned nil root node")
	}
	if root.HasError() {
		logger.Debug("Syntax errors in %s, imports are best-effort", path)
	}

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(query, root)

	var imports []string
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, content)
		for _, capture := range match.Captures {
			if query.CaptureNameForId(capture.Index) != importCapture {
				continue
			}
			imports = append(imports, unquote(capture.Node.Content(content)))
		}
	}

	return imports, nil
}

func unquote(raw string) string {
	return strings.Trim(raw, "\"'")
}
