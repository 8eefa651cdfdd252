package dependency

import (
	"fmt"
	"os"
	"strings"

	"github.com/tristendillon/pcc/core/logger"
)

// LanguageResolver turns file contents into specifiers and specifiers into
// files. The builder is language agnostic; it only sees this interface.
type LanguageResolver interface {
	Imports(path string, content []byte) []string
	Resolve(specifier, currentFile string) (string, bool)
}

type ReadFunc func(path string) ([]byte, error)

// ExcludeFunc reports whether a resolved path is left out of the graph.
type ExcludeFunc func(path string) bool

type Options struct {
	Read    ReadFunc
	Exclude ExcludeFunc
	// RecordCycleEdges keeps the edge that closes a cycle. Without it the
	// importer of a cyclic file is not reported for that file.
	RecordCycleEdges bool
}

// ReadError is returned when a file reached from the entry cannot be read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

type frame struct {
	file       string
	specifiers []string
	next       int
}

// Builder discovers the import graph of one entry at a time.
type Builder struct {
	resolver LanguageResolver
	options  Options

	graph    *Graph
	visiting []string
	onStack  map[string]bool
	visited  map[string]bool
	cycles   [][]string
}

func NewBuilder(resolver LanguageResolver, options Options) *Builder {
	if options.Read == nil {
		options.Read = os.ReadFile
	}
	if options.Exclude == nil {
		options.Exclude = func(string) bool { return false }
	}
	b := &Builder{
		resolver: resolver,
		options:  options,
		graph:    NewGraph(),
	}
	b.reset()
	return b
}

// Resolve walks every file reachable from entry. The result starts with entry
// and follows depth-first discovery order. Any read failure discards the
// whole walk.
func (b *Builder) Resolve(entry string) ([]string, error) {
	b.reset()
	b.graph.AddNode(entry)

	var stack []*frame
	push := func(file string) error {
		content, err := b.options.Read(file)
		if err != nil {
			return &ReadError{Path: file, Err: err}
		}
		specifiers := b.resolver.Imports(file, content)
		logger.Debug("Found %d imports in %s", len(specifiers), file)

		b.visiting = append(b.visiting, file)
		b.onStack[file] = true
		stack = append(stack, &frame{file: file, specifiers: specifiers})
		return nil
	}

	if err := push(entry); err != nil {
		b.reset()
		return nil, err
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next >= len(top.specifiers) {
			stack = stack[:len(stack)-1]
			b.visiting = b.visiting[:len(b.visiting)-1]
			b.onStack[top.file] = false
			b.visited[top.file] = true
			continue
		}

		specifier := top.specifiers[top.next]
		top.next++

		target, ok := b.resolver.Resolve(specifier, top.file)
		if !ok {
			logger.Debug("Could not resolve %q from %s", specifier, top.file)
			continue
		}
		if b.options.Exclude(target) {
			logger.Debug("Excluding %s", target)
			continue
		}

		if b.onStack[target] {
			cycle := cycleFrom(b.visiting, target)
			b.cycles = append(b.cycles, cycle)
			logger.Debug("Circular dependency detected: %s", strings.Join(cycle, " -> "))
			if b.options.RecordCycleEdges {
				b.graph.AddEdge(top.file, target)
			}
			continue
		}

		b.graph.AddEdge(top.file, target)
		if b.visited[target] {
			continue
		}
		if err := push(target); err != nil {
			b.reset()
			return nil, err
		}
	}

	files := b.graph.Reachable(entry)
	logger.Debug("Resolved %d files from %s (%d nodes)", len(files), entry, b.graph.Len())
	return files, nil
}

// ImportersOf returns every file that transitively imports file in the last
// walk, sorted. Empty before the first successful Resolve.
func (b *Builder) ImportersOf(file string) []string {
	return b.graph.Importers(file)
}

// Cycles returns the cycles met during the last walk, each closed on the
// file that was re-entered.
func (b *Builder) Cycles() [][]string {
	out := make([][]string, len(b.cycles))
	for i, c := range b.cycles {
		out[i] = append([]string{}, c...)
	}
	return out
}

func (b *Builder) reset() {
	b.graph.Clear()
	b.visiting = nil
	b.onStack = make(map[string]bool)
	b.visited = make(map[string]bool)
	b.cycles = nil
}
