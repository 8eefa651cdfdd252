package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tristendillon/pcc/core/config"
	"github.com/tristendillon/pcc/core/dependency"
	"github.com/tristendillon/pcc/core/ignore"
	"github.com/tristendillon/pcc/core/logger"
	"github.com/tristendillon/pcc/core/walker"
)

const header = "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<project>\n"

// Processor combines target files, and optionally their dependencies, into
// one annotated document.
type Processor struct {
	Options config.ProcessingOptions
	WorkDir string
	Matcher *ignore.Matcher
	// Builder is nil when dependency resolution is off.
	Builder  *dependency.Builder
	Walker   walker.Walker
	Supports func(path string) bool
	Read     func(path string) ([]byte, error)
}

// Result is one rendered bundle.
type Result struct {
	Text         string
	Files        []string
	Dependencies []string
	Warnings     []string
}

type run struct {
	p            *Processor
	out          strings.Builder
	processed    map[string]bool
	explicit     map[string]bool
	importers    map[string]map[string]bool
	files        []string
	dependencies []string
	warnings     []string
}

// Process renders targets. Files named by --target and --reference come
// first, then each positional target, then the dependencies section.
func (p *Processor) Process(targets []string) (*Result, error) {
	r := &run{
		p:         p,
		processed: make(map[string]bool),
		explicit:  make(map[string]bool),
		importers: make(map[string]map[string]bool),
	}
	r.out.WriteString(header)

	targetFiles := p.absolutes(p.Options.TargetFiles)
	referenceFiles := p.absolutes(p.Options.ReferenceFiles)
	for _, f := range append(append([]string{}, targetFiles...), referenceFiles...) {
		r.explicit[f] = true
	}

	if err := r.section("targets", targetFiles); err != nil {
		return nil, err
	}
	if err := r.section("references", referenceFiles); err != nil {
		return nil, err
	}

	for _, target := range p.absolutes(targets) {
		info, err := os.Stat(target)
		if err != nil {
			return nil, fmt.Errorf("failed to stat target %s: %w", target, err)
		}
		if !info.IsDir() {
			if r.explicit[target] {
				continue
			}
			if err := r.main(target); err != nil {
				return nil, err
			}
			continue
		}

		files, err := p.walker().Walk(target)
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", target, err)
		}
		for _, file := range files {
			if r.explicit[file] || r.processed[file] || p.Matcher.Excluded(file) {
				continue
			}
			if err := r.main(file); err != nil {
				return nil, err
			}
		}
	}

	if err := r.dependencySection(); err != nil {
		return nil, err
	}
	r.out.WriteString("</project>\n")

	return &Result{
		Text:         r.out.String(),
		Files:        r.files,
		Dependencies: r.dependencies,
		Warnings:     r.warnings,
	}, nil
}

func (r *run) section(name string, files []string) error {
	if len(files) == 0 {
		return nil
	}
	fmt.Fprintf(&r.out, "  <%s>\n", name)
	for _, file := range files {
		if err := r.emit(file); err != nil {
			return err
		}
	}
	fmt.Fprintf(&r.out, "  </%s>\n", name)
	return nil
}

// main writes file and, when enabled, records everything it imports.
func (r *run) main(file string) error {
	if r.processed[file] {
		return nil
	}
	if err := r.emit(file); err != nil {
		return err
	}

	b := r.p.Builder
	if b == nil || !r.p.supports(file) {
		return nil
	}

	reachable, err := b.Resolve(file)
	if err != nil {
		return fmt.Errorf("failed to resolve dependencies of %s: %w", file, err)
	}
	for _, cycle := range b.Cycles() {
		r.warnings = append(r.warnings, r.p.cycleWarning(cycle))
	}

	for _, dep := range reachable {
		if dep == file || r.p.Matcher.Excluded(dep) {
			continue
		}
		set, ok := r.importers[dep]
		if !ok {
			set = make(map[string]bool)
			r.importers[dep] = set
		}
		for _, importer := range b.ImportersOf(dep) {
			set[importer] = true
		}
	}
	return nil
}

func (r *run) emit(file string) error {
	if r.p.Matcher.Excluded(file) {
		logger.Debug("Ignoring %s", file)
		return nil
	}
	content, err := r.p.read(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}
	r.out.WriteString(formatFile(r.p.display(file), string(content)))
	r.processed[file] = true
	r.files = append(r.files, file)
	return nil
}

func (r *run) dependencySection() error {
	deps := make([]string, 0, len(r.importers))
	for dep := range r.importers {
		if !r.processed[dep] {
			deps = append(deps, dep)
		}
	}
	if len(deps) == 0 {
		return nil
	}
	sort.Strings(deps)

	r.out.WriteString("  <dependencies>\n")
	for _, dep := range deps {
		content, err := r.p.read(dep)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", dep, err)
		}

		importers := make([]string, 0, len(r.importers[dep]))
		for importer := range r.importers[dep] {
			importers = append(importers, r.p.display(importer))
		}
		sort.Strings(importers)

		block := formatDependency(r.p.display(dep), importers, string(content))
		r.out.WriteString(indent(block, "  "))
		r.out.WriteString("\n")
		r.processed[dep] = true
		r.dependencies = append(r.dependencies, dep)
	}
	r.out.WriteString("  </dependencies>\n")
	return nil
}

func formatFile(name, content string) string {
	return fmt.Sprintf("  <file name=\"%s\">\n%s\n  </file>\n", name, indent(content, "    "))
}

func formatDependency(name string, importers []string, content string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  <file name=\"%s\">\n", name)
	if len(importers) > 0 {
		b.WriteString("    <imported_by>\n")
		for _, importer := range importers {
			fmt.Fprintf(&b, "      <importer>%s</importer>\n", importer)
		}
		b.WriteString("    </imported_by>\n")
	}
	b.WriteString(indent(content, "    "))
	b.WriteString("\n  </file>\n")
	return b.String()
}

// indent prefixes every line of s. A trailing newline does not produce an
// extra line, and the result has none.
func indent(s, prefix string) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = prefix + strings.TrimSuffix(line, "\r")
	}
	return strings.Join(lines, "\n")
}

func (p *Processor) cycleWarning(cycle []string) string {
	names := make([]string, len(cycle))
	for i, path := range cycle {
		names[i] = p.display(path)
	}
	return fmt.Sprintf("circular dependency: %s", strings.Join(names, " -> "))
}

func (p *Processor) display(path string) string {
	if !p.Options.UseRelativePaths || p.WorkDir == "" {
		return path
	}
	rel, err := filepath.Rel(p.WorkDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func (p *Processor) absolutes(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, path := range paths {
		if !filepath.IsAbs(path) {
			path = filepath.Join(p.WorkDir, path)
		}
		out = append(out, filepath.Clean(path))
	}
	return out
}

func (p *Processor) walker() walker.Walker {
	if p.Walker != nil {
		return p.Walker
	}
	return walker.NewFileWalker(p.Matcher)
}

func (p *Processor) supports(path string) bool {
	if p.Supports == nil {
		return true
	}
	return p.Supports(path)
}

func (p *Processor) read(path string) ([]byte, error) {
	if p.Read != nil {
		return p.Read(path)
	}
	return os.ReadFile(path)
}
