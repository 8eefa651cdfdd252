package resolver

import (
	"sort"
	"strings"
)

// Alias maps a specifier prefix to a replacement prefix, both with any
// trailing "/*" wildcard removed.
type Alias struct {
	Prefix string
	Target string
}

// AliasTable is an immutable, ordered set of aliases. Entries are sorted
// longest prefix first (ties broken lexically) so overlapping prefixes such
// as "@app" and "@app/core" always resolve the same way.
type AliasTable struct {
	entries []Alias
	baseDir string
}

// NewAliasTable builds a table whose targets are relative to baseDir.
// Aliases with an empty prefix are dropped, and the first occurrence of a
// duplicated prefix wins.
func NewAliasTable(baseDir string, aliases []Alias) AliasTable {
	seen := make(map[string]bool, len(aliases))
	entries := make([]Alias, 0, len(aliases))
	for _, a := range aliases {
		if a.Prefix == "" || seen[a.Prefix] {
			continue
		}
		seen[a.Prefix] = true
		entries = append(entries, a)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if len(entries[i].Prefix) != len(entries[j].Prefix) {
			return len(entries[i].Prefix) > len(entries[j].Prefix)
		}
		return entries[i].Prefix < entries[j].Prefix
	})

	return AliasTable{entries: entries, baseDir: baseDir}
}

// Entries returns a copy of the ordered aliases.
func (t AliasTable) Entries() []Alias {
	out := make([]Alias, len(t.entries))
	copy(out, t.entries)
	return out
}

// BaseDir is the directory alias targets are relative to.
func (t AliasTable) BaseDir() string {
	return t.baseDir
}

func (t AliasTable) Len() int {
	return len(t.entries)
}

// Apply substitutes the first matching alias prefix. A prefix matches when it
// equals the specifier or is followed by "/" in it.
func (t AliasTable) Apply(specifier string) (string, bool) {
	for _, a := range t.entries {
		if specifier == a.Prefix {
			return a.Target, true
		}
		prefix := strings.TrimSuffix(a.Prefix, "/")
		if strings.HasPrefix(specifier, prefix+"/") {
			rest := strings.TrimPrefix(specifier, prefix+"/")
			if a.Target == "" {
				return rest, true
			}
			return strings.TrimSuffix(a.Target, "/") + "/" + rest, true
		}
	}
	return specifier, false
}
