package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, root, rel, content string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	abs, err := filepath.Abs(p)
	require.NoError(t, err)
	return abs
}

func TestFindProjectRoot(t *testing.T) {
	sep := string(filepath.Separator)
	base := filepath.Join(sep+"work", "proj")

	root, ok := FindProjectRoot(filepath.Join(base, "src", "a", "b"), "src")
	assert.True(t, ok)
	assert.Equal(t, base, root)

	root, ok = FindProjectRoot(filepath.Join(base, "src"), "src")
	assert.True(t, ok)
	assert.Equal(t, base, root)

	_, ok = FindProjectRoot(filepath.Join(base, "lib", "a"), "src")
	assert.False(t, ok)

	nested := filepath.Join(base, "src", "pkg", "src", "x")
	root, ok = FindProjectRoot(nested, "src")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(base, "src", "pkg"), root, "nearest src wins")
}

func TestAliasTable_LongestPrefixFirst(t *testing.T) {
	table := NewAliasTable("/p", []Alias{
		{Prefix: "@app", Target: "src/app"},
		{Prefix: "@app/core", Target: "lib/core"},
		{Prefix: "@", Target: "src"},
	})

	got, ok := table.Apply("@app/core/x")
	assert.True(t, ok)
	assert.Equal(t, "lib/core/x", got)

	got, ok = table.Apply("@app/widget")
	assert.True(t, ok)
	assert.Equal(t, "src/app/widget", got)

	got, ok = table.Apply("@/util")
	assert.True(t, ok)
	assert.Equal(t, "src/util", got)

	got, ok = table.Apply("@apple/x")
	assert.False(t, ok, "prefix must end at a path boundary")
	assert.Equal(t, "@apple/x", got)

	prefixes := []string{}
	for _, a := range table.Entries() {
		prefixes = append(prefixes, a.Prefix)
	}
	assert.Equal(t, []string{"@app/core", "@app", "@"}, prefixes)
}

func TestAliasTable_ExactAndDuplicates(t *testing.T) {
	table := NewAliasTable("", []Alias{
		{Prefix: "config", Target: "src/config/index"},
		{Prefix: "config", Target: "ignored"},
		{Prefix: "", Target: "dropped"},
	})
	assert.Equal(t, 1, table.Len())

	got, ok := table.Apply("config")
	assert.True(t, ok)
	assert.Equal(t, "src/config/index", got)
}

func TestProbe_ExtensionOrder(t *testing.T) {
	root := t.TempDir()
	write(t, root, "src/a/x.ts", "")
	tsx := write(t, root, "src/a/y.tsx", "")
	write(t, root, "src/a/y.js", "")
	ts := write(t, root, "src/a/z.ts", "")
	write(t, root, "src/a/z.js", "")

	got, ok := Probe(filepath.Join(root, "src", "a"), "./y")
	require.True(t, ok)
	assert.Equal(t, tsx, got, ".tsx is tried before .js")

	got, ok = Probe(filepath.Join(root, "src", "a"), "./z")
	require.True(t, ok)
	assert.Equal(t, ts, got)

	_, ok = Probe(filepath.Join(root, "src", "a"), "./missing")
	assert.False(t, ok)
}

func TestProbe_DirectoryIndexAndManifest(t *testing.T) {
	root := t.TempDir()
	index := write(t, root, "lib/widgets/index.ts", "")
	entry := write(t, root, "lib/pkg/dist/main.js", "")
	write(t, root, "lib/pkg/index.ts", "")
	write(t, root, "lib/pkg/package.json", `{"main": "dist/main.js"}`)
	broken := write(t, root, "lib/broken/index.js", "")
	write(t, root, "lib/broken/package.json", `{not json`)

	got, ok := Probe(root, "lib/widgets")
	require.True(t, ok)
	assert.Equal(t, index, got)

	got, ok = Probe(root, "lib/pkg")
	require.True(t, ok)
	assert.Equal(t, entry, got, "package.json entry wins over index")

	got, ok = Probe(root, "lib/broken")
	require.True(t, ok)
	assert.Equal(t, broken, got, "malformed manifest falls back to index")
}

func TestTypeScriptResolver_Relative(t *testing.T) {
	root := t.TempDir()
	x := write(t, root, "src/a/x.ts", "")
	y := write(t, root, "src/a/y.ts", "")
	idx := write(t, root, "src/a/dir/index.tsx", "")
	up := write(t, root, "src/b.js", "")

	r := NewTypeScriptResolver(root, AliasTable{})

	got, ok := r.Resolve("./y", x)
	require.True(t, ok)
	assert.Equal(t, y, got)

	got, ok = r.Resolve("./dir", x)
	require.True(t, ok)
	assert.Equal(t, idx, got)

	got, ok = r.Resolve("../b", x)
	require.True(t, ok)
	assert.Equal(t, up, got)

	_, ok = r.Resolve("./nope", x)
	assert.False(t, ok)
}

func TestTypeScriptResolver_Alias(t *testing.T) {
	root := t.TempDir()
	main := write(t, root, "src/main.ts", "")

	aliases := NewAliasTable(root, []Alias{{Prefix: "@app", Target: "src/app"}})
	r := NewTypeScriptResolver(root, aliases)

	_, ok := r.Resolve("@app/widget", main)
	assert.False(t, ok, "no file on disk yet")

	widget := write(t, root, "src/app/widget.ts", "")
	got, ok := r.Resolve("@app/widget", main)
	require.True(t, ok)
	assert.Equal(t, widget, got)
}

func TestTypeScriptResolver_BareUnderSourceRoot(t *testing.T) {
	root := t.TempDir()
	main := write(t, root, "src/pages/home/main.ts", "")
	util := write(t, root, "src/utils/format.ts", "")
	exact := write(t, root, "src/assets/logo.svg", "")

	r := NewTypeScriptResolver(root, AliasTable{})

	got, ok := r.Resolve("utils/format", main)
	require.True(t, ok)
	assert.Equal(t, util, got)

	got, ok = r.Resolve("assets/logo.svg", main)
	require.True(t, ok)
	assert.Equal(t, exact, got)
}

func TestTypeScriptResolver_TildePrefix(t *testing.T) {
	root := t.TempDir()
	main := write(t, root, "src/main.ts", "")
	button := write(t, root, "src/components/button.ts", "")
	styles := write(t, root, "src/styles/theme.css", "")

	r := NewTypeScriptResolver(root, NewAliasTable(root, []Alias{{Prefix: "components", Target: "elsewhere"}}))

	got, ok := r.Resolve("~/components/button", main)
	require.True(t, ok)
	assert.Equal(t, button, got, "tilde skips alias lookup")

	got, ok = r.Resolve("~styles/theme.css", main)
	require.True(t, ok)
	assert.Equal(t, styles, got)

	_, ok = r.Resolve("~", main)
	assert.False(t, ok)
}

func TestTypeScriptResolver_NodeModules(t *testing.T) {
	root := t.TempDir()
	main := write(t, root, "src/main.ts", "")
	entry := write(t, root, "node_modules/left-pad/lib/index.js", "")
	write(t, root, "node_modules/left-pad/package.json", `{"main": "lib/index.js"}`)
	scoped := write(t, root, "node_modules/@scope/pkg/index.d.ts", "")
	write(t, root, "node_modules/@scope/pkg/package.json", `{"types": "index.d.ts"}`)

	r := NewTypeScriptResolver(root, AliasTable{})

	got, ok := r.Resolve("left-pad", main)
	require.True(t, ok)
	assert.Equal(t, entry, got)

	got, ok = r.Resolve("@scope/pkg", main)
	require.True(t, ok)
	assert.Equal(t, scoped, got)

	_, ok = r.Resolve("react", main)
	assert.False(t, ok)
}

func TestTypeScriptResolver_NoSourceRootAnchorsAtFileDir(t *testing.T) {
	root := t.TempDir()
	main := write(t, root, "app/main.ts", "")
	helper := write(t, root, "app/src/helper.ts", "")

	r := NewTypeScriptResolver(root, AliasTable{})

	got, ok := r.Resolve("helper", main)
	require.True(t, ok)
	assert.Equal(t, helper, got)
}

func TestTypeScriptResolver_EmptySpecifier(t *testing.T) {
	r := NewTypeScriptResolver(t.TempDir(), AliasTable{})
	_, ok := r.Resolve("", "/x/a.ts")
	assert.False(t, ok)
}
