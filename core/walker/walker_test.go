package walker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tristendillon/pcc/core/ignore"
)

func write(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestWalk_SortedAndFiltered(t *testing.T) {
	root := t.TempDir()
	b := write(t, root, "src/b.ts", "")
	a := write(t, root, "src/a.ts", "")
	readme := write(t, root, "README.md", "")
	write(t, root, ".git/HEAD", "")
	write(t, root, "node_modules/react/index.js", "")
	write(t, root, "coverage/lcov.info", "")
	write(t, root, "src/a.test.ts", "")
	gi := write(t, root, ".gitignore", "coverage\n")

	m, err := ignore.NewMatcher(root, []string{"*.test.ts"}, "")
	require.NoError(t, err)

	files, err := NewFileWalker(m).Walk(root)
	require.NoError(t, err)
	assert.Equal(t, []string{gi, readme, a, b}, files)
}

func TestWalk_NilMatcher(t *testing.T) {
	root := t.TempDir()
	a := write(t, root, "a.ts", "")

	files, err := NewFileWalker(nil).Walk(root)
	require.NoError(t, err)
	assert.Equal(t, []string{a}, files)
}

func TestWalk_MissingRoot(t *testing.T) {
	_, err := NewFileWalker(nil).Walk(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
