package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWatcher(t *testing.T, root string, exclude func(string) bool) *FileWatcher {
	t.Helper()
	fw, err := NewFileWatcher(root, exclude)
	require.NoError(t, err)
	fw.Debounce = 20 * time.Millisecond
	t.Cleanup(func() { fw.Close() })
	return fw
}

func TestSchedule_CoalescesEvents(t *testing.T) {
	fw := newTestWatcher(t, t.TempDir(), nil)

	calls := make(chan []string, 4)
	fw.OnChange = func(changed []string) error {
		calls <- changed
		return nil
	}

	fw.schedule("/p/b.ts")
	fw.schedule("/p/a.ts")
	fw.schedule("/p/b.ts")

	select {
	case changed := <-calls:
		assert.Equal(t, []string{"/p/a.ts", "/p/b.ts"}, changed)
	case <-time.After(2 * time.Second):
		t.Fatal("OnChange was not called")
	}

	select {
	case changed := <-calls:
		t.Fatalf("unexpected second call with %v", changed)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestShouldExcludePath(t *testing.T) {
	root := t.TempDir()
	fw := newTestWatcher(t, root, func(path string) bool {
		return strings.HasSuffix(path, ".log")
	})

	assert.True(t, fw.shouldExcludePath(filepath.Join(root, ".git", "index")))
	assert.True(t, fw.shouldExcludePath(filepath.Join(root, "node_modules", "x", "index.js")))
	assert.True(t, fw.shouldExcludePath(filepath.Join(root, "debug.log")))
	assert.False(t, fw.shouldExcludePath(filepath.Join(root, "src", "a.ts")))
}

func TestShouldExcludePath_VendoredParentDir(t *testing.T) {
	root := filepath.Join(t.TempDir(), "node_modules", "pkg")
	require.NoError(t, os.MkdirAll(root, 0o755))
	fw := newTestWatcher(t, root, nil)

	assert.False(t, fw.shouldExcludePath(filepath.Join(root, "src")))
	assert.True(t, fw.shouldExcludePath(filepath.Join(root, "node_modules", "dep")))
}

func TestWatch_RebundlesOnWrite(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	target := filepath.Join(root, "src", "a.ts")
	require.NoError(t, os.WriteFile(target, []byte("a"), 0o644))

	fw := newTestWatcher(t, root, nil)
	started := make(chan struct{})
	changes := make(chan []string, 8)
	fw.OnStart = func() error {
		close(started)
		return nil
	}
	fw.OnChange = func(changed []string) error {
		changes <- changed
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- fw.Watch(ctx) }()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not start")
	}

	require.NoError(t, os.WriteFile(target, []byte("b"), 0o644))

	select {
	case changed := <-changes:
		assert.Contains(t, changed, target)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
