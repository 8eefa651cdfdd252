package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tristendillon/pcc/core/ignore"
	"github.com/tristendillon/pcc/core/logger"
)

const DefaultDebounce = 500 * time.Millisecond

// FileWatcher re-runs OnChange after a quiet period following file events
// anywhere under RootDir.
type FileWatcher struct {
	Watcher  *fsnotify.Watcher
	RootDir  string
	Exclude  func(path string) bool
	Debounce time.Duration

	OnStart  func() error
	OnChange func(changed []string) error
	OnClose  func() error

	debounceTimer *time.Timer
	pending       map[string]struct{}
	mutex         sync.Mutex
}

func NewFileWatcher(rootDir string, exclude func(path string) bool) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	root, err := filepath.Abs(rootDir)
	if err != nil {
		watcher.Close()
		return nil, err
	}

	return &FileWatcher{
		Watcher:  watcher,
		RootDir:  root,
		Exclude:  exclude,
		Debounce: DefaultDebounce,
		OnStart:  func() error { return nil },
		OnChange: func([]string) error { return nil },
		OnClose:  func() error { return nil },
		pending:  make(map[string]struct{}),
	}, nil
}

// Watch blocks until ctx is done or the underlying watcher fails.
func (fw *FileWatcher) Watch(ctx context.Context) error {
	if err := fw.addWatchersRecursively(fw.RootDir); err != nil {
		return fmt.Errorf("failed to add watchers: %w", err)
	}

	if err := fw.OnStart(); err != nil {
		logger.Error("Watcher.OnStart failed: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if fw.shouldExcludePath(event.Name) || event.Op == fsnotify.Chmod {
				continue
			}

			logger.Debug("File event: %s %s", event.Op, event.Name)

			if event.Has(fsnotify.Create) {
				if stat, err := os.Stat(event.Name); err == nil && stat.IsDir() {
					if err := fw.addWatchersRecursively(event.Name); err != nil {
						logger.Warn("Failed to watch new directory %s: %v", event.Name, err)
					}
				}
			}

			fw.schedule(event.Name)

		case err, ok := <-fw.Watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			logger.Error("Watcher error: %v", err)
		}
	}
}

// schedule queues path and restarts the debounce timer.
func (fw *FileWatcher) schedule(path string) {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()

	fw.pending[path] = struct{}{}
	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
	}
	fw.debounceTimer = time.AfterFunc(fw.Debounce, fw.flush)
}

func (fw *FileWatcher) flush() {
	fw.mutex.Lock()
	changed := make([]string, 0, len(fw.pending))
	for path := range fw.pending {
		changed = append(changed, path)
	}
	fw.pending = make(map[string]struct{})
	fw.mutex.Unlock()

	if len(changed) == 0 {
		return
	}
	sort.Strings(changed)

	logger.Debug("File changes detected, rebundling...")
	if err := fw.OnChange(changed); err != nil {
		logger.Error("Watcher.OnChange failed: %v", err)
	}
}

func (fw *FileWatcher) Close() error {
	fw.mutex.Lock()
	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
	}
	fw.mutex.Unlock()

	if err := fw.OnClose(); err != nil {
		logger.Error("Watcher.OnClose failed: %v", err)
	}

	return fw.Watcher.Close()
}

func (fw *FileWatcher) shouldExcludePath(path string) bool {
	relPath, err := filepath.Rel(fw.RootDir, path)
	if err == nil {
		for _, part := range strings.Split(filepath.ToSlash(relPath), "/") {
			if part == ".git" {
				return true
			}
		}
	}
	if ignore.IsVendored(fw.RootDir, path) {
		return true
	}
	return fw.Exclude != nil && fw.Exclude(path)
}

func (fw *FileWatcher) addWatchersRecursively(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		if path != fw.RootDir && fw.shouldExcludePath(path) {
			logger.Debug("Excluding directory: %s", path)
			return filepath.SkipDir
		}

		logger.Debug("Adding watcher for: %s", path)
		if err := fw.Watcher.Add(path); err != nil {
			return fmt.Errorf("failed to add watcher for %s: %w", path, err)
		}

		return nil
	})
}
