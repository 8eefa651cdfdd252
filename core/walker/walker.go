package walker

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/tristendillon/pcc/core/ignore"
	"github.com/tristendillon/pcc/core/logger"
)

// Walker expands directory targets into the files they contain.
type Walker interface {
	Walk(root string) ([]string, error)
}

type FileWalker struct {
	Matcher *ignore.Matcher
	Exclude []string
}

func getExcludeDirs() []string {
	return append([]string{".git"}, ignore.VendoredDirs...)
}

func NewFileWalker(matcher *ignore.Matcher) *FileWalker {
	return &FileWalker{
		Matcher: matcher,
		Exclude: getExcludeDirs(),
	}
}

// Walk returns every regular file under root in lexical order, leaving out
// excluded directories and anything matched by the walker's matcher or by a
// .gitignore at root.
func (w *FileWalker) Walk(root string) ([]string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	gitignored := ignore.FromGitignore(root)

	var discovered []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		if d.IsDir() {
			for _, ex := range w.Exclude {
				if d.Name() == ex {
					return filepath.SkipDir
				}
			}
			if gitignored.Excluded(path) || w.Matcher.Excluded(path) {
				logger.Debug("Skipping ignored directory %s", path)
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if gitignored.Excluded(path) || w.Matcher.Excluded(path) {
			return nil
		}

		discovered = append(discovered, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(discovered)
	logger.Debug("Discovered %d files under %s", len(discovered), root)
	return discovered, nil
}
