package resolver

import "path/filepath"

// SourceRootName is the conventional directory name root-relative specifiers
// are resolved under.
const SourceRootName = "src"

// FindProjectRoot walks upward from startDir looking for a directory named
// convention and returns that directory's parent. It only inspects path
// segments and never touches the filesystem.
func FindProjectRoot(startDir, convention string) (string, bool) {
	dir := filepath.Clean(startDir)
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		if filepath.Base(dir) == convention {
			return parent, true
		}
		dir = parent
	}
}
