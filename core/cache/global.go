package cache

import (
	"sync"

	"github.com/tristendillon/pcc/core/ast"
	"github.com/tristendillon/pcc/core/logger"
)

var (
	globalImportCache *ImportCache
	cacheOnce         sync.Once
)

// GetImportCache returns the process-wide tree-sitter backed import cache.
// Watch mode relies on it so repeated bundles only re-parse changed files.
func GetImportCache() *ImportCache {
	cacheOnce.Do(func() {
		ic, err := NewImportCache(DefaultCacheConfig(), ast.ExtractImports)
		if err != nil {
			logger.Fatal("Failed to initialize import cache: %v", err)
		}
		globalImportCache = ic
		logger.Debug("Initialized global import cache")
	})
	return globalImportCache
}
