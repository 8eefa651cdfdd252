package cache

import (
	"crypto/md5"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tristendillon/pcc/core/logger"
)

// ExtractFunc produces the import specifiers of one file.
type ExtractFunc func(path string, content []byte) []string

type importEntry struct {
	contentHash string
	imports     []string
}

// ImportCache memoizes extracted specifiers per file. An entry is only reused
// while the file's content hash is unchanged, so stale entries are harmless
// even without invalidation.
type ImportCache struct {
	entries *lru.Cache[string, *importEntry]
	extract ExtractFunc
	config  *CacheConfig
	metrics CacheMetrics
	mutex   sync.Mutex
}

func NewImportCache(config *CacheConfig, extract ExtractFunc) (*ImportCache, error) {
	if config == nil {
		config = DefaultCacheConfig()
	}
	if extract == nil {
		return nil, fmt.Errorf("import cache requires an extract function")
	}
	ic := &ImportCache{
		extract: extract,
		config:  config,
	}
	entries, err := lru.New[string, *importEntry](config.MaxEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create import cache: %w", err)
	}
	ic.entries = entries

	logger.Debug("Created import cache with MaxEntries=%d", config.MaxEntries)
	return ic, nil
}

// Imports returns the specifiers of path, extracting only on a miss.
func (ic *ImportCache) Imports(path string, content []byte) []string {
	hash := contentHash(content)

	if entry, ok := ic.entries.Get(path); ok {
		if entry.contentHash == hash {
			ic.record(func(m *CacheMetrics) { m.Hits++ })
			logger.Debug("ImportCache: Hit for %s", path)
			return cloneStrings(entry.imports)
		}
		logger.Debug("ImportCache: Content changed for %s (hash: %s -> %s)", path, entry.contentHash[:8], hash[:8])
		ic.record(func(m *CacheMetrics) { m.Invalidations++ })
	}

	ic.record(func(m *CacheMetrics) { m.Misses++ })
	imports := ic.extract(path, content)
	if ic.entries.Add(path, &importEntry{contentHash: hash, imports: cloneStrings(imports)}) {
		ic.record(func(m *CacheMetrics) { m.Evictions++ })
	}
	return imports
}

// Invalidate drops the entry for path, e.g. after a file system event.
func (ic *ImportCache) Invalidate(path string) {
	if ic.entries.Remove(path) {
		ic.record(func(m *CacheMetrics) { m.Invalidations++ })
		logger.Debug("ImportCache: Invalidated %s", path)
	}
}

func (ic *ImportCache) Clear() {
	count := ic.entries.Len()
	ic.entries.Purge()
	ic.record(func(m *CacheMetrics) { m.Invalidations += int64(count) })
	logger.Debug("ImportCache: Cleared %d entries", count)
}

func (ic *ImportCache) GetMetrics() *CacheMetrics {
	ic.mutex.Lock()
	metrics := ic.metrics
	ic.mutex.Unlock()

	metrics.TotalEntries = ic.entries.Len()
	metrics.HitRate = hitRate(metrics.Hits, metrics.Misses)
	return &metrics
}

func (ic *ImportCache) LogStats() {
	m := ic.GetMetrics()
	logger.Debug("Import cache stats: Hits=%d, Misses=%d, Hit Rate=%.1f%%, Total Entries=%d, Invalidations=%d, Evictions=%d",
		m.Hits, m.Misses, m.HitRate, m.TotalEntries, m.Invalidations, m.Evictions)
}

func (ic *ImportCache) record(update func(m *CacheMetrics)) {
	if !ic.config.EnableMetrics {
		return
	}
	ic.mutex.Lock()
	defer ic.mutex.Unlock()
	update(&ic.metrics)
}

func contentHash(content []byte) string {
	return fmt.Sprintf("%x", md5.Sum(content))
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
