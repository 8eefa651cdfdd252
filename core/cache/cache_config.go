package cache

// CacheConfig bounds the import cache. MaxEntries counts files, not bytes.
type CacheConfig struct {
	MaxEntries    int  `json:"max_entries"`
	EnableMetrics bool `json:"enable_metrics"`
}

func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		MaxEntries:    4096,
		EnableMetrics: true,
	}
}

// CacheMetrics is a snapshot; Evictions counts entries pushed out by the LRU
// bound, Invalidations those dropped for changed content or on request.
type CacheMetrics struct {
	Hits          int64   `json:"hits"`
	Misses        int64   `json:"misses"`
	Invalidations int64   `json:"invalidations"`
	Evictions     int64   `json:"evictions"`
	TotalEntries  int     `json:"total_entries"`
	HitRate       float64 `json:"hit_rate"`
}

func hitRate(hits, misses int64) float64 {
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses) * 100
}
