package suggest

import (
	"math"
	"sync"

	"github.com/charmbracelet/log"
)

// ResultCache keeps ranked results for recent (context, prefix) queries.
// Eviction is least-recently-used, tracked with a monotonic access counter.
// A trained model never changes, so cached slices stay valid until Reset.
type ResultCache struct {
	entries     map[string][]Suggestion
	accessTime  map[string]int64
	accessCount int64
	hits        int64
	maxEntries  int
	mu          sync.Mutex
}

// NewResultCache creates a cache holding at most maxEntries results.
// A cache with maxEntries <= 0 stores nothing.
func NewResultCache(maxEntries int) *ResultCache {
	if maxEntries < 0 {
		maxEntries = 0
	}
	return &ResultCache{
		entries:    make(map[string][]Suggestion, maxEntries),
		accessTime: make(map[string]int64, maxEntries),
		maxEntries: maxEntries,
	}
}

func cacheKey(context, prefix string) string {
	return context + "\x00" + prefix
}

// Get returns a copy of the cached result for the query.
func (rc *ResultCache) Get(context, prefix string) ([]Suggestion, bool) {
	if rc == nil || rc.maxEntries == 0 {
		return nil, false
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()

	key := cacheKey(context, prefix)
	res, ok := rc.entries[key]
	if !ok {
		return nil, false
	}
	rc.hits++
	rc.markAccessed(key)
	out := make([]Suggestion, len(res))
	copy(out, res)
	return out, true
}

// Put stores a copy of res for the query.
func (rc *ResultCache) Put(context, prefix string, res []Suggestion) {
	if rc == nil || rc.maxEntries == 0 {
		return
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()

	key := cacheKey(context, prefix)
	if _, ok := rc.entries[key]; !ok && len(rc.entries) >= rc.maxEntries {
		rc.evictLRU()
	}
	stored := make([]Suggestion, len(res))
	copy(stored, res)
	rc.entries[key] = stored
	rc.markAccessed(key)
}

// Reset drops every entry and the hit counter.
func (rc *ResultCache) Reset() {
	if rc == nil {
		return
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.entries = make(map[string][]Suggestion, rc.maxEntries)
	rc.accessTime = make(map[string]int64, rc.maxEntries)
	rc.accessCount = 0
	rc.hits = 0
}

// Stats reports the number of cached entries and hits.
func (rc *ResultCache) Stats() map[string]int {
	if rc == nil {
		return map[string]int{"cacheEntries": 0, "cacheHits": 0}
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()

	return map[string]int{
		"cacheEntries": len(rc.entries),
		"cacheHits":    int(rc.hits),
	}
}

func (rc *ResultCache) markAccessed(key string) {
	rc.accessCount++
	rc.accessTime[key] = rc.accessCount
}

func (rc *ResultCache) evictLRU() {
	var oldestKey string
	var oldestTime int64 = math.MaxInt64

	for key, t := range rc.accessTime {
		if t < oldestTime {
			oldestTime = t
			oldestKey = key
		}
	}

	if oldestTime != math.MaxInt64 {
		delete(rc.entries, oldestKey)
		delete(rc.accessTime, oldestKey)
		log.Debugf("Evicted query %q from result cache", oldestKey)
	}
}
