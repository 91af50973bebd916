package layout

import (
	"hash/fnv"
	"sort"
)

// DefaultCacheSize bounds the number of distinct line layouts kept.
const DefaultCacheSize = 4096

// LineCache caches line layouts by content hash with LRU eviction.
// Identical lines share one layout regardless of where they sit.
type LineCache struct {
	entries   map[uint64]*cacheEntry
	engine    *Engine
	maxSize   int
	tick      uint64
	hits      uint64
	misses    uint64
	evictions uint64
}

type cacheEntry struct {
	layout     *LineLayout
	text       string
	lastAccess uint64
}

// NewLineCache creates a cache over engine. maxSize <= 0 means unbounded.
func NewLineCache(engine *Engine, maxSize int) *LineCache {
	if maxSize < 0 {
		maxSize = 0
	}
	return &LineCache{
		entries: make(map[uint64]*cacheEntry),
		engine:  engine,
		maxSize: maxSize,
	}
}

// Get returns the layout for text, computing it on a miss.
func (c *LineCache) Get(text string) *LineLayout {
	c.tick++
	key := hashLine(text)
	if e, ok := c.entries[key]; ok && e.text == text {
		e.lastAccess = c.tick
		c.hits++
		return e.layout
	}
	c.misses++
	l := c.engine.Layout(text)
	c.entries[key] = &cacheEntry{layout: l, text: text, lastAccess: c.tick}
	c.evict()
	return l
}

// Engine returns the layout engine in use.
func (c *LineCache) Engine() *Engine {
	return c.engine
}

// SetEngine replaces the layout engine and drops every cached layout.
func (c *LineCache) SetEngine(engine *Engine) {
	c.engine = engine
	c.InvalidateAll()
}

// InvalidateAll drops every cached layout.
func (c *LineCache) InvalidateAll() {
	c.entries = make(map[uint64]*cacheEntry)
}

// Size returns the number of cached layouts.
func (c *LineCache) Size() int {
	return len(c.entries)
}

// Stats returns cache statistics.
func (c *LineCache) Stats() CacheStats {
	total := c.hits + c.misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}
	return CacheStats{
		Size:      len(c.entries),
		MaxSize:   c.maxSize,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		HitRate:   hitRate,
	}
}

func (c *LineCache) evict() {
	if c.maxSize <= 0 || len(c.entries) <= c.maxSize {
		return
	}
	type keyTick struct {
		key  uint64
		tick uint64
	}
	order := make([]keyTick, 0, len(c.entries))
	for k, e := range c.entries {
		order = append(order, keyTick{k, e.lastAccess})
	}
	sort.Slice(order, func(i, j int) bool { return order[i].tick < order[j].tick })
	n := len(order) - c.maxSize
	for i := 0; i < n; i++ {
		delete(c.entries, order[i].key)
	}
	c.evictions += uint64(n)
}

// CacheStats holds cache statistics.
type CacheStats struct {
	Size      int
	MaxSize   int
	Hits      uint64
	Misses    uint64
	Evictions uint64
	HitRate   float64
}

// hashLine computes an FNV-1a hash of line content.
func hashLine(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
