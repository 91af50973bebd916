package layout

import "testing"

func TestLineCacheHitsByContent(t *testing.T) {
	cache := NewLineCache(NewEngine(10, 4, true), 100)

	first := cache.Get("hello")
	second := cache.Get("hello")
	if first != second {
		t.Error("identical content should share a layout")
	}
	stats := cache.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("hits=%d misses=%d, want 1/1", stats.Hits, stats.Misses)
	}
	if stats.HitRate != 0.5 {
		t.Errorf("hit rate = %v, want 0.5", stats.HitRate)
	}
}

func TestLineCacheEvictsLeastRecentlyUsed(t *testing.T) {
	cache := NewLineCache(NewEngine(10, 4, true), 2)

	cache.Get("a")
	cache.Get("b")
	cache.Get("a")
	cache.Get("c")

	if cache.Size() != 2 {
		t.Fatalf("size = %d, want 2", cache.Size())
	}
	if cache.Stats().Evictions != 1 {
		t.Errorf("evictions = %d, want 1", cache.Stats().Evictions)
	}
	misses := cache.Stats().Misses
	cache.Get("a")
	if cache.Stats().Misses != misses {
		t.Error("recently used entry should have survived eviction")
	}
	cache.Get("b")
	if cache.Stats().Misses != misses+1 {
		t.Error("least recently used entry should have been evicted")
	}
}

func TestLineCacheSetEngineDropsEntries(t *testing.T) {
	cache := NewLineCache(NewEngine(10, 4, true), 0)
	cache.Get("hello world")

	cache.SetEngine(NewEngine(5, 4, true))
	if cache.Size() != 0 {
		t.Fatalf("expected empty cache, got %d", cache.Size())
	}
	if got := cache.Get("hello world").RowCount(); got != 3 {
		t.Errorf("row count after width change = %d, want 3", got)
	}
}
