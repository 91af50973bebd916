package highlight

import (
	"unicode/utf8"

	"github.com/dshills/quill/internal/engine/buffer"
)

// MaxParseBytes caps a single parse region. Larger requests yield no spans.
const MaxParseBytes = 1024 * 1024

// DefaultContextBytes is the extra text parsed on each side of the viewport
// so constructs opened above it resolve correctly.
const DefaultContextBytes = 10 * 1024

// Source is the text a highlighter reads.
type Source interface {
	Len() int
	SliceBytes(r buffer.Range) []byte
}

// CacheEntry is the result of one parse: the spans of ParsedRange, valid
// while the buffer length stays BufferLen and no edit touches ParsedRange.
type CacheEntry struct {
	ParsedRange buffer.Range
	Spans       []Span
	BufferLen   int
}

// covers reports whether the entry can serve [start, end) of a buffer of
// length bufLen.
func (e *CacheEntry) covers(start, end, bufLen int) bool {
	return e.ParsedRange.Start <= start && e.ParsedRange.End >= end && e.BufferLen == bufLen
}

// parseFunc turns a UTF-8 region starting at base into absolute spans.
type parseFunc func(content []byte, base int) ([]Span, error)

// viewportCache holds at most one parsed region.
type viewportCache struct {
	entry  *CacheEntry
	parses int
}

func (c *viewportCache) highlight(src Source, start, end, contextBytes int, parse parseFunc) []Span {
	n := src.Len()
	start = buffer.ClampOffset(start, n)
	end = buffer.ClampOffset(end, n)
	if end < start {
		start, end = end, start
	}
	if e := c.entry; e != nil && e.covers(start, end, n) {
		return intersecting(e.Spans, start, end)
	}

	parseStart := max(start-max(contextBytes, 0), 0)
	parseEnd := min(end+max(contextBytes, 0), n)
	if parseEnd-parseStart > MaxParseBytes {
		return nil
	}
	content := src.SliceBytes(buffer.NewRange(parseStart, parseEnd))
	if !utf8.Valid(content) {
		return nil
	}

	c.parses++
	spans, err := parse(content, parseStart)
	if err != nil {
		return nil
	}
	spans = MergeAdjacent(spans)
	c.entry = &CacheEntry{
		ParsedRange: buffer.NewRange(parseStart, parseEnd),
		Spans:       spans,
		BufferLen:   n,
	}
	return intersecting(spans, start, end)
}

func (c *viewportCache) invalidateRange(r buffer.Range) {
	if e := c.entry; e != nil && e.ParsedRange.Start < r.End && e.ParsedRange.End > r.Start {
		c.entry = nil
	}
}

func (c *viewportCache) invalidateAll() {
	c.entry = nil
}
