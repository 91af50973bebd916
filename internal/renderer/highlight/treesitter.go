package highlight

import (
	"errors"
	"fmt"

	"github.com/odvcencio/gotreesitter"

	"github.com/dshills/quill/internal/engine/buffer"
)

// ErrNoTreeSitter is returned when a language has no usable tree-sitter
// highlighter.
var ErrNoTreeSitter = errors.New("highlight: no tree-sitter highlighter for language")

// TreeSitterBackend highlights with a tree-sitter highlight query.
type TreeSitterBackend struct {
	lang  *Language
	h     *gotreesitter.Highlighter
	cache viewportCache
}

// NewTreeSitterBackend builds a backend for lang.
func NewTreeSitterBackend(lang *Language) (*TreeSitterBackend, error) {
	if !lang.CanHighlight() {
		return nil, fmt.Errorf("%w: %s", ErrNoTreeSitter, lang)
	}
	h, err := lang.newHighlighter()
	if err != nil {
		return nil, fmt.Errorf("highlight: tree-sitter %s: %w", lang, err)
	}
	return &TreeSitterBackend{lang: lang, h: h}, nil
}

// HighlightViewport returns spans overlapping [start, end).
func (b *TreeSitterBackend) HighlightViewport(src Source, start, end, contextBytes int) []Span {
	return b.cache.highlight(src, start, end, contextBytes, b.parse)
}

func (b *TreeSitterBackend) parse(content []byte, base int) (spans []Span, err error) {
	defer func() {
		if r := recover(); r != nil {
			spans, err = nil, fmt.Errorf("highlight: tree-sitter %s: %v", b.lang, r)
		}
	}()
	ranges, _ := b.h.HighlightIncremental(content, nil)
	raw := make([]Span, 0, len(ranges))
	for _, r := range ranges {
		cat, ok := CategoryForCapture(r.Capture)
		if !ok {
			continue
		}
		raw = append(raw, Span{
			Range:    buffer.NewRange(base+int(r.StartByte), base+int(r.EndByte)),
			Category: cat,
		})
	}
	return Flatten(base, len(content), raw), nil
}

// InvalidateRange drops the cached parse if r overlaps it.
func (b *TreeSitterBackend) InvalidateRange(r buffer.Range) { b.cache.invalidateRange(r) }

// InvalidateAll drops the cached parse.
func (b *TreeSitterBackend) InvalidateAll() { b.cache.invalidateAll() }

// Language returns the backend's language.
func (b *TreeSitterBackend) Language() *Language { return b.lang }
