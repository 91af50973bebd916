package highlight

import (
	"bytes"

	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/renderer/highlight/textmate"
)

// TextMateBackend highlights with a TextMate grammar, one line at a time.
type TextMateBackend struct {
	grammar *textmate.Grammar
	lang    *Language
	cache   viewportCache
	skipped int
}

// NewTextMateBackend creates a backend for grammar. lang is the detected
// tree-sitter language and may be nil.
func NewTextMateBackend(grammar *textmate.Grammar, lang *Language) *TextMateBackend {
	return &TextMateBackend{grammar: grammar, lang: lang}
}

// HighlightViewport returns spans overlapping [start, end).
func (b *TextMateBackend) HighlightViewport(src Source, start, end, contextBytes int) []Span {
	return b.cache.highlight(src, start, end, contextBytes, b.parse)
}

// parse tokenizes content line by line. A line that fails to tokenize
// contributes no spans and leaves the scope stack as it was.
func (b *TextMateBackend) parse(content []byte, base int) ([]Span, error) {
	var spans []Span
	state := b.grammar.InitialState()
	offset := base
	for len(content) > 0 {
		n := bytes.IndexByte(content, '\n') + 1
		if n == 0 {
			n = len(content)
		}
		line := string(content[:n])
		content = content[n:]

		tokens, next, err := b.grammar.TokenizeLine(line, state)
		if err != nil {
			b.skipped++
			offset += n
			continue
		}
		state = next
		for _, t := range tokens {
			cat, ok := ScopeStackCategory(t.Scopes)
			if !ok {
				continue
			}
			spans = append(spans, Span{
				Range:    buffer.NewRange(offset+t.Start, offset+t.End),
				Category: cat,
			})
		}
		offset += n
	}
	return spans, nil
}

// InvalidateRange drops the cached parse if r overlaps it.
func (b *TextMateBackend) InvalidateRange(r buffer.Range) { b.cache.invalidateRange(r) }

// InvalidateAll drops the cached parse.
func (b *TextMateBackend) InvalidateAll() { b.cache.invalidateAll() }

// Grammar returns the grammar in use.
func (b *TextMateBackend) Grammar() *textmate.Grammar { return b.grammar }

// Language returns the detected tree-sitter language, possibly nil.
func (b *TextMateBackend) Language() *Language { return b.lang }

// SkippedLines counts lines that failed to tokenize since creation.
func (b *TextMateBackend) SkippedLines() int { return b.skipped }
