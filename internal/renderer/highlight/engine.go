package highlight

import (
	"fmt"
	"strings"

	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/renderer/highlight/textmate"
)

// Kind identifies the backend behind an Engine.
type Kind int

// Backend kinds.
const (
	KindNone Kind = iota
	KindTreeSitter
	KindTextMate
)

// String returns the backend name shown to users.
func (k Kind) String() string {
	switch k {
	case KindTreeSitter:
		return "tree-sitter"
	case KindTextMate:
		return "textmate"
	default:
		return "none"
	}
}

// Preference selects which backend ForFileWithPreference tries first.
type Preference int

// Backend preferences.
const (
	PreferAuto Preference = iota
	PreferTextMate
	PreferTreeSitter
)

// ParsePreference parses "auto", "textmate" or "tree-sitter".
func ParsePreference(s string) (Preference, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return PreferAuto, nil
	case "textmate":
		return PreferTextMate, nil
	case "tree-sitter", "treesitter":
		return PreferTreeSitter, nil
	}
	return PreferAuto, fmt.Errorf("highlight: unknown backend preference %q", s)
}

func (p Preference) String() string {
	switch p {
	case PreferTextMate:
		return "textmate"
	case PreferTreeSitter:
		return "tree-sitter"
	default:
		return "auto"
	}
}

// Engine is the highlighter for one open document: exactly one of the
// backends, fixed at construction.
type Engine struct {
	kind Kind
	ts   *TreeSitterBackend
	tm   *TextMateBackend
	lang *Language
}

// NewNone returns an engine that never highlights. lang may be nil.
func NewNone(lang *Language) *Engine {
	return &Engine{kind: KindNone, lang: lang}
}

// NewTextMate returns an engine backed by a TextMate grammar.
func NewTextMate(b *TextMateBackend) *Engine {
	return &Engine{kind: KindTextMate, tm: b, lang: b.Language()}
}

// NewTreeSitter returns an engine backed by tree-sitter.
func NewTreeSitter(b *TreeSitterBackend) *Engine {
	return &Engine{kind: KindTreeSitter, ts: b, lang: b.Language()}
}

// ForFile picks a backend for path with PreferAuto.
func ForFile(path string, reg *textmate.Registry) *Engine {
	return ForFileWithPreference(path, reg, PreferAuto)
}

// ForFileWithPreference picks a backend for path. Auto and TextMate use the
// registry's grammar for the path and fall back to tree-sitter, then to no
// highlighting. TreeSitter uses tree-sitter or nothing. The language is
// detected from the path in every case.
func ForFileWithPreference(path string, reg *textmate.Registry, pref Preference) *Engine {
	lang := DetectLanguage(path)
	if pref != PreferTreeSitter && reg != nil {
		if g, ok := reg.ForPath(path); ok {
			return NewTextMate(NewTextMateBackend(g, lang))
		}
	}
	if b, err := NewTreeSitterBackend(lang); err == nil {
		return NewTreeSitter(b)
	}
	return NewNone(lang)
}

// Kind returns the active backend kind.
func (e *Engine) Kind() Kind { return e.kind }

// HighlightViewport returns the spans overlapping [start, end), parsing
// contextBytes on each side on a cache miss.
func (e *Engine) HighlightViewport(src Source, start, end, contextBytes int) []Span {
	switch e.kind {
	case KindTreeSitter:
		return e.ts.HighlightViewport(src, start, end, contextBytes)
	case KindTextMate:
		return e.tm.HighlightViewport(src, start, end, contextBytes)
	default:
		return nil
	}
}

// InvalidateRange drops cached spans if r overlaps the parsed region.
func (e *Engine) InvalidateRange(r buffer.Range) {
	switch e.kind {
	case KindTreeSitter:
		e.ts.InvalidateRange(r)
	case KindTextMate:
		e.tm.InvalidateRange(r)
	}
}

// InvalidateAll drops cached spans.
func (e *Engine) InvalidateAll() {
	switch e.kind {
	case KindTreeSitter:
		e.ts.InvalidateAll()
	case KindTextMate:
		e.tm.InvalidateAll()
	}
}

// HasHighlighting reports whether a real backend is active.
func (e *Engine) HasHighlighting() bool {
	return e.kind != KindNone
}

// BackendName returns "tree-sitter", "textmate" or "none".
func (e *Engine) BackendName() string {
	return e.kind.String()
}

// SyntaxName returns the grammar name for TextMate and the language name for
// tree-sitter.
func (e *Engine) SyntaxName() (string, bool) {
	switch e.kind {
	case KindTextMate:
		return e.tm.Grammar().Name, true
	case KindTreeSitter:
		return e.lang.String(), true
	default:
		return "", false
	}
}

// Language returns the detected language, possibly nil.
func (e *Engine) Language() *Language {
	return e.lang
}

// Stats reports how many parses the active backend has run.
func (e *Engine) Stats() Stats {
	switch e.kind {
	case KindTreeSitter:
		return Stats{Parses: e.ts.cache.parses, Cached: e.ts.cache.entry != nil}
	case KindTextMate:
		return Stats{Parses: e.tm.cache.parses, Cached: e.tm.cache.entry != nil, SkippedLines: e.tm.skipped}
	default:
		return Stats{}
	}
}

// Stats holds highlight cache counters.
type Stats struct {
	Parses       int
	Cached       bool
	SkippedLines int
}
