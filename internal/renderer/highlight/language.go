package highlight

import (
	"path/filepath"
	"strings"

	"github.com/odvcencio/gotreesitter"
	"github.com/odvcencio/gotreesitter/grammars"
)

// Language is a tree-sitter language detected from a file path. It is
// reported for every backend so features other than coloring can use it.
type Language struct {
	Name string

	ts             *gotreesitter.Language
	newHighlighter func() (*gotreesitter.Highlighter, error)
}

// DetectLanguage identifies the language of path, or returns nil.
func DetectLanguage(path string) *Language {
	entry := grammars.DetectLanguage(filepath.Base(path))
	if entry == nil {
		return nil
	}
	lang := entry.Language()
	l := &Language{Name: strings.ToLower(entry.Name), ts: lang}
	if lang == nil {
		return l
	}
	if grammars.EvaluateParseSupport(*entry, lang).Backend == grammars.ParseBackendUnsupported {
		return l
	}

	var opts []gotreesitter.HighlighterOption
	if entry.TokenSourceFactory != nil {
		factory := entry.TokenSourceFactory
		opts = append(opts, gotreesitter.WithTokenSourceFactory(func(src []byte) gotreesitter.TokenSource {
			return factory(src, lang)
		}))
	}
	query := entry.HighlightQuery
	l.newHighlighter = func() (*gotreesitter.Highlighter, error) {
		return gotreesitter.NewHighlighter(lang, query, opts...)
	}
	return l
}

// CanHighlight reports whether a tree-sitter highlighter can be built.
func (l *Language) CanHighlight() bool {
	return l != nil && l.newHighlighter != nil
}

// TreeSitter returns the underlying tree-sitter language, if loaded.
func (l *Language) TreeSitter() *gotreesitter.Language {
	if l == nil {
		return nil
	}
	return l.ts
}

func (l *Language) String() string {
	if l == nil {
		return ""
	}
	return l.Name
}
