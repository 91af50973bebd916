package highlight

import (
	"sort"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gdamore/tcell/v2"
)

// DefaultThemeName is used when no theme is configured.
const DefaultThemeName = "monokai"

// Theme resolves categories to terminal styles.
type Theme struct {
	Name       string
	Default    tcell.Style
	Selection  tcell.Color
	Search     tcell.Color
	LineNumber tcell.Style
	Status     tcell.Style

	styles map[Category]tcell.Style
}

// categoryTokens maps each category to the chroma token type whose style
// colors it.
var categoryTokens = map[Category]chroma.TokenType{
	CategoryComment:     chroma.Comment,
	CategoryString:      chroma.LiteralString,
	CategoryEscape:      chroma.LiteralStringEscape,
	CategoryNumber:      chroma.LiteralNumber,
	CategoryConstant:    chroma.KeywordConstant,
	CategoryKeyword:     chroma.Keyword,
	CategoryOperator:    chroma.Operator,
	CategoryFunction:    chroma.NameFunction,
	CategoryType:        chroma.KeywordType,
	CategoryVariable:    chroma.NameVariable,
	CategoryProperty:    chroma.NameAttribute,
	CategoryPunctuation: chroma.Punctuation,
	CategoryTag:         chroma.NameTag,
	CategoryAttribute:   chroma.NameAttribute,
}

// NewTheme builds a theme from a chroma style. Unknown names use chroma's
// fallback style.
func NewTheme(name string) *Theme {
	sty := styles.Get(name)

	bgEntry := sty.Get(chroma.Background)
	base := tcell.StyleDefault.
		Foreground(chromaToTcell(bgEntry.Colour)).
		Background(chromaToTcell(bgEntry.Background))

	t := &Theme{
		Name:      sty.Name,
		Default:   base,
		Selection: tcell.ColorNavy,
		Search:    tcell.ColorOlive,
		styles:    make(map[Category]tcell.Style, len(categoryTokens)),
	}
	if hl := sty.Get(chroma.LineHighlight).Background; hl.IsSet() {
		t.Selection = chromaToTcell(hl)
	}
	if t.Search == t.Selection {
		t.Search = tcell.ColorTeal
	}
	t.LineNumber = base.Foreground(tcell.ColorGray)
	if ln := sty.Get(chroma.LineNumbers).Colour; ln.IsSet() {
		t.LineNumber = base.Foreground(chromaToTcell(ln))
	}
	t.Status = base.Reverse(true)

	for cat, tokenType := range categoryTokens {
		entry := sty.Get(tokenType)
		s := base
		if entry.Colour.IsSet() {
			s = s.Foreground(chromaToTcell(entry.Colour))
		}
		if entry.Bold == chroma.Yes {
			s = s.Bold(true)
		}
		if entry.Italic == chroma.Yes {
			s = s.Italic(true)
		}
		if entry.Underline == chroma.Yes {
			s = s.Underline(true)
		}
		t.styles[cat] = s
	}
	return t
}

// Style returns the style for a category, or the default text style.
func (t *Theme) Style(c Category) tcell.Style {
	if s, ok := t.styles[c]; ok {
		return s
	}
	return t.Default
}

// Names returns the available theme names.
func Names() []string {
	names := styles.Names()
	sort.Strings(names)
	return names
}

func chromaToTcell(c chroma.Colour) tcell.Color {
	if !c.IsSet() {
		return tcell.ColorDefault
	}
	return tcell.NewRGBColor(int32(c.Red()), int32(c.Green()), int32(c.Blue()))
}
