package renderer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/quill/internal/editor"
	"github.com/dshills/quill/internal/engine"
	"github.com/dshills/quill/internal/input"
	"github.com/dshills/quill/internal/renderer/backend"
	"github.com/dshills/quill/internal/renderer/gutter"
)

func setup(t *testing.T, content string, width, height int, opts editor.Options) (*editor.Session, *backend.MemoryBackend, *Renderer) {
	t.Helper()
	opts.Width, opts.Height = width, height
	s, err := editor.New(engine.New(engine.WithContent(content)), opts)
	require.NoError(t, err)
	b := backend.NewMemoryBackend(width, height)
	return s, b, New(b, DefaultOptions())
}

func press(s *editor.Session, specs ...string) {
	for _, spec := range specs {
		s.HandleEvent(input.MustParse(spec))
	}
}

func TestRenderWrappedRowsAndGutter(t *testing.T) {
	s, b, r := setup(t, "abcdefghij\nx", 10, 6, editor.Options{Wrap: true})

	r.Render(s)

	assert.Equal(t, " 1 abcdef█", b.Row(0))
	assert.Equal(t, "   ghij  █", b.Row(1))
	assert.Equal(t, " 2 x     █", b.Row(2))
	assert.Equal(t, " ~       █", b.Row(3))
	assert.Equal(t, 1, b.Shows())
	assert.Equal(t, uint64(1), r.FrameCount())

	x, y, visible := b.CursorPosition()
	assert.True(t, visible)
	assert.Equal(t, 3, x)
	assert.Equal(t, 0, y)
}

func TestRenderWithoutWrapClipsLines(t *testing.T) {
	s, b, r := setup(t, "abcdefghij", 10, 4, editor.Options{})

	r.Render(s)
	assert.Equal(t, " 1 abcdef█", b.Row(0))

	press(s, "End")
	r.Render(s)
	row := b.Row(0)
	assert.True(t, strings.HasPrefix(row, " 1 "), row)
	assert.Contains(t, row, "j")
	assert.NotContains(t, row, "a")
}

func TestRenderTabs(t *testing.T) {
	s, b, r := setup(t, "\tx", 20, 4, editor.Options{Wrap: true, TabWidth: 4})

	r.Render(s)
	assert.True(t, strings.HasPrefix(b.Row(0), " 1     x"), b.Row(0))
}

func TestRenderWideCharacters(t *testing.T) {
	s, b, r := setup(t, "日本", 20, 4, editor.Options{Wrap: true})

	press(s, "End")
	r.Render(s)
	assert.True(t, strings.HasPrefix(b.Row(0), " 1 日本"), b.Row(0))
	x, _, _ := b.CursorPosition()
	assert.Equal(t, 3+4, x)
}

func TestRenderScrollbarThumb(t *testing.T) {
	var lines []string
	for i := range 30 {
		lines = append(lines, fmt.Sprintf("l%d", i))
	}
	s, b, r := setup(t, strings.Join(lines, "\n"), 20, 10, editor.Options{Wrap: true})

	r.Render(s)
	x := s.GutterWidth() + s.Viewport().Width()
	require.Equal(t, 19, x)
	assert.Equal(t, ThumbGlyph, b.GetCell(x, 0).Text)
	assert.Equal(t, ThumbGlyph, b.GetCell(x, 1).Text)
	assert.Equal(t, TrackGlyph, b.GetCell(x, 2).Text)

	press(s, "Ctrl+End")
	r.Render(s)
	assert.Equal(t, TrackGlyph, b.GetCell(x, 0).Text)
	assert.Equal(t, ThumbGlyph, b.GetCell(x, 7).Text)
	assert.True(t, strings.HasPrefix(b.Row(7), "30 l29"), b.Row(7))
}

func TestRenderSelection(t *testing.T) {
	s, b, r := setup(t, "abc\nde", 20, 6, editor.Options{Wrap: true})
	theme := r.Theme()

	press(s, "Shift+Right")
	r.Render(s)
	assert.Equal(t, theme.Default.Background(theme.Selection), b.GetCell(3, 0).Style)
	assert.Equal(t, theme.Default, b.GetCell(4, 0).Style)

	press(s, "Ctrl+A")
	r.Render(s)
	assert.Equal(t, theme.Default.Background(theme.Selection), b.GetCell(4, 1).Style)
}

func TestRenderSecondaryCursors(t *testing.T) {
	s, b, r := setup(t, "ab\nab\n", 20, 6, editor.Options{Wrap: true})
	theme := r.Theme()

	press(s, "Alt+Down", "Alt+Down")
	r.Render(s)

	assert.Equal(t, theme.Default.Reverse(true), b.GetCell(3, 0).Style)
	assert.Equal(t, theme.Default.Reverse(true), b.GetCell(3, 1).Style)
	assert.Equal(t, theme.Default, b.GetCell(3, 2).Style, "the primary cursor is the terminal cursor")
	assert.Contains(t, b.Row(4), "3 cursors")

	x, y, visible := b.CursorPosition()
	assert.True(t, visible)
	assert.Equal(t, 3, x)
	assert.Equal(t, 2, y)
}

func TestRenderSecondaryCursorAtLineEnd(t *testing.T) {
	s, b, r := setup(t, "ab\nab", 20, 6, editor.Options{Wrap: true})
	theme := r.Theme()

	press(s, "End", "Alt+Down")
	r.Render(s)
	assert.Equal(t, theme.Default.Reverse(true), b.GetCell(5, 0).Style)
}

func TestRenderStatusAndPrompt(t *testing.T) {
	s, b, r := setup(t, "hello", 50, 6, editor.Options{Path: "greeting.txt", Wrap: true})

	press(s, "End")
	s.HandleEvent(input.RuneEvent('!', input.ModNone))
	r.Render(s)

	assert.True(t, strings.HasPrefix(b.Row(4), " greeting.txt [+]"), b.Row(4))
	assert.Contains(t, b.Row(4), "Ln 1, Col 7")
	assert.NotContains(t, b.Row(4), "cursors")

	press(s, "Ctrl+F")
	s.HandleEvent(input.RuneEvent('h', input.ModNone))
	r.Render(s)
	assert.Equal(t, "Search: h", b.Row(5))
	x, y, _ := b.CursorPosition()
	assert.Equal(t, len("Search: h"), x)
	assert.Equal(t, 5, y)
}

func TestRenderRelativeLineNumbers(t *testing.T) {
	s, b, r := setup(t, "a\nb\nc", 20, 6, editor.Options{Wrap: true, LineNumbers: gutter.LineNumberRelative})

	press(s, "Down")
	r.Render(s)
	assert.True(t, strings.HasPrefix(b.Row(0), " 1 a"), b.Row(0))
	assert.True(t, strings.HasPrefix(b.Row(1), " 0 b"), b.Row(1))
	assert.True(t, strings.HasPrefix(b.Row(2), " 1 c"), b.Row(2))
}

func TestRenderHidesCursorOffScreen(t *testing.T) {
	var lines []string
	for i := range 30 {
		lines = append(lines, fmt.Sprintf("l%d", i))
	}
	s, b, r := setup(t, strings.Join(lines, "\n"), 20, 10, editor.Options{Wrap: true})

	s.HandleEvent(input.MouseEvent(input.WheelDown, 4, 4, input.ModNone))
	r.Render(s)
	_, _, visible := b.CursorPosition()
	assert.False(t, visible)
	assert.True(t, strings.HasPrefix(b.Row(0), " 4 l3"), b.Row(0))
}

func TestSetTheme(t *testing.T) {
	_, _, r := setup(t, "", 20, 4, editor.Options{})
	before := r.Theme()

	r.SetTheme(nil)
	assert.Same(t, before, r.Theme())
}

func TestRenderSearchMatches(t *testing.T) {
	s, b, r := setup(t, "test one\nother\ntest two\n", 30, 8, editor.Options{Wrap: true})
	theme := r.Theme()
	marked := theme.Default.Background(theme.Search)

	press(s, "Ctrl+F")
	for _, ch := range "test" {
		s.HandleEvent(input.RuneEvent(ch, input.ModNone))
	}
	r.Render(s)
	for x := 3; x < 7; x++ {
		assert.Equal(t, marked, b.GetCell(x, 0).Style, "row 0 col %d", x)
		assert.Equal(t, marked, b.GetCell(x, 2).Style, "row 2 col %d", x)
	}
	assert.Equal(t, theme.Default, b.GetCell(7, 0).Style)
	assert.Equal(t, theme.Default, b.GetCell(3, 1).Style)

	press(s, "Enter")
	r.Render(s)
	assert.Equal(t, theme.Default.Background(theme.Selection), b.GetCell(3, 0).Style, "selection draws over the match")
	assert.Equal(t, marked, b.GetCell(3, 2).Style, "matches stay marked after the jump")

	press(s, "Esc")
	r.Render(s)
	assert.Equal(t, theme.Default, b.GetCell(3, 2).Style)
}
