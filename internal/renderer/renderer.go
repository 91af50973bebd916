package renderer

import (
	"sort"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/quill/internal/editor"
	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/renderer/backend"
	"github.com/dshills/quill/internal/renderer/gutter"
	"github.com/dshills/quill/internal/renderer/highlight"
	"github.com/dshills/quill/internal/renderer/layout"
	"github.com/dshills/quill/internal/renderer/statusline"
)

// Scrollbar glyphs.
const (
	ThumbGlyph = "█"
	TrackGlyph = "│"
)

// Options configures the renderer.
type Options struct {
	CursorStyle backend.CursorStyle
	Theme       *highlight.Theme
}

// DefaultOptions returns a bar cursor and the default theme.
func DefaultOptions() Options {
	return Options{
		CursorStyle: backend.CursorBar,
		Theme:       highlight.NewTheme(highlight.DefaultThemeName),
	}
}

// Renderer draws whole frames of a session.
type Renderer struct {
	mu sync.Mutex

	backend backend.Backend
	opts    Options
	status  *statusline.StatusLine
	numbers *gutter.Formatter

	frameCount uint64
}

// New creates a renderer drawing on b.
func New(b backend.Backend, opts Options) *Renderer {
	if opts.Theme == nil {
		opts.Theme = highlight.NewTheme(highlight.DefaultThemeName)
	}
	b.SetCursorStyle(opts.CursorStyle)
	return &Renderer{
		backend: b,
		opts:    opts,
		status:  statusline.New(opts.Theme.Status, opts.Theme.Default),
		numbers: gutter.NewFormatter(gutter.LineNumberAbsolute, gutter.MinDigits),
	}
}

// Theme returns the active theme.
func (r *Renderer) Theme() *highlight.Theme {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opts.Theme
}

// SetTheme switches the color theme. It takes effect on the next frame.
func (r *Renderer) SetTheme(t *highlight.Theme) {
	if t == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opts.Theme = t
	r.status.SetStyles(t.Status, t.Default)
}

// FrameCount returns the number of frames rendered.
func (r *Renderer) FrameCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frameCount
}

// frame holds the per-frame lookups shared by every row.
type frame struct {
	theme      *highlight.Theme
	spans      []highlight.Span
	matches    []buffer.Range
	selections []buffer.Range
	carets     map[int]bool
}

// styleAt resolves the style of the cell showing the byte at off.
func (f *frame) styleAt(off int) tcell.Style {
	style := f.theme.Default
	if i := sort.Search(len(f.spans), func(i int) bool { return f.spans[i].Range.End > off }); i < len(f.spans) {
		if sp := f.spans[i]; sp.Range.Start <= off {
			style = f.theme.Style(sp.Category)
		}
	}
	if i := sort.Search(len(f.matches), func(i int) bool { return f.matches[i].End > off }); i < len(f.matches) {
		if f.matches[i].Start <= off {
			style = style.Background(f.theme.Search)
		}
	}
	if i := sort.Search(len(f.selections), func(i int) bool { return f.selections[i].End > off }); i < len(f.selections) {
		if f.selections[i].Start <= off {
			style = style.Background(f.theme.Selection)
		}
	}
	if f.carets[off] {
		style = style.Reverse(true)
	}
	return style
}

// Render draws a complete frame of s and shows it. Search matches on
// screen are painted with the theme's search color; selections draw over
// them.
func (r *Renderer) Render(s *editor.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	theme := r.opts.Theme
	width, height := s.Size()
	eng := s.Engine()
	buf := eng.Buffer()
	cursors := eng.Cursors()
	primary := cursors.Primary()

	f := &frame{
		theme:   theme,
		spans:   s.VisibleSpans(),
		matches: s.VisibleMatches(),
		carets:  make(map[int]bool),
	}
	for _, c := range cursors.All() {
		if c.HasSelection() {
			f.selections = append(f.selections, c.Range())
		}
		if c.ID != primary.ID {
			f.carets[c.Position] = true
		}
	}
	sort.Slice(f.selections, func(i, j int) bool { return f.selections[i].Start < f.selections[j].Start })

	r.backend.Clear(theme.Default)

	gw := s.GutterWidth()
	r.numbers.SetMode(s.LineNumbers())
	r.numbers.SetWidth(gw - 1)
	r.numbers.SetCurrentLine(buf.LineAt(primary.Position))

	rows := s.Viewport().VisibleRows()
	textHeight := s.TextHeight()
	for y := 0; y < textHeight; y++ {
		if y >= len(rows) {
			r.drawText(0, y, r.numbers.Filler(), theme.LineNumber)
			continue
		}
		v := rows[y]
		label := r.numbers.Blank()
		if v.Row == 0 {
			label = r.numbers.Format(v.Line)
		}
		r.drawText(0, y, label, theme.LineNumber)
		r.drawRow(s, f, v, gw, y)
	}
	r.drawCarets(s, f, gw)
	r.drawScrollbar(s, gw+s.Viewport().Width(), textHeight)

	r.status.Resize(width)
	r.status.Update(s.Status())
	r.status.Render(r.backend, height-statusline.Rows)

	if x, y, ok := s.CursorCell(); ok {
		r.backend.ShowCursor(x, y)
	} else {
		r.backend.HideCursor()
	}
	r.backend.Show()
	r.frameCount++
}

// drawRow draws the clusters of visual row v starting at screen column x0.
func (r *Renderer) drawRow(s *editor.Session, f *frame, v layout.VisualRow, x0, y int) {
	view := s.Viewport()
	lineStart := s.Engine().Buffer().LineStartOffset(v.Line)
	left := view.LeftColumn()
	w := view.Width()

	for _, c := range s.Document().Line(v.Line).RowClusters(v.Row) {
		col := c.Col - left
		if col < 0 || c.Width == 0 {
			continue
		}
		if col >= w {
			break
		}
		style := f.styleAt(lineStart + c.Start)
		if c.IsTab() {
			for i := 0; i < c.Width && col+i < w; i++ {
				r.backend.SetCell(x0+col+i, y, backend.BlankCell(style))
			}
			continue
		}
		if col+c.Width > w {
			break
		}
		r.backend.SetCell(x0+col, y, backend.Cell{Text: c.Text, Width: c.Width, Style: style})
	}
}

// drawCarets marks secondary cursors parked at a line end, where no
// cluster carries their style.
func (r *Renderer) drawCarets(s *editor.Session, f *frame, x0 int) {
	buf := s.Engine().Buffer()
	view := s.Viewport()
	for off := range f.carets {
		if off != buf.LineEndOffset(buf.LineAt(off)) {
			continue
		}
		row, col, ok := view.OffsetToCell(off)
		if !ok || col >= view.Width() {
			continue
		}
		r.backend.SetCell(x0+col, row, backend.BlankCell(f.styleAt(off)))
	}
}

func (r *Renderer) drawScrollbar(s *editor.Session, x, height int) {
	thumb := s.Viewport().Scrollbar()
	style := r.opts.Theme.LineNumber
	for y := 0; y < height; y++ {
		glyph := TrackGlyph
		if thumb.Contains(y) {
			glyph = ThumbGlyph
		}
		r.backend.SetCell(x, y, backend.Cell{Text: glyph, Width: 1, Style: style})
	}
}

// drawText draws an ASCII label followed by a separating blank.
func (r *Renderer) drawText(x, y int, text string, style tcell.Style) {
	for _, ch := range text {
		r.backend.SetCell(x, y, backend.Cell{Text: string(ch), Width: 1, Style: style})
		x++
	}
	r.backend.SetCell(x, y, backend.BlankCell(style))
}
