package layout

// Source is the line-oriented text a Document lays out.
type Source interface {
	Len() int
	LineCount() int
	LineText(line int) string
	LineStartOffset(line int) int
	LineAt(offset int) int
}

// VisualRow addresses one visual row: a logical line and a row within it.
type VisualRow struct {
	Line int
	Row  int
}

// Before reports whether v precedes other in document order.
func (v VisualRow) Before(other VisualRow) bool {
	if v.Line != other.Line {
		return v.Line < other.Line
	}
	return v.Row < other.Row
}

// ScreenPos is the visual position of a byte offset.
type ScreenPos struct {
	VisualRow
	Col int
}

// Config controls wrapping.
type Config struct {
	Width     int // text area width in cells
	TabWidth  int
	Wrap      bool
	CacheSize int
}

// Document lays out a Source and navigates its visual rows.
type Document struct {
	src   Source
	cfg   Config
	cache *LineCache
}

// NewDocument creates a document over src.
func NewDocument(src Source, cfg Config) *Document {
	if cfg.CacheSize == 0 {
		cfg.CacheSize = DefaultCacheSize
	}
	return &Document{
		src:   src,
		cfg:   cfg,
		cache: NewLineCache(NewEngine(cfg.Width, cfg.TabWidth, cfg.Wrap), cfg.CacheSize),
	}
}

// Config returns the current layout configuration.
func (d *Document) Config() Config {
	return d.cfg
}

// Source returns the laid out text.
func (d *Document) Source() Source {
	return d.src
}

// Wrap reports whether soft wrapping is active.
func (d *Document) Wrap() bool {
	return d.cache.Engine().Wrap()
}

// SetWidth changes the text area width, dropping cached layouts if it differs.
func (d *Document) SetWidth(width int) {
	if width == d.cfg.Width {
		return
	}
	d.cfg.Width = width
	d.rebuild()
}

// SetTabWidth changes the tab width, dropping cached layouts if it differs.
func (d *Document) SetTabWidth(tabWidth int) {
	if tabWidth == d.cfg.TabWidth {
		return
	}
	d.cfg.TabWidth = tabWidth
	d.rebuild()
}

// SetWrap turns soft wrapping on or off.
func (d *Document) SetWrap(wrap bool) {
	if wrap == d.cfg.Wrap {
		return
	}
	d.cfg.Wrap = wrap
	d.rebuild()
}

func (d *Document) rebuild() {
	d.cache.SetEngine(NewEngine(d.cfg.Width, d.cfg.TabWidth, d.cfg.Wrap))
}

// CacheStats returns layout cache statistics.
func (d *Document) CacheStats() CacheStats {
	return d.cache.Stats()
}

// Line returns the layout of a logical line.
func (d *Document) Line(line int) *LineLayout {
	return d.cache.Get(d.src.LineText(line))
}

// RowCount returns the number of visual rows of a logical line.
func (d *Document) RowCount(line int) int {
	return d.Line(line).RowCount()
}

// OffsetToScreen returns the visual position of a document byte offset.
func (d *Document) OffsetToScreen(offset int) ScreenPos {
	if offset < 0 {
		offset = 0
	}
	if offset > d.src.Len() {
		offset = d.src.Len()
	}
	line := d.src.LineAt(offset)
	row, col := d.Line(line).OffsetToScreen(offset - d.src.LineStartOffset(line))
	return ScreenPos{VisualRow: VisualRow{Line: line, Row: row}, Col: col}
}

// ScreenToOffset returns the document byte offset for a cell.
func (d *Document) ScreenToOffset(v VisualRow, col int) int {
	v = d.Clamp(v)
	return d.src.LineStartOffset(v.Line) + d.Line(v.Line).ScreenToOffset(v.Row, col)
}

// Clamp limits v to an existing visual row.
func (d *Document) Clamp(v VisualRow) VisualRow {
	if v.Line < 0 {
		return VisualRow{}
	}
	if v.Line >= d.src.LineCount() {
		return d.LastRow()
	}
	if v.Row < 0 {
		v.Row = 0
	}
	if n := d.RowCount(v.Line); v.Row >= n {
		v.Row = n - 1
	}
	return v
}

// LastRow returns the final visual row of the document.
func (d *Document) LastRow() VisualRow {
	last := d.src.LineCount() - 1
	return VisualRow{Line: last, Row: d.RowCount(last) - 1}
}

// Next returns the visual row after v.
func (d *Document) Next(v VisualRow) (VisualRow, bool) {
	if v.Row+1 < d.RowCount(v.Line) {
		return VisualRow{Line: v.Line, Row: v.Row + 1}, true
	}
	if v.Line+1 < d.src.LineCount() {
		return VisualRow{Line: v.Line + 1}, true
	}
	return v, false
}

// Prev returns the visual row before v.
func (d *Document) Prev(v VisualRow) (VisualRow, bool) {
	if v.Row > 0 {
		return VisualRow{Line: v.Line, Row: v.Row - 1}, true
	}
	if v.Line > 0 {
		return VisualRow{Line: v.Line - 1, Row: d.RowCount(v.Line-1) - 1}, true
	}
	return v, false
}

// Advance moves n visual rows forward, or backward when n is negative,
// stopping at the document edges. It returns the reached row and the number
// of rows actually moved.
func (d *Document) Advance(v VisualRow, n int) (VisualRow, int) {
	moved := 0
	for moved < n {
		next, ok := d.Next(v)
		if !ok {
			break
		}
		v = next
		moved++
	}
	for moved > n {
		prev, ok := d.Prev(v)
		if !ok {
			break
		}
		v = prev
		moved--
	}
	return v, moved
}

// Distance counts the visual rows from a forward to b, giving up at limit.
// It returns limit when b is further away or precedes a.
func (d *Document) Distance(a, b VisualRow, limit int) int {
	n := 0
	for a != b && n < limit {
		next, ok := d.Next(a)
		if !ok {
			return limit
		}
		a = next
		n++
	}
	if a != b {
		return limit
	}
	return n
}

// Vertical returns the offset one visual row above (dir < 0) or below
// (dir > 0) offset at column col. When no such row exists it returns
// offset unchanged and false.
func (d *Document) Vertical(offset, col, dir int) (int, bool) {
	pos := d.OffsetToScreen(offset)
	var target VisualRow
	var ok bool
	if dir < 0 {
		target, ok = d.Prev(pos.VisualRow)
	} else {
		target, ok = d.Next(pos.VisualRow)
	}
	if !ok {
		return offset, false
	}
	return d.ScreenToOffset(target, col), true
}
