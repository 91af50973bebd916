// Package viewport tracks which visual rows of a document are on screen and
// keeps the primary cursor among them.
package viewport

import "github.com/dshills/quill/internal/renderer/layout"

// WheelRows is the number of visual rows one mouse wheel notch scrolls.
const WheelRows = 3

// Scroller is a window of height visual rows and width cells over a
// layout.Document. The first visible row is tracked as a (line, row) pair so
// wrapping changes never tear the view.
type Scroller struct {
	doc     *layout.Document
	top     layout.VisualRow
	left    int
	width   int
	height  int
	margins MarginConfig
}

// New creates a scroller over doc with the given text area size.
func New(doc *layout.Document, width, height int) *Scroller {
	s := &Scroller{doc: doc}
	s.Resize(width, height)
	return s
}

// Width returns the text area width in cells.
func (s *Scroller) Width() int { return s.width }

// Height returns the number of visible rows.
func (s *Scroller) Height() int { return s.height }

// Top returns the first visible visual row.
func (s *Scroller) Top() layout.VisualRow { return s.top }

// LeftColumn returns the horizontal scroll offset. It is always zero while
// wrapping.
func (s *Scroller) LeftColumn() int {
	if s.doc.Wrap() {
		return 0
	}
	return s.left
}

// Resize changes the text area size. Sizes below one are raised to one.
func (s *Scroller) Resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	s.width, s.height = width, height
	s.top = s.doc.Clamp(s.top)
}

// SetTop scrolls so that v is the first visible row.
func (s *Scroller) SetTop(v layout.VisualRow) {
	s.top = s.doc.Clamp(v)
}

// Reclamp keeps the top row valid after the document or its layout changed.
func (s *Scroller) Reclamp() {
	s.top = s.doc.Clamp(s.top)
	if s.doc.Wrap() {
		s.left = 0
	}
}

// EnsureVisible scrolls the minimal amount needed to bring the byte offset
// into view, honoring the configured margins.
func (s *Scroller) EnsureVisible(offset int) {
	s.Reclamp()
	pos := s.doc.OffsetToScreen(offset)
	m := s.EffectiveMargins()

	above, _ := s.doc.Advance(pos.VisualRow, -m.Top)
	if above.Before(s.top) {
		s.top = above
	} else {
		below, _ := s.doc.Advance(pos.VisualRow, m.Bottom)
		if s.doc.Distance(s.top, below, s.height) >= s.height {
			s.top, _ = s.doc.Advance(below, -(s.height - 1))
		}
	}

	if s.doc.Wrap() {
		s.left = 0
		return
	}
	if pos.Col-m.Left < s.left {
		s.left = max(pos.Col-m.Left, 0)
	} else if pos.Col+m.Right >= s.left+s.width {
		s.left = pos.Col + m.Right - s.width + 1
	}
}

// ScrollBy moves the view by n visual rows without moving any cursor.
// Scrolling down stops once the final row reaches the bottom of the screen.
func (s *Scroller) ScrollBy(n int) {
	target, _ := s.doc.Advance(s.top, n)
	if n > 0 {
		if maxTop := s.maxTop(); maxTop.Before(target) {
			target = maxTop
			if target.Before(s.top) {
				target = s.top
			}
		}
	}
	s.top = target
}

// PageDown scrolls one screen down.
func (s *Scroller) PageDown() { s.ScrollBy(s.height) }

// PageUp scrolls one screen up.
func (s *Scroller) PageUp() { s.ScrollBy(-s.height) }

// Wheel scrolls WheelRows rows per notch; negative notches scroll up.
func (s *Scroller) Wheel(notches int) { s.ScrollBy(notches * WheelRows) }

// ScrollToTop shows the beginning of the document.
func (s *Scroller) ScrollToTop() { s.top = layout.VisualRow{} }

func (s *Scroller) maxTop() layout.VisualRow {
	v, _ := s.doc.Advance(s.doc.LastRow(), -(s.height - 1))
	return v
}

// VisibleRows returns the visual rows currently on screen, top first. The
// slice is shorter than Height when the document ends early.
func (s *Scroller) VisibleRows() []layout.VisualRow {
	rows := make([]layout.VisualRow, 0, s.height)
	v := s.top
	for len(rows) < s.height {
		rows = append(rows, v)
		next, ok := s.doc.Next(v)
		if !ok {
			break
		}
		v = next
	}
	return rows
}

// ScreenToOffset maps a click at a text-area cell to a byte offset by walking
// visible rows down from the top. Clicks below the last row land on it.
func (s *Scroller) ScreenToOffset(screenRow, screenCol int) int {
	if screenRow < 0 {
		screenRow = 0
	}
	v, _ := s.doc.Advance(s.top, screenRow)
	return s.doc.ScreenToOffset(v, screenCol+s.LeftColumn())
}

// OffsetToCell returns the text-area cell of a byte offset and whether it is
// on screen. A cursor parked after a full wrapped row reports col == Width.
func (s *Scroller) OffsetToCell(offset int) (row, col int, visible bool) {
	pos := s.doc.OffsetToScreen(offset)
	if pos.VisualRow.Before(s.top) {
		return 0, 0, false
	}
	row = s.doc.Distance(s.top, pos.VisualRow, s.height)
	if row >= s.height {
		return 0, 0, false
	}
	col = pos.Col - s.LeftColumn()
	if col < 0 || col > s.width || (col == s.width && !s.doc.Wrap()) {
		return row, col, false
	}
	return row, col, true
}
