package editor

import (
	"github.com/dshills/quill/internal/input"
	"github.com/dshills/quill/internal/renderer/layout"
)

// handleMouse applies a mouse event. Clicks in the text area place the
// cursor, clicks on the scrollbar jump the view, and the wheel scrolls the
// view without moving any cursor.
func (s *Session) handleMouse(ev input.Event) {
	s.relayout()
	switch ev.Button {
	case input.WheelUp:
		s.view.Wheel(-1)
	case input.WheelDown:
		s.view.Wheel(1)
	case input.ButtonLeft:
		s.click(ev.X, ev.Y, ev.Mod.Has(input.ModShift))
	}
}

func (s *Session) click(x, y int, extend bool) {
	if y < 0 || y >= s.TextHeight() || s.prompt != nil {
		return
	}
	gutter := s.GutterWidth()
	switch {
	case x >= gutter+s.view.Width():
		s.scrollbarJump(y)
	case x >= gutter:
		s.clearGoals()
		s.eng.SetCursor(s.view.ScreenToOffset(y, x-gutter), extend)
		s.view.EnsureVisible(s.eng.Cursors().Primary().Position)
	default:
		// Gutter clicks go to the start of the row.
		s.clearGoals()
		s.eng.SetCursor(s.view.ScreenToOffset(y, 0), extend)
	}
}

// scrollbarJump scrolls so that the logical line at the same proportion of
// the document as row is of the scrollbar becomes the top line.
func (s *Session) scrollbarJump(row int) {
	lines := s.eng.Buffer().LineCount()
	h := s.TextHeight()
	if lines <= h {
		return
	}
	line := row * (lines - 1) / max(h-1, 1)
	s.view.SetTop(layout.VisualRow{Line: line})
}
