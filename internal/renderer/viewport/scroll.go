package viewport

import "github.com/dshills/quill/internal/renderer/layout"

// Thumb is the scrollbar thumb, in rows from the top of the text area.
type Thumb struct {
	Start int
	Size  int
}

// Contains reports whether screen row r is part of the thumb.
func (t Thumb) Contains(r int) bool {
	return r >= t.Start && r < t.Start+t.Size
}

// Scrollbar computes the thumb for the current scroll position, measured in
// logical lines. The thumb fills the whole bar when every line fits.
func (s *Scroller) Scrollbar() Thumb {
	total := s.doc.Source().LineCount()
	if total <= s.height {
		return Thumb{Start: 0, Size: s.height}
	}
	size := max(s.height*s.height/total, 1)
	track := s.height - size
	start := s.top.Line * track / (total - s.height)
	if start > track {
		start = track
	}
	return Thumb{Start: start, Size: size}
}

// State is a snapshot of the scroll position.
type State struct {
	Top        int // logical line of the first visible row
	TopRow     int // row within that line
	LeftColumn int
}

// State returns the current scroll position.
func (s *Scroller) State() State {
	return State{Top: s.top.Line, TopRow: s.top.Row, LeftColumn: s.LeftColumn()}
}

// Restore scrolls back to a saved position.
func (s *Scroller) Restore(st State) {
	s.SetTop(layout.VisualRow{Line: st.Top, Row: st.TopRow})
	s.left = max(st.LeftColumn, 0)
}
