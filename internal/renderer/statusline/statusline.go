// Package statusline draws the status bar and the message line at the bottom
// of the screen.
package statusline

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/quill/internal/editor"
	"github.com/dshills/quill/internal/renderer/backend"
)

// Rows is the number of screen rows the status line uses.
const Rows = 2

// StatusLine renders the file and cursor summary on one row and the
// message or prompt on the row below.
type StatusLine struct {
	status editor.Status
	width  int

	barStyle     tcell.Style
	messageStyle tcell.Style
}

// New creates a status line drawing the bar in bar and the message row in
// message.
func New(bar, message tcell.Style) *StatusLine {
	return &StatusLine{barStyle: bar, messageStyle: message}
}

// SetStyles changes the bar and message styles.
func (s *StatusLine) SetStyles(bar, message tcell.Style) {
	s.barStyle, s.messageStyle = bar, message
}

// Update replaces the displayed status.
func (s *StatusLine) Update(st editor.Status) {
	s.status = st
}

// Resize updates the status line width.
func (s *StatusLine) Resize(width int) {
	s.width = width
}

// Left returns the file part of the bar: name and modified marker.
func (s *StatusLine) Left() string {
	name := " " + s.status.Name
	if s.status.Modified {
		name += " [+]"
	}
	return name
}

// Right returns the position part of the bar, such as
// "Ln 3, Col 7 | 2 cursors | go (tree-sitter) ".
func (s *StatusLine) Right() string {
	st := s.status
	parts := []string{fmt.Sprintf("Ln %d, Col %d", st.Line, st.Column)}
	if st.Cursors > 1 {
		parts = append(parts, fmt.Sprintf("%d cursors", st.Cursors))
	}
	if st.Syntax != "" {
		parts = append(parts, st.Syntax+" ("+st.Backend+")")
	} else {
		parts = append(parts, st.Backend)
	}
	if !st.Wrap {
		parts = append(parts, "nowrap")
	}
	return strings.Join(parts, " | ") + " "
}

// Bottom returns the text of the message row: the open prompt, or the
// status message.
func (s *StatusLine) Bottom() string {
	if s.status.Prompt != "" {
		return s.status.Prompt
	}
	return s.status.Message
}

// Render draws the bar at row and the message line at row+1.
func (s *StatusLine) Render(b backend.Backend, row int) {
	s.renderBar(b, row)
	s.renderMessage(b, row+1)
}

func (s *StatusLine) renderBar(b backend.Backend, row int) {
	fill(b, row, s.width, s.barStyle)

	right := s.Right()
	rightWidth := runewidth.StringWidth(right)
	// The name gives way to the position info on narrow screens.
	room := s.width - rightWidth - 1
	if room < 0 {
		room = 0
	}
	left := runewidth.Truncate(s.Left(), room, "…")
	put(b, 0, row, left, s.barStyle, s.width)
	if rightWidth < s.width {
		put(b, s.width-rightWidth, row, right, s.barStyle, s.width)
	}
}

func (s *StatusLine) renderMessage(b backend.Backend, row int) {
	fill(b, row, s.width, s.messageStyle)
	put(b, 0, row, s.Bottom(), s.messageStyle, s.width)
}

func fill(b backend.Backend, row, width int, style tcell.Style) {
	blank := backend.BlankCell(style)
	for x := 0; x < width; x++ {
		b.SetCell(x, row, blank)
	}
}

// put draws text from column x, clipping at limit. It returns the column
// after the last drawn cell.
func put(b backend.Backend, x, row int, text string, style tcell.Style, limit int) int {
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > limit {
			break
		}
		b.SetCell(x, row, backend.Cell{Text: string(r), Width: w, Style: style})
		x += w
	}
	return x
}
