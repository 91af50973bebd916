// Package backend provides the terminal abstraction the painter draws on.
package backend

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/quill/internal/input"
)

// CursorStyle defines how the cursor appears.
type CursorStyle int

const (
	CursorBlock CursorStyle = iota
	CursorUnderline
	CursorBar
	CursorHidden
)

// Cell is one screen cell. Text holds a single grapheme cluster; a wide
// cluster occupies its own cell plus a continuation cell with Width 0.
type Cell struct {
	Text  string
	Width int
	Style tcell.Style
}

// BlankCell returns a space in style.
func BlankCell(style tcell.Style) Cell {
	return Cell{Text: " ", Width: 1, Style: style}
}

// IsContinuation reports whether c is the trailing half of a wide cluster.
func (c Cell) IsContinuation() bool {
	return c.Width == 0
}

// Backend defines the interface for terminal/display backends.
type Backend interface {
	// Init initializes the backend for use.
	// Must be called before any other methods.
	Init() error

	// Shutdown releases backend resources and restores terminal state.
	// A pending PollEvent returns ok == false afterwards.
	Shutdown()

	// Size returns the current terminal dimensions.
	Size() (width, height int)

	// SetCell sets a single cell at the given position.
	// Positions outside the terminal are silently ignored.
	SetCell(x, y int, cell Cell)

	// Clear clears the entire screen with style.
	Clear(style tcell.Style)

	// Show synchronizes the drawn cells with the actual display.
	Show()

	// ShowCursor positions and displays the cursor.
	ShowCursor(x, y int)

	// HideCursor hides the cursor.
	HideCursor()

	// SetCursorStyle changes the cursor appearance.
	SetCursorStyle(style CursorStyle)

	// PollEvent waits for and returns the next input event. ok is false
	// once the backend has been shut down.
	PollEvent() (ev input.Event, ok bool)

	// PostEvent queues a synthetic event.
	PostEvent(ev input.Event)

	// Beep produces an audible or visual bell.
	Beep()
}
