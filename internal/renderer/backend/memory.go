package backend

import (
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/quill/internal/input"
)

// MemoryBackend is an in-memory Backend for tests and headless use.
type MemoryBackend struct {
	mu            sync.Mutex
	width, height int
	cells         [][]Cell
	cursorX       int
	cursorY       int
	cursorVisible bool
	cursorStyle   CursorStyle
	bells         int
	shows         int

	events chan input.Event
	closed bool
}

// NewMemoryBackend creates a memory backend with the given dimensions.
func NewMemoryBackend(width, height int) *MemoryBackend {
	b := &MemoryBackend{
		width:  width,
		height: height,
		events: make(chan input.Event, 100),
	}
	b.allocate()
	return b
}

func (b *MemoryBackend) allocate() {
	b.cells = make([][]Cell, b.height)
	for y := range b.cells {
		b.cells[y] = make([]Cell, b.width)
		for x := range b.cells[y] {
			b.cells[y][x] = BlankCell(tcell.StyleDefault)
		}
	}
}

func (b *MemoryBackend) Init() error { return nil }

func (b *MemoryBackend) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.closed {
		b.closed = true
		close(b.events)
	}
}

func (b *MemoryBackend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.width, b.height
}

func (b *MemoryBackend) SetCell(x, y int, cell Cell) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	b.cells[y][x] = cell
	for i := 1; i < cell.Width && x+i < b.width; i++ {
		b.cells[y][x+i] = Cell{Style: cell.Style}
	}
}

// GetCell returns the cell at (x, y), or a blank cell outside the screen.
func (b *MemoryBackend) GetCell(x, y int) Cell {
	b.mu.Lock()
	defer b.mu.Unlock()

	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return BlankCell(tcell.StyleDefault)
	}
	return b.cells[y][x]
}

func (b *MemoryBackend) Clear(style tcell.Style) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for y := range b.cells {
		for x := range b.cells[y] {
			b.cells[y][x] = BlankCell(style)
		}
	}
}

func (b *MemoryBackend) Show() {
	b.mu.Lock()
	b.shows++
	b.mu.Unlock()
}

func (b *MemoryBackend) ShowCursor(x, y int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.cursorX, b.cursorY = x, y
	b.cursorVisible = true
}

func (b *MemoryBackend) HideCursor() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.cursorVisible = false
}

func (b *MemoryBackend) SetCursorStyle(style CursorStyle) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.cursorStyle = style
}

func (b *MemoryBackend) PollEvent() (input.Event, bool) {
	ev, ok := <-b.events
	return ev, ok
}

func (b *MemoryBackend) PostEvent(ev input.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	select {
	case b.events <- ev:
	default:
		// Dropped when the queue is full.
	}
}

func (b *MemoryBackend) Beep() {
	b.mu.Lock()
	b.bells++
	b.mu.Unlock()
}

// Resize changes the screen size, clears it and queues a resize event.
func (b *MemoryBackend) Resize(width, height int) {
	b.mu.Lock()
	b.width, b.height = width, height
	b.allocate()
	b.mu.Unlock()

	b.PostEvent(input.ResizeEvent(width, height))
}

// CursorPosition returns the cursor position and visibility.
func (b *MemoryBackend) CursorPosition() (x, y int, visible bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.cursorX, b.cursorY, b.cursorVisible
}

// Bells returns how many times Beep was called.
func (b *MemoryBackend) Bells() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.bells
}

// Shows returns how many frames were shown.
func (b *MemoryBackend) Shows() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.shows
}

// Row returns the text of screen row y with trailing blanks removed.
func (b *MemoryBackend) Row(y int) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if y < 0 || y >= b.height {
		return ""
	}
	var sb strings.Builder
	for _, c := range b.cells[y] {
		sb.WriteString(c.Text)
	}
	return strings.TrimRight(sb.String(), " ")
}

// Text returns every screen row joined by newlines.
func (b *MemoryBackend) Text() string {
	_, h := b.Size()
	rows := make([]string, h)
	for y := range rows {
		rows[y] = b.Row(y)
	}
	return strings.Join(rows, "\n")
}

// Contains reports whether s appears on any screen row.
func (b *MemoryBackend) Contains(s string) bool {
	_, h := b.Size()
	for y := 0; y < h; y++ {
		if strings.Contains(b.Row(y), s) {
			return true
		}
	}
	return false
}

// ColumnOf returns the screen column at which s starts on row y, counted
// in cells, or -1.
func (b *MemoryBackend) ColumnOf(y int, s string) int {
	row := b.Row(y)
	i := strings.Index(row, s)
	if i < 0 {
		return -1
	}
	return uniseg.StringWidth(row[:i])
}
