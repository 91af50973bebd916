package backend

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/quill/internal/input"
)

func TestMemoryBackendSize(t *testing.T) {
	b := NewMemoryBackend(80, 24)
	if err := b.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	w, h := b.Size()
	if w != 80 || h != 24 {
		t.Errorf("expected size (80, 24), got (%d, %d)", w, h)
	}
}

func TestMemoryBackendSetGetCell(t *testing.T) {
	b := NewMemoryBackend(10, 3)
	style := tcell.StyleDefault.Foreground(tcell.ColorRed)
	cell := Cell{Text: "X", Width: 1, Style: style}

	b.SetCell(2, 1, cell)
	if got := b.GetCell(2, 1); got != cell {
		t.Errorf("cell mismatch: expected %+v, got %+v", cell, got)
	}

	// Out of bounds is ignored.
	b.SetCell(-1, 0, cell)
	b.SetCell(100, 0, cell)
	if got := b.GetCell(-1, 0); got.Text != " " {
		t.Errorf("out of bounds should return blank, got %+v", got)
	}
}

func TestMemoryBackendWideCell(t *testing.T) {
	b := NewMemoryBackend(6, 1)
	b.SetCell(0, 0, Cell{Text: "a", Width: 1})
	b.SetCell(1, 0, Cell{Text: "中", Width: 2})
	b.SetCell(3, 0, Cell{Text: "b", Width: 1})

	if got := b.Row(0); got != "a中b" {
		t.Errorf("Row = %q", got)
	}
	if !b.GetCell(2, 0).IsContinuation() {
		t.Error("cell after a wide cluster should be a continuation")
	}
	if col := b.ColumnOf(0, "b"); col != 3 {
		t.Errorf("ColumnOf(b) = %d, want 3", col)
	}
}

func TestMemoryBackendText(t *testing.T) {
	b := NewMemoryBackend(5, 2)
	for i, r := range "hi" {
		b.SetCell(i, 1, Cell{Text: string(r), Width: 1})
	}

	if got := b.Text(); got != "\nhi" {
		t.Errorf("Text = %q", got)
	}
	if !b.Contains("hi") || b.Contains("ho") {
		t.Error("Contains mismatch")
	}

	b.Clear(tcell.StyleDefault)
	if b.Contains("hi") {
		t.Error("Clear should blank the screen")
	}
}

func TestMemoryBackendCursor(t *testing.T) {
	b := NewMemoryBackend(10, 5)
	b.ShowCursor(3, 4)

	x, y, visible := b.CursorPosition()
	if x != 3 || y != 4 || !visible {
		t.Errorf("cursor = (%d, %d, %v)", x, y, visible)
	}

	b.HideCursor()
	if _, _, visible := b.CursorPosition(); visible {
		t.Error("cursor should be hidden")
	}
}

func TestMemoryBackendEvents(t *testing.T) {
	b := NewMemoryBackend(10, 5)
	b.PostEvent(input.RuneEvent('a', input.ModNone))
	b.Resize(20, 6)

	ev, ok := b.PollEvent()
	if !ok || ev.Rune != 'a' {
		t.Fatalf("first event = %+v, %v", ev, ok)
	}
	ev, ok = b.PollEvent()
	if !ok || ev.Kind != input.KindResize || ev.Width != 20 || ev.Height != 6 {
		t.Fatalf("second event = %+v, %v", ev, ok)
	}
	if w, h := b.Size(); w != 20 || h != 6 {
		t.Errorf("size after resize = %dx%d", w, h)
	}

	b.Shutdown()
	if _, ok := b.PollEvent(); ok {
		t.Error("PollEvent after Shutdown should report closed")
	}
	// Posting after shutdown must not panic.
	b.PostEvent(input.RuneEvent('b', input.ModNone))
}
