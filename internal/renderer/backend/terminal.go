package backend

import (
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/quill/internal/input"
)

// Terminal implements Backend using tcell.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex

	// Bracketed paste accumulates here between the start and end markers.
	pasting bool
	paste   strings.Builder
}

// NewTerminal creates a terminal backend on the controlling terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// NewTerminalWithScreen wraps an existing tcell screen, such as a
// simulation screen.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnableMouse()
	t.screen.EnablePaste()
	return nil
}

func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

func (t *Terminal) SetCell(x, y int, cell Cell) {
	t.mu.Lock()
	defer t.mu.Unlock()

	mainc, combc := splitCluster(cell.Text)
	t.screen.SetContent(x, y, mainc, combc, cell.Style)
}

func (t *Terminal) Clear(style tcell.Style) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.SetStyle(style)
	t.screen.Clear()
}

func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

func (t *Terminal) ShowCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.ShowCursor(x, y)
}

func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.HideCursor()
}

func (t *Terminal) SetCursorStyle(style CursorStyle) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var tcellStyle tcell.CursorStyle
	switch style {
	case CursorBlock:
		tcellStyle = tcell.CursorStyleSteadyBlock
	case CursorUnderline:
		tcellStyle = tcell.CursorStyleSteadyUnderline
	case CursorBar:
		tcellStyle = tcell.CursorStyleSteadyBar
	case CursorHidden:
		t.screen.HideCursor()
		return
	}
	t.screen.SetCursorStyle(tcellStyle)
}

// PollEvent blocks for the next event the editor understands. Events
// between the markers of a bracketed paste are collected into a single
// paste event.
func (t *Terminal) PollEvent() (input.Event, bool) {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return input.Event{}, false
		}
		if p, ok := ev.(*tcell.EventPaste); ok {
			if p.Start() {
				t.pasting = true
				t.paste.Reset()
				continue
			}
			t.pasting = false
			return input.PasteEvent(t.paste.String()), true
		}
		if k, ok := ev.(*tcell.EventKey); ok && t.pasting {
			appendPaste(&t.paste, k)
			continue
		}
		if out, ok := convertEvent(ev); ok {
			return out, true
		}
	}
}

func (t *Terminal) PostEvent(ev input.Event) {
	// Only key events have a tcell equivalent.
	if ev.Kind != input.KindKey {
		return
	}
	var tev *tcell.EventKey
	mod := convertToTcellMod(ev.Mod)
	if ev.Key == input.KeyRune {
		tev = tcell.NewEventKey(tcell.KeyRune, ev.Rune, mod)
	} else {
		tev = tcell.NewEventKey(convertToTcellKey(ev.Key), 0, mod)
	}
	_ = t.screen.PostEvent(tev) // best-effort; event queue may be full
}

func (t *Terminal) Beep() {
	t.mu.Lock()
	defer t.mu.Unlock()

	_ = t.screen.Beep() // best-effort; terminal may not support beep
}

// splitCluster splits a grapheme cluster into tcell's main and combining
// runes. An empty cluster draws as a space.
func splitCluster(text string) (rune, []rune) {
	if text == "" {
		return ' ', nil
	}
	runes := []rune(text)
	if len(runes) == 1 {
		return runes[0], nil
	}
	return runes[0], runes[1:]
}

func appendPaste(sb *strings.Builder, k *tcell.EventKey) {
	switch k.Key() {
	case tcell.KeyRune:
		sb.WriteRune(k.Rune())
	case tcell.KeyEnter:
		sb.WriteByte('\n')
	case tcell.KeyTab:
		sb.WriteByte('\t')
	}
}

// convertEvent converts tcell events to input events. Events the editor
// has no use for report ok == false.
func convertEvent(ev tcell.Event) (input.Event, bool) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return convertKey(e)
	case *tcell.EventMouse:
		x, y := e.Position()
		b := convertMouseButton(e.Buttons())
		return input.MouseEvent(b, x, y, convertMod(e.Modifiers())), true
	case *tcell.EventResize:
		w, h := e.Size()
		return input.ResizeEvent(w, h), true
	default:
		return input.Event{}, false
	}
}

var specialKeys = map[tcell.Key]input.Key{
	tcell.KeyDelete: input.KeyDelete,
	tcell.KeyInsert: input.KeyInsert,
	tcell.KeyHome:   input.KeyHome,
	tcell.KeyEnd:    input.KeyEnd,
	tcell.KeyPgUp:   input.KeyPageUp,
	tcell.KeyPgDn:   input.KeyPageDown,
	tcell.KeyUp:     input.KeyUp,
	tcell.KeyDown:   input.KeyDown,
	tcell.KeyLeft:   input.KeyLeft,
	tcell.KeyRight:  input.KeyRight,
	tcell.KeyF1:     input.KeyF1,
	tcell.KeyF2:     input.KeyF2,
	tcell.KeyF3:     input.KeyF3,
	tcell.KeyF4:     input.KeyF4,
	tcell.KeyF5:     input.KeyF5,
	tcell.KeyF6:     input.KeyF6,
	tcell.KeyF7:     input.KeyF7,
	tcell.KeyF8:     input.KeyF8,
	tcell.KeyF9:     input.KeyF9,
	tcell.KeyF10:    input.KeyF10,
	tcell.KeyF11:    input.KeyF11,
	tcell.KeyF12:    input.KeyF12,
}

// convertKey normalizes a tcell key. Backspace, Tab, Enter and Escape
// share codes with Ctrl+H, Ctrl+I, Ctrl+M and Ctrl+[, so they are matched
// before the control-letter range.
func convertKey(e *tcell.EventKey) (input.Event, bool) {
	mod := convertMod(e.Modifiers())
	k := e.Key()
	switch k {
	case tcell.KeyRune:
		return input.RuneEvent(e.Rune(), mod), true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return input.KeyEvent(input.KeyBackspace, mod), true
	case tcell.KeyTab:
		return input.KeyEvent(input.KeyTab, mod), true
	case tcell.KeyBacktab:
		return input.KeyEvent(input.KeyTab, mod|input.ModShift), true
	case tcell.KeyEnter:
		return input.KeyEvent(input.KeyEnter, mod), true
	case tcell.KeyEscape:
		return input.KeyEvent(input.KeyEscape, mod), true
	case tcell.KeyCtrlSpace:
		return input.RuneEvent(' ', mod|input.ModCtrl), true
	}
	if key, ok := specialKeys[k]; ok {
		return input.KeyEvent(key, mod), true
	}
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return input.RuneEvent(rune('a'+int(k-tcell.KeyCtrlA)), mod|input.ModCtrl), true
	}
	return input.Event{}, false
}

// convertToTcellKey converts a special key back to tcell.
func convertToTcellKey(k input.Key) tcell.Key {
	switch k {
	case input.KeyEscape:
		return tcell.KeyEscape
	case input.KeyEnter:
		return tcell.KeyEnter
	case input.KeyTab:
		return tcell.KeyTab
	case input.KeyBackspace:
		return tcell.KeyBackspace2
	}
	for tk, ik := range specialKeys {
		if ik == k {
			return tk
		}
	}
	return tcell.KeyRune
}

func convertMod(m tcell.ModMask) input.Modifier {
	var result input.Modifier
	if m&tcell.ModShift != 0 {
		result |= input.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= input.ModCtrl
	}
	if m&(tcell.ModAlt|tcell.ModMeta) != 0 {
		result |= input.ModAlt
	}
	return result
}

func convertToTcellMod(m input.Modifier) tcell.ModMask {
	var result tcell.ModMask
	if m.Has(input.ModShift) {
		result |= tcell.ModShift
	}
	if m.Has(input.ModCtrl) {
		result |= tcell.ModCtrl
	}
	if m.Has(input.ModAlt) {
		result |= tcell.ModAlt
	}
	return result
}

// convertMouseButton maps tcell's button mask. Button1 is the primary
// button, Button2 the secondary and Button3 the middle one.
func convertMouseButton(b tcell.ButtonMask) input.MouseButton {
	switch {
	case b&tcell.Button1 != 0:
		return input.ButtonLeft
	case b&tcell.Button2 != 0:
		return input.ButtonRight
	case b&tcell.Button3 != 0:
		return input.ButtonMiddle
	case b&tcell.WheelUp != 0:
		return input.WheelUp
	case b&tcell.WheelDown != 0:
		return input.WheelDown
	default:
		return input.ButtonNone
	}
}
