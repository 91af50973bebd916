package input

import (
	"fmt"
	"unicode"
)

// Kind identifies the type of an Event.
type Kind uint8

const (
	KindNone Kind = iota
	KindKey
	KindMouse
	KindResize
	KindPaste
)

// MouseButton is the button or wheel direction of a mouse event.
type MouseButton uint8

const (
	ButtonNone MouseButton = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
	WheelUp
	WheelDown
)

// Event is a normalized input event.
type Event struct {
	Kind Kind

	// Key events
	Key  Key
	Rune rune
	Mod  Modifier

	// Mouse events, in screen cells
	Button MouseButton
	X, Y   int

	// Resize events
	Width, Height int

	// Paste events
	Text string
}

// KeyEvent returns a special-key event.
func KeyEvent(k Key, mod Modifier) Event {
	return Event{Kind: KindKey, Key: k, Mod: mod}
}

// RuneEvent returns a character event. With Ctrl or Alt held, letters are
// folded to lowercase so "Ctrl+Z" and "Ctrl+z" are the same key.
func RuneEvent(r rune, mod Modifier) Event {
	if mod.Has(ModCtrl) {
		r = unicode.ToLower(r)
	}
	return Event{Kind: KindKey, Key: KeyRune, Rune: r, Mod: mod}
}

// MouseEvent returns a mouse event at screen cell (x, y).
func MouseEvent(b MouseButton, x, y int, mod Modifier) Event {
	return Event{Kind: KindMouse, Button: b, X: x, Y: y, Mod: mod}
}

// ResizeEvent returns a resize event.
func ResizeEvent(width, height int) Event {
	return Event{Kind: KindResize, Width: width, Height: height}
}

// PasteEvent returns a bracketed-paste event carrying text.
func PasteEvent(text string) Event {
	return Event{Kind: KindPaste, Text: text}
}

// IsChar reports whether e types a printable character.
func (e Event) IsChar() bool {
	return e.Kind == KindKey && e.Key == KeyRune && unicode.IsPrint(e.Rune) &&
		!e.Mod.Has(ModCtrl) && !e.Mod.Has(ModAlt)
}

// Spec returns the canonical key specification of a key event, such as
// "Ctrl+Alt+Up" or "Ctrl+Z". Shift is omitted for characters since it is
// already part of the rune. Non-key events return "".
func (e Event) Spec() string {
	if e.Kind != KindKey {
		return ""
	}
	mod := e.Mod
	var name string
	switch e.Key {
	case KeyRune:
		mod &^= ModShift
		switch {
		case e.Rune == ' ':
			name = "Space"
		case mod != ModNone:
			name = string(unicode.ToUpper(e.Rune))
		default:
			name = string(e.Rune)
		}
	default:
		name = e.Key.String()
	}
	if mod == ModNone {
		return name
	}
	return mod.String() + "+" + name
}

// String returns a human-readable description for logging.
func (e Event) String() string {
	switch e.Kind {
	case KindKey:
		return "key " + e.Spec()
	case KindMouse:
		return fmt.Sprintf("mouse %d at (%d,%d)", e.Button, e.X, e.Y)
	case KindResize:
		return fmt.Sprintf("resize %dx%d", e.Width, e.Height)
	case KindPaste:
		return fmt.Sprintf("paste %d bytes", len(e.Text))
	default:
		return "none"
	}
}

// Runes returns a key event for every rune of s, as if it had been typed.
func Runes(s string) []Event {
	events := make([]Event, 0, len(s))
	for _, r := range s {
		if r == '\n' {
			events = append(events, KeyEvent(KeyEnter, ModNone))
			continue
		}
		events = append(events, RuneEvent(r, ModNone))
	}
	return events
}
