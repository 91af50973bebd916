package input

import (
	"errors"
	"fmt"
	"strings"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses a key specification into a key event.
//
// Supported formats:
//   - Single character: "a", "A", "1", "@"
//   - Key names: "Enter", "Esc", "Tab", "Backspace", "Space", "F3"
//   - With modifiers: "Ctrl+S", "Alt+Up", "Ctrl+Shift+End"
func Parse(spec string) (Event, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Event{}, ErrEmptySpec
	}
	if spec == "+" {
		return RuneEvent('+', ModNone), nil
	}

	var mods Modifier
	keyPart := spec
	if i := strings.LastIndex(spec, "+"); i > 0 {
		// "Ctrl++" binds the plus key itself.
		if i == len(spec)-1 && spec[i-1] == '+' {
			i--
		}
		keyPart = spec[i+1:]
		for _, p := range strings.Split(spec[:i], "+") {
			mod := ModifierFromName(strings.ToLower(strings.TrimSpace(p)))
			if mod == ModNone {
				return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
			}
			mods |= mod
		}
	}
	return parseKey(keyPart, mods)
}

func parseKey(keyPart string, mods Modifier) (Event, error) {
	keyPart = strings.TrimSpace(keyPart)
	if keyPart == "" {
		return Event{}, ErrInvalidSpec
	}
	if strings.EqualFold(keyPart, "space") {
		return RuneEvent(' ', mods), nil
	}
	if k := KeyFromName(keyPart); k != KeyNone {
		return KeyEvent(k, mods), nil
	}

	runes := []rune(keyPart)
	if len(runes) != 1 {
		return Event{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, keyPart)
	}
	return RuneEvent(runes[0], mods), nil
}

// MustParse parses a key specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParse(spec string) Event {
	ev, err := Parse(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return ev
}

// NormalizeSpec parses and re-formats a key specification to its canonical
// form.
func NormalizeSpec(spec string) (string, error) {
	ev, err := Parse(spec)
	if err != nil {
		return "", err
	}
	return ev.Spec(), nil
}
