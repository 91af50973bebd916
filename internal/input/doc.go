// Package input defines the normalized events the editor consumes.
//
// Terminal backends translate their native events into Event values before
// anything else sees them, so the editing session never depends on a
// terminal library. Four kinds of events exist:
//
//   - Key: a key press with modifiers. Control letters are reported as the
//     lowercase rune with ModCtrl set, never as control codes.
//   - Mouse: a button press or wheel notch at a screen cell.
//   - Resize: the new terminal size.
//   - Paste: text delivered by a bracketed paste.
//
// # Key Specifications
//
// Bindings are written as "Ctrl+Z", "Alt+Up", "Ctrl+Shift+End" or "F3".
// Parse turns a specification into an Event and Event.Spec produces the
// canonical specification back, which is what keymaps are indexed by.
package input
