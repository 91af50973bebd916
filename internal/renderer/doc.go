// Package renderer paints an editor session onto a terminal backend.
//
// A frame is drawn top to bottom:
//
//	┌────┬──────────────────────────────┬─┐
//	│ 12 │ text rows (wrapped or not)   │█│
//	│    │ continuation row             │█│
//	│ 13 │                              │││
//	├────┴──────────────────────────────┴─┤
//	│ status bar                          │
//	│ message or prompt                   │
//	└─────────────────────────────────────┘
//
// The gutter numbers a logical line on its first visual row only. The last
// text column holds the scrollbar. Syntax colors come from the session's
// highlight engine resolved through a Theme; selections get the theme's
// selection background and secondary cursors are drawn in reverse video.
// The primary cursor is the terminal cursor.
//
// Usage:
//
//	b, _ := backend.NewTerminal()
//	r := renderer.New(b, renderer.DefaultOptions())
//	r.Render(session)
package renderer
