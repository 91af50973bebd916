// Package editor implements the interactive editing session: it turns
// normalized input events into cursor movement and transactions on an
// engine, keeps the layout, viewport and highlight cache coherent with
// every change, and exposes what a painter needs to draw the result.
//
// A Session is owned by a single goroutine. Each HandleEvent call runs one
// event to completion:
//
//  1. the event becomes a command (or typed text) through the keymap,
//  2. the command moves cursors or records a transaction on the engine,
//  3. the engine reports each changed range to the highlight cache,
//  4. the layout is refitted to the terminal and the viewport scrolls the
//     primary cursor into view.
//
// Layout of individual lines is computed lazily when the viewport or the
// painter asks for it.
package editor
