// Package engine provides the document editing core for Quill.
//
// The engine package is the facade over buffer storage, the multi-cursor
// set and the transactional undo history. Every user-visible action runs
// through it and produces exactly one history.Transaction:
//
//   - text edits at every cursor (InsertText, DeleteBackward, ...)
//   - cursor additions and removals (AddCursor, RemoveSecondary, ...)
//   - batched or incremental edits (ApplyEdits, Begin/Record/Commit)
//
// Plain cursor motion is not recorded in the history.
//
// # Architecture
//
//   - buffer: byte buffer with a line index
//   - cursor: multi-cursor set with merge/normalize rules
//   - history: transactions and the undo/redo stacks
//
// # Multi-Cursor Edits
//
// An edit at N cursors is applied from the highest offset down, so no edit
// invalidates the offsets of those still to be applied:
//
//	e := engine.New(engine.WithContent("aaa\nbbb\nccc"))
//	e.AddCursor(cursor.At(4))
//	e.AddCursor(cursor.At(8))
//	e.InsertText("X")  // "Xaaa\nXbbb\nXccc"
//	e.Undo()           // one undo removes all three
//
// # Change Notification
//
// Handlers registered with WithChangeHandler or OnChange receive the range
// affected by every buffer mutation, including undo and redo. This is the
// only coupling between edits and derived state such as highlight caches.
//
// # Thread Safety
//
// Engine is owned by a single event loop and performs no locking.
package engine
