// Package history provides transactional undo/redo for the editing engine.
//
// # Transactions
//
// Every user-visible action is recorded as one Transaction: the ordered
// list of buffer operations it performed plus snapshots of the cursor set
// before and after. A multi-cursor edit is a single transaction holding one
// Op per cursor, so one undo removes all of them. Adding or removing cursors
// is recorded as a transaction with no ops.
//
// # Ops
//
// An Op replaces Range with Inserted and remembers the Removed bytes.
// Ops are recorded in the order they were applied and each Range is
// expressed in the buffer coordinates at the moment it was applied:
//
//	tx.Apply(buf, nil)   // reapply ops in order (redo)
//	tx.Revert(buf, nil)  // undo ops in reverse order
//
// # History Stack
//
//	h := history.New(1000) // keep at most 1000 undo entries
//	h.Push(tx)             // clears the redo stack
//	h.Undo(buf, cursors, nil)
//	h.Redo(buf, cursors, nil)
//
// Undo and Redo on an empty stack return ErrNothingToUndo and
// ErrNothingToRedo without changing any state.
package history
