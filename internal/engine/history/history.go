package history

import (
	"errors"

	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/engine/cursor"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxEntries is used when New is given a non-positive limit.
const DefaultMaxEntries = 1000

// History manages the undo and redo stacks for one document.
type History struct {
	undoStack  []*Transaction
	redoStack  []*Transaction
	maxEntries int
}

// New creates a history keeping at most maxEntries undo transactions.
func New(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{maxEntries: maxEntries}
}

// Push adds a transaction to the undo stack and clears the redo stack.
func (h *History) Push(tx *Transaction) {
	h.undoStack = append(h.undoStack, tx)
	h.redoStack = nil

	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo reverts the most recent transaction and restores the cursors it
// started from. It returns the reverted transaction. visit is passed to
// Transaction.Revert.
func (h *History) Undo(buf *buffer.Buffer, cursors *cursor.Set, visit func(Op)) (*Transaction, error) {
	if len(h.undoStack) == 0 {
		return nil, ErrNothingToUndo
	}

	tx := h.undoStack[len(h.undoStack)-1]
	if err := tx.Revert(buf, visit); err != nil {
		return nil, err
	}
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, tx)
	cursors.Restore(tx.Before)
	return tx, nil
}

// Redo reapplies the most recently undone transaction and restores the
// cursors it ended with.
func (h *History) Redo(buf *buffer.Buffer, cursors *cursor.Set, visit func(Op)) (*Transaction, error) {
	if len(h.redoStack) == 0 {
		return nil, ErrNothingToRedo
	}

	tx := h.redoStack[len(h.redoStack)-1]
	if err := tx.Apply(buf, visit); err != nil {
		return nil, err
	}
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, tx)
	cursors.Restore(tx.After)
	return tx, nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo transactions available.
func (h *History) UndoCount() int {
	return len(h.undoStack)
}

// RedoCount returns the number of redo transactions available.
func (h *History) RedoCount() int {
	return len(h.redoStack)
}

// PeekUndo returns the next transaction Undo would revert.
func (h *History) PeekUndo() (*Transaction, bool) {
	if len(h.undoStack) == 0 {
		return nil, false
	}
	return h.undoStack[len(h.undoStack)-1], true
}

// Clear removes all undo/redo history.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}

// SetMaxEntries changes the maximum number of undo entries.
// If the current stack is larger, oldest entries are removed.
func (h *History) SetMaxEntries(n int) {
	if n <= 0 {
		n = DefaultMaxEntries
	}
	h.maxEntries = n
	if len(h.undoStack) > n {
		h.undoStack = h.undoStack[len(h.undoStack)-n:]
	}
}

// MaxEntries returns the maximum number of undo entries.
func (h *History) MaxEntries() int {
	return h.maxEntries
}
