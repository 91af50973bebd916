package engine

import (
	"errors"
	"io"

	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/engine/cursor"
	"github.com/dshills/quill/internal/engine/history"
)

// Re-export commonly used types for convenience.
type (
	// ByteOffset is a byte position in the buffer.
	ByteOffset = buffer.ByteOffset

	// Point represents a line/column position.
	Point = buffer.Point

	// Range represents a byte range in the buffer.
	Range = buffer.Range

	// Edit represents an edit operation.
	Edit = buffer.Edit

	// Cursor is one edit point with an optional selection.
	Cursor = cursor.Cursor

	// Transaction is the atomic unit of undo/redo.
	Transaction = history.Transaction
)

// ChangeHandler is notified with the range affected by a buffer mutation.
type ChangeHandler func(affected Range)

// Engine owns the buffer, cursor set and undo history of one document.
// Every mutation of the buffer goes through a Transaction.
//
// Engine is not safe for concurrent use; it is driven by a single event loop.
type Engine struct {
	buf     *buffer.Buffer
	cursors *cursor.Set
	history *history.History

	onChange []ChangeHandler

	maxUndoEntries int
	readOnly       bool
	initContent    string
}

// New creates a new Engine with the given options.
func New(opts ...Option) *Engine {
	e := newEngine(opts)
	e.buf = buffer.NewBufferFromString(e.initContent)
	return e
}

// NewFromReader creates an Engine from an io.Reader.
func NewFromReader(r io.Reader, opts ...Option) (*Engine, error) {
	e := newEngine(opts)
	buf, err := buffer.NewBufferFromReader(r)
	if err != nil {
		return nil, err
	}
	e.buf = buf
	return e, nil
}

func newEngine(opts []Option) *Engine {
	e := &Engine{maxUndoEntries: DefaultMaxUndoEntries}
	for _, opt := range opts {
		opt(e)
	}
	e.cursors = cursor.NewSet(0)
	e.history = history.New(e.maxUndoEntries)
	return e
}

// OnChange registers an additional change handler.
func (e *Engine) OnChange(fn ChangeHandler) {
	if fn != nil {
		e.onChange = append(e.onChange, fn)
	}
}

func (e *Engine) notify(r Range) {
	for _, fn := range e.onChange {
		fn(r)
	}
}

// opVisitor returns a callback that notifies change handlers of each op
// right after it is applied or reverted. before is the buffer length prior
// to the first op.
func (e *Engine) opVisitor(before ByteOffset) func(history.Op) {
	prev := before
	return func(op history.Op) {
		n := e.buf.Len()
		e.notify(op.Dirty(max(prev, n)))
		prev = n
	}
}

// Buffer returns the underlying buffer for read access. Callers must not
// mutate it directly.
func (e *Engine) Buffer() *buffer.Buffer {
	return e.buf
}

// Cursors returns the cursor set. Callers may move cursors directly but
// must use the engine for changes that belong in the undo history.
func (e *Engine) Cursors() *cursor.Set {
	return e.cursors
}

// History returns the undo history.
func (e *Engine) History() *history.History {
	return e.history
}

// Text returns the full buffer content.
func (e *Engine) Text() string {
	return e.buf.Text()
}

// Len returns the total byte length of the buffer.
func (e *Engine) Len() ByteOffset {
	return e.buf.Len()
}

// IsReadOnly reports whether edits are rejected.
func (e *Engine) IsReadOnly() bool {
	return e.readOnly
}

// ============================================================================
// Transactions
// ============================================================================

// Begin opens a transaction that records edits one by one. It must be
// finished with Commit. Transactions are plain values; nothing else in the
// engine changes behavior while one is open.
func (e *Engine) Begin(name string) *Transaction {
	return history.NewTransaction(name, e.cursors.Snapshot())
}

// Record applies edit inside tx, shifts every cursor past it and notifies
// change handlers.
func (e *Engine) Record(tx *Transaction, edit Edit) (history.Op, error) {
	if e.readOnly {
		return history.Op{}, ErrReadOnly
	}
	if tx == nil || !tx.After.Equal(cursor.Snapshot{}) {
		return history.Op{}, ErrTransactionClosed
	}
	visit := e.opVisitor(e.buf.Len())
	op, err := tx.Record(e.buf, edit.Range, edit.NewText)
	if err != nil {
		return history.Op{}, err
	}
	e.cursors.Transform(edit)
	e.cursors.Clamp(e.buf.Len())
	visit(op)
	return op, nil
}

// Commit closes tx and pushes it onto the undo stack. Transactions that
// neither edited the buffer nor changed the cursors are dropped. It returns
// whether the transaction was kept.
func (e *Engine) Commit(tx *Transaction) bool {
	tx.After = e.cursors.Snapshot()
	if len(tx.Ops) == 0 && tx.After.Equal(tx.Before) {
		return false
	}
	e.history.Push(tx)
	return true
}

// ApplyEdits applies a batch of non-overlapping edits, highest offset first,
// as a single transaction.
func (e *Engine) ApplyEdits(name string, edits []Edit) (*Transaction, error) {
	if e.readOnly {
		return nil, ErrReadOnly
	}
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	cursor.SortEditsReverse(sorted)
	if !cursor.EditsInReverseOrder(sorted) {
		return nil, buffer.ErrRangeInvalid
	}

	tx := e.Begin(name)
	for _, edit := range sorted {
		if edit.IsNoOp() {
			continue
		}
		if _, err := e.Record(tx, edit); err != nil {
			_ = tx.Revert(e.buf, e.opVisitor(e.buf.Len()))
			e.cursors.Restore(tx.Before)
			return nil, err
		}
	}
	if !e.Commit(tx) {
		return nil, nil
	}
	return tx, nil
}

// ============================================================================
// Multi-cursor edits
// ============================================================================

// editFunc returns the range a cursor's edit replaces and the text to write.
// ok is false when the cursor has nothing to do (for example Backspace at
// offset zero).
type editFunc func(c Cursor) (r Range, text string, ok bool)

// editEach applies fn at every cursor as one transaction. Edits are applied
// from the highest offset down so no edit shifts one still to be applied.
// Each edited cursor lands at the end of its own inserted text; every other
// cursor is carried through the edits that were applied.
func (e *Engine) editEach(name string, fn editFunc) (*Transaction, error) {
	if e.readOnly {
		return nil, ErrReadOnly
	}

	all := e.cursors.All()
	type planned struct {
		r    Range
		text string
		ok   bool
	}
	plan := make([]planned, len(all))
	limit := e.buf.Len()
	for i := len(all) - 1; i >= 0; i-- {
		r, text, ok := fn(all[i])
		// Never reach into a range already claimed by a higher cursor.
		r = r.Clamp(limit)
		if ok && r.IsEmpty() && text == "" {
			ok = false
		}
		plan[i] = planned{r: r, text: text, ok: ok}
		if ok {
			limit = r.Start
		}
	}

	pos := make([]ByteOffset, len(all))
	for i, c := range all {
		pos[i] = c.Position
	}

	tx := e.Begin(name)
	visit := e.opVisitor(e.buf.Len())
	for i := len(all) - 1; i >= 0; i-- {
		p := plan[i]
		if !p.ok {
			continue
		}
		op, err := tx.Record(e.buf, p.r, p.text)
		if err != nil {
			_ = tx.Revert(e.buf, visit)
			return nil, err
		}
		visit(op)

		edit := Edit{Range: p.r, NewText: p.text}
		for j := range pos {
			if j == i {
				pos[j] = p.r.Start + len(p.text)
				continue
			}
			pos[j] = cursor.TransformOffset(pos[j], edit)
		}
	}
	if len(tx.Ops) == 0 {
		return nil, nil
	}

	moved := make(map[cursor.ID]ByteOffset, len(all))
	for i, c := range all {
		moved[c.ID] = pos[i]
	}
	e.cursors.Map(func(c Cursor) Cursor { return c.MoveTo(moved[c.ID]) })
	e.cursors.Clamp(e.buf.Len())

	e.Commit(tx)
	return tx, nil
}

// InsertText replaces every cursor's selection (or inserts at its position)
// with text.
func (e *Engine) InsertText(text string) (*Transaction, error) {
	return e.editEach("insert", func(c Cursor) (Range, string, bool) {
		return c.Range(), text, true
	})
}

// DeleteBackward deletes each cursor's selection, or the character before it.
func (e *Engine) DeleteBackward() (*Transaction, error) {
	return e.editEach("delete backward", func(c Cursor) (Range, string, bool) {
		if c.HasSelection() {
			return c.Range(), "", true
		}
		if c.Position == 0 {
			return Range{}, "", false
		}
		return Range{Start: e.buf.PrevCharOffset(c.Position), End: c.Position}, "", true
	})
}

// DeleteForward deletes each cursor's selection, or the character after it.
func (e *Engine) DeleteForward() (*Transaction, error) {
	return e.editEach("delete forward", func(c Cursor) (Range, string, bool) {
		if c.HasSelection() {
			return c.Range(), "", true
		}
		if c.Position >= e.buf.Len() {
			return Range{}, "", false
		}
		return Range{Start: c.Position, End: e.buf.NextCharOffset(c.Position)}, "", true
	})
}

// DeleteWordBackward deletes each cursor's selection, or the word before it
// together with any whitespace between the word and the cursor.
func (e *Engine) DeleteWordBackward() (*Transaction, error) {
	return e.editEach("delete word", func(c Cursor) (Range, string, bool) {
		if c.HasSelection() {
			return c.Range(), "", true
		}
		start := WordStartBefore(e.buf, c.Position)
		if start == c.Position {
			return Range{}, "", false
		}
		return Range{Start: start, End: c.Position}, "", true
	})
}

// ============================================================================
// Undo / Redo
// ============================================================================

// Undo reverts the most recent transaction. It reports false without error
// when there is nothing to undo.
func (e *Engine) Undo() (bool, error) {
	_, err := e.history.Undo(e.buf, e.cursors, e.opVisitor(e.buf.Len()))
	if errors.Is(err, history.ErrNothingToUndo) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	e.cursors.Clamp(e.buf.Len())
	return true, nil
}

// Redo reapplies the most recently undone transaction. It reports false
// without error when there is nothing to redo.
func (e *Engine) Redo() (bool, error) {
	_, err := e.history.Redo(e.buf, e.cursors, e.opVisitor(e.buf.Len()))
	if errors.Is(err, history.ErrNothingToRedo) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	e.cursors.Clamp(e.buf.Len())
	return true, nil
}

// ============================================================================
// Cursor topology
// ============================================================================

// topology runs fn and records the cursor change as a transaction with no
// ops. It reports whether the cursors changed.
func (e *Engine) topology(name string, fn func()) bool {
	tx := e.Begin(name)
	fn()
	e.cursors.Clamp(e.buf.Len())
	return e.Commit(tx)
}

// AddCursor adds c as the new primary cursor.
func (e *Engine) AddCursor(c Cursor) bool {
	return e.topology("add cursor", func() {
		e.cursors.AddPrimary(c)
	})
}

// RemoveSecondary drops every cursor but the primary.
func (e *Engine) RemoveSecondary() bool {
	return e.topology("remove cursors", func() {
		e.cursors.RemoveSecondary()
	})
}

// AddCursorAtNextMatch finds the next literal occurrence of the primary
// selection after its end and adds a cursor selecting it. With no
// selection, the word under the primary cursor is selected first. It
// reports whether the cursor set changed.
func (e *Engine) AddCursorAtNextMatch() bool {
	p := e.cursors.Primary()
	if !p.HasSelection() {
		word, ok := WordAt(e.buf, p.Position)
		if !ok {
			return false
		}
		e.cursors.SetPrimary(cursor.Selecting(word.Start, word.End))
		return true
	}

	needle := e.buf.TextRange(p.Start(), p.End())
	at := e.buf.Index(needle, p.End())
	if at < 0 {
		return false
	}
	return e.AddCursor(cursor.Selecting(at, at+len(needle)))
}

// ============================================================================
// Cursor movement
// ============================================================================

// MoveEach moves every cursor to target(c). When extend is true the anchor
// is kept, growing the selection.
func (e *Engine) MoveEach(extend bool, target func(c Cursor) ByteOffset) {
	e.cursors.Map(func(c Cursor) Cursor {
		to := buffer.ClampOffset(target(c), e.buf.Len())
		if extend {
			return c.ExtendTo(to)
		}
		return c.MoveTo(to)
	})
}

// MoveLeft moves each cursor one character left. Without extend, a
// selection collapses to its start instead.
func (e *Engine) MoveLeft(extend bool) {
	e.MoveEach(extend, func(c Cursor) ByteOffset {
		if c.HasSelection() && !extend {
			return c.Start()
		}
		return e.buf.PrevCharOffset(c.Position)
	})
}

// MoveRight moves each cursor one character right. Without extend, a
// selection collapses to its end instead.
func (e *Engine) MoveRight(extend bool) {
	e.MoveEach(extend, func(c Cursor) ByteOffset {
		if c.HasSelection() && !extend {
			return c.End()
		}
		return e.buf.NextCharOffset(c.Position)
	})
}

// MoveLineStart moves each cursor to the first byte of its logical line.
func (e *Engine) MoveLineStart(extend bool) {
	e.MoveEach(extend, func(c Cursor) ByteOffset {
		return e.buf.LineStartOffset(e.buf.LineAt(c.Position))
	})
}

// MoveLineEnd moves each cursor to the end of its logical line.
func (e *Engine) MoveLineEnd(extend bool) {
	e.MoveEach(extend, func(c Cursor) ByteOffset {
		return e.buf.LineEndOffset(e.buf.LineAt(c.Position))
	})
}

// MoveDocumentStart collapses to a single cursor at offset zero.
func (e *Engine) MoveDocumentStart(extend bool) {
	e.collapseTo(0, extend)
}

// MoveDocumentEnd collapses to a single cursor at the end of the buffer.
func (e *Engine) MoveDocumentEnd(extend bool) {
	e.collapseTo(e.buf.Len(), extend)
}

func (e *Engine) collapseTo(offset ByteOffset, extend bool) {
	p := e.cursors.Primary()
	if extend {
		e.Collapse(p.ExtendTo(offset))
		return
	}
	e.Collapse(p.MoveTo(offset))
}

// Collapse replaces every cursor with the single primary cursor c. Dropping
// secondary cursors is recorded as a topology transaction; moving a lone
// cursor is not.
func (e *Engine) Collapse(c Cursor) {
	c = c.Clamp(e.buf.Len())
	if e.cursors.IsMulti() {
		e.topology("collapse cursors", func() { e.cursors.Reset(c) })
		return
	}
	e.cursors.Reset(c)
}

// SelectAll selects the whole buffer with a single cursor.
func (e *Engine) SelectAll() {
	e.Collapse(cursor.Selecting(0, e.buf.Len()))
}

// SetCursor collapses to a single cursor at offset (mouse click).
func (e *Engine) SetCursor(offset ByteOffset, extend bool) {
	e.collapseTo(buffer.ClampOffset(offset, e.buf.Len()), extend)
}
