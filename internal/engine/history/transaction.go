package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/engine/cursor"
)

// ByteOffset is an alias for buffer.ByteOffset for convenience.
type ByteOffset = buffer.ByteOffset

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// Op is a single replace-range mutation. Range is expressed in the
// coordinates of the buffer at the moment the op was applied.
type Op struct {
	Range    Range  // Replaced range
	Inserted string // Text written in place of Range
	Removed  string // Text that Range held before the op
}

// Apply performs the op against buf.
func (op Op) Apply(buf *buffer.Buffer) error {
	_, err := buf.Replace(op.Range.Start, op.Range.End, op.Inserted)
	return err
}

// Revert undoes the op against buf.
func (op Op) Revert(buf *buffer.Buffer) error {
	_, err := buf.Replace(op.Range.Start, op.Range.Start+len(op.Inserted), op.Removed)
	return err
}

// Affected returns the range touched by the op in either direction.
func (op Op) Affected() Range {
	return Range{Start: op.Range.Start, End: op.Range.Start + max(len(op.Inserted), len(op.Removed))}
}

// Dirty returns Affected, extended to limit when the op changes the buffer
// length: every byte after such an op moves.
func (op Op) Dirty(limit ByteOffset) Range {
	r := op.Affected()
	if op.Delta() != 0 && limit > r.End {
		r.End = limit
	}
	return r
}

// Delta returns the change in buffer length caused by applying the op.
func (op Op) Delta() int {
	return len(op.Inserted) - len(op.Removed)
}

// String returns a human-readable representation of the op.
func (op Op) String() string {
	return fmt.Sprintf("%s %q -> %q", op.Range, op.Removed, op.Inserted)
}

// Transaction is the atomic unit of undo and redo.
type Transaction struct {
	Name      string
	Ops       []Op
	Before    cursor.Snapshot
	After     cursor.Snapshot
	Timestamp time.Time
}

// NewTransaction creates an empty transaction starting from before.
func NewTransaction(name string, before cursor.Snapshot) *Transaction {
	return &Transaction{
		Name:      name,
		Before:    before,
		Timestamp: time.Now(),
	}
}

// IsTopologyOnly reports whether the transaction only changed cursors.
func (tx *Transaction) IsTopologyOnly() bool {
	return len(tx.Ops) == 0
}

// Record applies op to buf and appends it, filling in the removed text.
func (tx *Transaction) Record(buf *buffer.Buffer, r Range, inserted string) (Op, error) {
	res, err := buf.Replace(r.Start, r.End, inserted)
	if err != nil {
		return Op{}, err
	}
	op := Op{Range: r, Inserted: inserted, Removed: res.OldText}
	tx.Ops = append(tx.Ops, op)
	return op, nil
}

// Apply reapplies every op in original order. visit, if not nil, is called
// after each op lands, while the buffer is in that op's coordinates.
func (tx *Transaction) Apply(buf *buffer.Buffer, visit func(Op)) error {
	for i, op := range tx.Ops {
		if err := op.Apply(buf); err != nil {
			// Roll back what was applied so the buffer stays consistent.
			for j := i - 1; j >= 0; j-- {
				_ = tx.Ops[j].Revert(buf)
			}
			return fmt.Errorf("redo %s op %d: %w", tx.Name, i, err)
		}
		if visit != nil {
			visit(op)
		}
	}
	return nil
}

// Revert undoes every op in reverse order, calling visit after each.
func (tx *Transaction) Revert(buf *buffer.Buffer, visit func(Op)) error {
	for i := len(tx.Ops) - 1; i >= 0; i-- {
		if err := tx.Ops[i].Revert(buf); err != nil {
			for j := i + 1; j < len(tx.Ops); j++ {
				_ = tx.Ops[j].Apply(buf)
			}
			return fmt.Errorf("undo %s op %d: %w", tx.Name, i, err)
		}
		if visit != nil {
			visit(tx.Ops[i])
		}
	}
	return nil
}

// String summarizes the transaction.
func (tx *Transaction) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s[%d ops", tx.Name, len(tx.Ops))
	if len(tx.Before.Cursors) != len(tx.After.Cursors) {
		fmt.Fprintf(&sb, ", cursors %d->%d", len(tx.Before.Cursors), len(tx.After.Cursors))
	}
	sb.WriteString("]")
	return sb.String()
}
