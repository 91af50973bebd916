package cursor

import (
	"fmt"

	"github.com/dshills/quill/internal/engine/buffer"
)

// ByteOffset is an alias for buffer.ByteOffset for convenience.
type ByteOffset = buffer.ByteOffset

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// ID identifies a cursor for its whole lifetime within a Set.
type ID uint64

// Cursor is an insertion point with an optional selection.
type Cursor struct {
	ID       ID
	Position ByteOffset // Where typing occurs
	Anchor   ByteOffset // Where the selection started; == Position when nothing is selected
}

// At returns a cursor at offset with no selection. The ID is left zero and
// assigned when the cursor joins a Set.
func At(offset ByteOffset) Cursor {
	return Cursor{Position: offset, Anchor: offset}
}

// Selecting returns a cursor selecting from anchor to position.
func Selecting(anchor, position ByteOffset) Cursor {
	return Cursor{Position: position, Anchor: anchor}
}

// HasSelection reports whether the cursor selects any text.
func (c Cursor) HasSelection() bool {
	return c.Anchor != c.Position
}

// Range returns the selected range (Start <= End).
func (c Cursor) Range() Range {
	if c.Anchor <= c.Position {
		return Range{Start: c.Anchor, End: c.Position}
	}
	return Range{Start: c.Position, End: c.Anchor}
}

// Start returns the lower bound of the selection.
func (c Cursor) Start() ByteOffset {
	return min(c.Anchor, c.Position)
}

// End returns the upper bound of the selection.
func (c Cursor) End() ByteOffset {
	return max(c.Anchor, c.Position)
}

// IsForward reports whether the position is at or after the anchor.
func (c Cursor) IsForward() bool {
	return c.Position >= c.Anchor
}

// MoveTo returns the cursor moved to offset with its selection dropped.
func (c Cursor) MoveTo(offset ByteOffset) Cursor {
	return Cursor{ID: c.ID, Position: offset, Anchor: offset}
}

// ExtendTo returns the cursor moved to offset keeping its anchor.
func (c Cursor) ExtendTo(offset ByteOffset) Cursor {
	return Cursor{ID: c.ID, Position: offset, Anchor: c.Anchor}
}

// Collapse drops the selection, keeping the position.
func (c Cursor) Collapse() Cursor {
	return c.MoveTo(c.Position)
}

// Clamp limits position and anchor to [0, limit].
func (c Cursor) Clamp(limit ByteOffset) Cursor {
	c.Position = buffer.ClampOffset(c.Position, limit)
	c.Anchor = buffer.ClampOffset(c.Anchor, limit)
	return c
}

// String returns a string representation of the cursor.
func (c Cursor) String() string {
	if c.HasSelection() {
		return fmt.Sprintf("Cursor#%d(%d..%d)", c.ID, c.Anchor, c.Position)
	}
	return fmt.Sprintf("Cursor#%d(%d)", c.ID, c.Position)
}

// merge combines two overlapping cursors into one spanning both. The
// direction and ID are taken from keep.
func merge(keep, other Cursor) Cursor {
	r := keep.Range().Union(other.Range())
	if !keep.HasSelection() && !other.HasSelection() {
		return keep
	}
	if keep.IsForward() {
		return Cursor{ID: keep.ID, Anchor: r.Start, Position: r.End}
	}
	return Cursor{ID: keep.ID, Anchor: r.End, Position: r.Start}
}
