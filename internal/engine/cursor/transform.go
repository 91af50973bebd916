package cursor

import (
	"sort"

	"github.com/dshills/quill/internal/engine/buffer"
)

// Edit is an alias for buffer.Edit for convenience.
type Edit = buffer.Edit

// TransformOffset updates an offset after an edit.
//
// Transformation rules:
//   - If edit is entirely before offset: adjust offset by the edit's delta
//   - If edit starts at or after offset: offset unchanged
//   - If edit spans offset: move offset to end of new text
func TransformOffset(offset ByteOffset, edit Edit) ByteOffset {
	if edit.Range.End <= offset {
		return offset + edit.Delta()
	}
	if edit.Range.Start >= offset {
		return offset
	}
	return edit.Range.Start + len(edit.NewText)
}

// TransformCursor updates both ends of a cursor after an edit.
func TransformCursor(c Cursor, edit Edit) Cursor {
	c.Anchor = TransformOffset(c.Anchor, edit)
	c.Position = TransformOffset(c.Position, edit)
	return c
}

// Transform updates every cursor in the set after an edit applied
// elsewhere (for example by search-and-replace).
func (s *Set) Transform(edit Edit) {
	s.Map(func(c Cursor) Cursor { return TransformCursor(c, edit) })
}

// EditsInReverseOrder returns true if edits are sorted by descending start
// position without overlap. This is the order in which a multi-cursor edit
// is applied so earlier edits never shift later ones.
func EditsInReverseOrder(edits []Edit) bool {
	for i := 1; i < len(edits); i++ {
		if edits[i].Range.End > edits[i-1].Range.Start {
			return false
		}
	}
	return true
}

// SortEditsReverse sorts edits in descending order by start position.
// This mutates the input slice.
func SortEditsReverse(edits []Edit) {
	sort.SliceStable(edits, func(i, j int) bool {
		return edits[i].Range.Start > edits[j].Range.Start
	})
}
