// Package cursor provides the multi-cursor model used by the editing engine.
//
// A Cursor carries a stable ID, a Position (where typing occurs) and an
// Anchor. When Anchor == Position the cursor has no selection; otherwise the
// text between the two is selected. The selection may extend forward
// (Position > Anchor) or backward (Position < Anchor).
//
// A Set keeps its cursors:
//   - sorted by position, with strictly increasing positions
//   - free of overlapping selections (they merge on normalization)
//   - with exactly one primary cursor, tracked by ID
//
// Basic usage:
//
//	set := cursor.NewSet(0)
//	set.AddPrimary(cursor.Cursor{Position: 10, Anchor: 10})
//	set.Clamp(buf.Len())
//
//	snap := set.Snapshot()  // value copy, used by undo history
//	set.Restore(snap)
//
// Cursor is an immutable value type. Set is owned by a single editing session
// and is not safe for concurrent use.
package cursor
