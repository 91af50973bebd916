package cursor

import (
	"errors"
	"testing"

	"github.com/dshills/quill/internal/engine/buffer"
)

func TestCursorRange(t *testing.T) {
	tests := []struct {
		name    string
		c       Cursor
		want    Range
		hasSel  bool
		forward bool
	}{
		{"collapsed", At(5), Range{Start: 5, End: 5}, false, true},
		{"forward", Selecting(2, 7), Range{Start: 2, End: 7}, true, true},
		{"backward", Selecting(7, 2), Range{Start: 2, End: 7}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Range(); got != tt.want {
				t.Errorf("Range() = %v, want %v", got, tt.want)
			}
			if got := tt.c.HasSelection(); got != tt.hasSel {
				t.Errorf("HasSelection() = %v, want %v", got, tt.hasSel)
			}
			if got := tt.c.IsForward(); got != tt.forward {
				t.Errorf("IsForward() = %v, want %v", got, tt.forward)
			}
		})
	}
}

func TestCursorMoves(t *testing.T) {
	c := Cursor{ID: 3, Position: 4, Anchor: 1}

	moved := c.MoveTo(9)
	if moved.ID != 3 || moved.Position != 9 || moved.HasSelection() {
		t.Errorf("MoveTo = %v", moved)
	}
	ext := c.ExtendTo(9)
	if ext.Anchor != 1 || ext.Position != 9 {
		t.Errorf("ExtendTo = %v", ext)
	}
	if got := Selecting(-3, 50).Clamp(10); got.Anchor != 0 || got.Position != 10 {
		t.Errorf("Clamp = %v", got)
	}
}

func TestSetAddPrimaryKeepsOrder(t *testing.T) {
	s := NewSet(8)
	s.AddPrimary(At(0))
	s.AddPrimary(At(4))

	want := []ByteOffset{0, 4, 8}
	got := s.Positions()
	if len(got) != len(want) {
		t.Fatalf("Positions() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Positions()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
	if s.Primary().Position != 4 {
		t.Errorf("primary at %d, want 4", s.Primary().Position)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestSetDuplicateCollapsesKeepingPrimary(t *testing.T) {
	s := NewSet(3)
	first := s.Primary()
	s.AddPrimary(At(10))

	// Move the primary onto the other cursor.
	s.SetPrimary(At(3))

	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	p := s.Primary()
	if p.Position != 3 {
		t.Errorf("primary at %d, want 3", p.Position)
	}
	if p.ID == first.ID {
		t.Error("merged cursor should keep the primary's ID")
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestSetOverlappingSelectionsMerge(t *testing.T) {
	s := NewSet(0)
	s.Reset(Selecting(0, 5))
	s.AddPrimary(Selecting(3, 8))

	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	if got := s.Primary().Range(); got != (Range{Start: 0, End: 8}) {
		t.Errorf("merged range = %v", got)
	}
}

func TestSetTouchingSelectionsStaySeparate(t *testing.T) {
	s := NewSet(0)
	s.Reset(Selecting(0, 3))
	s.AddPrimary(Selecting(4, 7))
	s.AddPrimary(At(3))

	// The bare cursor at 3 equals the first selection's position.
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2: %v", s.Len(), s.All())
	}
}

func TestSetClamp(t *testing.T) {
	s := NewSet(2)
	s.AddPrimary(At(50))
	s.AddPrimary(At(60))

	s.Clamp(10)
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if s.Primary().Position != 10 {
		t.Errorf("primary at %d, want 10", s.Primary().Position)
	}
}

func TestSetRemoveSecondary(t *testing.T) {
	s := NewSet(0)
	s.AddPrimary(At(4))
	s.AddPrimary(At(8))

	if !s.RemoveSecondary() {
		t.Fatal("expected cursors to be removed")
	}
	if s.Len() != 1 || s.Primary().Position != 8 {
		t.Errorf("unexpected set %v", s.All())
	}
	if s.RemoveSecondary() {
		t.Error("second call should report no change")
	}
}

func TestSnapshotRestore(t *testing.T) {
	s := NewSet(0)
	s.AddPrimary(At(4))
	snap := s.Snapshot()

	s.RemoveSecondary()
	s.Restore(snap)

	if !s.Snapshot().Equal(snap) {
		t.Errorf("restore mismatch: %v vs %v", s.Snapshot(), snap)
	}

	// IDs allocated after a restore never collide with restored ones.
	added := s.AddPrimary(At(9))
	for _, c := range snap.Cursors {
		if c.ID == added.ID {
			t.Errorf("ID %d reused", added.ID)
		}
	}
}

func TestValidateDetectsViolations(t *testing.T) {
	s := &Set{cursors: []Cursor{{ID: 1, Position: 5, Anchor: 5}, {ID: 2, Position: 5, Anchor: 5}}, primary: 1}
	if err := s.Validate(); !errors.Is(err, ErrInvariant) {
		t.Errorf("expected ErrInvariant, got %v", err)
	}
	s = &Set{cursors: []Cursor{{ID: 1, Position: 5, Anchor: 5}}, primary: 7}
	if err := s.Validate(); !errors.Is(err, ErrInvariant) {
		t.Errorf("expected ErrInvariant for missing primary, got %v", err)
	}
}

func TestTransformOffset(t *testing.T) {
	tests := []struct {
		name   string
		offset ByteOffset
		edit   Edit
		want   ByteOffset
	}{
		{"insert before", 10, buffer.NewInsert(2, "abc"), 13},
		{"insert at", 10, buffer.NewInsert(10, "abc"), 13},
		{"insert after", 10, buffer.NewInsert(12, "abc"), 10},
		{"delete before", 10, buffer.NewDelete(0, 4), 6},
		{"delete spanning", 10, buffer.NewDelete(8, 12), 8},
		{"replace spanning", 10, buffer.NewEdit(Range{Start: 8, End: 12}, "xy"), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TransformOffset(tt.offset, tt.edit); got != tt.want {
				t.Errorf("TransformOffset = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSortEditsReverse(t *testing.T) {
	edits := []Edit{buffer.NewInsert(1, "a"), buffer.NewInsert(9, "b"), buffer.NewInsert(5, "c")}
	if EditsInReverseOrder(edits) {
		t.Error("edits are not in reverse order yet")
	}
	SortEditsReverse(edits)
	if !EditsInReverseOrder(edits) {
		t.Errorf("edits not sorted: %v", edits)
	}
}
