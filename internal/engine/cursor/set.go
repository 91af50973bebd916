package cursor

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvariant is wrapped by Validate when a Set breaks its invariants.
var ErrInvariant = errors.New("cursor set invariant violated")

// Set manages the cursors of one document.
// Cursors are kept sorted by position; exactly one is primary.
type Set struct {
	cursors []Cursor
	primary ID
	nextID  ID
}

// Snapshot is an immutable copy of a Set's state, used by undo history.
type Snapshot struct {
	Cursors []Cursor
	Primary ID
}

// NewSet creates a cursor set with a single cursor at offset.
func NewSet(offset ByteOffset) *Set {
	s := &Set{nextID: 1}
	c := At(offset)
	c.ID = s.allocID()
	s.cursors = []Cursor{c}
	s.primary = c.ID
	return s
}

func (s *Set) allocID() ID {
	id := s.nextID
	s.nextID++
	return id
}

// Primary returns the primary cursor.
func (s *Set) Primary() Cursor {
	return s.cursors[s.PrimaryIndex()]
}

// PrimaryIndex returns the index of the primary cursor in position order.
func (s *Set) PrimaryIndex() int {
	for i, c := range s.cursors {
		if c.ID == s.primary {
			return i
		}
	}
	return 0
}

// All returns a copy of all cursors in position order.
func (s *Set) All() []Cursor {
	out := make([]Cursor, len(s.cursors))
	copy(out, s.cursors)
	return out
}

// Len returns the number of cursors.
func (s *Set) Len() int {
	return len(s.cursors)
}

// IsMulti returns true if there is more than one cursor.
func (s *Set) IsMulti() bool {
	return len(s.cursors) > 1
}

// HasSelection returns true if any cursor selects text.
func (s *Set) HasSelection() bool {
	for _, c := range s.cursors {
		if c.HasSelection() {
			return true
		}
	}
	return false
}

// AddPrimary adds c with a fresh ID and makes it the primary cursor. If it
// lands on an existing cursor the two merge and the merged cursor is primary.
// It returns the new primary.
func (s *Set) AddPrimary(c Cursor) Cursor {
	c.ID = s.allocID()
	s.cursors = append(s.cursors, c)
	s.primary = c.ID
	s.normalize()
	return s.Primary()
}

// SetPrimary replaces the primary cursor, keeping its ID.
func (s *Set) SetPrimary(c Cursor) {
	i := s.PrimaryIndex()
	c.ID = s.cursors[i].ID
	s.cursors[i] = c
	s.normalize()
}

// Reset replaces every cursor with a single primary cursor c.
func (s *Set) Reset(c Cursor) {
	c.ID = s.primary
	s.cursors = []Cursor{c}
}

// RemoveSecondary drops every non-primary cursor. It reports whether any
// cursor was removed.
func (s *Set) RemoveSecondary() bool {
	if len(s.cursors) == 1 {
		return false
	}
	s.cursors = []Cursor{s.Primary()}
	return true
}

// Map replaces each cursor with f(cursor) and renormalizes. IDs are preserved.
func (s *Set) Map(f func(c Cursor) Cursor) {
	for i, c := range s.cursors {
		id := c.ID
		c = f(c)
		c.ID = id
		s.cursors[i] = c
	}
	s.normalize()
}

// Clamp limits every cursor to [0, limit] and renormalizes.
func (s *Set) Clamp(limit ByteOffset) {
	for i, c := range s.cursors {
		s.cursors[i] = c.Clamp(limit)
	}
	s.normalize()
}

// Snapshot returns a copy of the current state.
func (s *Set) Snapshot() Snapshot {
	return Snapshot{Cursors: s.All(), Primary: s.primary}
}

// Restore replaces the current state with snap.
func (s *Set) Restore(snap Snapshot) {
	if len(snap.Cursors) == 0 {
		return
	}
	s.cursors = make([]Cursor, len(snap.Cursors))
	copy(s.cursors, snap.Cursors)
	s.primary = snap.Primary
	for _, c := range s.cursors {
		if c.ID >= s.nextID {
			s.nextID = c.ID + 1
		}
	}
	s.normalize()
}

// Positions returns the position of every cursor in order.
func (s *Set) Positions() []ByteOffset {
	out := make([]ByteOffset, len(s.cursors))
	for i, c := range s.cursors {
		out[i] = c.Position
	}
	return out
}

// Validate checks the set invariants: at least one cursor, strictly
// increasing positions, non-overlapping selections and exactly one primary.
func (s *Set) Validate() error {
	if len(s.cursors) == 0 {
		return fmt.Errorf("%w: empty set", ErrInvariant)
	}
	primaries := 0
	for i, c := range s.cursors {
		if c.ID == s.primary {
			primaries++
		}
		if i == 0 {
			continue
		}
		prev := s.cursors[i-1]
		if c.Position <= prev.Position {
			return fmt.Errorf("%w: positions not increasing at %d", ErrInvariant, i)
		}
		if c.Range().Overlaps(prev.Range()) {
			return fmt.Errorf("%w: selections overlap at %d", ErrInvariant, i)
		}
	}
	if primaries != 1 {
		return fmt.Errorf("%w: %d primary cursors", ErrInvariant, primaries)
	}
	return nil
}

// normalize sorts cursors and collapses duplicates and overlapping
// selections. A collapsed group containing the primary stays primary.
func (s *Set) normalize() {
	if len(s.cursors) <= 1 {
		s.fixPrimary()
		return
	}

	sort.SliceStable(s.cursors, func(i, j int) bool {
		si, sj := s.cursors[i].Start(), s.cursors[j].Start()
		if si != sj {
			return si < sj
		}
		return s.cursors[i].End() < s.cursors[j].End()
	})

	merged := s.cursors[:1]
	for _, c := range s.cursors[1:] {
		last := &merged[len(merged)-1]
		if c.Start() < last.End() || c.Position == last.Position {
			if c.ID == s.primary {
				*last = merge(c, *last)
			} else {
				*last = merge(*last, c)
			}
			continue
		}
		merged = append(merged, c)
	}
	s.cursors = merged
	s.fixPrimary()
}

// fixPrimary makes sure the primary ID refers to a cursor in the set.
func (s *Set) fixPrimary() {
	for _, c := range s.cursors {
		if c.ID == s.primary {
			return
		}
	}
	if len(s.cursors) > 0 {
		s.primary = s.cursors[0].ID
	}
}

// Equal reports whether two snapshots describe the same cursors.
func (snap Snapshot) Equal(other Snapshot) bool {
	if snap.Primary != other.Primary || len(snap.Cursors) != len(other.Cursors) {
		return false
	}
	for i := range snap.Cursors {
		if snap.Cursors[i] != other.Cursors[i] {
			return false
		}
	}
	return true
}

// PrimaryCursor returns the primary cursor recorded in the snapshot.
func (snap Snapshot) PrimaryCursor() Cursor {
	for _, c := range snap.Cursors {
		if c.ID == snap.Primary {
			return c
		}
	}
	if len(snap.Cursors) > 0 {
		return snap.Cursors[0]
	}
	return Cursor{}
}
