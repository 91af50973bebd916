package engine

import (
	"strings"
	"testing"

	"github.com/dshills/quill/internal/engine/cursor"
)

func TestNewWithContent(t *testing.T) {
	content := "Hello, World!"
	e := New(WithContent(content))

	if e.Text() != content {
		t.Errorf("expected %q, got %q", content, e.Text())
	}
	if e.Len() != len(content) {
		t.Errorf("expected len %d, got %d", len(content), e.Len())
	}
}

func TestNewFromReader(t *testing.T) {
	e, err := NewFromReader(strings.NewReader("a\r\nb"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "a\nb" {
		t.Errorf("expected normalized text, got %q", e.Text())
	}
}

func TestInsertTextReplacesSelection(t *testing.T) {
	e := New(WithContent("hello world"))
	e.Cursors().Reset(cursor.Selecting(6, 11))

	if _, err := e.InsertText("there"); err != nil {
		t.Fatalf("InsertText: %v", err)
	}
	if e.Text() != "hello there" {
		t.Errorf("got %q", e.Text())
	}
	if p := e.Cursors().Primary(); p.Position != 11 || p.HasSelection() {
		t.Errorf("cursor = %v", p)
	}
}

func TestAddCursorBelowAndTypeScenario(t *testing.T) {
	e := New(WithContent("aaa\nbbb\nccc\nddd"))
	e.AddCursor(cursor.At(4))
	e.AddCursor(cursor.At(8))

	if e.Cursors().Len() != 3 {
		t.Fatalf("expected 3 cursors, got %d", e.Cursors().Len())
	}

	if _, err := e.InsertText("X"); err != nil {
		t.Fatalf("InsertText: %v", err)
	}
	if got := strings.Count(e.Text(), "X"); got != 3 {
		t.Errorf("expected 3 X, got %d in %q", got, e.Text())
	}
	if e.Text() != "Xaaa\nXbbb\nXccc\nddd" {
		t.Errorf("got %q", e.Text())
	}
	want := []ByteOffset{1, 6, 11}
	for i, p := range e.Cursors().Positions() {
		if p != want[i] {
			t.Errorf("cursor %d at %d, want %d", i, p, want[i])
		}
	}

	undone, err := e.Undo()
	if err != nil || !undone {
		t.Fatalf("Undo = %v, %v", undone, err)
	}
	if strings.Count(e.Text(), "X") != 0 {
		t.Errorf("undo left X behind: %q", e.Text())
	}
	if e.Cursors().Len() != 3 {
		t.Errorf("undo should keep the 3-cursor state, got %d", e.Cursors().Len())
	}
}

func TestMultiCursorDeleteForwardUndo(t *testing.T) {
	e := New(WithContent("aaa\nbbb\nccc"))
	e.AddCursor(cursor.At(4))
	e.AddCursor(cursor.At(8))

	if _, err := e.DeleteForward(); err != nil {
		t.Fatalf("DeleteForward: %v", err)
	}
	if e.Text() != "aa\nbb\ncc" {
		t.Errorf("got %q", e.Text())
	}
	if _, err := e.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if e.Text() != "aaa\nbbb\nccc" {
		t.Errorf("after undo %q", e.Text())
	}
}

func TestUndoBeyondCursorAdd(t *testing.T) {
	e := New(WithContent("aaa\nbbb\nccc"))
	e.AddCursor(cursor.At(4))
	if _, err := e.InsertText("X"); err != nil {
		t.Fatal(err)
	}

	steps := []struct {
		op      func() (bool, error)
		xs      int
		cursors int
	}{
		{e.Undo, 0, 2},
		{e.Undo, 0, 1},
		{e.Redo, 0, 2},
		{e.Redo, 2, 2},
	}
	for i, step := range steps {
		if _, err := step.op(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if got := strings.Count(e.Text(), "X"); got != step.xs {
			t.Errorf("step %d: %d X, want %d (%q)", i, got, step.xs, e.Text())
		}
		if got := e.Cursors().Len(); got != step.cursors {
			t.Errorf("step %d: %d cursors, want %d", i, got, step.cursors)
		}
	}
}

func TestRemoveSecondaryUndo(t *testing.T) {
	e := New(WithContent("Line 1\nLine 2\nLine 3"))
	e.AddCursor(cursor.At(7))
	e.AddCursor(cursor.At(14))

	if !e.RemoveSecondary() {
		t.Fatal("expected RemoveSecondary to change cursors")
	}
	if e.Cursors().Len() != 1 {
		t.Fatalf("Len() = %d", e.Cursors().Len())
	}
	if _, err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if e.Cursors().Len() != 3 {
		t.Errorf("undo should restore 3 cursors, got %d", e.Cursors().Len())
	}
	if _, err := e.Redo(); err != nil {
		t.Fatal(err)
	}
	if e.Cursors().Len() != 1 {
		t.Errorf("redo should remove them again, got %d", e.Cursors().Len())
	}
	if e.RemoveSecondary() {
		t.Error("nothing left to remove")
	}
}

func TestUndoRedoEmptyIsNoOp(t *testing.T) {
	e := New(WithContent("abc"))
	if ok, err := e.Undo(); ok || err != nil {
		t.Errorf("Undo = %v, %v", ok, err)
	}
	if ok, err := e.Redo(); ok || err != nil {
		t.Errorf("Redo = %v, %v", ok, err)
	}
	if e.Text() != "abc" {
		t.Errorf("text changed: %q", e.Text())
	}
}

func TestAddCursorAtNextMatchScenario(t *testing.T) {
	e := New(WithContent("foo bar foo baz foo"))
	e.Cursors().Reset(cursor.Selecting(0, 3))

	for i := 0; i < 3; i++ {
		e.AddCursorAtNextMatch()
	}

	all := e.Cursors().All()
	if len(all) != 3 {
		t.Fatalf("expected 3 cursors, got %v", all)
	}
	for i, start := range []ByteOffset{0, 8, 16} {
		if got := all[i].Range(); got != (Range{Start: start, End: start + 3}) {
			t.Errorf("cursor %d selects %v", i, got)
		}
	}
	if p := e.Cursors().Primary(); p.Start() != 16 {
		t.Errorf("primary should be the last match, got %v", p)
	}
}

func TestAddCursorAtNextMatchSelectsWordFirst(t *testing.T) {
	e := New(WithContent("foo bar foo"))
	e.Cursors().Reset(cursor.At(1))

	if !e.AddCursorAtNextMatch() {
		t.Fatal("expected the word to be selected")
	}
	if got := e.Cursors().Primary().Range(); got != (Range{Start: 0, End: 3}) {
		t.Errorf("selection = %v", got)
	}
	if e.History().CanUndo() {
		t.Error("selecting a word is not a history entry")
	}
	e.AddCursorAtNextMatch()
	if e.Cursors().Len() != 2 {
		t.Errorf("Len() = %d", e.Cursors().Len())
	}
}

func TestDeleteWordBackward(t *testing.T) {
	e := New(WithContent("hello world test"))
	e.SetCursor(16, false)

	wants := []struct {
		text string
		pos  ByteOffset
	}{
		{"hello world ", 12},
		{"hello ", 6},
		{"", 0},
	}
	for _, w := range wants {
		if _, err := e.DeleteWordBackward(); err != nil {
			t.Fatal(err)
		}
		if e.Text() != w.text || e.Cursors().Primary().Position != w.pos {
			t.Errorf("got %q at %d, want %q at %d", e.Text(), e.Cursors().Primary().Position, w.text, w.pos)
		}
	}
	tx, err := e.DeleteWordBackward()
	if tx != nil || err != nil {
		t.Errorf("delete at start should do nothing, got %v, %v", tx, err)
	}
}

func TestDeleteBackwardOverlappingCursors(t *testing.T) {
	e := New(WithContent("ab cd"))
	e.SetCursor(4, false)
	e.AddCursor(cursor.At(5))

	if _, err := e.DeleteWordBackward(); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "ab " {
		t.Errorf("got %q", e.Text())
	}
	if err := e.Cursors().Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestBackspaceMultiByte(t *testing.T) {
	e := New(WithContent("a中"))
	e.SetCursor(4, false)
	if _, err := e.DeleteBackward(); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "a" {
		t.Errorf("got %q", e.Text())
	}
}

func TestChangeHandlerSeesEveryMutation(t *testing.T) {
	var ranges []Range
	e := New(WithContent("abc"), WithChangeHandler(func(r Range) { ranges = append(ranges, r) }))
	e.SetCursor(3, false)

	if _, err := e.InsertText("de"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Redo(); err != nil {
		t.Fatal(err)
	}
	if len(ranges) != 3 {
		t.Fatalf("expected 3 notifications, got %v", ranges)
	}
	for _, r := range ranges {
		if r != (Range{Start: 3, End: 5}) {
			t.Errorf("unexpected range %v", r)
		}
	}
}

func TestIncrementalTransaction(t *testing.T) {
	e := New(WithContent("foo foo"))
	tx := e.Begin("replace")
	if _, err := e.Record(tx, Edit{Range: Range{Start: 0, End: 3}, NewText: "x"}); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Record(tx, Edit{Range: Range{Start: 2, End: 5}, NewText: "y"}); err != nil {
		t.Fatal(err)
	}
	if !e.Commit(tx) {
		t.Fatal("expected commit to push")
	}
	if e.Text() != "x y" {
		t.Errorf("got %q", e.Text())
	}
	if _, err := e.Record(tx, Edit{Range: Range{Start: 0, End: 0}, NewText: "z"}); err != ErrTransactionClosed {
		t.Errorf("expected ErrTransactionClosed, got %v", err)
	}
	if _, err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "foo foo" {
		t.Errorf("after undo %q", e.Text())
	}
}

func TestApplyEdits(t *testing.T) {
	e := New(WithContent("one two three"))
	tx, err := e.ApplyEdits("batch", []Edit{
		{Range: Range{Start: 0, End: 3}, NewText: "1"},
		{Range: Range{Start: 8, End: 13}, NewText: "3"},
	})
	if err != nil || tx == nil {
		t.Fatalf("ApplyEdits = %v, %v", tx, err)
	}
	if e.Text() != "1 two 3" {
		t.Errorf("got %q", e.Text())
	}
	if _, err := e.ApplyEdits("overlap", []Edit{
		{Range: Range{Start: 0, End: 3}},
		{Range: Range{Start: 2, End: 4}},
	}); err == nil {
		t.Error("expected overlapping edits to fail")
	}
}

func TestReadOnly(t *testing.T) {
	e := New(WithContent("abc"), WithReadOnly())
	if _, err := e.InsertText("x"); err != ErrReadOnly {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
}

func TestMovement(t *testing.T) {
	e := New(WithContent("first line\nsecond"))
	e.SetCursor(14, false)

	e.MoveLineStart(false)
	if got := e.Cursors().Primary().Position; got != 11 {
		t.Errorf("Home -> %d, want 11", got)
	}
	e.MoveLineEnd(true)
	if got := e.Cursors().Primary().Range(); got != (Range{Start: 11, End: 17}) {
		t.Errorf("Shift+End selection %v", got)
	}
	e.MoveLeft(false)
	if got := e.Cursors().Primary(); got.Position != 11 || got.HasSelection() {
		t.Errorf("Left collapses to start, got %v", got)
	}
	e.MoveLeft(false)
	if got := e.Cursors().Primary().Position; got != 10 {
		t.Errorf("Left -> %d, want 10", got)
	}
	e.MoveDocumentEnd(false)
	if got := e.Cursors().Primary().Position; got != e.Len() {
		t.Errorf("Ctrl+End -> %d", got)
	}
	e.SelectAll()
	if got := e.Cursors().Primary().Range(); got != (Range{Start: 0, End: e.Len()}) {
		t.Errorf("SelectAll -> %v", got)
	}
}

func overlapsAny(ranges []Range, r Range) bool {
	for _, got := range ranges {
		if got.Start < r.End && got.End > r.Start {
			return true
		}
	}
	return false
}

func TestChangeRangesCoverShiftedBytes(t *testing.T) {
	var ranges []Range
	e := New(WithContent("0123456789"), WithChangeHandler(func(r Range) { ranges = append(ranges, r) }))
	e.Cursors().Reset(cursor.Selecting(1, 3))
	e.AddCursor(cursor.At(7))

	// Bytes 4..7 keep their text but move one byte left.
	cached := Range{Start: 4, End: 7}

	if _, err := e.InsertText("X"); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "0X3456X789" {
		t.Fatalf("got %q", e.Text())
	}
	if !overlapsAny(ranges, cached) {
		t.Errorf("edit: %v misses %v", ranges, cached)
	}

	steps := []struct {
		name string
		op   func() (bool, error)
		want string
	}{
		{"undo", e.Undo, "0123456789"},
		{"redo", e.Redo, "0X3456X789"},
	}
	for _, step := range steps {
		ranges = nil
		if _, err := step.op(); err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		if e.Text() != step.want {
			t.Fatalf("%s: got %q", step.name, e.Text())
		}
		if !overlapsAny(ranges, cached) {
			t.Errorf("%s: %v misses %v", step.name, ranges, cached)
		}
	}
}

func TestDeleteWordBackwardSwallowedCursor(t *testing.T) {
	e := New(WithContent("ab    xyz"))
	e.SetCursor(2, false)
	e.AddCursor(cursor.At(6))

	if _, err := e.DeleteWordBackward(); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "xyz" {
		t.Errorf("got %q", e.Text())
	}
	if got := e.Cursors().Positions(); len(got) != 1 || got[0] != 0 {
		t.Errorf("positions = %v, want [0]", got)
	}
}

func TestUnaffectedCursorsFollowEdits(t *testing.T) {
	e := New(WithContent("aa bb cc"))
	e.SetCursor(2, false)
	e.AddCursor(cursor.At(8))

	if _, err := e.DeleteBackward(); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "a bb c" {
		t.Fatalf("got %q", e.Text())
	}
	got := e.Cursors().Positions()
	if len(got) != 2 || got[0] != 1 || got[1] != 6 {
		t.Errorf("positions = %v, want [1 6]", got)
	}
}

func TestCollapseIsOneTransaction(t *testing.T) {
	e := New(WithContent("aaa\nbbb\nccc"))
	e.AddCursor(cursor.At(4))
	e.AddCursor(cursor.At(8))
	before := e.History().UndoCount()

	e.SetCursor(2, false)
	if e.Cursors().Len() != 1 {
		t.Fatalf("Len() = %d", e.Cursors().Len())
	}
	if got := e.History().UndoCount(); got != before+1 {
		t.Errorf("UndoCount() = %d, want %d", got, before+1)
	}
	if _, err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if e.Cursors().Len() != 3 {
		t.Errorf("undo should restore 3 cursors, got %d", e.Cursors().Len())
	}

	single := New(WithContent("abc"))
	single.SetCursor(2, false)
	single.SelectAll()
	if single.History().CanUndo() {
		t.Error("moving a lone cursor should not record history")
	}
}
