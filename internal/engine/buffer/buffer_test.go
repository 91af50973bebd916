package buffer

import (
	"errors"
	"strings"
	"testing"
)

func TestNewBufferFromString(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantText  string
		wantLines int
	}{
		{"empty", "", "", 1},
		{"single line", "hello", "hello", 1},
		{"trailing newline", "hello\n", "hello\n", 2},
		{"crlf normalized", "a\r\nb\r\nc", "a\nb\nc", 3},
		{"cr normalized", "a\rb", "a\nb", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := NewBufferFromString(tt.input)
			if got := buf.Text(); got != tt.wantText {
				t.Errorf("Text() = %q, want %q", got, tt.wantText)
			}
			if got := buf.LineCount(); got != tt.wantLines {
				t.Errorf("LineCount() = %d, want %d", got, tt.wantLines)
			}
		})
	}
}

func TestNewBufferFromReader(t *testing.T) {
	buf, err := NewBufferFromReader(strings.NewReader("one\r\ntwo"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Text() != "one\ntwo" {
		t.Errorf("Text() = %q", buf.Text())
	}
}

func TestLineOffsets(t *testing.T) {
	buf := NewBufferFromString("aaa\nbb\n\ncccc")

	tests := []struct {
		line       int
		start, end ByteOffset
		text       string
	}{
		{0, 0, 3, "aaa"},
		{1, 4, 6, "bb"},
		{2, 7, 7, ""},
		{3, 8, 12, "cccc"},
		{99, 8, 12, "cccc"},
		{-1, 0, 3, "aaa"},
	}

	for _, tt := range tests {
		if got := buf.LineStartOffset(tt.line); got != tt.start {
			t.Errorf("LineStartOffset(%d) = %d, want %d", tt.line, got, tt.start)
		}
		if got := buf.LineEndOffset(tt.line); got != tt.end {
			t.Errorf("LineEndOffset(%d) = %d, want %d", tt.line, got, tt.end)
		}
		if got := buf.LineText(tt.line); got != tt.text {
			t.Errorf("LineText(%d) = %q, want %q", tt.line, got, tt.text)
		}
	}
}

func TestOffsetToPoint(t *testing.T) {
	buf := NewBufferFromString("ab\ncd\n")

	tests := []struct {
		offset ByteOffset
		want   Point
	}{
		{0, Point{0, 0}},
		{2, Point{0, 2}},
		{3, Point{1, 0}},
		{5, Point{1, 2}},
		{6, Point{2, 0}},
		{100, Point{2, 0}},
		{-4, Point{0, 0}},
	}

	for _, tt := range tests {
		if got := buf.OffsetToPoint(tt.offset); got != tt.want {
			t.Errorf("OffsetToPoint(%d) = %v, want %v", tt.offset, got, tt.want)
		}
	}

	if got := buf.PointToOffset(Point{Line: 1, Column: 40}); got != 5 {
		t.Errorf("PointToOffset clamps column: got %d, want 5", got)
	}
}

func TestReplaceUpdatesLineIndex(t *testing.T) {
	buf := NewBufferFromString("line1\nline2\nline3")

	res, err := buf.Replace(5, 6, " ")
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if res.OldText != "\n" || res.Delta != 0 {
		t.Errorf("unexpected result %+v", res)
	}
	if buf.LineCount() != 2 {
		t.Errorf("LineCount() = %d, want 2", buf.LineCount())
	}

	if _, err := buf.Insert(buf.Len(), "\nline4\n"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if buf.LineCount() != 4 {
		t.Errorf("LineCount() = %d, want 4", buf.LineCount())
	}
	if buf.LineText(2) != "line4" {
		t.Errorf("LineText(2) = %q", buf.LineText(2))
	}
	if buf.RevisionID() != 2 {
		t.Errorf("RevisionID() = %d, want 2", buf.RevisionID())
	}
}

func TestReplaceErrors(t *testing.T) {
	buf := NewBufferFromString("abc")

	if _, err := buf.Replace(2, 1, ""); !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("expected ErrRangeInvalid, got %v", err)
	}
	if _, err := buf.Delete(0, 10); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
	if buf.Text() != "abc" {
		t.Errorf("failed edit changed text: %q", buf.Text())
	}
}

func TestCharOffsets(t *testing.T) {
	buf := NewBufferFromString("aé中b")

	if got := buf.NextCharOffset(1); got != 3 {
		t.Errorf("NextCharOffset(1) = %d, want 3", got)
	}
	if got := buf.NextCharOffset(3); got != 6 {
		t.Errorf("NextCharOffset(3) = %d, want 6", got)
	}
	if got := buf.PrevCharOffset(6); got != 3 {
		t.Errorf("PrevCharOffset(6) = %d, want 3", got)
	}
	if got := buf.PrevCharOffset(0); got != 0 {
		t.Errorf("PrevCharOffset(0) = %d, want 0", got)
	}
	if got := buf.NextCharOffset(buf.Len()); got != buf.Len() {
		t.Errorf("NextCharOffset(end) = %d", got)
	}
}

func TestIndexAndSlice(t *testing.T) {
	buf := NewBufferFromString("foo bar foo")

	if got := buf.Index("foo", 1); got != 8 {
		t.Errorf("Index = %d, want 8", got)
	}
	if got := buf.Index("zzz", 0); got != -1 {
		t.Errorf("Index = %d, want -1", got)
	}
	if got := string(buf.SliceBytes(Range{Start: 4, End: 100})); got != "bar foo" {
		t.Errorf("SliceBytes = %q", got)
	}
	if got := buf.TextRange(-5, 3); got != "foo" {
		t.Errorf("TextRange = %q", got)
	}
}

func TestRangeOps(t *testing.T) {
	a := Range{Start: 0, End: 5}
	b := Range{Start: 5, End: 9}

	if a.Overlaps(b) {
		t.Error("touching ranges must not overlap")
	}
	if !a.Overlaps(Range{Start: 4, End: 6}) {
		t.Error("expected overlap")
	}
	if got := a.Union(b); got != (Range{Start: 0, End: 9}) {
		t.Errorf("Union = %v", got)
	}
	if got := (Range{Start: -3, End: 20}).Clamp(10); got != (Range{Start: 0, End: 10}) {
		t.Errorf("Clamp = %v", got)
	}
}
