package buffer

import (
	"bytes"
	"errors"
	"io"
	"sort"
	"strings"
	"unicode/utf8"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
)

// Buffer holds the text of one document.
type Buffer struct {
	text       []byte
	lineStarts []ByteOffset // offset of the first byte of every line; lineStarts[0] == 0
	revisionID RevisionID
}

// NewBuffer creates a new empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{lineStarts: []ByteOffset{0}}
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string) *Buffer {
	b := NewBuffer()
	b.text = []byte(normalizeLineEndings(s))
	b.reindexFrom(0)
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader) (*Buffer, error) {
	// Read everything first so a CRLF split across reads still normalizes.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data)), nil
}

func normalizeLineEndings(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Len returns the length of the buffer in bytes.
func (b *Buffer) Len() ByteOffset {
	return len(b.text)
}

// IsEmpty reports whether the buffer has no content.
func (b *Buffer) IsEmpty() bool {
	return len(b.text) == 0
}

// Text returns the entire buffer content.
func (b *Buffer) Text() string {
	return string(b.text)
}

// WriteTo writes the buffer content to w.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.text)
	return int64(n), err
}

// SliceBytes returns a copy of the bytes in r, clamped to the buffer.
func (b *Buffer) SliceBytes(r Range) []byte {
	r = r.Clamp(b.Len())
	if r.Start >= r.End {
		return nil
	}
	out := make([]byte, r.Len())
	copy(out, b.text[r.Start:r.End])
	return out
}

// TextRange returns the text in [start, end), clamped to the buffer.
func (b *Buffer) TextRange(start, end ByteOffset) string {
	return string(b.SliceBytes(Range{Start: start, End: end}))
}

// ByteAt returns the byte at offset, or 0 when out of range.
func (b *Buffer) ByteAt(offset ByteOffset) byte {
	if offset < 0 || offset >= len(b.text) {
		return 0
	}
	return b.text[offset]
}

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() int {
	return len(b.lineStarts)
}

// LineStartOffset returns the offset of the first byte of line.
// The line is clamped to the valid range.
func (b *Buffer) LineStartOffset(line int) ByteOffset {
	line = b.clampLine(line)
	return b.lineStarts[line]
}

// LineEndOffset returns the offset of the end of line, excluding the
// terminating newline.
func (b *Buffer) LineEndOffset(line int) ByteOffset {
	line = b.clampLine(line)
	if line+1 < len(b.lineStarts) {
		return b.lineStarts[line+1] - 1
	}
	return len(b.text)
}

// LineRange returns the range of line excluding its terminator.
func (b *Buffer) LineRange(line int) Range {
	return Range{Start: b.LineStartOffset(line), End: b.LineEndOffset(line)}
}

// LineText returns the text of line without its terminator.
func (b *Buffer) LineText(line int) string {
	r := b.LineRange(line)
	return string(b.text[r.Start:r.End])
}

// LineLen returns the byte length of line excluding its terminator.
func (b *Buffer) LineLen(line int) int {
	return b.LineRange(line).Len()
}

// LineAt returns the line containing offset. Offsets are clamped.
func (b *Buffer) LineAt(offset ByteOffset) int {
	offset = ClampOffset(offset, b.Len())
	// First line start strictly after offset, minus one.
	return sort.Search(len(b.lineStarts), func(i int) bool {
		return b.lineStarts[i] > offset
	}) - 1
}

// OffsetToPoint converts a byte offset to a line/column point.
func (b *Buffer) OffsetToPoint(offset ByteOffset) Point {
	offset = ClampOffset(offset, b.Len())
	line := b.LineAt(offset)
	return Point{Line: line, Column: offset - b.lineStarts[line]}
}

// PointToOffset converts a point to a byte offset, clamping both the line
// and the column to the buffer.
func (b *Buffer) PointToOffset(p Point) ByteOffset {
	r := b.LineRange(p.Line)
	return ClampOffset(r.Start+max(p.Column, 0), r.End)
}

// PrevCharOffset returns the offset of the UTF-8 character before offset.
func (b *Buffer) PrevCharOffset(offset ByteOffset) ByteOffset {
	offset = ClampOffset(offset, b.Len())
	if offset == 0 {
		return 0
	}
	_, size := utf8.DecodeLastRune(b.text[:offset])
	return offset - size
}

// NextCharOffset returns the offset just after the UTF-8 character at offset.
func (b *Buffer) NextCharOffset(offset ByteOffset) ByteOffset {
	offset = ClampOffset(offset, b.Len())
	if offset == len(b.text) {
		return offset
	}
	_, size := utf8.DecodeRune(b.text[offset:])
	return offset + size
}

// RuneAt returns the rune starting at offset and its size. It returns
// utf8.RuneError and 0 at the end of the buffer.
func (b *Buffer) RuneAt(offset ByteOffset) (rune, int) {
	if offset < 0 || offset >= len(b.text) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRune(b.text[offset:])
}

// RuneBefore returns the rune ending at offset and its size.
func (b *Buffer) RuneBefore(offset ByteOffset) (rune, int) {
	if offset <= 0 || offset > len(b.text) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeLastRune(b.text[:offset])
}

// Index returns the offset of the first occurrence of needle at or after
// from, or -1.
func (b *Buffer) Index(needle string, from ByteOffset) ByteOffset {
	if needle == "" || from < 0 || from > len(b.text) {
		return -1
	}
	i := bytes.Index(b.text[from:], []byte(needle))
	if i < 0 {
		return -1
	}
	return from + i
}

// RevisionID returns the current revision.
func (b *Buffer) RevisionID() RevisionID {
	return b.revisionID
}

// Insert inserts text at offset.
func (b *Buffer) Insert(offset ByteOffset, text string) (EditResult, error) {
	return b.Replace(offset, offset, text)
}

// Delete removes the bytes in [start, end).
func (b *Buffer) Delete(start, end ByteOffset) (EditResult, error) {
	return b.Replace(start, end, "")
}

// ApplyEdit applies a single edit.
func (b *Buffer) ApplyEdit(e Edit) (EditResult, error) {
	return b.Replace(e.Range.Start, e.Range.End, e.NewText)
}

// Replace replaces [start, end) with text. Text is inserted verbatim; line
// endings are only normalized when a buffer is created.
func (b *Buffer) Replace(start, end ByteOffset, text string) (EditResult, error) {
	if start < 0 || end > len(b.text) {
		return EditResult{}, ErrOffsetOutOfRange
	}
	if start > end {
		return EditResult{}, ErrRangeInvalid
	}

	oldText := string(b.text[start:end])
	tail := len(b.text) - end
	grown := make([]byte, 0, start+len(text)+tail)
	grown = append(grown, b.text[:start]...)
	grown = append(grown, text...)
	grown = append(grown, b.text[end:]...)
	b.text = grown
	b.revisionID++
	b.reindexFrom(b.LineAt(start))

	return EditResult{
		OldRange: Range{Start: start, End: end},
		NewRange: Range{Start: start, End: start + len(text)},
		OldText:  oldText,
		Delta:    len(text) - (end - start),
	}, nil
}

// reindexFrom rebuilds the line index from line onward.
func (b *Buffer) reindexFrom(line int) {
	line = max(0, min(line, len(b.lineStarts)-1))
	b.lineStarts = b.lineStarts[:line+1]
	for i := b.lineStarts[line]; i < len(b.text); i++ {
		if b.text[i] == '\n' {
			b.lineStarts = append(b.lineStarts, i+1)
		}
	}
}

func (b *Buffer) clampLine(line int) int {
	if line < 0 {
		return 0
	}
	if line >= len(b.lineStarts) {
		return len(b.lineStarts) - 1
	}
	return line
}
