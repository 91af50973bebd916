package engine

import (
	"unicode"

	"github.com/dshills/quill/internal/engine/buffer"
)

type charClass int

const (
	classSpace charClass = iota
	classWord
	classPunct
)

func classify(r rune) charClass {
	switch {
	case unicode.IsSpace(r):
		return classSpace
	case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
		return classWord
	default:
		return classPunct
	}
}

// WordStartBefore returns where a backward word deletion from offset ends:
// whitespace before offset is skipped, then one run of word or punctuation
// characters.
func WordStartBefore(buf *buffer.Buffer, offset ByteOffset) ByteOffset {
	offset = buffer.ClampOffset(offset, buf.Len())
	for offset > 0 {
		r, size := buf.RuneBefore(offset)
		if classify(r) != classSpace {
			break
		}
		offset -= size
	}
	if offset == 0 {
		return 0
	}
	r, _ := buf.RuneBefore(offset)
	class := classify(r)
	for offset > 0 {
		r, size := buf.RuneBefore(offset)
		if classify(r) != class {
			break
		}
		offset -= size
	}
	return offset
}

// WordEndAfter returns the end of the word run at or after offset, skipping
// leading whitespace.
func WordEndAfter(buf *buffer.Buffer, offset ByteOffset) ByteOffset {
	offset = buffer.ClampOffset(offset, buf.Len())
	for offset < buf.Len() {
		r, size := buf.RuneAt(offset)
		if classify(r) != classSpace {
			break
		}
		offset += size
	}
	if offset == buf.Len() {
		return offset
	}
	r, _ := buf.RuneAt(offset)
	class := classify(r)
	for offset < buf.Len() {
		r, size := buf.RuneAt(offset)
		if classify(r) != class {
			break
		}
		offset += size
	}
	return offset
}

// WordAt returns the word touching offset. A cursor right after a word
// counts as touching it.
func WordAt(buf *buffer.Buffer, offset ByteOffset) (Range, bool) {
	offset = buffer.ClampOffset(offset, buf.Len())
	start, end := offset, offset
	for start > 0 {
		r, size := buf.RuneBefore(start)
		if classify(r) != classWord {
			break
		}
		start -= size
	}
	for end < buf.Len() {
		r, size := buf.RuneAt(end)
		if classify(r) != classWord {
			break
		}
		end += size
	}
	if start == end {
		return Range{}, false
	}
	return Range{Start: start, End: end}, true
}
