// Package search implements literal find-next and interactive
// query-replace over an engine buffer.
package search

import (
	"errors"
	"strings"

	"github.com/dshills/quill/internal/engine/buffer"
)

// Errors returned by search operations.
var (
	// ErrEmptyQuery indicates a search was started with no text.
	ErrEmptyQuery = errors.New("empty search query")

	// ErrFinished indicates an answer was given to a finished query-replace.
	ErrFinished = errors.New("query replace finished")

	// ErrInvalidAnswer indicates an answer other than y, n, ! or q.
	ErrInvalidAnswer = errors.New("invalid query replace answer")
)

// Match is one occurrence found by FindNext.
type Match struct {
	Range buffer.Range

	// Wrapped is true when the search ran past the end of the buffer and
	// continued from the start.
	Wrapped bool
}

// FindNext returns the first literal occurrence of needle at or after from.
// When there is none it wraps once to the start of the buffer.
func FindNext(buf *buffer.Buffer, needle string, from int) (Match, bool) {
	if needle == "" {
		return Match{}, false
	}
	from = buffer.ClampOffset(from, buf.Len())
	if at := buf.Index(needle, from); at >= 0 {
		return Match{Range: buffer.NewRange(at, at+len(needle))}, true
	}
	if at := buf.Index(needle, 0); at >= 0 && at < from {
		return Match{Range: buffer.NewRange(at, at+len(needle)), Wrapped: true}, true
	}
	return Match{}, false
}

// CountMatches returns the number of non-overlapping occurrences of needle.
func CountMatches(buf *buffer.Buffer, needle string) int {
	if needle == "" {
		return 0
	}
	n := 0
	for at := buf.Index(needle, 0); at >= 0; at = buf.Index(needle, at+len(needle)) {
		n++
	}
	return n
}

// MatchesIn returns the non-overlapping occurrences of needle that start in
// [start, end). Only the bytes of that window, plus enough to finish a match
// starting in it, are read.
func MatchesIn(buf *buffer.Buffer, needle string, start, end int) []buffer.Range {
	if needle == "" {
		return nil
	}
	start = buffer.ClampOffset(start, buf.Len())
	end = buffer.ClampOffset(end, buf.Len())
	if end <= start {
		return nil
	}
	text := buf.TextRange(start, min(end+len(needle)-1, buf.Len()))

	var out []buffer.Range
	for i := 0; i < len(text); {
		at := strings.Index(text[i:], needle)
		if at < 0 || start+i+at >= end {
			break
		}
		from := start + i + at
		out = append(out, buffer.NewRange(from, from+len(needle)))
		i += at + len(needle)
	}
	return out
}
