package highlight

import (
	"sort"

	"github.com/dshills/quill/internal/engine/buffer"
)

// Span is a highlighted byte range of the buffer.
type Span struct {
	Range    buffer.Range
	Category Category
}

// MergeAdjacent collapses touching spans of the same category. spans must be
// sorted by start and non-overlapping; the slice is reused.
func MergeAdjacent(spans []Span) []Span {
	if len(spans) < 2 {
		return spans
	}
	w := 0
	for r := 1; r < len(spans); r++ {
		if spans[w].Category == spans[r].Category && spans[w].Range.End == spans[r].Range.Start {
			spans[w].Range.End = spans[r].Range.End
			continue
		}
		w++
		spans[w] = spans[r]
	}
	return spans[:w+1]
}

// Flatten resolves possibly nested spans inside [base, base+length) into a
// sorted, non-overlapping sequence. Narrower spans win over the spans that
// contain them.
func Flatten(base, length int, spans []Span) []Span {
	if len(spans) == 0 || length <= 0 {
		return nil
	}
	ordered := append([]Span(nil), spans...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Range.Len() > ordered[j].Range.Len()
	})

	cats := make([]Category, length)
	for _, s := range ordered {
		start := max(s.Range.Start-base, 0)
		end := min(s.Range.End-base, length)
		for i := start; i < end; i++ {
			cats[i] = s.Category
		}
	}

	var out []Span
	for i := 0; i < length; {
		j := i + 1
		for j < length && cats[j] == cats[i] {
			j++
		}
		if cats[i] != CategoryNone {
			out = append(out, Span{Range: buffer.NewRange(base+i, base+j), Category: cats[i]})
		}
		i = j
	}
	return out
}

// intersecting returns the spans overlapping [start, end).
func intersecting(spans []Span, start, end int) []Span {
	var out []Span
	for _, s := range spans {
		if s.Range.Start < end && s.Range.End > start {
			out = append(out, s)
		}
	}
	return out
}
