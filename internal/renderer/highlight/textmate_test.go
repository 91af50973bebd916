package highlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/renderer/highlight/textmate"
)

// A block comment whose body can hit a rule that never advances.
const runawayGrammar = `
name: Runaway
scopeName: source.runaway
patterns:
  - name: comment.block.runaway
    begin: '/\*'
    end: '\*/'
    patterns:
      - include: '#loop'
repository:
  loop:
    name: meta.loop.runaway
    begin: '(?=a)'
    end: 'zzz'
    patterns:
      - include: '#loop'
`

func TestTextMateSkipsFailedLineAndKeepsState(t *testing.T) {
	g, err := textmate.Parse([]byte(runawayGrammar))
	require.NoError(t, err)
	e := NewTextMate(NewTextMateBackend(g, nil))

	// Line 2 cannot be tokenized; line 3 is still inside the comment.
	buf := buffer.NewBufferFromString("/* x\nqa\nyy */ k\n")
	spans := e.HighlightViewport(buf, 0, buf.Len(), 0)

	assert.Equal(t, 1, e.Stats().SkippedLines)
	assert.Contains(t, spans, span(0, 5, CategoryComment))
	assert.Contains(t, spans, span(8, 13, CategoryComment))
	for _, s := range spans {
		assert.False(t, s.Range.Start < 8 && s.Range.End > 5, "span %v covers the skipped line", s)
	}
}
