package search

import (
	"fmt"

	"github.com/dshills/quill/internal/engine"
	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/engine/cursor"
)

// Prompt texts shown while a query-replace collects its input.
const (
	QueryPrompt   = "Query replace: "
	ConfirmPrompt = "Replace? (y/n/!/q)"
	WrappedMarker = "[Wrapped]"
)

// WithPrompt returns the prompt asking for the replacement of query.
func WithPrompt(query string) string {
	return fmt.Sprintf("Query replace '%s' with: ", query)
}

// Answer is a response to a single query-replace match.
type Answer rune

// Answers accepted by QueryReplace.Answer.
const (
	AnswerYes  Answer = 'y'
	AnswerNo   Answer = 'n'
	AnswerAll  Answer = '!'
	AnswerQuit Answer = 'q'
)

// QueryReplace walks the occurrences of a literal query forward from the
// primary cursor, asking for each one whether to replace it. After the end
// of the buffer it wraps to the start and stops once it reaches the
// position it started from. All replacements go into one transaction,
// committed when the walk finishes.
type QueryReplace struct {
	eng         *engine.Engine
	tx          *engine.Transaction
	query       string
	replacement string

	current buffer.Range
	stop    int
	wrapped bool
	done    bool
	count   int
}

// NewQueryReplace starts a query-replace of query with replacement at the
// primary cursor and moves to the first match. The returned value may
// already be Done when the buffer holds no match.
func NewQueryReplace(eng *engine.Engine, query, replacement string) (*QueryReplace, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if eng.IsReadOnly() {
		return nil, engine.ErrReadOnly
	}
	start := eng.Cursors().Primary().Start()
	q := &QueryReplace{
		eng:         eng,
		tx:          eng.Begin("query-replace"),
		query:       query,
		replacement: replacement,
		stop:        start,
	}
	q.seek(start)
	return q, nil
}

// Query returns the text being replaced.
func (q *QueryReplace) Query() string {
	return q.query
}

// Replacement returns the replacement text.
func (q *QueryReplace) Replacement() string {
	return q.replacement
}

// Current returns the match awaiting an answer.
func (q *QueryReplace) Current() (buffer.Range, bool) {
	return q.current, !q.done
}

// Wrapped reports whether the walk has passed the end of the buffer.
func (q *QueryReplace) Wrapped() bool {
	return q.wrapped
}

// Done reports whether the walk has finished.
func (q *QueryReplace) Done() bool {
	return q.done
}

// Count returns the number of replacements made so far.
func (q *QueryReplace) Count() int {
	return q.count
}

// Prompt returns the text to show while waiting for an answer.
func (q *QueryReplace) Prompt() string {
	if q.wrapped {
		return ConfirmPrompt + " " + WrappedMarker
	}
	return ConfirmPrompt
}

// Message returns the summary shown once the walk is done.
func (q *QueryReplace) Message() string {
	if q.count == 1 {
		return "Replaced 1 occurrence"
	}
	return fmt.Sprintf("Replaced %d occurrences", q.count)
}

// Answer handles one response to the current match.
func (q *QueryReplace) Answer(a Answer) error {
	if q.done {
		return ErrFinished
	}
	switch a {
	case AnswerYes:
		if err := q.replaceCurrent(); err != nil {
			q.finish()
			return err
		}
		q.seek(q.current.Start + len(q.replacement))
	case AnswerNo:
		q.seek(q.current.End)
	case AnswerAll:
		for !q.done {
			if err := q.replaceCurrent(); err != nil {
				q.finish()
				return err
			}
			q.seek(q.current.Start + len(q.replacement))
		}
	case AnswerQuit:
		q.finish()
	default:
		return fmt.Errorf("%w: %q", ErrInvalidAnswer, rune(a))
	}
	return nil
}

// Quit stops the walk, keeping the replacements made so far.
func (q *QueryReplace) Quit() {
	if !q.done {
		q.finish()
	}
}

func (q *QueryReplace) replaceCurrent() error {
	edit := buffer.NewEdit(q.current, q.replacement)
	if _, err := q.eng.Record(q.tx, edit); err != nil {
		return err
	}
	if q.current.Start < q.stop {
		q.stop += edit.Delta()
	}
	q.count++
	return nil
}

// seek moves to the next match at or after from, wrapping once.
func (q *QueryReplace) seek(from int) {
	buf := q.eng.Buffer()
	at := -1
	if !q.wrapped {
		at = buf.Index(q.query, from)
		if at < 0 {
			q.wrapped = true
			from = 0
		}
	}
	if q.wrapped {
		at = buf.Index(q.query, from)
		if at >= q.stop {
			at = -1
		}
	}
	if at < 0 {
		q.finish()
		return
	}
	q.current = buffer.NewRange(at, at+len(q.query))
	q.eng.Cursors().Reset(cursor.Selecting(q.current.End, q.current.Start))
}

func (q *QueryReplace) finish() {
	q.done = true
	c := q.eng.Cursors().Primary()
	q.eng.Cursors().Reset(cursor.At(c.Position))
	if q.count > 0 || len(q.tx.Before.Cursors) > 1 {
		q.eng.Commit(q.tx)
	}
}
