package editor

import (
	"github.com/dshills/quill/internal/engine/cursor"
	"github.com/dshills/quill/internal/input"
	"github.com/dshills/quill/internal/search"
)

type promptKind int

const (
	promptFind promptKind = iota
	promptReplaceQuery
	promptReplaceWith
	promptReplaceConfirm
)

// prompt is the one-line minibuffer used by find and query-replace.
type prompt struct {
	kind  promptKind
	label string
	text  []rune
}

func (p *prompt) insert(r rune) {
	p.text = append(p.text, r)
}

func (p *prompt) backspace() {
	if len(p.text) > 0 {
		p.text = p.text[:len(p.text)-1]
	}
}

func (p *prompt) value() string {
	return string(p.text)
}

// String returns the label followed by the typed text.
func (p *prompt) String() string {
	return p.label + string(p.text)
}

// PromptActive reports whether the minibuffer has focus.
func (s *Session) PromptActive() bool {
	return s.prompt != nil
}

func (s *Session) openPrompt(kind promptKind, label string) {
	s.prompt = &prompt{kind: kind, label: label}
}

func (s *Session) closePrompt() {
	s.prompt = nil
}

// StartFind opens the search prompt.
func (s *Session) StartFind() {
	s.openPrompt(promptFind, "Search: ")
}

// StartQueryReplace opens the query-replace prompt.
func (s *Session) StartQueryReplace() {
	s.openPrompt(promptReplaceQuery, search.QueryPrompt)
}

// FindNext moves to the next occurrence of the last search, starting just
// after the primary cursor. Without a previous search it opens the prompt.
func (s *Session) FindNext() {
	if s.lastSearch == "" {
		s.StartFind()
		return
	}
	p := s.eng.Cursors().Primary()
	s.find(s.eng.Buffer().NextCharOffset(p.Position))
}

// find selects the first occurrence of the last search at or after from.
// The cursor lands on the start of the match.
func (s *Session) find(from int) {
	m, ok := search.FindNext(s.eng.Buffer(), s.lastSearch, from)
	if !ok {
		s.message = "Not found: " + s.lastSearch
		return
	}
	s.eng.Collapse(cursor.Selecting(m.Range.End, m.Range.Start))
	if m.Wrapped {
		s.message = search.WrappedMarker
	}
}

// promptKey routes a key to the open prompt.
func (s *Session) promptKey(ev input.Event) {
	if s.prompt.kind == promptReplaceConfirm {
		s.confirmKey(ev)
		return
	}

	switch {
	case ev.Key == input.KeyEscape || ev.Spec() == "Ctrl+G":
		s.closePrompt()
		s.showMatches = false
		s.message = "Cancelled"
	case ev.Key == input.KeyBackspace:
		s.prompt.backspace()
	case ev.Key == input.KeyEnter:
		s.submitPrompt()
	case ev.IsChar():
		s.prompt.insert(ev.Rune)
	}
}

func (s *Session) submitPrompt() {
	p := s.prompt
	s.closePrompt()
	text := p.value()

	switch p.kind {
	case promptFind:
		if text == "" {
			return
		}
		s.lastSearch = text
		s.showMatches = true
		s.find(s.eng.Cursors().Primary().Position)

	case promptReplaceQuery:
		if text == "" {
			s.message = search.ErrEmptyQuery.Error()
			return
		}
		s.openPrompt(promptReplaceWith, search.WithPrompt(text))
		s.lastSearch = text

	case promptReplaceWith:
		q, err := search.NewQueryReplace(s.eng, s.lastSearch, text)
		if err != nil {
			s.message = err.Error()
			return
		}
		s.replace = q
		s.continueReplace()
	}
}

// confirmKey answers the pending query-replace match.
func (s *Session) confirmKey(ev input.Event) {
	if ev.Key == input.KeyEscape {
		s.replace.Quit()
		s.continueReplace()
		return
	}
	if ev.Key != input.KeyRune {
		return
	}
	if err := s.replace.Answer(search.Answer(ev.Rune)); err != nil {
		s.message = err.Error()
	}
	s.continueReplace()
}

// continueReplace shows the confirmation prompt for the current match or
// the summary once the walk is done.
func (s *Session) continueReplace() {
	if s.replace.Done() {
		s.message = s.replace.Message()
		s.replace = nil
		s.closePrompt()
		return
	}
	s.openPrompt(promptReplaceConfirm, s.replace.Prompt())
}
