package editor

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"github.com/dshills/quill/internal/engine"
	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/engine/cursor"
	"github.com/dshills/quill/internal/input"
	"github.com/dshills/quill/internal/renderer/gutter"
	"github.com/dshills/quill/internal/renderer/highlight"
	"github.com/dshills/quill/internal/renderer/layout"
	"github.com/dshills/quill/internal/renderer/viewport"
	"github.com/dshills/quill/internal/search"
)

// Screen rows reserved below the text area: the status line and the
// message line.
const chromeRows = 2

// ErrNoSaveHandler is reported when saving a session that has nowhere to
// write.
var ErrNoSaveHandler = errors.New("no save handler")

// SaveFunc writes the session text to its backing store.
type SaveFunc func(text string) error

// Options configures a Session.
type Options struct {
	// Path names the file being edited. It may be empty.
	Path string

	// Width and Height are the terminal size in cells.
	Width, Height int

	TabWidth     int
	Wrap         bool
	ScrollMargin int
	LineNumbers  gutter.LineNumberMode

	// ContextBytes is how far around the viewport highlighting parses.
	ContextBytes int

	// Highlight is the syntax engine; nil means no highlighting.
	Highlight *highlight.Engine

	// Bindings override or extend the default keymap, as key
	// specification to command name.
	Bindings map[string]string

	Save   SaveFunc
	Logger *zap.Logger
}

// Session is one interactive editing session over an engine.
type Session struct {
	id   uuid.UUID
	path string

	eng  *engine.Engine
	doc  *layout.Document
	view *viewport.Scroller
	hl   *highlight.Engine

	keymap       map[string]Command
	save         SaveFunc
	log          *zap.Logger
	contextBytes int
	lineNumbers  gutter.LineNumberMode

	termWidth, termHeight int

	// goals holds the column each cursor aims for during consecutive
	// vertical moves.
	goals map[cursor.ID]int

	prompt     *prompt
	replace    *search.QueryReplace
	lastSearch string
	message    string
	modified   bool
	quit       bool

	// showMatches keeps lastSearch marked on screen after the prompt closes.
	showMatches bool
}

// New creates a session over eng.
func New(eng *engine.Engine, opts Options) (*Session, error) {
	if opts.TabWidth <= 0 {
		opts.TabWidth = layout.DefaultTabWidth
	}
	if opts.ContextBytes <= 0 {
		opts.ContextBytes = highlight.DefaultContextBytes
	}
	if opts.Highlight == nil {
		opts.Highlight = highlight.NewNone(highlight.DetectLanguage(opts.Path))
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	s := &Session{
		id:           uuid.New(),
		path:         opts.Path,
		eng:          eng,
		hl:           opts.Highlight,
		keymap:       defaultKeymap(),
		save:         opts.Save,
		contextBytes: opts.ContextBytes,
		lineNumbers:  opts.LineNumbers,
		termWidth:    opts.Width,
		termHeight:   opts.Height,
		goals:        make(map[cursor.ID]int),
	}
	s.log = opts.Logger.With(zap.String("session", s.id.String()))

	for spec, name := range opts.Bindings {
		if err := s.Bind(spec, name); err != nil {
			return nil, err
		}
	}

	s.doc = layout.NewDocument(eng.Buffer(), layout.Config{
		Width:    s.textWidth(),
		TabWidth: opts.TabWidth,
		Wrap:     opts.Wrap,
	})
	s.view = viewport.New(s.doc, s.textWidth(), s.TextHeight())
	s.view.SetMargins(viewport.UniformMargins(opts.ScrollMargin))

	eng.OnChange(s.onChange)
	s.log.Debug("session started",
		zap.String("path", s.path),
		zap.String("backend", s.hl.BackendName()),
		zap.Int("bytes", eng.Len()))
	return s, nil
}

func (s *Session) onChange(r buffer.Range) {
	s.hl.InvalidateRange(r)
	s.modified = true
}

// ID returns the session's unique identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// Path returns the edited file path.
func (s *Session) Path() string { return s.path }

// Engine returns the engine being edited.
func (s *Session) Engine() *engine.Engine { return s.eng }

// Document returns the layout of the buffer.
func (s *Session) Document() *layout.Document { return s.doc }

// Viewport returns the scroller over the text area.
func (s *Session) Viewport() *viewport.Scroller { return s.view }

// Highlight returns the syntax highlighting engine.
func (s *Session) Highlight() *highlight.Engine { return s.hl }

// Modified reports whether the buffer changed since it was loaded or saved.
func (s *Session) Modified() bool { return s.modified }

// Quitting reports whether the user asked to quit.
func (s *Session) Quitting() bool { return s.quit }

// Message returns the transient status message.
func (s *Session) Message() string { return s.message }

// SetMessage replaces the status message.
func (s *Session) SetMessage(msg string) { s.message = msg }

// Size returns the terminal size the session lays out for.
func (s *Session) Size() (width, height int) { return s.termWidth, s.termHeight }

// GutterWidth returns the width of the line-number gutter including its
// trailing space.
func (s *Session) GutterWidth() int {
	return gutter.Digits(s.eng.Buffer().LineCount()) + 1
}

// LineNumbers returns how the gutter numbers lines.
func (s *Session) LineNumbers() gutter.LineNumberMode { return s.lineNumbers }

// TextHeight returns the number of text rows on screen.
func (s *Session) TextHeight() int {
	return max(s.termHeight-chromeRows, 1)
}

// textWidth is the terminal width minus the gutter and the scrollbar column.
func (s *Session) textWidth() int {
	return max(s.termWidth-s.GutterWidth()-1, 1)
}

// Resize adapts the session to a new terminal size.
func (s *Session) Resize(width, height int) {
	s.termWidth, s.termHeight = width, height
	s.relayout()
	s.view.EnsureVisible(s.eng.Cursors().Primary().Position)
}

// relayout refits the layout and viewport to the current terminal size and
// gutter width.
func (s *Session) relayout() {
	w := s.textWidth()
	if s.doc.Config().Width != w {
		s.doc.SetWidth(w)
	}
	if s.view.Width() != w || s.view.Height() != s.TextHeight() {
		s.view.Resize(w, s.TextHeight())
	}
	s.view.Reclamp()
}

// SetWrap enables or disables soft wrapping.
func (s *Session) SetWrap(wrap bool) {
	s.doc.SetWrap(wrap)
	s.relayout()
	s.view.EnsureVisible(s.eng.Cursors().Primary().Position)
}

// SetTabWidth changes the tab stop distance.
func (s *Session) SetTabWidth(n int) {
	s.doc.SetTabWidth(n)
	s.relayout()
}

// SetLineNumbers changes how the gutter numbers lines.
func (s *Session) SetLineNumbers(mode gutter.LineNumberMode) { s.lineNumbers = mode }

// SetHighlight replaces the syntax engine.
func (s *Session) SetHighlight(hl *highlight.Engine) {
	if hl == nil {
		hl = highlight.NewNone(highlight.DetectLanguage(s.path))
	}
	s.hl = hl
}

// MarkSaved clears the modified flag.
func (s *Session) MarkSaved() { s.modified = false }

// visibleBounds returns the byte range of the logical lines on screen.
func (s *Session) visibleBounds() (start, end int, ok bool) {
	rows := s.view.VisibleRows()
	if len(rows) == 0 {
		return 0, 0, false
	}
	buf := s.eng.Buffer()
	return buf.LineStartOffset(rows[0].Line), buf.LineEndOffset(rows[len(rows)-1].Line), true
}

// VisibleSpans returns the highlight spans covering the visible text.
func (s *Session) VisibleSpans() []highlight.Span {
	start, end, ok := s.visibleBounds()
	if !ok {
		return nil
	}
	return s.hl.HighlightViewport(s.eng.Buffer(), start, end, s.contextBytes)
}

// SearchPattern returns the text whose occurrences are marked on screen:
// the query being typed, the query of a running replace, or the last
// search until it is dismissed. It is empty when nothing is marked.
func (s *Session) SearchPattern() string {
	if s.replace != nil {
		return s.replace.Query()
	}
	if s.prompt != nil {
		switch s.prompt.kind {
		case promptFind, promptReplaceQuery:
			return s.prompt.value()
		}
		return s.lastSearch
	}
	if s.showMatches {
		return s.lastSearch
	}
	return ""
}

// VisibleMatches returns the occurrences of SearchPattern that start in the
// visible lines.
func (s *Session) VisibleMatches() []buffer.Range {
	pattern := s.SearchPattern()
	if pattern == "" {
		return nil
	}
	start, end, ok := s.visibleBounds()
	if !ok {
		return nil
	}
	// Include the final line's newline so a match ending the line is kept.
	return search.MatchesIn(s.eng.Buffer(), pattern, start, end+1)
}

// HandleEvent applies one input event.
func (s *Session) HandleEvent(ev input.Event) {
	switch ev.Kind {
	case input.KindKey:
		s.handleKey(ev)
	case input.KindMouse:
		s.handleMouse(ev)
	case input.KindResize:
		s.Resize(ev.Width, ev.Height)
	case input.KindPaste:
		s.handlePaste(ev.Text)
	}
}

func (s *Session) handleKey(ev input.Event) {
	if s.prompt != nil {
		s.promptKey(ev)
		s.afterEdit()
		return
	}
	s.message = ""

	if cmd, ok := s.keymap[ev.Spec()]; ok {
		s.Run(cmd)
		return
	}
	if ev.IsChar() {
		s.clearGoals()
		s.insert(string(ev.Rune))
	}
}

func (s *Session) handlePaste(text string) {
	if s.prompt != nil {
		for _, r := range text {
			if r != '\n' && r != '\r' {
				s.prompt.insert(r)
			}
		}
		return
	}
	s.clearGoals()
	s.insert(strings.ReplaceAll(text, "\r\n", "\n"))
}

// insert types text at every cursor.
func (s *Session) insert(text string) {
	s.report(s.eng.InsertText(text))
	s.afterEdit()
}

// report logs and surfaces the error of an edit, if any.
func (s *Session) report(_ *engine.Transaction, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, engine.ErrReadOnly) {
		s.message = "Buffer is read-only"
		return
	}
	s.message = err.Error()
	s.log.Warn("edit failed", zap.Error(err))
}

// afterEdit refits the layout and keeps the primary cursor in view.
func (s *Session) afterEdit() {
	s.relayout()
	s.view.EnsureVisible(s.eng.Cursors().Primary().Position)
}

// Save writes the buffer through the configured save handler.
func (s *Session) Save() error {
	if s.save == nil {
		return ErrNoSaveHandler
	}
	if err := s.save(s.eng.Text()); err != nil {
		return fmt.Errorf("save %s: %w", s.displayName(), err)
	}
	s.modified = false
	return nil
}

func (s *Session) displayName() string {
	if s.path == "" {
		return "[No Name]"
	}
	return filepath.Base(s.path)
}

// Status describes the session for the status line.
type Status struct {
	Name     string
	Modified bool
	Line     int // 1-based
	Column   int // 1-based, in characters
	Cursors  int
	Backend  string
	Syntax   string
	Wrap     bool
	Message  string
	Prompt   string
}

// Status returns the current status line contents.
func (s *Session) Status() Status {
	buf := s.eng.Buffer()
	p := s.eng.Cursors().Primary()
	line := buf.LineAt(p.Position)
	start := buf.LineStartOffset(line)
	st := Status{
		Name:     s.displayName(),
		Modified: s.modified,
		Line:     line + 1,
		Column:   utf8.RuneCountInString(buf.TextRange(start, p.Position)) + 1,
		Cursors:  s.eng.Cursors().Len(),
		Backend:  s.hl.BackendName(),
		Wrap:     s.doc.Wrap(),
		Message:  s.message,
	}
	if name, ok := s.hl.SyntaxName(); ok {
		st.Syntax = name
	}
	if s.prompt != nil {
		st.Prompt = s.prompt.String()
	}
	return st
}

// CursorCell returns the screen cell of the primary cursor, relative to the
// top-left of the terminal, and whether it is visible. While a prompt is
// open the cursor sits at the end of the prompt text. At the end of a row
// that exactly fills the text width the cursor sits in the scrollbar column,
// just after the last glyph.
func (s *Session) CursorCell() (x, y int, visible bool) {
	if s.prompt != nil && s.replace == nil {
		return runewidth.StringWidth(s.prompt.String()), s.termHeight - 1, true
	}
	row, col, ok := s.view.OffsetToCell(s.eng.Cursors().Primary().Position)
	if !ok {
		return 0, 0, false
	}
	return s.GutterWidth() + min(col, s.view.Width()), row, true
}
