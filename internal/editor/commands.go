package editor

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/dshills/quill/internal/engine/cursor"
	"github.com/dshills/quill/internal/input"
)

// Command names an editor action that keys can be bound to.
type Command string

// Commands understood by Session.Run.
const (
	CmdUndo                Command = "undo"
	CmdRedo                Command = "redo"
	CmdAddCursorNextMatch  Command = "add-cursor-next-match"
	CmdAddCursorAbove      Command = "add-cursor-above"
	CmdAddCursorBelow      Command = "add-cursor-below"
	CmdRemoveSecondary     Command = "remove-secondary-cursors"
	CmdMoveLeft            Command = "move-left"
	CmdMoveRight           Command = "move-right"
	CmdMoveUp              Command = "move-up"
	CmdMoveDown            Command = "move-down"
	CmdSelectLeft          Command = "select-left"
	CmdSelectRight         Command = "select-right"
	CmdSelectUp            Command = "select-up"
	CmdSelectDown          Command = "select-down"
	CmdLineStart           Command = "line-start"
	CmdLineEnd             Command = "line-end"
	CmdSelectLineStart     Command = "select-line-start"
	CmdSelectLineEnd       Command = "select-line-end"
	CmdDocumentStart       Command = "document-start"
	CmdDocumentEnd         Command = "document-end"
	CmdSelectDocumentStart Command = "select-document-start"
	CmdSelectDocumentEnd   Command = "select-document-end"
	CmdSelectAll           Command = "select-all"
	CmdPageUp              Command = "page-up"
	CmdPageDown            Command = "page-down"
	CmdNewline             Command = "newline"
	CmdTab                 Command = "tab"
	CmdBackspace           Command = "backspace"
	CmdDelete              Command = "delete"
	CmdDeleteWordBackward  Command = "delete-word-backward"
	CmdFind                Command = "find"
	CmdFindNext            Command = "find-next"
	CmdQueryReplace        Command = "query-replace"
	CmdToggleWrap          Command = "toggle-wrap"
	CmdSave                Command = "save"
	CmdQuit                Command = "quit"
)

var commandTable = map[Command]func(*Session){
	CmdUndo:                (*Session).Undo,
	CmdRedo:                (*Session).Redo,
	CmdAddCursorNextMatch:  func(s *Session) { s.eng.AddCursorAtNextMatch() },
	CmdAddCursorAbove:      func(s *Session) { s.AddCursorAbove() },
	CmdAddCursorBelow:      func(s *Session) { s.AddCursorBelow() },
	CmdRemoveSecondary:     (*Session).Dismiss,
	CmdMoveLeft:            func(s *Session) { s.eng.MoveLeft(false) },
	CmdMoveRight:           func(s *Session) { s.eng.MoveRight(false) },
	CmdMoveUp:              func(s *Session) { s.MoveVertical(-1, false) },
	CmdMoveDown:            func(s *Session) { s.MoveVertical(1, false) },
	CmdSelectLeft:          func(s *Session) { s.eng.MoveLeft(true) },
	CmdSelectRight:         func(s *Session) { s.eng.MoveRight(true) },
	CmdSelectUp:            func(s *Session) { s.MoveVertical(-1, true) },
	CmdSelectDown:          func(s *Session) { s.MoveVertical(1, true) },
	CmdLineStart:           func(s *Session) { s.eng.MoveLineStart(false) },
	CmdLineEnd:             func(s *Session) { s.eng.MoveLineEnd(false) },
	CmdSelectLineStart:     func(s *Session) { s.eng.MoveLineStart(true) },
	CmdSelectLineEnd:       func(s *Session) { s.eng.MoveLineEnd(true) },
	CmdDocumentStart:       func(s *Session) { s.eng.MoveDocumentStart(false) },
	CmdDocumentEnd:         func(s *Session) { s.eng.MoveDocumentEnd(false) },
	CmdSelectDocumentStart: func(s *Session) { s.eng.MoveDocumentStart(true) },
	CmdSelectDocumentEnd:   func(s *Session) { s.eng.MoveDocumentEnd(true) },
	CmdSelectAll:           func(s *Session) { s.eng.SelectAll() },
	CmdPageUp:              func(s *Session) { s.Page(-1) },
	CmdPageDown:            func(s *Session) { s.Page(1) },
	CmdNewline:             func(s *Session) { s.report(s.eng.InsertText("\n")) },
	CmdTab:                 func(s *Session) { s.report(s.eng.InsertText("\t")) },
	CmdBackspace:           func(s *Session) { s.report(s.eng.DeleteBackward()) },
	CmdDelete:              func(s *Session) { s.report(s.eng.DeleteForward()) },
	CmdDeleteWordBackward:  func(s *Session) { s.report(s.eng.DeleteWordBackward()) },
	CmdFind:                (*Session).StartFind,
	CmdFindNext:            (*Session).FindNext,
	CmdQueryReplace:        (*Session).StartQueryReplace,
	CmdToggleWrap:          (*Session).ToggleWrap,
	CmdSave:                (*Session).runSave,
	CmdQuit:                func(s *Session) { s.quit = true },
}

// verticalCommands keep the goal column of each cursor.
var verticalCommands = map[Command]bool{
	CmdMoveUp:     true,
	CmdMoveDown:   true,
	CmdSelectUp:   true,
	CmdSelectDown: true,
}

// defaultBindings maps key specifications to commands.
var defaultBindings = map[string]Command{
	"Ctrl+Z":          CmdUndo,
	"Ctrl+Y":          CmdRedo,
	"Ctrl+D":          CmdAddCursorNextMatch,
	"Alt+Up":          CmdAddCursorAbove,
	"Ctrl+Alt+Up":     CmdAddCursorAbove,
	"Alt+Down":        CmdAddCursorBelow,
	"Ctrl+Alt+Down":   CmdAddCursorBelow,
	"Esc":             CmdRemoveSecondary,
	"Left":            CmdMoveLeft,
	"Right":           CmdMoveRight,
	"Up":              CmdMoveUp,
	"Down":            CmdMoveDown,
	"Shift+Left":      CmdSelectLeft,
	"Shift+Right":     CmdSelectRight,
	"Shift+Up":        CmdSelectUp,
	"Shift+Down":      CmdSelectDown,
	"Home":            CmdLineStart,
	"End":             CmdLineEnd,
	"Shift+Home":      CmdSelectLineStart,
	"Shift+End":       CmdSelectLineEnd,
	"Ctrl+Home":       CmdDocumentStart,
	"Ctrl+End":        CmdDocumentEnd,
	"Ctrl+Shift+Home": CmdSelectDocumentStart,
	"Ctrl+Shift+End":  CmdSelectDocumentEnd,
	"Ctrl+A":          CmdSelectAll,
	"PageUp":          CmdPageUp,
	"PageDown":        CmdPageDown,
	"Enter":           CmdNewline,
	"Tab":             CmdTab,
	"Backspace":       CmdBackspace,
	"Delete":          CmdDelete,
	"Ctrl+Backspace":  CmdDeleteWordBackward,
	"Alt+Backspace":   CmdDeleteWordBackward,
	"Ctrl+W":          CmdDeleteWordBackward,
	"Ctrl+F":          CmdFind,
	"F3":              CmdFindNext,
	"Ctrl+R":          CmdQueryReplace,
	"Ctrl+Alt+R":      CmdQueryReplace,
	"Alt+Z":           CmdToggleWrap,
	"Ctrl+S":          CmdSave,
	"Ctrl+Q":          CmdQuit,
}

func defaultKeymap() map[string]Command {
	km := make(map[string]Command, len(defaultBindings))
	for spec, cmd := range defaultBindings {
		km[input.MustParse(spec).Spec()] = cmd
	}
	return km
}

// Commands returns the names of every command, sorted.
func Commands() []string {
	names := make([]string, 0, len(commandTable))
	for c := range commandTable {
		names = append(names, string(c))
	}
	sort.Strings(names)
	return names
}

// Bind binds a key specification to a command, replacing any existing
// binding for that key. The command "none" removes the binding.
func (s *Session) Bind(spec, command string) error {
	ev, err := input.Parse(spec)
	if err != nil {
		return fmt.Errorf("bind %q: %w", spec, err)
	}
	if command == "none" {
		delete(s.keymap, ev.Spec())
		return nil
	}
	cmd := Command(command)
	if _, ok := commandTable[cmd]; !ok {
		return fmt.Errorf("bind %q: unknown command %q", spec, command)
	}
	s.keymap[ev.Spec()] = cmd
	return nil
}

// Binding returns the command bound to a key specification.
func (s *Session) Binding(spec string) (Command, bool) {
	ev, err := input.Parse(spec)
	if err != nil {
		return "", false
	}
	cmd, ok := s.keymap[ev.Spec()]
	return cmd, ok
}

// Run executes a command and brings the primary cursor into view.
func (s *Session) Run(cmd Command) {
	fn, ok := commandTable[cmd]
	if !ok {
		s.log.Warn("unknown command", zap.String("command", string(cmd)))
		return
	}
	if !verticalCommands[cmd] {
		s.clearGoals()
	}
	s.log.Debug("command", zap.String("command", string(cmd)))
	fn(s)
	if cmd == CmdPageUp || cmd == CmdPageDown {
		s.relayout()
		return
	}
	s.afterEdit()
}

// Dismiss drops the secondary cursors and stops marking the last search.
func (s *Session) Dismiss() {
	s.showMatches = false
	s.eng.RemoveSecondary()
}

// Undo reverts the most recent transaction.
func (s *Session) Undo() {
	if _, err := s.eng.Undo(); err != nil {
		s.log.Debug("undo failed", zap.Error(err))
	}
}

// Redo reapplies the most recently undone transaction.
func (s *Session) Redo() {
	if _, err := s.eng.Redo(); err != nil {
		s.log.Debug("redo failed", zap.Error(err))
	}
}

// ToggleWrap switches soft wrapping on or off.
func (s *Session) ToggleWrap() {
	s.SetWrap(!s.doc.Wrap())
	if s.doc.Wrap() {
		s.message = "Line wrap on"
	} else {
		s.message = "Line wrap off"
	}
}

func (s *Session) runSave() {
	if err := s.Save(); err != nil {
		s.message = err.Error()
		s.log.Error("save failed", zap.Error(err))
		return
	}
	s.message = "Saved " + s.displayName()
}

func (s *Session) clearGoals() {
	clear(s.goals)
}

// AddCursorAbove adds a cursor on the visual row above the primary cursor
// at the same screen column and makes it primary. It does nothing on the
// first row of the document.
func (s *Session) AddCursorAbove() bool {
	return s.addCursorVertical(-1)
}

// AddCursorBelow adds a cursor on the visual row below the primary cursor
// at the same screen column and makes it primary. It does nothing on the
// last row of the document.
func (s *Session) AddCursorBelow() bool {
	return s.addCursorVertical(1)
}

func (s *Session) addCursorVertical(dir int) bool {
	s.relayout()
	p := s.eng.Cursors().Primary()
	col := s.doc.OffsetToScreen(p.Position).Col
	off, ok := s.doc.Vertical(p.Position, col, dir)
	if !ok {
		return false
	}
	return s.eng.AddCursor(cursor.At(off))
}

// MoveVertical moves every cursor one visual row up (dir < 0) or down,
// keeping each cursor's goal column across consecutive moves. Cursors on
// the first or last row stay put.
func (s *Session) MoveVertical(dir int, extend bool) {
	s.relayout()
	goals := make(map[cursor.ID]int, s.eng.Cursors().Len())
	s.eng.MoveEach(extend, func(c cursor.Cursor) int {
		col, ok := s.goals[c.ID]
		if !ok {
			col = s.doc.OffsetToScreen(c.Position).Col
		}
		goals[c.ID] = col
		off, _ := s.doc.Vertical(c.Position, col, dir)
		return off
	})
	s.goals = goals
}

// Page scrolls one screen down (dir > 0) or up and moves the primary
// cursor along, keeping its screen row. At the document edge the cursor
// goes to the first or last byte instead.
func (s *Session) Page(dir int) {
	s.relayout()
	p := s.eng.Cursors().Primary()
	row, col, visible := s.view.OffsetToCell(p.Position)
	if !visible {
		row, col = 0, 0
	}
	before := s.view.Top()
	if dir > 0 {
		s.view.PageDown()
	} else {
		s.view.PageUp()
	}
	if s.view.Top() == before {
		if dir > 0 {
			s.eng.MoveDocumentEnd(false)
		} else {
			s.eng.MoveDocumentStart(false)
		}
		s.view.EnsureVisible(s.eng.Cursors().Primary().Position)
		return
	}
	s.eng.SetCursor(s.view.ScreenToOffset(row, col), false)
	s.view.EnsureVisible(s.eng.Cursors().Primary().Position)
}
