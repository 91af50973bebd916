package engine

// Default configuration values.
const (
	DefaultMaxUndoEntries = 1000
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithContent sets the initial content of the engine.
func WithContent(content string) Option {
	return func(e *Engine) {
		e.initContent = content
	}
}

// WithMaxUndoEntries sets the maximum number of undo history entries.
func WithMaxUndoEntries(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxUndoEntries = n
		}
	}
}

// WithReadOnly creates a read-only engine.
// Edit operations return ErrReadOnly.
func WithReadOnly() Option {
	return func(e *Engine) {
		e.readOnly = true
	}
}

// WithChangeHandler registers fn to be called with the affected range of
// every buffer mutation, including those replayed by undo and redo.
func WithChangeHandler(fn ChangeHandler) Option {
	return func(e *Engine) {
		if fn != nil {
			e.onChange = append(e.onChange, fn)
		}
	}
}
