package app

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dshills/quill/internal/engine"
)

// Document is the file being edited and the engine holding its text.
type Document struct {
	// Path is the absolute file path (empty for scratch buffers).
	Path string

	// Name is the display name (filename or "Untitled").
	Name string

	// Engine is the text buffer and editing engine.
	Engine *engine.Engine

	// ReadOnly indicates the document cannot be edited or saved.
	ReadOnly bool

	// IsNew is set when Path did not exist when the document was opened.
	IsNew bool

	perm fs.FileMode
}

// DocumentOptions configures how a document is opened.
type DocumentOptions struct {
	ReadOnly       bool
	MaxUndoEntries int
}

func (o DocumentOptions) engineOptions() []engine.Option {
	opts := []engine.Option{engine.WithMaxUndoEntries(o.MaxUndoEntries)}
	if o.ReadOnly {
		opts = append(opts, engine.WithReadOnly())
	}
	return opts
}

// OpenDocument loads path into a new engine. A path that does not exist
// yet opens an empty document that will be created on save. An empty path
// opens a scratch document.
func OpenDocument(path string, opts DocumentOptions) (*Document, error) {
	if path == "" {
		return NewScratchDocument(opts), nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, NewOperationError("open", path, err)
	}
	doc := &Document{
		Path:     absPath,
		Name:     filepath.Base(absPath),
		ReadOnly: opts.ReadOnly,
		perm:     0o644,
	}

	f, err := os.Open(absPath)
	if errors.Is(err, fs.ErrNotExist) {
		doc.Engine = engine.New(opts.engineOptions()...)
		doc.IsNew = true
		return doc, nil
	}
	if err != nil {
		return nil, NewOperationError("open", absPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, NewOperationError("open", absPath, err)
	}
	if info.IsDir() {
		return nil, NewOperationError("open", absPath, errors.New("is a directory"))
	}
	doc.perm = info.Mode().Perm()

	doc.Engine, err = engine.NewFromReader(f, opts.engineOptions()...)
	if err != nil {
		return nil, NewOperationError("read", absPath, err)
	}
	return doc, nil
}

// NewScratchDocument creates a new scratch (unsaved) document.
func NewScratchDocument(opts DocumentOptions) *Document {
	return &Document{
		Name:     "Untitled",
		Engine:   engine.New(opts.engineOptions()...),
		ReadOnly: opts.ReadOnly,
		perm:     0o644,
	}
}

// IsScratch returns true if this is a scratch buffer (no file path).
func (d *Document) IsScratch() bool {
	return d.Path == ""
}

// Save writes text to the document's file. The text goes to a temporary
// file in the same directory first, which then replaces the original.
func (d *Document) Save(text string) error {
	if d.IsScratch() {
		return ErrNoFilePath
	}
	if d.ReadOnly {
		return ErrReadOnly
	}

	dir := filepath.Dir(d.Path)
	tmp, err := os.CreateTemp(dir, "."+d.Name+".*")
	if err != nil {
		return NewOperationError("save", d.Path, err)
	}
	tmpName := tmp.Name()
	cleanup := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return NewOperationError("save", d.Path, err)
	}

	if _, err := tmp.WriteString(text); err != nil {
		return cleanup(err)
	}
	if err := tmp.Chmod(d.perm); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		return cleanup(err)
	}
	if err := os.Rename(tmpName, d.Path); err != nil {
		_ = os.Remove(tmpName)
		return NewOperationError("save", d.Path, err)
	}
	d.IsNew = false
	return nil
}
