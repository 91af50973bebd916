package app

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/dshills/quill/internal/config"
	"github.com/dshills/quill/internal/config/watcher"
	"github.com/dshills/quill/internal/editor"
	"github.com/dshills/quill/internal/renderer/backend"
	"github.com/dshills/quill/internal/renderer/gutter"
	"github.com/dshills/quill/internal/renderer/highlight"
	"github.com/dshills/quill/internal/renderer/highlight/textmate"
)

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app  *Application
	opts Options
}

func newBootstrapper(app *Application) *bootstrapper {
	return &bootstrapper{app: app, opts: app.opts}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"config", b.initConfig},
		{"logger", b.initLogger},
		{"grammars", b.initGrammars},
		{"document", b.initDocument},
		{"session", b.initSession},
		{"config watcher", b.initWatcher},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			b.cleanup()
			return &InitError{Component: step.name, Err: err}
		}
	}
	b.app.log.Info("started",
		zap.String("file", b.app.doc.Path),
		zap.String("highlight", b.app.session.Highlight().BackendName()))
	return nil
}

func (b *bootstrapper) configPath() string {
	if b.opts.ConfigPath != "" {
		return b.opts.ConfigPath
	}
	return config.DefaultPath()
}

func (b *bootstrapper) initConfig() error {
	if b.opts.Config != nil {
		b.app.config = b.opts.Config.Clone()
		return b.app.config.Validate()
	}
	cfg, err := config.Load(b.configPath())
	if err != nil {
		return err
	}
	b.app.config = cfg
	return nil
}

func (b *bootstrapper) initLogger() error {
	level := b.app.config.Log.Level
	if b.opts.LogLevel != "" {
		level = b.opts.LogLevel
	}
	logger, err := NewLogger(LoggerConfig{
		Level: ParseLogLevel(level),
		File:  b.app.config.Log.File,
	})
	if err != nil {
		return err
	}
	b.app.logger = logger
	b.app.log = logger.WithComponent("app")
	return nil
}

func (b *bootstrapper) initGrammars() error {
	reg, err := textmate.LoadBuiltin()
	if err != nil {
		return fmt.Errorf("load grammars: %w", err)
	}
	b.app.grammars = reg
	return nil
}

func (b *bootstrapper) initDocument() error {
	doc, err := OpenDocument(b.opts.File, DocumentOptions{
		ReadOnly:       b.opts.ReadOnly,
		MaxUndoEntries: b.app.config.History.MaxEntries,
	})
	if err != nil {
		return err
	}
	b.app.doc = doc
	return nil
}

func (b *bootstrapper) initSession() error {
	cfg := b.app.config
	mode, err := gutter.ParseMode(cfg.Editor.LineNumbers)
	if err != nil {
		return err
	}

	s, err := editor.New(b.app.doc.Engine, editor.Options{
		Path:         b.app.doc.Path,
		Width:        defaultWidth,
		Height:       defaultHeight,
		TabWidth:     cfg.Editor.TabWidth,
		Wrap:         cfg.Editor.Wrap,
		ScrollMargin: cfg.Editor.ScrollMargin,
		LineNumbers:  mode,
		ContextBytes: cfg.Highlight.ContextBytes,
		Highlight:    b.app.highlightFor(cfg),
		Bindings:     cfg.Keys,
		Save:         b.app.doc.Save,
		Logger:       b.app.logger.WithComponent("editor"),
	})
	if err != nil {
		return err
	}
	if b.app.doc.IsNew {
		s.SetMessage("New file")
	}
	b.app.session = s
	return nil
}

// initWatcher reloads the configuration file whenever it changes. Only a
// file the user can edit is watched.
func (b *bootstrapper) initWatcher() error {
	if b.opts.NoWatch || b.opts.Config != nil {
		return nil
	}
	path := b.configPath()
	if path == "" {
		return nil
	}

	w, err := watcher.New()
	if err != nil {
		return err
	}
	if err := w.Watch(path); err != nil {
		// The config directory may not exist; editing still works.
		b.app.log.Debug("not watching config", zap.String("path", path), zap.Error(err))
		_ = w.Close()
		return nil
	}
	w.OnChange(func(ev watcher.Event) {
		// Keep the current settings while the file is missing.
		if _, err := os.Stat(path); err != nil {
			b.app.log.Debug("config file gone", zap.Stringer("op", ev.Op))
			return
		}
		cfg, err := config.Load(path)
		b.app.queueReload(reload{cfg: cfg, err: err})
	})
	b.app.watcher = w
	return nil
}

func (b *bootstrapper) cleanup() {
	if b.app.watcher != nil {
		_ = b.app.watcher.Close()
	}
	if b.app.logger != nil {
		_ = b.app.logger.Close()
	}
}

// highlightFor builds the syntax engine cfg asks for.
func (app *Application) highlightFor(cfg *config.Config) *highlight.Engine {
	path := app.doc.Path
	if !cfg.Highlight.Enabled {
		return highlight.NewNone(highlight.DetectLanguage(path))
	}
	pref, err := highlight.ParsePreference(cfg.Highlight.Preference)
	if err != nil {
		pref = highlight.PreferAuto
	}
	return highlight.ForFileWithPreference(path, app.grammars, pref)
}

// cursorStyle maps a configured cursor style name to the backend's.
func cursorStyle(name string) backend.CursorStyle {
	switch name {
	case "block":
		return backend.CursorBlock
	case "underline":
		return backend.CursorUnderline
	default:
		return backend.CursorBar
	}
}
