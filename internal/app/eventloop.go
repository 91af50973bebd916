package app

import (
	"context"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/quill/internal/config"
	"github.com/dshills/quill/internal/input"
	"github.com/dshills/quill/internal/renderer"
	"github.com/dshills/quill/internal/renderer/gutter"
	"github.com/dshills/quill/internal/renderer/highlight"
	"github.com/dshills/quill/internal/renderer/viewport"
)

// inputQueueSize bounds the events read ahead of the loop.
const inputQueueSize = 256

// Run initializes the backend and runs the main loop until the session
// quits, ctx is cancelled or Shutdown is called.
func (app *Application) Run(ctx context.Context) error {
	app.mu.Lock()
	b := app.backend
	app.mu.Unlock()
	if b == nil {
		return ErrNoBackend
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := b.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer b.Shutdown()

	cfg := app.Config()
	theme := highlight.NewTheme(cfg.Highlight.Theme)
	app.mu.Lock()
	app.renderer = renderer.New(b, renderer.Options{
		CursorStyle: cursorStyle(cfg.Editor.CursorStyle),
		Theme:       theme,
	})
	app.mu.Unlock()

	app.session.Resize(b.Size())
	app.render()

	return app.eventLoop(ctx, app.startInputPolling())
}

// eventLoop is the main application loop. Every input event or reload is
// followed by a full frame.
func (app *Application) eventLoop(ctx context.Context, events <-chan input.Event) error {
	var watchErrs <-chan error
	if app.watcher != nil {
		watchErrs = app.watcher.Errors()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-app.done:
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			app.handleEvent(ev)
			if app.session.Quitting() {
				return nil
			}

		case r := <-app.reloads:
			app.applyReload(r)

		case err, ok := <-watchErrs:
			if !ok {
				watchErrs = nil
			} else {
				app.log.Warn("config watcher", zap.Error(err))
			}
			continue
		}
		app.render()
	}
}

// handleEvent applies one event to the session. A panic while handling is
// logged and reported on the message line instead of killing the editor.
func (app *Application) handleEvent(ev input.Event) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err := &RecoveredPanicError{Value: r, Stack: string(debug.Stack())}
			app.log.Error("event handler panicked", zap.Error(err))
			app.session.SetMessage("Internal error; see log")
		}
		app.metrics.RecordInput(time.Since(start))
	}()

	app.session.HandleEvent(ev)
}

// render draws one frame. A panic while drawing is contained like one in
// handleEvent; the frame is skipped.
func (app *Application) render() {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err := &RecoveredPanicError{Value: r, Stack: string(debug.Stack())}
			app.log.Error("render panicked", zap.Error(err))
			app.session.SetMessage("Internal error; see log")
		}
		app.metrics.RecordFrame(time.Since(start))
	}()

	app.Renderer().Render(app.session)
}

// startInputPolling starts a goroutine that polls for input events.
// Events are sent to the returned channel, which is closed when the
// backend shuts down.
func (app *Application) startInputPolling() <-chan input.Event {
	events := make(chan input.Event, inputQueueSize)

	go func() {
		defer close(events)
		for {
			ev, ok := app.backend.PollEvent()
			if !ok {
				return
			}
			select {
			case events <- ev:
			case <-app.done:
				return
			default:
				app.metrics.RecordInputDropped()
			}
		}
	}()

	return events
}

// queueReload hands a reload to the event loop, replacing one that has not
// been applied yet.
func (app *Application) queueReload(r reload) {
	for {
		select {
		case app.reloads <- r:
			return
		default:
		}
		select {
		case <-app.reloads:
		default:
		}
	}
}

func (app *Application) applyReload(r reload) {
	if r.err != nil {
		app.log.Warn("config reload failed", zap.Error(r.err))
		app.session.SetMessage("Config error: " + r.err.Error())
		return
	}
	app.ApplyConfig(r.cfg)
	app.session.SetMessage("Configuration reloaded")
}

// ApplyConfig updates the running editor to cfg. Bindings in cfg are added
// to the current keymap.
func (app *Application) ApplyConfig(cfg *config.Config) {
	app.mu.Lock()
	old := app.config
	app.config = cfg
	app.mu.Unlock()

	s := app.session
	if cfg.Editor.TabWidth != old.Editor.TabWidth {
		s.SetTabWidth(cfg.Editor.TabWidth)
	}
	if cfg.Editor.Wrap != old.Editor.Wrap {
		s.SetWrap(cfg.Editor.Wrap)
	}
	if cfg.Editor.ScrollMargin != old.Editor.ScrollMargin {
		s.Viewport().SetMargins(viewport.UniformMargins(cfg.Editor.ScrollMargin))
	}
	if mode, err := gutter.ParseMode(cfg.Editor.LineNumbers); err == nil {
		s.SetLineNumbers(mode)
	}
	if cfg.Highlight.Enabled != old.Highlight.Enabled || cfg.Highlight.Preference != old.Highlight.Preference {
		s.SetHighlight(app.highlightFor(cfg))
	}
	for spec, name := range cfg.Keys {
		if err := s.Bind(spec, name); err != nil {
			app.log.Warn("ignoring key binding", zap.String("key", spec), zap.Error(err))
		}
	}

	if r := app.Renderer(); r != nil {
		if cfg.Highlight.Theme != old.Highlight.Theme {
			r.SetTheme(highlight.NewTheme(cfg.Highlight.Theme))
		}
		app.backend.SetCursorStyle(cursorStyle(cfg.Editor.CursorStyle))
	}
	if app.opts.LogLevel == "" {
		app.logger.SetLevel(ParseLogLevel(cfg.Log.Level))
	}
	app.metrics.RecordReload()
	app.log.Info("configuration applied")
}
