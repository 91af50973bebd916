// Package app wires the editor together: configuration, logging, the
// document on disk, the editing session, the renderer and the terminal
// backend. It owns the main event loop.
package app

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/dshills/quill/internal/config"
	"github.com/dshills/quill/internal/config/watcher"
	"github.com/dshills/quill/internal/editor"
	"github.com/dshills/quill/internal/renderer"
	"github.com/dshills/quill/internal/renderer/backend"
	"github.com/dshills/quill/internal/renderer/highlight/textmate"
)

// Terminal size assumed until the backend reports its real size.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Application is the central coordinator for the editor's components.
type Application struct {
	mu sync.Mutex

	opts   Options
	config *config.Config
	logger *Logger
	log    *zap.Logger

	grammars *textmate.Registry
	doc      *Document
	session  *editor.Session

	backend  backend.Backend
	renderer *renderer.Renderer

	watcher *watcher.Watcher
	reloads chan reload

	metrics *Metrics

	running      atomic.Bool
	done         chan struct{}
	shutdownOnce sync.Once
}

// Options configures the application.
type Options struct {
	// ConfigPath is the configuration file. Empty means config.DefaultPath.
	ConfigPath string

	// Config, when set, is used instead of loading ConfigPath.
	Config *config.Config

	// File is the file to edit. Empty opens a scratch buffer.
	File string

	// LogLevel overrides the configured log level when set.
	LogLevel string

	// ReadOnly opens the file in read-only mode.
	ReadOnly bool

	// NoWatch disables reloading the configuration file when it changes.
	NoWatch bool
}

// reload carries the result of re-reading the configuration file.
type reload struct {
	cfg *config.Config
	err error
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:    opts,
		done:    make(chan struct{}),
		reloads: make(chan reload, 1),
		metrics: NewMetrics(),
	}

	if err := newBootstrapper(app).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// SetBackend sets the terminal backend.
// Must be called before Run().
func (app *Application) SetBackend(b backend.Backend) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.backend = b
	return nil
}

// Shutdown stops the event loop and releases the watcher and log file.
// It is safe to call more than once.
func (app *Application) Shutdown() {
	app.shutdownOnce.Do(func() {
		close(app.done)
		if app.watcher != nil {
			if err := app.watcher.Close(); err != nil {
				app.log.Warn("closing config watcher", zap.Error(err))
			}
		}
		app.log.Info("shutdown", zap.Uint64("frames", app.metrics.Snapshot().FrameCount))
		_ = app.logger.Close()
	})
}

// IsRunning returns true if the event loop is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the active configuration.
func (app *Application) Config() *config.Config {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.config
}

// Session returns the editing session.
func (app *Application) Session() *editor.Session {
	return app.session
}

// Document returns the document being edited.
func (app *Application) Document() *Document {
	return app.doc
}

// Renderer returns the renderer, which exists once Run has started.
func (app *Application) Renderer() *renderer.Renderer {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.renderer
}

// Metrics returns the event loop metrics.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}

// Logger returns the application's logger.
func (app *Application) Logger() *Logger {
	return app.logger
}
