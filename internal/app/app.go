// Package app wires the drafting core into a running application: it
// loads the settings, builds the logger and metrics, creates the document
// with its orthographic view, and starts commands from the registry.
//
// Everything that touches the document runs on one goroutine. Settings
// reloads arriving from the file watcher are handed to that goroutine
// through the event loop.
package app

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-hclog"

	"github.com/dshills/draftsnap/internal/command"
	"github.com/dshills/draftsnap/internal/config"
	"github.com/dshills/draftsnap/internal/config/notify"
	"github.com/dshills/draftsnap/internal/document"
	"github.com/dshills/draftsnap/internal/geom"
	"github.com/dshills/draftsnap/internal/metrics"
	"github.com/dshills/draftsnap/internal/plugin/lua"
	"github.com/dshills/draftsnap/internal/selection"
	"github.com/dshills/draftsnap/internal/step"
	"github.com/dshills/draftsnap/internal/view"
	"github.com/dshills/draftsnap/internal/view/ortho"
)

// Application holds the document and everything needed to run commands on
// it.
type Application struct {
	mu sync.Mutex

	opts      Options
	config    *config.Config
	logger    hclog.Logger
	logCloser io.Closer
	metrics   *metrics.Metrics

	doc        *document.Document
	view       *ortho.View
	idle       *selection.IdleHandler
	registry   *command.Registry
	settings   *step.Settings
	validators []*lua.Validator
	subs       []*notify.Subscription

	driver *command.Driver

	// post schedules fn on the event loop goroutine while Run is active.
	post func(fn func())

	running  atomic.Bool
	quitting atomic.Bool
	closed   bool
}

// Options configures the application.
type Options struct {
	// ConfigPath is the settings file. Empty uses defaults and the
	// environment only.
	ConfigPath string

	// LogLevel overrides logging.level when set.
	LogLevel string

	// LogOutput replaces stderr or stdout as the log output when set.
	LogOutput io.Writer

	// Watch reloads the settings file when it changes.
	Watch bool

	// Width and Height size the view in pixels before the first resize.
	Width, Height float64

	// Registry replaces the built-in command registry.
	Registry *command.Registry

	// ConfigOptions are passed to config.Load after the file option.
	ConfigOptions []config.Option
}

// New creates an application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{opts: opts}
	if err := app.bootstrap(); err != nil {
		app.cleanup()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes the components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Settings
	cfgOpts := []config.Option{}
	if app.opts.ConfigPath != "" {
		cfgOpts = append(cfgOpts, config.WithFile(app.opts.ConfigPath))
	}
	cfgOpts = append(cfgOpts, app.opts.ConfigOptions...)
	cfg, err := config.Load(cfgOpts...)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.config = cfg
	s := cfg.Settings()

	// 2. Logging
	logCfg := s.Logging
	if app.opts.LogLevel != "" {
		logCfg.Level = app.opts.LogLevel
	}
	logger, closer, err := NewLogger(logCfg, app.opts.LogOutput)
	if err != nil {
		return &InitError{Component: "logging", Err: err}
	}
	app.logger, app.logCloser = logger, closer

	// 3. Metrics
	app.metrics = metrics.New()

	// 4. Document and view
	app.doc = document.New(
		document.WithName("untitled"),
		document.WithMaxUndoEntries(s.History.MaxEntries),
		document.WithLogger(app.logger),
	)
	viewOpts := []ortho.Option{
		ortho.WithScale(s.View.Scale),
		ortho.WithTolerance(s.View.PickTolerance),
	}
	if app.opts.Width > 0 && app.opts.Height > 0 {
		viewOpts = append(viewOpts, ortho.WithSize(app.opts.Width, app.opts.Height))
	}
	app.view = ortho.NewView("top", app.doc, viewOpts...)
	app.doc.Viewer().AddView(app.view)
	app.idle = selection.NewIdleHandler(app.doc)
	app.doc.Viewer().SetFallback(app.idle)

	// 5. Commands
	app.registry = app.opts.Registry
	if app.registry == nil {
		app.registry = command.DefaultRegistry()
	}
	app.settings, err = stepSettings(s, app.logger, app.metrics)
	if err != nil {
		return &InitError{Component: "step settings", Err: err}
	}

	// 6. Scripted validators
	if len(s.Plugins.Validators) > 0 {
		vs, err := lua.LoadFiles(s.Plugins.Validators, lua.WithLogger(app.logger))
		if err != nil {
			return &InitError{Component: "validators", Err: err}
		}
		app.validators = vs
	}
	app.doc.AddPointValidator(app.acceptPoint)

	// 7. Live settings
	app.subs = append(app.subs, app.config.Subscribe(app.configChanged))
	if app.opts.Watch {
		if err := app.config.Watch(); err != nil {
			return &InitError{Component: "config watcher", Err: err}
		}
	}

	app.logger.Debug("application ready",
		"config", app.config.Path(),
		"commands", strings.Join(app.registry.List(), ","),
		"validators", len(app.validators))
	return nil
}

// stepSettings converts the snap and visual settings.
func stepSettings(s config.Settings, logger hclog.Logger, m *metrics.Metrics) (*step.Settings, error) {
	mask, err := s.Snap.Mask()
	if err != nil {
		return nil, err
	}
	markerColor, err := config.ParseColor(s.Visual.MarkerColor)
	if err != nil {
		return nil, err
	}
	vertexColor, err := config.ParseColor(s.Visual.VertexColor)
	if err != nil {
		return nil, err
	}
	return &step.Settings{
		Mask:            mask,
		SnapDistance:    s.Snap.Distance,
		FeatureDistance: s.Snap.FeatureDistance,
		MarkerSize:      s.Visual.MarkerSize,
		MarkerColor:     view.Color(markerColor),
		VertexSize:      s.Visual.VertexSize,
		VertexColor:     view.Color(vertexColor),
		Logger:          logger,
		Metrics:         m,
	}, nil
}

// Config returns the settings source.
func (app *Application) Config() *config.Config { return app.config }

// Logger returns the root logger.
func (app *Application) Logger() hclog.Logger { return app.logger }

// Metrics returns the application counters.
func (app *Application) Metrics() *metrics.Metrics { return app.metrics }

// Document returns the document being edited.
func (app *Application) Document() *document.Document { return app.doc }

// View returns the orthographic view.
func (app *Application) View() *ortho.View { return app.view }

// Registry returns the command registry.
func (app *Application) Registry() *command.Registry { return app.registry }

// StepSettings returns the settings shared by every command step.
func (app *Application) StepSettings() *step.Settings { return app.settings }

// Validators returns the names of the loaded point validators.
func (app *Application) Validators() []string {
	names := make([]string, 0, len(app.validators))
	for _, v := range app.validators {
		names = append(names, v.Name())
	}
	return names
}

// Driver returns the most recently started command, if any.
func (app *Application) Driver() *command.Driver { return app.driver }

// Busy reports whether a command is collecting input.
func (app *Application) Busy() bool {
	return app.driver != nil && app.driver.Running()
}

// RunCommand starts the named command. done, if non-nil, receives the
// outcome once the command finishes, which may happen before RunCommand
// returns.
func (app *Application) RunCommand(name string, done command.DoneFunc) (*command.Driver, error) {
	if app.closed {
		return nil, ErrShutdown
	}
	if app.Busy() {
		return nil, fmt.Errorf("%s: %w", app.driver.Name(), ErrCommandActive)
	}
	if !app.registry.Has(name) {
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownCommand)
	}
	def, err := app.registry.New(name)
	if err != nil {
		return nil, err
	}

	d := command.NewDriver(app.doc, def,
		command.WithLogger(app.logger),
		command.WithMetrics(app.metrics),
		command.WithSettings(app.settings),
	)
	app.driver = d
	app.logger.Debug("command started", "command", name)
	d.Start(func(o command.Outcome, err error) {
		if err != nil {
			app.logger.Warn("command finished", "command", name, "outcome", o, "commits", d.Commits(), "error", err)
		} else {
			app.logger.Debug("command finished", "command", name, "outcome", o, "commits", d.Commits())
		}
		if done != nil {
			done(o, err)
		}
	})
	return d, nil
}

// Cancel cancels the running command. It returns false when no command
// is running.
func (app *Application) Cancel() bool {
	if !app.Busy() {
		return false
	}
	return app.driver.Cancel()
}

// Undo reverts the last committed command. It is refused while a command
// is collecting input.
func (app *Application) Undo() error {
	if app.Busy() {
		return ErrCommandActive
	}
	entry, _ := app.doc.History().PeekUndo()
	if err := app.doc.Undo(); err != nil {
		return err
	}
	app.logger.Debug("undo", "entry", entry.Description, "id", entry.ID.String())
	return nil
}

// Redo reapplies the last undone command.
func (app *Application) Redo() error {
	if app.Busy() {
		return ErrCommandActive
	}
	entry, _ := app.doc.History().PeekRedo()
	if err := app.doc.Redo(); err != nil {
		return err
	}
	app.logger.Debug("redo", "entry", entry.Description, "id", entry.ID.String())
	return nil
}

// acceptPoint runs the scripted validators. The slice is swapped on the UI
// goroutine when the settings change.
func (app *Application) acceptPoint(p geom.Point) bool {
	for _, v := range app.validators {
		if !v.Accept(p) {
			return false
		}
	}
	return true
}

// Shutdown cancels the running command and releases every resource.
// Safe to call more than once.
func (app *Application) Shutdown() error {
	if app.closed {
		return nil
	}
	app.Cancel()
	app.cleanup()
	app.closed = true
	return nil
}

func (app *Application) cleanup() {
	for _, sub := range app.subs {
		sub.Unsubscribe()
	}
	app.subs = nil
	if app.config != nil {
		if err := app.config.Close(); err != nil && app.logger != nil {
			app.logger.Warn("closing settings", "error", err)
		}
	}
	app.closeValidators(app.validators)
	app.validators = nil
	if app.logCloser != nil {
		_ = app.logCloser.Close()
	}
}

func (app *Application) closeValidators(vs []*lua.Validator) {
	for _, v := range vs {
		_ = v.Close()
	}
}
