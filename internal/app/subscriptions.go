package app

import (
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/dshills/draftsnap/internal/config/notify"
	"github.com/dshills/draftsnap/internal/plugin/lua"
)

// configChanged receives settings changes. It may run on the watcher
// goroutine, so changes are applied through onUI.
func (app *Application) configChanged(ch notify.Change) {
	switch ch.Type {
	case notify.ChangeError:
		app.logger.Error("settings reload failed", "source", ch.Source, "error", ch.Err)
		return
	case notify.ChangeReload:
		app.logger.Info("settings reloaded", "source", ch.Source)
		return
	}
	app.onUI(func() { app.applyChange(ch) })
}

// onUI runs fn on the event loop goroutine, or inline when no loop runs.
func (app *Application) onUI(fn func()) {
	app.mu.Lock()
	post := app.post
	app.mu.Unlock()
	if post == nil {
		fn()
		return
	}
	post(fn)
}

func (app *Application) setPost(post func(fn func())) {
	app.mu.Lock()
	app.post = post
	app.mu.Unlock()
}

func (app *Application) applyChange(ch notify.Change) {
	if app.closed {
		return
	}
	s := app.config.Settings()
	section, _, _ := strings.Cut(ch.Path, ".")
	app.logger.Debug("applying setting", "path", ch.Path, "old", ch.OldValue, "new", ch.NewValue)

	switch section {
	case "snap", "visual":
		next, err := stepSettings(s, app.logger, app.metrics)
		if err != nil {
			app.logger.Error("invalid step settings", "path", ch.Path, "error", err)
			return
		}
		mask := app.settings.Mask
		*app.settings = *next
		if next.Mask != mask {
			app.doc.Notices().SnapTypeChanged(uint32(next.Mask))
		}
	case "history":
		app.doc.History().SetMaxEntries(s.History.MaxEntries)
	case "logging":
		if ch.Path == "logging.level" && app.opts.LogLevel == "" {
			app.logger.SetLevel(hclog.LevelFromString(s.Logging.Level))
			return
		}
		app.logger.Warn("setting takes effect on restart", "path", ch.Path)
	case "plugins":
		app.reloadValidators(s.Plugins.Validators)
	default:
		app.logger.Warn("setting takes effect on restart", "path", ch.Path)
	}
}

func (app *Application) reloadValidators(paths []string) {
	vs, err := lua.LoadFiles(paths, lua.WithLogger(app.logger))
	if err != nil {
		app.logger.Error("validators not reloaded", "error", err)
		return
	}
	old := app.validators
	app.validators = vs
	app.closeValidators(old)
	app.logger.Info("validators reloaded", "count", len(vs))
}
