package app

import (
	"errors"

	"github.com/dshills/draftsnap/internal/input/key"
	"github.com/dshills/draftsnap/internal/notice"
	"github.com/dshills/draftsnap/internal/renderer/backend"
)

// task is a function posted to the event loop.
type task func()

// DefaultBindings maps idle keys to commands.
var DefaultBindings = map[rune]string{
	'l': "create.line",
	'b': "create.box",
	'a': "modify.array",
	'w': "convert.toWire",
	'f': "convert.toFace",
}

const helpText = "l line  b box  a array  w wire  f face  ^Z undo  ^Y redo  q quit"

// loop owns the terminal while Run is active.
type loop struct {
	app      *Application
	backend  backend.Backend
	viewport *backend.Viewport
	recorder *notice.Recorder
	sub      *notice.Subscription
	bindings map[rune]string

	// input is the text typed into the open input box.
	input []rune
}

// Run drives the application from b until the user quits. Settings
// reloads are applied between terminal events.
func (app *Application) Run(b backend.Backend) error {
	if app.closed {
		return ErrShutdown
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)
	app.quitting.Store(false)

	if err := b.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer b.Shutdown()

	l := newLoop(app, b)
	defer l.close()
	app.setPost(func(fn func()) { b.PostEvent(task(fn)) })
	defer app.setPost(nil)

	app.logger.Info("event loop started")
	defer app.logger.Info("event loop stopped")

	l.draw()
	for {
		err := l.handle(b.PollEvent())
		if errors.Is(err, ErrQuit) {
			app.Cancel()
			return nil
		}
		if err != nil {
			return err
		}
		l.draw()
	}
}

// Quit asks a running event loop to exit. Safe to call from any
// goroutine.
func (app *Application) Quit() {
	app.quitting.Store(true)
	app.onUI(func() {})
}

func newLoop(app *Application, b backend.Backend) *loop {
	l := &loop{
		app:      app,
		backend:  b,
		viewport: backend.NewViewport(b, app.view, app.doc),
		recorder: notice.NewRecorder(app.doc.Notices()),
		bindings: DefaultBindings,
	}
	l.sub = app.doc.Notices().Subscribe(func(n notice.Notice) {
		if n.Topic == notice.TopicShowInput && n.Input != nil {
			l.input = []rune(n.Input.Initial)
			return
		}
		l.input = nil
	}, notice.TopicShowInput, notice.TopicClearInput)
	return l
}

func (l *loop) close() {
	l.sub.Unsubscribe()
	l.recorder.Close()
}

func (l *loop) handle(ev backend.Event) error {
	switch ev.Type {
	case backend.EventKey:
		if err := l.handleKey(ev.Key); err != nil {
			return err
		}
	case backend.EventMouse:
		l.handleMouse(ev)
	case backend.EventResize:
		l.viewport.Resize(ev.Width, ev.Height)
	case backend.EventInterrupt:
		fn, ok := ev.Data.(task)
		if !ok {
			return ErrQuit
		}
		fn()
	case backend.EventClosed:
		return ErrQuit
	}
	if l.app.quitting.Load() {
		return ErrQuit
	}
	return nil
}

func (l *loop) handleMouse(ev backend.Event) {
	if !l.viewport.InDrawing(ev.Y) {
		return
	}
	if err := l.app.doc.Viewer().DispatchMouse(l.viewport.MouseEvent(ev)); err != nil {
		l.app.logger.Debug("mouse event not handled", "error", err)
	}
}

func (l *loop) handleKey(ev key.Event) error {
	if l.recorder.InputOpen() && ev.Key != key.KeyEscape {
		l.edit(ev)
		return nil
	}

	if ev.Key == key.KeyRune && ev.Modifiers.Has(key.ModCtrl) {
		switch ev.Rune {
		case 'z':
			l.report(l.app.Undo())
			return nil
		case 'y':
			l.report(l.app.Redo())
			return nil
		}
	}

	if !l.app.Busy() && ev.Key == key.KeyRune && ev.Modifiers == key.ModNone {
		if ev.Rune == 'q' {
			return ErrQuit
		}
		if name, ok := l.bindings[ev.Rune]; ok {
			_, err := l.app.RunCommand(name, nil)
			l.report(err)
			return nil
		}
	}

	if err := l.app.doc.Viewer().DispatchKey(ev); err != nil {
		l.app.logger.Debug("key event not handled", "key", ev.String(), "error", err)
	}
	return nil
}

// edit applies ev to the open input box.
func (l *loop) edit(ev key.Event) {
	switch ev.Key {
	case key.KeyEnter:
		if _, ok := l.recorder.Submit(string(l.input)); ok && !l.recorder.InputOpen() {
			l.input = nil
		}
	case key.KeyBackspace, key.KeyDelete:
		if n := len(l.input); n > 0 {
			l.input = l.input[:n-1]
		}
	case key.KeySpace:
		l.input = append(l.input, ' ')
	case key.KeyRune:
		if !ev.Modifiers.Has(key.ModCtrl | key.ModAlt) {
			l.input = append(l.input, ev.Rune)
		}
	}
}

func (l *loop) report(err error) {
	if err == nil {
		return
	}
	l.app.logger.Debug("request refused", "error", err)
	l.app.doc.Notices().ShowFloatText(notice.LevelWarning, err.Error())
}

func (l *loop) draw() {
	st := backend.Status{
		Prompt:    l.recorder.StatusTip(),
		Tip:       l.recorder.FloatTip(),
		Input:     string(l.input),
		InputOpen: l.recorder.InputOpen(),
		Error:     l.recorder.InputError(),
	}
	if st.Prompt == "" && !l.app.Busy() {
		st.Prompt = helpText
	}
	l.viewport.Draw(st)
}
