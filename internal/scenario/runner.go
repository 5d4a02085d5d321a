package scenario

import (
	"fmt"
	"math"
	"slices"

	"github.com/hashicorp/go-hclog"

	"github.com/dshills/draftsnap/internal/app"
	"github.com/dshills/draftsnap/internal/command"
	"github.com/dshills/draftsnap/internal/document"
	"github.com/dshills/draftsnap/internal/geom"
	"github.com/dshills/draftsnap/internal/input/key"
	"github.com/dshills/draftsnap/internal/input/mouse"
	"github.com/dshills/draftsnap/internal/notice"
	"github.com/dshills/draftsnap/internal/snap"
)

// tolerance for comparing expected geometry.
const tolerance = 1e-6

// Runner replays scenarios against an application. Each scenario should
// get a fresh application: setup models and history accumulate.
type Runner struct {
	app    *app.Application
	logger hclog.Logger
}

// NewRunner creates a runner for a.
func NewRunner(a *app.Application) *Runner {
	return &Runner{app: a, logger: a.Logger().Named("scenario")}
}

// run holds the state of one scenario run.
type run struct {
	*Runner
	s        *Scenario
	doc      *document.Document
	recorder *notice.Recorder
	report   *Report

	driver   *command.Driver
	outcome  string
	baseline int
	setup    map[string]*document.Model
}

// Run replays s. The report is returned even when an expectation fails;
// the error then wraps ErrFailed. Setup problems return a nil report.
func (r *Runner) Run(s *Scenario) (*Report, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	ru := &run{
		Runner: r,
		s:      s,
		doc:    r.app.Document(),
		report: &Report{Name: s.Name, Command: s.Command},
		setup:  make(map[string]*document.Model),
	}
	logger := r.logger.With("scenario", s.Name)
	logger.Debug("scenario started", "events", len(s.Events))

	restore, err := ru.prepare()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Name, err)
	}
	defer restore()

	ru.recorder = notice.NewRecorder(ru.doc.Notices())
	defer ru.recorder.Close()

	if s.Command != "" {
		d, err := r.app.RunCommand(s.Command, func(o command.Outcome, err error) {
			ru.outcome = o.String()
			if err != nil {
				ru.report.Error = err.Error()
			}
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.Name, err)
		}
		ru.driver = d
	}

	for i, ev := range s.Events {
		ru.feed(i, ev)
	}
	ru.finish()

	if !ru.report.Passed {
		logger.Info("scenario failed", "failures", len(ru.report.Failures))
		return ru.report, fmt.Errorf("%s: %d expectation(s): %w", s.Name, len(ru.report.Failures), ErrFailed)
	}
	logger.Debug("scenario passed")
	return ru.report, nil
}

// prepare sizes the view, applies snap overrides, adds the setup models
// and the selection. The returned function undoes the snap overrides.
func (ru *run) prepare() (func(), error) {
	restore := func() {}
	if v := ru.s.View; v != nil {
		if v.Width <= 0 || v.Height <= 0 {
			return nil, fmt.Errorf("view %vx%v: %w", v.Width, v.Height, ErrInvalidScenario)
		}
		ru.app.View().Resize(v.Width, v.Height)
	}

	if sp := ru.s.Snap; sp != nil {
		settings := ru.app.StepSettings()
		saved := *settings
		if len(sp.Types) > 0 {
			mask, err := snap.ParseMask(sp.Types)
			if err != nil {
				return nil, err
			}
			settings.Mask = mask
			ru.doc.Notices().SnapTypeChanged(uint32(mask))
		}
		if sp.Distance > 0 {
			settings.SnapDistance = sp.Distance
		}
		restore = func() {
			*settings = saved
			ru.doc.Notices().SnapTypeChanged(uint32(saved.Mask))
		}
	}

	for _, ms := range ru.s.Setup {
		body, err := ms.Body()
		if err != nil {
			restore()
			return nil, err
		}
		m, err := ru.doc.AddModel(ms.Name, body)
		if err != nil {
			restore()
			return nil, fmt.Errorf("setup %q: %w", ms.Name, err)
		}
		if ms.Name != "" {
			ru.setup[ms.Name] = m
		}
		ru.setup[m.ID()] = m
	}
	ru.baseline = ru.doc.History().UndoCount()

	if len(ru.s.Select) > 0 {
		sel := make([]*document.Model, 0, len(ru.s.Select))
		for _, name := range ru.s.Select {
			m, ok := ru.setup[name]
			if !ok {
				restore()
				return nil, fmt.Errorf("select %q: no such setup model: %w", name, ErrInvalidScenario)
			}
			sel = append(sel, m)
		}
		ru.doc.Selection().Set(sel...)
	}
	return restore, nil
}

func (ru *run) failf(format string, args ...any) {
	ru.report.Failures = append(ru.report.Failures, fmt.Sprintf(format, args...))
}

func (ru *run) feed(i int, ev Event) {
	viewer := ru.doc.Viewer()
	mods, err := modifiers(ev.Modifiers)
	if err != nil {
		ru.failf("event %d: %v", i, err)
	}

	var dispatchErr error
	switch {
	case ev.Move != nil, ev.Hover != nil:
		x, y, err := ru.screen(ev.Move, ev.Hover)
		if err != nil {
			ru.failf("event %d: %v", i, err)
			break
		}
		m := mouse.Move(x, y)
		m.Modifiers = mods
		dispatchErr = viewer.DispatchMouse(m)
	case ev.Click != nil, ev.Pick != nil:
		x, y, err := ru.screen(ev.Click, ev.Pick)
		if err != nil {
			ru.failf("event %d: %v", i, err)
			break
		}
		for _, m := range []mouse.Event{mouse.Move(x, y), mouse.Press(x, y, mouse.ButtonLeft), mouse.Release(x, y, mouse.ButtonLeft)} {
			m.Modifiers = mods
			if err := viewer.DispatchMouse(m); err != nil {
				dispatchErr = err
			}
		}
	case ev.Key != "":
		k, err := key.Parse(ev.Key)
		if err != nil {
			ru.failf("event %d: %v", i, err)
			break
		}
		k.Modifiers |= mods
		dispatchErr = viewer.DispatchKey(k)
	case ev.Type != "":
		if _, ok := ru.recorder.Submit(ev.Type); !ok {
			ru.failf("event %d: no input open for %q", i, ev.Type)
		}
	case ev.Cancel:
		if !ru.app.Cancel() {
			ru.failf("event %d: nothing to cancel", i)
		}
	case ev.Restart != nil:
		ru.restart(i, *ev.Restart)
	}
	if dispatchErr != nil {
		ru.logger.Debug("event not handled", "event", i, "error", dispatchErr)
	}

	entry := TraceEntry{
		Index:     i,
		Action:    ev.action(),
		Prompt:    ru.recorder.StatusTip(),
		Tip:       ru.recorder.FloatTip(),
		InputOpen: ru.recorder.InputOpen(),
		Error:     ru.recorder.InputError(),
	}
	ru.report.Trace = append(ru.report.Trace, entry)

	if ev.ExpectTip != nil && entry.Tip != *ev.ExpectTip {
		ru.failf("event %d (%s): tip %q, want %q", i, entry.Action, entry.Tip, *ev.ExpectTip)
	}
	if ev.ExpectPrompt != nil && entry.Prompt != *ev.ExpectPrompt {
		ru.failf("event %d (%s): prompt %q, want %q", i, entry.Action, entry.Prompt, *ev.ExpectPrompt)
	}
	if ev.ExpectError != nil && entry.Error != *ev.ExpectError {
		ru.failf("event %d (%s): input error %q, want %q", i, entry.Action, entry.Error, *ev.ExpectError)
	}
}

// screen returns the view pixel of a screen position or of a projected
// world position; exactly one is non-nil.
func (ru *run) screen(screen, world Vec) (float64, float64, error) {
	if screen != nil {
		if len(screen) != 2 {
			return 0, 0, fmt.Errorf("screen position %v: want 2 values: %w", []float64(screen), ErrInvalidScenario)
		}
		return screen[0], screen[1], nil
	}
	p, err := world.Point()
	if err != nil {
		return 0, 0, err
	}
	sp := ru.app.View().WorldToScreen(p)
	return sp.X, sp.Y, nil
}

func (ru *run) restart(i, n int) {
	d := ru.driver
	if d == nil || !d.Running() {
		ru.failf("event %d: no running command to restart", i)
		return
	}
	if n < 0 || n > d.Current() {
		ru.failf("event %d: cannot restart from step %d while step %d runs", i, n, d.Current())
		return
	}
	d.RestartFrom(n)
}

func modifiers(spec string) (key.Modifier, error) {
	if spec == "" {
		return key.ModNone, nil
	}
	// parse "Shift+x" and keep only the modifiers
	ev, err := key.Parse(spec + "+a")
	if err != nil {
		return key.ModNone, fmt.Errorf("modifiers %q: %w", spec, err)
	}
	return ev.Modifiers, nil
}

// finish records the final state, checks the expectations and cancels a
// command that is still running.
func (ru *run) finish() {
	rep := ru.report
	exp := ru.s.Expect

	if ru.driver != nil {
		rep.Commits = ru.driver.Commits()
		if ru.driver.Running() {
			rep.Outcome = "running"
		} else {
			rep.Outcome = ru.outcome
		}
	}
	infos := ru.doc.History().UndoInfo()
	rep.History = len(infos) - ru.baseline
	for i := max(ru.baseline, 0); i < len(infos); i++ {
		rep.Entries = append(rep.Entries, infos[i].Description)
	}
	rep.Outstanding = ru.app.View().Visual().Outstanding()
	var created []*document.Model
	for _, m := range ru.doc.Models() {
		rep.Models = append(rep.Models, modelReport(m))
		if _, ok := ru.setup[m.ID()]; !ok {
			created = append(created, m)
		}
	}

	if exp.Outcome != "" && rep.Outcome != exp.Outcome {
		ru.failf("outcome %q, want %q", rep.Outcome, exp.Outcome)
	}
	if exp.Commits != nil && rep.Commits != *exp.Commits {
		ru.failf("commits %d, want %d", rep.Commits, *exp.Commits)
	}
	if exp.Models != nil && len(rep.Models) != *exp.Models {
		ru.failf("models %d, want %d", len(rep.Models), *exp.Models)
	}
	if exp.History != nil && rep.History != *exp.History {
		ru.failf("history entries %d, want %d", rep.History, *exp.History)
	}
	if exp.Entries != nil && !slices.Equal(rep.Entries, exp.Entries) {
		ru.failf("undo entries %q, want %q", rep.Entries, exp.Entries)
	}
	if exp.Outstanding != nil && rep.Outstanding != *exp.Outstanding {
		ru.failf("outstanding render handles %d, want %d", rep.Outstanding, *exp.Outstanding)
	}
	if exp.Created != nil {
		ru.checkCreated(exp.Created, created)
	}

	if ru.driver != nil && ru.driver.Running() {
		ru.driver.Cancel()
	}
	rep.Passed = len(rep.Failures) == 0
}

func (ru *run) checkCreated(want []ModelSpec, got []*document.Model) {
	if len(want) != len(got) {
		ru.failf("created %d models, want %d", len(got), len(want))
		return
	}
	for i, w := range want {
		m := got[i]
		if k := w.kind(); k != "" && k != m.Body().Kind() {
			ru.failf("created[%d]: kind %q, want %q", i, m.Body().Kind(), k)
			continue
		}
		if w.Name != "" && w.Name != m.Name() {
			ru.failf("created[%d]: name %q, want %q", i, m.Name(), w.Name)
		}
		if w.Line == nil && w.Circle == nil && w.Box == nil {
			continue
		}
		wb, err := w.Body()
		if err != nil {
			ru.failf("created[%d]: %v", i, err)
			continue
		}
		if msg := compareBodies(wb, m.Body(), m.Offset()); msg != "" {
			ru.failf("created[%d]: %s", i, msg)
		}
	}
}

// compareBodies returns a description of the first difference between the
// expected body and the actual body moved by offset.
func compareBodies(want, got document.Body, offset geom.Point) string {
	wp, gp := bodyPoints(want), bodyPoints(got)
	for j := range wp {
		p := geom.Add(gp[j], offset)
		if !geom.Equal(wp[j], p, tolerance) {
			return fmt.Sprintf("point %d is %s, want %s", j, geom.Format(p), geom.Format(wp[j]))
		}
	}
	switch w := want.(type) {
	case document.Circle:
		g := got.(document.Circle)
		if math.Abs(w.Radius-g.Radius) > tolerance {
			return fmt.Sprintf("radius %g, want %g", g.Radius, w.Radius)
		}
	case document.Box:
		g := got.(document.Box)
		for _, d := range [][2]float64{{w.DX, g.DX}, {w.DY, g.DY}, {w.DZ, g.DZ}} {
			if math.Abs(d[0]-d[1]) > tolerance {
				return fmt.Sprintf("size %gx%gx%g, want %gx%gx%g", g.DX, g.DY, g.DZ, w.DX, w.DY, w.DZ)
			}
		}
	}
	return ""
}
