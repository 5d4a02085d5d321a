package command

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/dshills/draftsnap/internal/async"
	"github.com/dshills/draftsnap/internal/document"
	"github.com/dshills/draftsnap/internal/i18n"
	"github.com/dshills/draftsnap/internal/metrics"
	"github.com/dshills/draftsnap/internal/notice"
	"github.com/dshills/draftsnap/internal/snap"
	"github.com/dshills/draftsnap/internal/step"
)

// Outcome is how a command run ended.
type Outcome int

const (
	OutcomeCommitted Outcome = iota
	OutcomeCancelled
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCommitted:
		return "committed"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Definition describes a multistep command.
type Definition interface {
	// Name identifies the command and labels its transaction.
	Name() string

	// Steps returns the inputs the command needs, in order. Step data
	// functions may read earlier results through ctx.
	Steps(ctx *Context) []step.Step

	// Execute applies the edit. It runs inside the command's transaction;
	// an error rolls back every change made so far.
	Execute(ctx *Context) error
}

// Restarter is implemented by commands that keep going after a commit.
type Restarter interface {
	// AfterExecute returns the step to continue from, or false to finish.
	AfterExecute(ctx *Context) (from int, ok bool)
}

// DoneFunc receives the final outcome of a driver.
type DoneFunc func(o Outcome, err error)

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the driver logger.
func WithLogger(l hclog.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithMetrics records command outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Driver) { d.metrics = m }
}

// WithSettings configures every step of the command.
func WithSettings(s *step.Settings) Option {
	return func(d *Driver) { d.settings = s }
}

// Driver runs the steps of one command and commits its edit.
type Driver struct {
	doc      *document.Document
	def      Definition
	ctx      *Context
	logger   hclog.Logger
	metrics  *metrics.Metrics
	settings *step.Settings

	steps   []step.Step
	states  []step.State
	data    []*snap.PickResult
	current *async.Handle
	running int

	started  bool
	finished bool
	commits  int
	done     DoneFunc
}

// NewDriver creates a driver for def on doc.
func NewDriver(doc *document.Document, def Definition, opts ...Option) *Driver {
	d := &Driver{
		doc:     doc,
		def:     def,
		logger:  doc.Logger(),
		running: -1,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.Named("command").With("command", def.Name())
	d.ctx = &Context{Doc: doc, Logger: d.logger, d: d}
	return d
}

// Name returns the command name.
func (d *Driver) Name() string { return d.def.Name() }

// Start runs the first step. done is called once when the driver finishes.
// Start panics if called twice or if the command has no steps.
func (d *Driver) Start(done DoneFunc) {
	if d.started {
		panic(fmt.Sprintf("command %s: already started", d.def.Name()))
	}
	steps := d.def.Steps(d.ctx)
	if len(steps) == 0 {
		panic(fmt.Sprintf("command %s: no steps", d.def.Name()))
	}
	if d.settings != nil {
		step.Configure(d.settings, steps...)
	}

	d.started = true
	d.done = done
	d.steps = steps
	d.states = make([]step.State, len(steps))
	d.data = make([]*snap.PickResult, 0, len(steps))
	d.logger.Debug("command started", "steps", len(steps))
	d.run(0)
}

// RestartFrom discards the results of step n and later and runs step n
// again. A running step is cancelled without aborting the command.
// It reports false when the driver is not running. n must address a step
// whose predecessors have all resolved.
func (d *Driver) RestartFrom(n int) bool {
	if !d.started || d.finished {
		return false
	}
	if n < 0 || n >= len(d.steps) || n > len(d.data) {
		panic(fmt.Sprintf("command %s: restart from %d with %d of %d steps resolved", d.def.Name(), n, len(d.data), len(d.steps)))
	}
	if h := d.current; h != nil {
		d.current = nil
		h.Cancel()
	}
	d.logger.Debug("restart", "from", n)
	d.rerun(n)
	return true
}

// Cancel aborts the command. It reports false if the driver already
// finished or never started.
func (d *Driver) Cancel() bool {
	if !d.started || d.finished {
		return false
	}
	if h := d.current; h != nil {
		return h.Cancel()
	}
	d.finish(OutcomeCancelled, nil)
	return true
}

// Data returns the results resolved so far.
func (d *Driver) Data() []*snap.PickResult {
	return append([]*snap.PickResult(nil), d.data...)
}

// State returns the state of step i.
func (d *Driver) State(i int) step.State {
	if i < 0 || i >= len(d.states) {
		return step.StatePending
	}
	return d.states[i]
}

// Running reports whether the driver is waiting for input.
func (d *Driver) Running() bool {
	return d.started && !d.finished
}

// Current returns the index of the running step, or -1.
func (d *Driver) Current() int {
	return d.running
}

// Commits returns how many times the command committed its edit.
func (d *Driver) Commits() int {
	return d.commits
}

func (d *Driver) run(i int) {
	if i == len(d.steps) {
		d.execute()
		return
	}
	h := async.New()
	d.current = h
	d.running = i
	d.states[i] = step.StateRunning
	d.steps[i].Execute(d.doc, h, func(r *snap.PickResult) {
		d.resolved(h, i, r)
	})
}

func (d *Driver) resolved(h *async.Handle, i int, r *snap.PickResult) {
	if h != d.current {
		// restarted
		return
	}
	d.current = nil
	d.running = -1
	if r == nil {
		d.states[i] = step.StateCancelled
		d.finish(OutcomeCancelled, nil)
		return
	}
	d.states[i] = step.StateCompleted
	d.data = append(d.data[:i], r)
	d.run(i + 1)
}

func (d *Driver) rerun(n int) {
	d.data = d.data[:n]
	for i := n; i < len(d.states); i++ {
		d.states[i] = step.StatePending
	}
	d.run(n)
}

func (d *Driver) execute() {
	name := d.def.Name()
	err := document.Execute(d.doc, "execute "+name, func() error {
		return d.def.Execute(d.ctx)
	})
	if err != nil {
		d.doc.Notices().ShowFloatTip(notice.LevelError, i18n.ErrCommandFailed, err.Error())
		d.finish(OutcomeFailed, err)
		return
	}

	d.commits++
	d.metrics.CommandFinished(name, OutcomeCommitted.String())
	d.logger.Debug("command committed", "commits", d.commits)
	d.doc.Viewer().Update()

	if r, ok := d.def.(Restarter); ok {
		if from, ok := r.AfterExecute(d.ctx); ok {
			d.rerun(from)
			return
		}
	}
	d.finish(OutcomeCommitted, nil)
}

func (d *Driver) finish(o Outcome, err error) {
	if d.finished {
		return
	}
	d.finished = true
	d.current = nil
	d.running = -1

	switch o {
	case OutcomeCommitted:
		// counted in execute
	case OutcomeFailed:
		d.data = nil
		d.metrics.CommandFinished(d.def.Name(), o.String())
		d.logger.Warn("command failed", "error", err)
	default:
		d.data = nil
		d.metrics.CommandFinished(d.def.Name(), o.String())
		d.logger.Debug("command cancelled", "commits", d.commits)
	}
	if d.done != nil {
		d.done(o, err)
	}
}
