package command

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/draftsnap/internal/document"
	"github.com/dshills/draftsnap/internal/geom"
	"github.com/dshills/draftsnap/internal/i18n"
	"github.com/dshills/draftsnap/internal/input/key"
	"github.com/dshills/draftsnap/internal/input/mouse"
	"github.com/dshills/draftsnap/internal/metrics"
	"github.com/dshills/draftsnap/internal/notice"
	"github.com/dshills/draftsnap/internal/snap"
	"github.com/dshills/draftsnap/internal/step"
	"github.com/dshills/draftsnap/internal/view/ortho"
)

// harness drives a document through its viewer. The top view maps world
// (x, y) to screen (400+10x, 300-10y).
type harness struct {
	t        *testing.T
	doc      *document.Document
	view     *ortho.View
	recorder *notice.Recorder

	outcome Outcome
	err     error
	dones   int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	doc := document.New()
	v := ortho.NewView("top", doc)
	doc.Viewer().AddView(v)
	return &harness{t: t, doc: doc, view: v, recorder: notice.NewRecorder(doc.Notices()), outcome: -1}
}

func (h *harness) add(name string, body document.Body) *document.Model {
	h.t.Helper()
	m, err := h.doc.AddModel(name, body)
	require.NoError(h.t, err)
	return m
}

func (h *harness) start(def Definition, opts ...Option) *Driver {
	d := NewDriver(h.doc, def, opts...)
	d.Start(func(o Outcome, err error) {
		h.dones++
		h.outcome = o
		h.err = err
	})
	return d
}

func (h *harness) screen(x, y float64) (float64, float64) {
	return 400 + 10*x, 300 - 10*y
}

// pick moves to the world point (x, y) and clicks.
func (h *harness) pick(x, y float64) {
	h.t.Helper()
	sx, sy := h.screen(x, y)
	require.NoError(h.t, h.doc.Viewer().DispatchMouse(mouse.Move(sx, sy)))
	require.NoError(h.t, h.doc.Viewer().DispatchMouse(mouse.Press(sx, sy, mouse.ButtonLeft)))
}

func (h *harness) move(x, y float64) {
	h.t.Helper()
	sx, sy := h.screen(x, y)
	require.NoError(h.t, h.doc.Viewer().DispatchMouse(mouse.Move(sx, sy)))
}

func (h *harness) press(spec string) {
	h.t.Helper()
	ev, err := key.Parse(spec)
	require.NoError(h.t, err)
	require.NoError(h.t, h.doc.Viewer().DispatchKey(ev))
}

// chain is a three point command whose second step measures from the
// first point.
type chain struct {
	refs     []geom.Point
	executed []geom.Point
}

func (*chain) Name() string { return "test.chain" }

func (c *chain) Steps(ctx *Context) []step.Step {
	return []step.Step{
		step.NewPointStep(i18n.PromptPickFirstPoint, nil),
		step.NewPointStep(i18n.PromptPickNextPoint, func() snap.PointData {
			ref := ctx.Point(0)
			c.refs = append(c.refs, ref)
			return snap.PointData{Dimension: snap.D1D2D3, RefPoint: &ref}
		}),
		step.NewPointStep(i18n.PromptPickNextPoint, nil),
	}
}

func (c *chain) Execute(ctx *Context) error {
	for i := 0; i < ctx.Len(); i++ {
		c.executed = append(c.executed, ctx.Point(i))
	}
	return nil
}

type empty struct{}

func (empty) Name() string               { return "test.empty" }
func (empty) Steps(*Context) []step.Step { return nil }
func (empty) Execute(*Context) error     { return nil }

func TestDriverRunsStepsInOrder(t *testing.T) {
	h := newHarness(t)
	def := &chain{}
	d := h.start(def)

	assert.True(t, d.Running())
	assert.Equal(t, 0, d.Current())
	assert.Equal(t, step.StateRunning, d.State(0))
	assert.Equal(t, step.StatePending, d.State(1))

	h.pick(1, 1)
	assert.Equal(t, 1, d.Current())
	assert.Equal(t, step.StateCompleted, d.State(0))
	require.Len(t, d.Data(), 1)

	h.pick(2, 2)
	h.pick(3, 3)

	assert.Equal(t, 1, h.dones)
	assert.Equal(t, OutcomeCommitted, h.outcome)
	assert.NoError(t, h.err)
	assert.False(t, d.Running())
	assert.Equal(t, 1, d.Commits())
	require.Len(t, def.executed, 3)
	assert.True(t, geom.Equal(def.executed[2], geom.XYZ(3, 3, 0), 1e-9))
	assert.Zero(t, h.doc.Viewer().Depth())
	assert.False(t, h.doc.History().CanUndo(), "no change, no history entry")
}

func TestDriverRestartInvalidatesLaterSteps(t *testing.T) {
	h := newHarness(t)
	def := &chain{}
	d := h.start(def)

	h.pick(1, 1)
	h.pick(2, 2)
	require.Len(t, d.Data(), 2)
	assert.Equal(t, 2, d.Current())

	require.True(t, d.RestartFrom(0))
	assert.Empty(t, d.Data())
	assert.Equal(t, step.StateRunning, d.State(0))
	assert.Equal(t, step.StatePending, d.State(1))
	assert.Equal(t, step.StatePending, d.State(2))
	assert.Equal(t, 1, h.doc.Viewer().Depth(), "the cancelled step released its handler")
	assert.Zero(t, h.dones, "restart does not abort")

	h.pick(-4, 5)
	assert.Nil(t, d.ctx.Result(1), "step 1 result discarded")
	require.Len(t, def.refs, 2)
	assert.True(t, geom.Equal(def.refs[1], geom.XYZ(-4, 5, 0), 1e-9), "step 1 sees the new point")

	h.pick(6, 6)
	h.pick(7, 7)
	assert.Equal(t, OutcomeCommitted, h.outcome)
	require.Len(t, def.executed, 3)
	assert.True(t, geom.Equal(def.executed[0], geom.XYZ(-4, 5, 0), 1e-9))
}

func TestDriverRestartContracts(t *testing.T) {
	h := newHarness(t)
	d := h.start(&chain{})
	h.pick(1, 1)

	assert.Panics(t, func() { d.RestartFrom(2) }, "step 1 has not resolved")
	assert.Panics(t, func() { d.RestartFrom(-1) })
	assert.True(t, d.RestartFrom(1))
	assert.Len(t, d.Data(), 1)

	d.Cancel()
	assert.False(t, d.RestartFrom(0))
}

func TestDriverStartContracts(t *testing.T) {
	h := newHarness(t)
	assert.Panics(t, func() { NewDriver(h.doc, empty{}).Start(nil) })

	d := h.start(&chain{})
	assert.Panics(t, func() { d.Start(nil) })
}

func TestDriverEscapeLeavesDocumentUntouched(t *testing.T) {
	h := newHarness(t)
	d := h.start(NewBox())

	h.pick(0, 0)
	h.move(2, 3)
	assert.NotZero(t, h.view.Visual().Outstanding(), "preview shown")
	h.press("Esc")

	assert.Equal(t, OutcomeCancelled, h.outcome)
	assert.NoError(t, h.err)
	assert.Nil(t, d.Data())
	assert.Equal(t, step.StateCancelled, d.State(1))
	assert.Zero(t, h.view.Visual().Outstanding())
	assert.Zero(t, h.doc.Viewer().Depth())
	assert.Zero(t, h.doc.Len())
	assert.False(t, h.doc.History().CanUndo())
	assert.Empty(t, h.recorder.StatusTip())
	assert.Empty(t, h.recorder.FloatTip())
}

func TestDriverCancel(t *testing.T) {
	h := newHarness(t)
	d := h.start(&chain{})
	h.pick(1, 1)

	assert.True(t, d.Cancel())
	assert.False(t, d.Cancel())
	assert.Equal(t, 1, h.dones)
	assert.Equal(t, OutcomeCancelled, h.outcome)
	assert.Zero(t, h.doc.Viewer().Depth())

	assert.False(t, NewDriver(h.doc, &chain{}).Cancel(), "never started")
}

func TestDriverMetrics(t *testing.T) {
	h := newHarness(t)
	m := metrics.New()
	d := h.start(NewLine(), WithMetrics(m))

	h.pick(0, 0)
	h.pick(5, 0)
	d.Cancel()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Commands.WithLabelValues("create.line", "committed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Commands.WithLabelValues("create.line", "cancelled")))
}

func TestDriverSettings(t *testing.T) {
	h := newHarness(t)
	h.add("line", document.Line{Start: geom.Origin, End: geom.XYZ(10, 0, 0)})

	cfg := step.DefaultSettings()
	cfg.SnapDistance = 2
	d := h.start(&chain{}, WithSettings(cfg))

	require.NoError(t, h.doc.Viewer().DispatchMouse(mouse.Move(403, 300)))
	require.NoError(t, h.doc.Viewer().DispatchMouse(mouse.Press(403, 300, mouse.ButtonLeft)))
	require.Len(t, d.Data(), 1)
	assert.Equal(t, i18n.SnapPlane, d.Data()[0].Caption)
}

func TestOutcomeString(t *testing.T) {
	tests := []struct {
		o    Outcome
		want string
	}{
		{OutcomeCommitted, "committed"},
		{OutcomeCancelled, "cancelled"},
		{OutcomeFailed, "failed"},
		{Outcome(9), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.o.String())
	}
}
