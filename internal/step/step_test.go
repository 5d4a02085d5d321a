package step

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/draftsnap/internal/async"
	"github.com/dshills/draftsnap/internal/document"
	"github.com/dshills/draftsnap/internal/geom"
	"github.com/dshills/draftsnap/internal/i18n"
	"github.com/dshills/draftsnap/internal/input/key"
	"github.com/dshills/draftsnap/internal/input/mouse"
	"github.com/dshills/draftsnap/internal/notice"
	"github.com/dshills/draftsnap/internal/snap"
	"github.com/dshills/draftsnap/internal/view"
	"github.com/dshills/draftsnap/internal/view/ortho"
)

type harness struct {
	t        *testing.T
	doc      *document.Document
	view     *ortho.View
	recorder *notice.Recorder

	calls  int
	result *snap.PickResult
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	doc := document.New()
	v := ortho.NewView("top", doc)
	doc.Viewer().AddView(v)
	return &harness{t: t, doc: doc, view: v, recorder: notice.NewRecorder(doc.Notices())}
}

func (h *harness) add(name string, body document.Body) *document.Model {
	h.t.Helper()
	m, err := h.doc.AddModel(name, body)
	require.NoError(h.t, err)
	return m
}

func (h *harness) start(s Step) *async.Handle {
	handle := async.New()
	s.Execute(h.doc, handle, func(r *snap.PickResult) {
		h.calls++
		h.result = r
	})
	return handle
}

func (h *harness) move(x, y float64) {
	require.NoError(h.t, h.doc.Viewer().DispatchMouse(mouse.Move(x, y)))
}

func (h *harness) click(x, y float64) {
	require.NoError(h.t, h.doc.Viewer().DispatchMouse(mouse.Press(x, y, mouse.ButtonLeft)))
}

func (h *harness) press(spec string) {
	ev, err := key.Parse(spec)
	require.NoError(h.t, err)
	require.NoError(h.t, h.doc.Viewer().DispatchKey(ev))
}

func TestPointStepCommit(t *testing.T) {
	h := newHarness(t)
	line := h.add("line", document.Line{Start: geom.Origin, End: geom.XYZ(10, 0, 0)})

	handle := h.start(NewPointStep(i18n.PromptPickFirstPoint, nil))
	assert.Equal(t, 1, h.doc.Viewer().Depth())
	assert.Equal(t, "Pick the first point", h.recorder.StatusTip())

	h.move(498, 301)
	h.click(498, 301)

	assert.Equal(t, async.StatusSucceeded, handle.Status())
	require.Equal(t, 1, h.calls)
	require.NotNil(t, h.result)
	require.NotNil(t, h.result.Point)
	assert.True(t, geom.Equal(*h.result.Point, geom.XYZ(10, 0, 0), 1e-9))
	assert.Equal(t, i18n.SnapEndPoint, h.result.Caption)
	assert.Equal(t, line.Shape().ID(), h.result.Shapes[0].ID())

	assert.Zero(t, h.doc.Viewer().Depth())
	assert.Empty(t, h.recorder.StatusTip())
	assert.Zero(t, h.view.Visual().Outstanding())
}

func TestPointStepPlaneFallback(t *testing.T) {
	h := newHarness(t)
	h.start(NewPointStep(i18n.PromptPickFirstPoint, nil))

	h.move(420, 280)
	h.click(420, 280)

	require.NotNil(t, h.result)
	assert.Equal(t, i18n.SnapPlane, h.result.Caption)
	assert.True(t, geom.Equal(*h.result.Point, geom.XYZ(2, 2, 0), 1e-9))
}

func TestPointStepFilter(t *testing.T) {
	h := newHarness(t)
	line := h.add("line", document.Line{Start: geom.Origin, End: geom.XYZ(10, 0, 0)})

	ps := NewPointStep(i18n.PromptPickFirstPoint, nil)
	ps.Filter = view.ShapeFilterFunc(func(s geom.Shape) bool { return s.ID() != line.Shape().ID() })
	h.start(ps)

	h.move(498, 301)
	h.click(498, 301)

	require.Equal(t, 1, h.calls)
	assert.Equal(t, i18n.SnapPlane, h.result.Caption, "filtered edge has no end point")
	assert.True(t, geom.Equal(*h.result.Point, geom.XYZ(9.8, -0.1, 0), 1e-9))
}

func TestPointStepD1HasNoPlane(t *testing.T) {
	h := newHarness(t)
	ref := geom.Origin
	h.start(NewPointStep(i18n.PromptPickNextPoint, func() snap.PointData {
		return snap.PointData{Dimension: snap.D1, RefPoint: &ref}
	}))

	h.move(420, 280)
	h.click(420, 280)
	assert.Zero(t, h.calls, "nothing to snap to")
}

func TestPointStepDocumentValidators(t *testing.T) {
	h := newHarness(t)
	h.doc.AddPointValidator(func(p geom.Point) bool { return p[0] >= 0 })
	h.start(NewPointStep(i18n.PromptPickFirstPoint, nil))

	h.move(380, 300)
	h.click(380, 300)
	assert.Zero(t, h.calls, "negative x rejected")

	h.move(420, 300)
	h.click(420, 300)
	require.Equal(t, 1, h.calls)
	assert.True(t, geom.Equal(*h.result.Point, geom.XYZ(2, 0, 0), 1e-9))
}

func TestPointStepTypedInput(t *testing.T) {
	h := newHarness(t)
	ref := geom.XYZ(1, 1, 0)
	h.start(NewPointStep(i18n.PromptPickNextPoint, func() snap.PointData {
		return snap.PointData{Dimension: snap.D1D2D3, RefPoint: &ref}
	}))

	h.press("3")
	require.True(t, h.recorder.InputOpen())
	res, ok := h.recorder.Submit("3,4")
	require.True(t, ok)
	assert.True(t, res.OK())

	require.Equal(t, 1, h.calls)
	assert.True(t, geom.Equal(*h.result.Point, geom.XYZ(4, 5, 0), 1e-9))
	assert.False(t, h.recorder.InputOpen())
}

func TestPointStepCancel(t *testing.T) {
	t.Run("escape", func(t *testing.T) {
		h := newHarness(t)
		handle := h.start(NewPointStep(i18n.PromptPickFirstPoint, nil))
		h.move(420, 280)
		h.press("Esc")

		assert.True(t, handle.IsCancelled())
		assert.Equal(t, 1, h.calls)
		assert.Nil(t, h.result)
		assert.Zero(t, h.doc.Viewer().Depth())
	})

	t.Run("handle", func(t *testing.T) {
		h := newHarness(t)
		handle := h.start(NewPointStep(i18n.PromptPickFirstPoint, nil))
		h.move(420, 280)
		handle.Cancel()
		handle.Cancel()

		assert.Equal(t, 1, h.calls)
		assert.Nil(t, h.result)
		assert.Zero(t, h.doc.Viewer().Depth())
		assert.Zero(t, h.view.Visual().Outstanding())
		assert.Empty(t, h.recorder.StatusTip())
	})

	t.Run("before start", func(t *testing.T) {
		h := newHarness(t)
		handle := async.New()
		handle.Cancel()
		NewPointStep(i18n.PromptPickFirstPoint, nil).Execute(h.doc, handle, func(r *snap.PickResult) {
			h.calls++
			h.result = r
		})
		assert.Equal(t, 1, h.calls)
		assert.Nil(t, h.result)
		assert.Zero(t, h.doc.Viewer().Depth())
	})
}

func TestConfigureSnapDistance(t *testing.T) {
	h := newHarness(t)
	h.add("line", document.Line{Start: geom.Origin, End: geom.XYZ(10, 0, 0)})

	s := NewPointStep(i18n.PromptPickFirstPoint, nil)
	cfg := DefaultSettings()
	cfg.SnapDistance = 2
	Configure(cfg, s)
	h.start(s)

	h.move(403, 300)
	h.click(403, 300)
	require.NotNil(t, h.result)
	assert.Equal(t, i18n.SnapPlane, h.result.Caption, "3 px is beyond the configured distance")
}

func TestLengthAtAxisStep(t *testing.T) {
	h := newHarness(t)
	origin := geom.XYZ(1, 1, 0)
	h.start(NewLengthAtAxisStep(i18n.PromptPickHeight, func() snap.AxisData {
		return snap.AxisData{Origin: origin, Direction: geom.UnitZ}
	}))
	assert.Equal(t, "Pick the height", h.recorder.StatusTip())

	h.press("-")
	res, ok := h.recorder.Submit("-5")
	require.True(t, ok)
	require.True(t, res.OK())

	require.NotNil(t, h.result)
	assert.True(t, geom.Equal(*h.result.Point, geom.XYZ(1, 1, -5), 1e-9))
}

func TestShapePickStep(t *testing.T) {
	h := newHarness(t)
	line := h.add("line", document.Line{Start: geom.Origin, End: geom.XYZ(10, 0, 0)})

	h.start(NewShapePickStep(geom.ShapeEdge, i18n.PromptSelectEdges, false, nil))
	assert.Equal(t, "Select edges", h.recorder.StatusTip())
	h.click(450, 300)

	require.NotNil(t, h.result)
	assert.Same(t, h.view, h.result.View)
	require.Len(t, h.result.Shapes, 1)
	assert.Equal(t, line.Shape().ID(), h.result.Shapes[0].ID())
	assert.Nil(t, h.result.Point)
	assert.Zero(t, h.doc.Viewer().Depth())
}

func TestModelPickStep(t *testing.T) {
	edgeModels := view.ShapeFilterFunc(func(s geom.Shape) bool { return s.Type() == geom.ShapeEdge })

	t.Run("uses selection", func(t *testing.T) {
		h := newHarness(t)
		a := h.add("a", document.Line{Start: geom.Origin, End: geom.XYZ(10, 0, 0)})
		box := h.add("box", document.Box{Plane: geom.PlaneXY, DX: 1, DY: 1, DZ: 1})
		b := h.add("b", document.Line{Start: geom.XYZ(10, 0, 0), End: geom.XYZ(10, 10, 0)})
		h.doc.Selection().Set(a, box, b)

		s := NewModelPickStep(i18n.PromptSelectModels, true, edgeModels)
		s.UseSelection = true
		handle := h.start(s)

		assert.Equal(t, async.StatusSucceeded, handle.Status())
		require.NotNil(t, h.result)
		assert.Equal(t, []*document.Model{a, b}, h.result.Models)
		assert.Len(t, h.result.Shapes, 2)
		assert.Zero(t, h.doc.Viewer().Depth(), "no pick session")
	})

	t.Run("picks when selection does not match", func(t *testing.T) {
		h := newHarness(t)
		box := h.add("box", document.Box{Plane: geom.PlaneXY, DX: 1, DY: 1, DZ: 1})
		a := h.add("a", document.Line{Start: geom.XYZ(0, -5, 0), End: geom.XYZ(10, -5, 0)})
		h.doc.Selection().Set(box)

		s := NewModelPickStep(i18n.PromptSelectModels, true, edgeModels)
		s.UseSelection = true
		h.start(s)
		assert.Zero(t, h.doc.Selection().Len(), "selection cleared before picking")
		assert.Equal(t, 1, h.doc.Viewer().Depth())

		h.click(450, 350)
		h.press("Enter")
		require.NotNil(t, h.result)
		assert.Equal(t, []*document.Model{a}, h.result.Models)
	})

	t.Run("selection ignored without opt-in", func(t *testing.T) {
		h := newHarness(t)
		a := h.add("a", document.Line{Start: geom.Origin, End: geom.XYZ(10, 0, 0)})
		h.doc.Selection().Set(a)

		handle := h.start(NewModelPickStep(i18n.PromptSelectModels, false, nil))
		assert.Equal(t, async.StatusPending, handle.Status())
		handle.Cancel()
		assert.Nil(t, h.result)
		assert.Equal(t, 1, h.calls)
	})
}

func TestStateString(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{StatePending, "pending"},
		{StateRunning, "running"},
		{StateCompleted, "completed"},
		{StateCancelled, "cancelled"},
		{State(42), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.s.String())
	}
}
