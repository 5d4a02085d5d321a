package document

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/draftsnap/internal/geom"
	"github.com/dshills/draftsnap/internal/geom/kernel"
)

func line(x0, y0, x1, y1 float64) Line {
	return Line{Start: geom.XYZ(x0, y0, 0), End: geom.XYZ(x1, y1, 0)}
}

func TestNewDocument(t *testing.T) {
	doc := New(WithName("plan"), WithMaxUndoEntries(5))

	assert.Equal(t, "plan", doc.Name())
	assert.NotEqual(t, [16]byte{}, [16]byte(doc.ID()))
	assert.Equal(t, 5, doc.History().MaxEntries())
	assert.NotNil(t, doc.Viewer())
	assert.NotNil(t, doc.Notices())
	assert.Zero(t, doc.Len())
}

func TestAddModelRecordsHistory(t *testing.T) {
	doc := New()
	m, err := doc.AddModel("a", line(0, 0, 10, 0))
	require.NoError(t, err)

	assert.True(t, doc.Contains(m))
	assert.NoError(t, geom.ValidateID(m.ID(), geom.PrefixModel))
	assert.Equal(t, 1, doc.History().UndoCount())
	require.NotNil(t, m.Shape())
	assert.Equal(t, m.Shape().ID(), m.Shape().ID(), "shape identity is cached")

	require.NoError(t, doc.Undo())
	assert.False(t, doc.Contains(m))

	require.NoError(t, doc.Redo())
	got, ok := doc.Model(m.ID())
	require.True(t, ok)
	assert.Same(t, m, got, "redo restores the same model")
}

func TestAddModelDegenerate(t *testing.T) {
	doc := New()
	_, err := doc.AddModel("dot", line(1, 1, 1, 1))
	assert.ErrorIs(t, err, kernel.ErrDegenerate)
	assert.Zero(t, doc.Len())
	assert.False(t, doc.History().CanUndo())
}

func TestModelsInCreationOrder(t *testing.T) {
	doc := New()
	var want []string
	for i := 0; i < 5; i++ {
		m, err := doc.AddModel("m", line(0, float64(i), 10, float64(i)))
		require.NoError(t, err)
		want = append(want, m.ID())
	}

	var got []string
	for _, m := range doc.Models() {
		got = append(got, m.ID())
	}
	assert.Equal(t, want, got)
	assert.Len(t, doc.Shapes(), 5)
}

func TestModelOfShape(t *testing.T) {
	doc := New()
	l, err := doc.AddModel("line", line(0, 0, 10, 0))
	require.NoError(t, err)
	box, err := doc.AddModel("box", Box{Plane: geom.PlaneXY, DX: 1, DY: 2, DZ: 3})
	require.NoError(t, err)

	got, ok := doc.ModelOfShape(l.Shape())
	require.True(t, ok)
	assert.Same(t, l, got)

	edges := box.Edges()
	require.Len(t, edges, 12)
	got, ok = doc.ModelOfShape(edges[7])
	require.True(t, ok)
	assert.Same(t, box, got)

	_, ok = doc.ModelOfShape(kernel.MustLine(geom.XYZ(0, 0, 0), geom.XYZ(1, 0, 0)))
	assert.False(t, ok)
}

func TestTranslateModel(t *testing.T) {
	doc := New()
	m, err := doc.AddModel("a", line(0, 0, 10, 0))
	require.NoError(t, err)
	before := m.Shape().ID()

	require.NoError(t, doc.TranslateModel(m, geom.XYZ(0, 5, 0)))
	start, _, ok := geom.Endpoints(m.Edges()[0])
	require.True(t, ok)
	assert.True(t, geom.Equal(start, geom.XYZ(0, 5, 0), 1e-9))
	assert.NotEqual(t, before, m.Shape().ID())

	require.NoError(t, doc.Undo())
	start, _, _ = geom.Endpoints(m.Edges()[0])
	assert.True(t, geom.Equal(start, geom.XYZ(0, 0, 0), 1e-9))
}

func TestRemoveModelClearsSelection(t *testing.T) {
	doc := New()
	m, err := doc.AddModel("a", line(0, 0, 10, 0))
	require.NoError(t, err)
	doc.Selection().Set(m)

	require.NoError(t, doc.RemoveModel(m))
	assert.False(t, doc.Contains(m))
	assert.Zero(t, doc.Selection().Len())

	assert.ErrorIs(t, doc.RemoveModel(m), ErrUnknownModel)
}

func TestExecuteCommitsOneEntry(t *testing.T) {
	doc := New()
	changed := 0
	doc.OnChanged(func() { changed++ })

	err := Execute(doc, "execute box", func() error {
		if _, err := doc.AddModel("a", line(0, 0, 10, 0)); err != nil {
			return err
		}
		_, err := doc.AddModel("b", line(0, 0, 0, 10))
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, 2, doc.Len())
	assert.Equal(t, 1, doc.History().UndoCount())
	assert.Equal(t, 1, changed)
	info, ok := doc.History().PeekUndo()
	require.True(t, ok)
	assert.Equal(t, "execute box", info.Description)

	require.NoError(t, doc.Undo())
	assert.Zero(t, doc.Len())
	require.NoError(t, doc.Redo())
	assert.Equal(t, 2, doc.Len())
	assert.Len(t, doc.History().UndoInfo(), 1)
}

func TestExecuteRollsBackOnError(t *testing.T) {
	doc := New()
	keep, err := doc.AddModel("keep", line(0, 0, 1, 0))
	require.NoError(t, err)

	err = Execute(doc, "execute face", func() error {
		if _, err := doc.AddModel("tmp", line(0, 0, 10, 0)); err != nil {
			return err
		}
		if err := doc.TranslateModel(keep, geom.XYZ(1, 1, 0)); err != nil {
			return err
		}
		_, err := doc.AddModel("face", Face{Edges: keep.Edges()})
		return err
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrDegenerate)
	assert.Contains(t, err.Error(), "execute face")

	assert.Equal(t, 1, doc.Len())
	assert.Equal(t, 1, doc.History().UndoCount())
	assert.True(t, geom.Equal(keep.Offset(), geom.Point{}, 0), "translation rolled back")
	assert.False(t, doc.InTransaction())

	// the history group was dropped: later edits get entries of their own
	_, err = doc.AddModel("after", line(0, 0, 2, 0))
	require.NoError(t, err)
	assert.Equal(t, 2, doc.History().UndoCount())
	info, _ := doc.History().PeekUndo()
	assert.Equal(t, "add after", info.Description)
}

func TestExecuteRollsBackOnPanic(t *testing.T) {
	doc := New()
	assert.Panics(t, func() {
		_ = Execute(doc, "boom", func() error {
			_, _ = doc.AddModel("tmp", line(0, 0, 10, 0))
			panic("boom")
		})
	})
	assert.Zero(t, doc.Len())
	assert.False(t, doc.InTransaction())

	_, err := doc.AddModel("after", line(0, 0, 2, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, doc.History().UndoCount())
}

func TestExecuteNested(t *testing.T) {
	doc := New()
	err := Execute(doc, "outer", func() error {
		_, _ = doc.AddModel("a", line(0, 0, 10, 0))
		return Execute(doc, "inner", func() error {
			_, err := doc.AddModel("b", line(0, 0, 0, 10))
			return err
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, doc.History().UndoCount())
}

func TestExecuteWithoutChanges(t *testing.T) {
	doc := New()
	require.NoError(t, Execute(doc, "noop", func() error { return nil }))
	assert.False(t, doc.History().CanUndo())
}

func TestUndoDuringTransaction(t *testing.T) {
	doc := New()
	_, _ = doc.AddModel("a", line(0, 0, 10, 0))
	err := Execute(doc, "x", func() error {
		return doc.Undo()
	})
	assert.True(t, errors.Is(err, ErrTransactionActive))
}

func TestWireAndFaceBodies(t *testing.T) {
	doc := New()
	var edges []geom.Edge
	pts := []geom.Point{geom.XYZ(0, 0, 0), geom.XYZ(4, 0, 0), geom.XYZ(4, 3, 0), geom.XYZ(0, 3, 0)}
	for i := range pts {
		m, err := doc.AddModel("e", Line{Start: pts[i], End: pts[(i+1)%len(pts)]})
		require.NoError(t, err)
		edges = append(edges, m.Edges()...)
	}

	w, err := doc.AddModel("wire", Wire{Edges: edges})
	require.NoError(t, err)
	assert.Equal(t, geom.ShapeWire, w.Shape().Type())
	for _, e := range w.Edges() {
		owner, ok := doc.ModelOfShape(e)
		require.True(t, ok)
		assert.Same(t, w, owner, "wire edges are copies")
	}

	f, err := doc.AddModel("face", Face{Edges: edges})
	require.NoError(t, err)
	assert.Equal(t, geom.ShapeFace, f.Shape().Type())

	_, err = doc.AddModel("open", Face{Edges: edges[:3]})
	assert.ErrorIs(t, err, kernel.ErrDegenerate)

	_, err = doc.AddModel("empty", Wire{})
	assert.ErrorIs(t, err, ErrEmptyBody)
}

func TestPointValidators(t *testing.T) {
	doc := New()
	doc.AddPointValidator(func(p geom.Point) bool { return p[0] >= 0 })
	vs := doc.PointValidators()
	require.Len(t, vs, 1)
	assert.False(t, vs[0](geom.XYZ(-1, 0, 0)))
}

func TestSelection(t *testing.T) {
	doc := New()
	a, _ := doc.AddModel("a", line(0, 0, 1, 0))
	b, _ := doc.AddModel("b", line(0, 1, 1, 1))

	var events int
	sel := doc.Selection()
	sel.OnChange(func([]*Model) { events++ })

	sel.Set(a, a, b)
	assert.Equal(t, []*Model{a, b}, sel.Models())
	assert.False(t, sel.Toggle(a))
	assert.True(t, sel.Toggle(a))
	assert.Equal(t, []*Model{b, a}, sel.Models())
	sel.Add(b)
	sel.Remove(b)
	assert.True(t, sel.Contains(a))
	assert.False(t, sel.Contains(b))
	sel.Clear()
	sel.Clear()
	assert.Zero(t, sel.Len())
	assert.Equal(t, 5, events)
}
