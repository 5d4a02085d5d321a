package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/draftsnap/internal/geom"
)

func square() []geom.Edge {
	return []geom.Edge{
		MustLine(geom.XYZ(0, 0, 0), geom.XYZ(1, 0, 0)),
		MustLine(geom.XYZ(1, 1, 0), geom.XYZ(0, 1, 0)),
		MustLine(geom.XYZ(1, 0, 0), geom.XYZ(1, 1, 0)),
		MustLine(geom.XYZ(0, 1, 0), geom.XYZ(0, 0, 0)),
	}
}

func TestNewWireOrdersChain(t *testing.T) {
	w, err := NewWire(square()...)
	require.NoError(t, err)
	assert.True(t, w.Closed())
	assert.Len(t, w.Edges(), 4)
	assert.NoError(t, geom.ValidateID(w.ID(), geom.PrefixWire))
}

func TestNewWireDisconnected(t *testing.T) {
	_, err := NewWire(
		MustLine(geom.XYZ(0, 0, 0), geom.XYZ(1, 0, 0)),
		MustLine(geom.XYZ(5, 5, 0), geom.XYZ(6, 5, 0)),
	)
	assert.ErrorIs(t, err, ErrDisconnected)
}

func TestNewFace(t *testing.T) {
	w, err := NewWire(square()...)
	require.NoError(t, err)
	f, err := NewFace(w)
	require.NoError(t, err)
	assert.True(t, geom.IsParallel(f.Plane().Normal, geom.UnitZ))

	open, err := NewWire(square()[:3]...)
	require.NoError(t, err)
	_, err = NewFace(open)
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestNewFaceNonPlanar(t *testing.T) {
	w, err := NewWire(
		MustLine(geom.XYZ(0, 0, 0), geom.XYZ(1, 0, 0)),
		MustLine(geom.XYZ(1, 0, 0), geom.XYZ(1, 1, 1)),
		MustLine(geom.XYZ(1, 1, 1), geom.XYZ(0, 1, 0)),
		MustLine(geom.XYZ(0, 1, 0), geom.XYZ(0, 0, 0)),
	)
	require.NoError(t, err)
	_, err = NewFace(w)
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestNewBox(t *testing.T) {
	b, err := NewBox(geom.PlaneXY, 2, 3, 4)
	require.NoError(t, err)
	assert.Len(t, b.Edges(), 12)

	_, err = NewBox(geom.PlaneXY, 2, 3, 0)
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestTranslate(t *testing.T) {
	l := MustLine(geom.XYZ(0, 0, 0), geom.XYZ(1, 0, 0))
	moved, err := Translate(l, geom.XYZ(0, 0, 5))
	require.NoError(t, err)
	ml := moved.(*Line)
	assert.NotEqual(t, l.ID(), ml.ID())
	assert.True(t, geom.Equal(ml.Start(), geom.XYZ(0, 0, 5), 1e-12))

	b, err := NewBox(geom.PlaneXY, 1, 1, 1)
	require.NoError(t, err)
	mb, err := Translate(b, geom.XYZ(1, 0, 0))
	require.NoError(t, err)
	assert.Len(t, geom.EdgesOf(mb), 12)
}
