package kernel

import (
	"fmt"

	"github.com/dshills/draftsnap/internal/geom"
)

// Line is a straight edge between two points. The curve parameter runs from
// 0 at Start to the edge length at End.
type Line struct {
	id    string
	start geom.Point
	end   geom.Point
}

// NewLine creates a line edge. Coincident endpoints are degenerate.
func NewLine(start, end geom.Point) (*Line, error) {
	if geom.Distance(start, end) <= geom.Tolerance {
		return nil, fmt.Errorf("line %s-%s: %w", geom.Format(start), geom.Format(end), ErrDegenerate)
	}
	return &Line{id: geom.NewID(geom.PrefixEdge), start: start, end: end}, nil
}

// MustLine is NewLine for known-good input.
func MustLine(start, end geom.Point) *Line {
	l, err := NewLine(start, end)
	if err != nil {
		panic(err)
	}
	return l
}

// ID implements geom.Shape.
func (l *Line) ID() string { return l.id }

// Type implements geom.Shape.
func (l *Line) Type() geom.ShapeType { return geom.ShapeEdge }

// Start returns the first point.
func (l *Line) Start() geom.Point { return l.start }

// End returns the last point.
func (l *Line) End() geom.Point { return l.end }

// AsCurve implements geom.Edge.
func (l *Line) AsCurve() (geom.Curve, bool) {
	return lineCurve{start: l.start, end: l.end}, true
}

// Intersect implements geom.Edge.
func (l *Line) Intersect(other geom.Edge) []geom.Point {
	return Intersect(l, other)
}

func (l *Line) String() string {
	return fmt.Sprintf("line %s %s-%s", l.id, geom.Format(l.start), geom.Format(l.end))
}

type lineCurve struct {
	start, end geom.Point
}

func (c lineCurve) Type() geom.CurveType     { return geom.CurveLine }
func (c lineCurve) FirstParameter() float64 { return 0 }
func (c lineCurve) LastParameter() float64  { return geom.Distance(c.start, c.end) }

func (c lineCurve) Point(t float64) geom.Point {
	dir := geom.Normalize(geom.Sub(c.end, c.start))
	return geom.Add(c.start, geom.Scale(dir, t))
}
