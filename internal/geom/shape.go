package geom

import "strings"

// ShapeType classifies shapes. Values are bit flags so a detection request
// can ask for several kinds at once.
type ShapeType uint8

const (
	ShapeVertex ShapeType = 1 << iota
	ShapeEdge
	ShapeWire
	ShapeFace
	ShapeSolid

	// ShapeAny matches every kind.
	ShapeAny = ShapeVertex | ShapeEdge | ShapeWire | ShapeFace | ShapeSolid
)

// Has reports whether t includes any kind in other.
func (t ShapeType) Has(other ShapeType) bool {
	return t&other != 0
}

// String returns a human-readable shape type.
func (t ShapeType) String() string {
	if t == ShapeAny {
		return "any"
	}
	var parts []string
	for _, k := range []struct {
		t    ShapeType
		name string
	}{
		{ShapeVertex, "vertex"},
		{ShapeEdge, "edge"},
		{ShapeWire, "wire"},
		{ShapeFace, "face"},
		{ShapeSolid, "solid"},
	} {
		if t.Has(k.t) {
			parts = append(parts, k.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Shape is any geometric entity with a stable identity.
type Shape interface {
	// ID returns the stable identifier of the shape.
	ID() string

	// Type returns the kind of shape.
	Type() ShapeType
}

// CurveType identifies the analytic form of a curve.
type CurveType uint8

const (
	CurveOther CurveType = iota
	CurveLine
	CurveCircle
)

// String returns the curve type name.
func (c CurveType) String() string {
	switch c {
	case CurveLine:
		return "line"
	case CurveCircle:
		return "circle"
	default:
		return "other"
	}
}

// Curve is a parametric curve.
type Curve interface {
	Type() CurveType
	FirstParameter() float64
	LastParameter() float64
	Point(t float64) Point
}

// Circle is a circular curve.
type Circle interface {
	Curve
	Center() Point
	Radius() float64
	Normal() Point
}

// Edge is a bounded curve shape.
type Edge interface {
	Shape

	// AsCurve returns the underlying curve, if the edge has one.
	AsCurve() (Curve, bool)

	// Intersect returns the points where the edge meets other.
	Intersect(other Edge) []Point
}

// Compound is a shape made of edges (wire, face boundary, solid wireframe).
type Compound interface {
	Shape
	Edges() []Edge
}

// EdgesOf flattens a shape into its edges.
func EdgesOf(s Shape) []Edge {
	switch v := s.(type) {
	case Edge:
		return []Edge{v}
	case Compound:
		return v.Edges()
	default:
		return nil
	}
}

// Endpoints returns the first and last point of an edge's curve.
func Endpoints(e Edge) (start, end Point, ok bool) {
	c, ok := e.AsCurve()
	if !ok {
		return Point{}, Point{}, false
	}
	return c.Point(c.FirstParameter()), c.Point(c.LastParameter()), true
}
