package kernel

import (
	"fmt"
	"math"

	"github.com/dshills/draftsnap/internal/geom"
)

// CircleEdge is a full circle. The curve parameter is the angle in radians
// measured from the plane's x direction.
type CircleEdge struct {
	id     string
	plane  geom.Plane
	radius float64
}

// NewCircle creates a circle edge centered at center in the plane with the
// given normal.
func NewCircle(center, normal geom.Point, radius float64) (*CircleEdge, error) {
	if radius <= geom.Tolerance {
		return nil, fmt.Errorf("circle radius %g: %w", radius, ErrDegenerate)
	}
	if geom.Length(normal) <= geom.Tolerance {
		return nil, fmt.Errorf("circle normal: %w", ErrDegenerate)
	}
	xdir := geom.UnitX
	if geom.IsParallel(normal, xdir) {
		xdir = geom.UnitY
	}
	return &CircleEdge{
		id:     geom.NewID(geom.PrefixEdge),
		plane:  geom.NewPlane(center, normal, xdir),
		radius: radius,
	}, nil
}

// MustCircle is NewCircle for known-good input.
func MustCircle(center, normal geom.Point, radius float64) *CircleEdge {
	c, err := NewCircle(center, normal, radius)
	if err != nil {
		panic(err)
	}
	return c
}

// ID implements geom.Shape.
func (c *CircleEdge) ID() string { return c.id }

// Type implements geom.Shape.
func (c *CircleEdge) Type() geom.ShapeType { return geom.ShapeEdge }

// AsCurve implements geom.Edge.
func (c *CircleEdge) AsCurve() (geom.Curve, bool) {
	return circleCurve{plane: c.plane, radius: c.radius}, true
}

// Intersect implements geom.Edge.
func (c *CircleEdge) Intersect(other geom.Edge) []geom.Point {
	return Intersect(c, other)
}

func (c *CircleEdge) String() string {
	return fmt.Sprintf("circle %s c=%s r=%g", c.id, geom.Format(c.plane.Origin), c.radius)
}

type circleCurve struct {
	plane  geom.Plane
	radius float64
}

func (c circleCurve) Type() geom.CurveType     { return geom.CurveCircle }
func (c circleCurve) FirstParameter() float64 { return 0 }
func (c circleCurve) LastParameter() float64  { return 2 * math.Pi }
func (c circleCurve) Center() geom.Point      { return c.plane.Origin }
func (c circleCurve) Radius() float64         { return c.radius }
func (c circleCurve) Normal() geom.Point      { return c.plane.Normal }

func (c circleCurve) Point(t float64) geom.Point {
	return c.plane.World(c.radius*math.Cos(t), c.radius*math.Sin(t), 0)
}
